package handlers

const (
	SessionCookieName = "session_id"
	CSRFHeaderName    = "X-CSRF-Token"

	ErrInvalidRequestBody  = "Invalid request body"
	ErrUnauthorized        = "Unauthorized"
	ErrForbidden           = "Forbidden"
	ErrInternalServerError = "Internal server error"
)
