package handlers

import (
	"errors"
	"net/http"

	"github.com/forhay123/haybee-edu-sub005/internal/security"
	"github.com/forhay123/haybee-edu-sub005/internal/service"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService  *service.AuthService
	emailService *service.EmailService
	csrf         *security.CSRFGenerator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, emailService *service.EmailService, csrf *security.CSRFGenerator) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		emailService: emailService,
		csrf:         csrf,
	}
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	StudentID *int64 `json:"studentId,omitempty"`
}

// Register creates a new account and logs it in
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", err)
		return
	}

	user, err := h.authService.Register(r.Context(), h.emailService, req.Email, req.Password, req.Name, req.Role, req.StudentID)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			respondWithError(w, http.StatusConflict, "An account with this email already exists", "", nil)
			return
		}
		respondWithError(w, http.StatusBadRequest, err.Error(), "Registration failed", err)
		return
	}

	session, _, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Post-registration login failed", err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, session.ID, session.ExpiresAt))
	respondJSON(w, http.StatusCreated, toUserResponse(user))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User      userResponse `json:"user"`
	CSRFToken string       `json:"csrfToken"`
}

// Login authenticates a user and issues a session cookie
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", err)
		return
	}

	session, user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "Invalid email or password", "", nil)
		return
	}

	token, err := h.csrf.GenerateToken(session.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "CSRF token generation failed", err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, session.ID, session.ExpiresAt))
	respondJSON(w, http.StatusOK, loginResponse{
		User:      toUserResponse(user),
		CSRFToken: token,
	})
}

// Logout ends the current session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if err := h.authService.Logout(cookie.Value); err != nil {
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Logout failed", err)
			return
		}
	}

	http.SetCookie(w, security.CreateDeleteCookie(r, SessionCookieName))
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Me returns the authenticated user and a fresh CSRF token
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	token, err := h.csrf.GenerateToken(GetSessionIDFromContext(r.Context()))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "CSRF token generation failed", err)
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{
		User:      toUserResponse(user),
		CSRFToken: token,
	})
}
