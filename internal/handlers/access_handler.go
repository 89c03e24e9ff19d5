package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/forhay123/haybee-edu-sub005/internal/service"
)

// AccessHandler answers assessment access checks and records submissions
type AccessHandler struct {
	arbiter    *service.AccessArbiter
	completion *service.CompletionService
}

// NewAccessHandler creates a new access handler
func NewAccessHandler(arbiter *service.AccessArbiter, completion *service.CompletionService) *AccessHandler {
	return &AccessHandler{
		arbiter:    arbiter,
		completion: completion,
	}
}

// CheckAccess evaluates whether the authenticated student may open an
// assessment right now. Staff may check on behalf of any student via
// the studentId query parameter.
func (h *AccessHandler) CheckAccess(w http.ResponseWriter, r *http.Request) {
	assessmentID, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid assessment ID", "", nil)
		return
	}

	studentID, ok := resolveStudentID(w, r)
	if !ok {
		return
	}

	result, err := h.arbiter.CheckAssessmentAccess(studentID, assessmentID, time.Now())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Access check failed", err)
		return
	}

	respondJSON(w, http.StatusOK, toAccessCheckResponse(result))
}

type submissionRequest struct {
	Score *float64 `json:"score,omitempty"`
}

type submissionResponse struct {
	ID           int64     `json:"id"`
	AssessmentID int64     `json:"assessmentId"`
	StudentID    int64     `json:"studentId"`
	Score        *float64  `json:"score,omitempty"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

// Submit records an assessment submission for the authenticated student.
// The access check runs again server-side; an expired or blocked window
// rejects the submission.
func (h *AccessHandler) Submit(w http.ResponseWriter, r *http.Request) {
	assessmentID, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid assessment ID", "", nil)
		return
	}

	user := GetUserFromContext(r.Context())
	if user == nil || user.StudentID == nil {
		respondWithError(w, http.StatusForbidden, "Only students may submit assessments", "", nil)
		return
	}

	// Body is optional; a bare POST submits without a score.
	var req submissionRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", err)
		return
	}

	submission, err := h.completion.RecordSubmission(*user.StudentID, assessmentID, req.Score, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadySubmitted):
			respondWithError(w, http.StatusConflict, "You have already submitted this assessment", "", nil)
		case errors.Is(err, service.ErrNotAccessible):
			respondWithError(w, http.StatusForbidden, err.Error(), "", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Submission failed", err)
		}
		return
	}

	respondJSON(w, http.StatusCreated, submissionResponse{
		ID:           submission.ID,
		AssessmentID: submission.AssessmentID,
		StudentID:    submission.StudentID,
		Score:        submission.Score,
		SubmittedAt:  submission.SubmittedAt,
	})
}

// resolveStudentID returns the student the request concerns: the session
// user's own student profile, or an explicit studentId for staff.
func resolveStudentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return 0, false
	}

	if raw := r.URL.Query().Get("studentId"); raw != "" {
		if !user.IsStaff() {
			respondWithError(w, http.StatusForbidden, ErrForbidden, "", nil)
			return 0, false
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid student ID", "", nil)
			return 0, false
		}
		return id, true
	}

	if user.StudentID == nil {
		respondWithError(w, http.StatusBadRequest, "No student profile linked to this account", "", nil)
		return 0, false
	}
	return *user.StudentID, true
}

// parseIDParam reads a numeric path parameter.
func parseIDParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}
