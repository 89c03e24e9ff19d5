package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/forhay123/haybee-edu-sub005/internal/repository"
	"github.com/forhay123/haybee-edu-sub005/internal/service"
)

// RescheduleHandler lets staff move a student's assessment window
type RescheduleHandler struct {
	reschedules *service.RescheduleService
}

// NewRescheduleHandler creates a new reschedule handler
func NewRescheduleHandler(reschedules *service.RescheduleService) *RescheduleHandler {
	return &RescheduleHandler{reschedules: reschedules}
}

type createRescheduleRequest struct {
	StudentID      int64     `json:"studentId"`
	AssessmentID   int64     `json:"assessmentId"`
	NewWindowStart time.Time `json:"newWindowStart"`
	NewWindowEnd   time.Time `json:"newWindowEnd,omitempty"`
	Reason         string    `json:"reason,omitempty"`
}

// Create issues a new reschedule, retiring any active one for the same
// student and assessment. The student is notified by email when the
// mailer is configured.
func (h *RescheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	var req createRescheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", err)
		return
	}

	rs, err := h.reschedules.Create(r.Context(), req.StudentID, req.AssessmentID, req.NewWindowStart, req.NewWindowEnd, req.Reason, user.ID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWindowInPast):
			respondWithError(w, http.StatusBadRequest, "The new window must start in the future", "", nil)
		case errors.Is(err, service.ErrInvalidWindow):
			respondWithError(w, http.StatusBadRequest, "The new window must end after it starts", "", nil)
		case errors.Is(err, repository.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Student or assessment not found", "", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Reschedule creation failed", err)
		}
		return
	}

	respondJSON(w, http.StatusCreated, toRescheduleResponse(rs))
}

// Cancel deactivates a reschedule, restoring the original window
func (h *RescheduleHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid reschedule ID", "", nil)
		return
	}

	if err := h.reschedules.Cancel(id, time.Now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Reschedule not found", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Reschedule cancellation failed", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// ListForStudent returns a student's active reschedules
func (h *RescheduleHandler) ListForStudent(w http.ResponseWriter, r *http.Request) {
	studentID, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid student ID", "", nil)
		return
	}

	reschedules, err := h.reschedules.ListActiveForStudent(studentID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Reschedule listing failed", err)
		return
	}

	out := make([]rescheduleResponse, 0, len(reschedules))
	for i := range reschedules {
		out = append(out, toRescheduleResponse(&reschedules[i]))
	}
	respondJSON(w, http.StatusOK, out)
}
