package handlers

import (
	"net/http"
	"time"

	"github.com/forhay123/haybee-edu-sub005/internal/models"
	"github.com/forhay123/haybee-edu-sub005/internal/repository"
	"github.com/forhay123/haybee-edu-sub005/internal/service"
)

// ScheduleHandler serves daily schedule views and staff materialization
type ScheduleHandler struct {
	dashboard    *service.DashboardService
	materializer *service.ScheduleMaterializer
	terms        *repository.TermRepository
	students     *repository.StudentRepository
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(dashboard *service.DashboardService, materializer *service.ScheduleMaterializer, terms *repository.TermRepository, students *repository.StudentRepository) *ScheduleHandler {
	return &ScheduleHandler{
		dashboard:    dashboard,
		materializer: materializer,
		terms:        terms,
		students:     students,
	}
}

// Day returns a student's schedule for one date with per-period access
// state. Defaults to today when no date is given.
func (h *ScheduleHandler) Day(w http.ResponseWriter, r *http.Request) {
	studentID, ok := resolveStudentID(w, r)
	if !ok {
		return
	}

	now := time.Now()
	date, ok := parseDateParam(w, r, now)
	if !ok {
		return
	}

	entries, err := h.dashboard.DaySchedule(studentID, date, now)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Day schedule failed", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"date":    models.DateOnly(date).Format("2006-01-02"),
		"entries": toDayEntryResponses(entries),
	})
}

// Blocked returns the periods a student cannot start yet on a date.
func (h *ScheduleHandler) Blocked(w http.ResponseWriter, r *http.Request) {
	studentID, ok := resolveStudentID(w, r)
	if !ok {
		return
	}

	now := time.Now()
	date, ok := parseDateParam(w, r, now)
	if !ok {
		return
	}

	entries, err := h.dashboard.BlockedPeriods(studentID, date, now)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Blocked periods failed", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"date":    models.DateOnly(date).Format("2006-01-02"),
		"count":   len(entries),
		"entries": toDayEntryResponses(entries),
	})
}

type materializeRequest struct {
	TermID     int64  `json:"termId"`
	WeekNumber int    `json:"weekNumber"`
	ClassLevel string `json:"classLevel,omitempty"`
	StudentID  *int64 `json:"studentId,omitempty"`
}

// Materialize creates schedule instances for one week: for a single
// student, a class level, or every enrolled student. Existing slots are
// skipped, so re-running a week is safe.
func (h *ScheduleHandler) Materialize(w http.ResponseWriter, r *http.Request) {
	var req materializeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", err)
		return
	}

	term, err := h.terms.GetByID(req.TermID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Term not found", "", nil)
		return
	}

	if req.StudentID != nil {
		student, err := h.students.GetByID(*req.StudentID)
		if err != nil {
			respondWithError(w, http.StatusNotFound, "Student not found", "", nil)
			return
		}
		res, err := h.materializer.MaterializeWeekForStudent(student, term, req.WeekNumber)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error(), "Materialization failed", err)
			return
		}
		respondJSON(w, http.StatusOK, weekResultResponse{
			StudentID:        res.StudentID,
			InstancesCreated: res.InstancesCreated,
			Skipped:          res.Skipped,
			SequenceIssues:   res.SequenceIssues,
		})
		return
	}

	var batch *service.BatchResult
	if req.ClassLevel != "" {
		batch, err = h.materializer.MaterializeWeekForClass(req.ClassLevel, term, req.WeekNumber)
	} else {
		batch, err = h.materializer.MaterializeWeekForAll(term, req.WeekNumber)
	}
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "Materialization failed", err)
		return
	}

	respondJSON(w, http.StatusOK, batchResultResponse{
		StudentsProcessed: batch.StudentsProcessed,
		InstancesCreated:  batch.InstancesCreated,
		Skipped:           batch.Skipped,
		Failures:          batch.Failures,
	})
}

// parseDateParam reads a "date" query parameter in YYYY-MM-DD form,
// defaulting to today.
func parseDateParam(w http.ResponseWriter, r *http.Request, now time.Time) (time.Time, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return models.DateOnly(now), true
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", "", nil)
		return time.Time{}, false
	}
	return date, true
}
