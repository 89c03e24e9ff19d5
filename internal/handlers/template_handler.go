package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/forhay123/haybee-edu-sub005/internal/models"
	"github.com/forhay123/haybee-edu-sub005/internal/repository"
	"github.com/forhay123/haybee-edu-sub005/internal/validation"
)

// TemplateHandler manages weekly schedule templates
type TemplateHandler struct {
	templates *repository.TemplateRepository
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(templates *repository.TemplateRepository) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

type templateRequest struct {
	ClassLevel    string `json:"classLevel"`
	WeekNumber    int    `json:"weekNumber"`
	DayOfWeek     int    `json:"dayOfWeek"`
	PeriodNumber  int    `json:"periodNumber"`
	SubjectID     int64  `json:"subjectId"`
	LessonTopicID int64  `json:"lessonTopicId"`
	TeacherName   string `json:"teacherName,omitempty"`
	StartTime     string `json:"startTime,omitempty"`
	EndTime       string `json:"endTime,omitempty"`
	AssessmentID  *int64 `json:"assessmentId,omitempty"`
}

func (req *templateRequest) validate() error {
	if req.ClassLevel == "" {
		return validation.ValidationError{Field: "classLevel", Message: "class level is required"}
	}
	if req.WeekNumber < 1 {
		return validation.ValidationError{Field: "weekNumber", Message: "week number must be at least 1"}
	}
	if req.PeriodNumber < 1 {
		return validation.ValidationError{Field: "periodNumber", Message: "period number must be at least 1"}
	}
	if req.SubjectID == 0 || req.LessonTopicID == 0 {
		return validation.ValidationError{Field: "subjectId", Message: "subject and lesson topic are required"}
	}
	if err := validation.ValidateDayOfWeek(req.DayOfWeek); err != nil {
		return err
	}
	if req.StartTime != "" || req.EndTime != "" {
		if err := validation.ValidateClockWindow(req.StartTime, req.EndTime); err != nil {
			return err
		}
	}
	return nil
}

func (req *templateRequest) apply(t *models.WeeklyScheduleTemplate) {
	t.ClassLevel = req.ClassLevel
	t.WeekNumber = req.WeekNumber
	t.DayOfWeek = time.Weekday(req.DayOfWeek)
	t.PeriodNumber = req.PeriodNumber
	t.SubjectID = req.SubjectID
	t.LessonTopicID = req.LessonTopicID
	t.TeacherName = req.TeacherName
	t.StartTime = req.StartTime
	t.EndTime = req.EndTime
	t.AssessmentID = req.AssessmentID
}

// Create adds a new weekly schedule template
func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", err)
		return
	}
	if err := req.validate(); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	tmpl := &models.WeeklyScheduleTemplate{}
	req.apply(tmpl)

	created, err := h.templates.Create(tmpl)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Template creation failed", err)
		return
	}

	respondJSON(w, http.StatusCreated, toTemplateResponse(created))
}

// List returns the templates for one class level and week
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	classLevel := r.URL.Query().Get("classLevel")
	if classLevel == "" {
		respondWithError(w, http.StatusBadRequest, "classLevel is required", "", nil)
		return
	}
	week, err := strconv.Atoi(r.URL.Query().Get("week"))
	if err != nil || week < 1 {
		respondWithError(w, http.StatusBadRequest, "week must be a positive number", "", nil)
		return
	}

	templates, err := h.templates.ListByClassWeek(classLevel, week)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Template listing failed", err)
		return
	}

	out := make([]templateResponse, 0, len(templates))
	for i := range templates {
		out = append(out, toTemplateResponse(&templates[i]))
	}
	respondJSON(w, http.StatusOK, out)
}

// Get returns one template
func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid template ID", "", nil)
		return
	}

	tmpl, err := h.templates.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Template not found", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Template lookup failed", err)
		return
	}

	respondJSON(w, http.StatusOK, toTemplateResponse(tmpl))
}

// Update modifies a template. Already materialized instances keep the
// values they were created with.
func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid template ID", "", nil)
		return
	}

	var req templateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", err)
		return
	}
	if err := req.validate(); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	tmpl, err := h.templates.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Template not found", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Template lookup failed", err)
		return
	}

	req.apply(tmpl)
	if err := h.templates.Update(tmpl); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Template update failed", err)
		return
	}

	respondJSON(w, http.StatusOK, toTemplateResponse(tmpl))
}

// Delete removes a template
func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid template ID", "", nil)
		return
	}

	if err := h.templates.Delete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Template not found", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Template deletion failed", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
