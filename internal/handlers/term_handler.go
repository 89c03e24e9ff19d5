package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/forhay123/haybee-edu-sub005/internal/repository"
	"github.com/forhay123/haybee-edu-sub005/internal/validation"
)

// TermHandler manages academic terms
type TermHandler struct {
	terms *repository.TermRepository
}

// NewTermHandler creates a new term handler
func NewTermHandler(terms *repository.TermRepository) *TermHandler {
	return &TermHandler{terms: terms}
}

type createTermRequest struct {
	Name         string `json:"name"`
	AcademicYear string `json:"academicYear"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
}

// Create adds a new term. Terms start inactive.
func (h *TermHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTermRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", err)
		return
	}

	if req.Name == "" || req.AcademicYear == "" {
		respondWithError(w, http.StatusBadRequest, "Name and academic year are required", "", nil)
		return
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid start date, expected YYYY-MM-DD", "", nil)
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid end date, expected YYYY-MM-DD", "", nil)
		return
	}
	if err := validation.ValidateTermDates(start, end); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	term, err := h.terms.Create(req.Name, req.AcademicYear, start, end)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Term creation failed", err)
		return
	}

	respondJSON(w, http.StatusCreated, toTermResponse(term))
}

// List returns all terms, newest first
func (h *TermHandler) List(w http.ResponseWriter, r *http.Request) {
	terms, err := h.terms.List()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Term listing failed", err)
		return
	}

	out := make([]termResponse, 0, len(terms))
	for i := range terms {
		out = append(out, toTermResponse(&terms[i]))
	}
	respondJSON(w, http.StatusOK, out)
}

// Get returns one term
func (h *TermHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid term ID", "", nil)
		return
	}

	term, err := h.terms.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Term not found", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Term lookup failed", err)
		return
	}

	respondJSON(w, http.StatusOK, toTermResponse(term))
}

// Activate makes one term the active term, deactivating all others
func (h *TermHandler) Activate(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid term ID", "", nil)
		return
	}

	if err := h.terms.Activate(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Term not found", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Term activation failed", err)
		return
	}

	term, err := h.terms.GetByID(id)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Term lookup failed", err)
		return
	}

	respondJSON(w, http.StatusOK, toTermResponse(term))
}

// Delete removes a term. The active term cannot be deleted.
func (h *TermHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid term ID", "", nil)
		return
	}

	term, err := h.terms.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Term not found", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Term lookup failed", err)
		return
	}
	if term.IsActive {
		respondWithError(w, http.StatusConflict, "The active term cannot be deleted", "", nil)
		return
	}

	if err := h.terms.Delete(id); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Term deletion failed", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
