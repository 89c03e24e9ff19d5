package handlers

import (
	"net/http"

	"github.com/forhay123/haybee-edu-sub005/internal/database"
)

// HealthHandler reports service liveness
type HealthHandler struct {
	db *database.DB
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *database.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health pings the database and reports status
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(); err != nil {
		respondWithError(w, http.StatusServiceUnavailable, "Database unavailable", "Health check failed", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
