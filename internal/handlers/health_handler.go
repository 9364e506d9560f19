package handlers

import (
	"net/http"
)

// HealthHandler reports process liveness
type HealthHandler struct {
	backend string
}

// NewHealthHandler creates a health handler naming the storage backend
func NewHealthHandler(backend string) *HealthHandler {
	return &HealthHandler{backend: backend}
}

// Health returns the service status and the configured backend
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"backend": h.backend,
	})
}
