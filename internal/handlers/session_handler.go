package handlers

import (
	"net/http"

	"examtrack/internal/service"
)

// SessionHandler handles study session HTTP requests
type SessionHandler struct {
	tracker *service.TrackerService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(tracker *service.TrackerService) *SessionHandler {
	return &SessionHandler{tracker: tracker}
}

type startSessionRequest struct {
	ExamCode string `json:"examCode"`
	ExamName string `json:"examName"`
}

// StartSession begins a new study session, finalizing any active one first
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "Error decoding start session request", err)
		return
	}

	session, err := h.tracker.StartSession(req.ExamCode, req.ExamName)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}
	respondWithJSON(w, http.StatusCreated, session)
}

// EndSession finalizes the active session and returns it, or 204 when
// nothing was active.
func (h *SessionHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	ended := h.tracker.EndSession()
	if ended == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondWithJSON(w, http.StatusOK, ended)
}
