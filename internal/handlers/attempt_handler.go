package handlers

import (
	"net/http"

	"examtrack/internal/service"
	"examtrack/internal/utils"
)

// AttemptHandler handles answer submission HTTP requests
type AttemptHandler struct {
	tracker *service.TrackerService
}

// NewAttemptHandler creates a new attempt handler
func NewAttemptHandler(tracker *service.TrackerService) *AttemptHandler {
	return &AttemptHandler{tracker: tracker}
}

type recordAttemptRequest struct {
	QuestionNumber  int      `json:"questionNumber"`
	CorrectLetters  []string `json:"correctLetters"`
	SelectedLetters []string `json:"selectedLetters"`
	IsCorrect       *bool    `json:"isCorrect"`
	TimeSpent       int64    `json:"timeSpent"`
	HighlightActive bool     `json:"highlightActive"`
}

type questionRequest struct {
	QuestionNumber int `json:"questionNumber"`
}

// RecordAttempt stores one answer submission against the active session.
// When the client does not judge the submission itself, the selection is
// compared against the required letters as normalized sets.
func (h *AttemptHandler) RecordAttempt(w http.ResponseWriter, r *http.Request) {
	var req recordAttemptRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "Error decoding attempt request", err)
		return
	}
	if err := utils.ValidateQuestionNumber(req.QuestionNumber); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	var isCorrect bool
	if req.IsCorrect != nil {
		isCorrect = *req.IsCorrect
	} else {
		isCorrect = utils.LettersEqual(
			utils.NormalizeLetters(req.SelectedLetters),
			utils.NormalizeLetters(req.CorrectLetters),
		)
	}

	snapshot := h.tracker.RecordAttempt(req.QuestionNumber, req.CorrectLetters,
		req.SelectedLetters, isCorrect, req.TimeSpent, req.HighlightActive)
	if snapshot == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondWithJSON(w, http.StatusOK, snapshot)
}

// ResetAttempt drops the latest submission for a question
func (h *AttemptHandler) ResetAttempt(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "Error decoding reset request", err)
		return
	}
	if err := utils.ValidateQuestionNumber(req.QuestionNumber); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	snapshot := h.tracker.RecordReset(req.QuestionNumber)
	if snapshot == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondWithJSON(w, http.StatusOK, snapshot)
}

// HighlightView counts one reveal of the correct answers
func (h *AttemptHandler) HighlightView(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "Error decoding highlight request", err)
		return
	}
	if err := utils.ValidateQuestionNumber(req.QuestionNumber); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	h.tracker.RecordHighlightView(req.QuestionNumber)
	w.WriteHeader(http.StatusNoContent)
}

// HighlightClick counts one press of the highlight button
func (h *AttemptHandler) HighlightClick(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "Error decoding highlight request", err)
		return
	}
	if err := utils.ValidateQuestionNumber(req.QuestionNumber); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	h.tracker.RecordHighlightClick(req.QuestionNumber)
	w.WriteHeader(http.StatusNoContent)
}
