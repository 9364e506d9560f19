package handlers

import (
	"net/http"

	"examtrack/internal/models"
	"examtrack/internal/service"
)

// StatsHandler handles statistics HTTP requests
type StatsHandler struct {
	tracker *service.TrackerService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(tracker *service.TrackerService) *StatsHandler {
	return &StatsHandler{tracker: tracker}
}

// globalStatsResponse pairs the all-time totals with the per-exam buckets
type globalStatsResponse struct {
	Totals models.GlobalStats           `json:"totals"`
	Exams  map[string]*models.ExamStats `json:"exams"`
}

// GlobalStats returns the historical aggregate
func (h *StatsHandler) GlobalStats(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, globalStatsResponse{
		Totals: h.tracker.GetGlobalStats(),
		Exams:  h.tracker.GetAllExamStats(),
	})
}

// CurrentStats returns a live snapshot of the active session
func (h *StatsHandler) CurrentStats(w http.ResponseWriter, r *http.Request) {
	snapshot := h.tracker.GetCurrentSessionStats()
	if snapshot == nil {
		respondWithError(w, http.StatusNotFound, "No active session", "", nil)
		return
	}
	respondWithJSON(w, http.StatusOK, snapshot)
}

// CombinedStats returns historical totals merged with the live session
func (h *StatsHandler) CombinedStats(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.tracker.GetCombinedStats())
}

// ExamStats returns the bucket for one exam code
func (h *StatsHandler) ExamStats(w http.ResponseWriter, r *http.Request) {
	exam, ok := h.tracker.GetExamStats(r.PathValue("code"))
	if !ok {
		respondWithError(w, http.StatusNotFound, "Exam statistics not found", "", nil)
		return
	}
	respondWithJSON(w, http.StatusOK, exam)
}

// ResetStats wipes all recorded statistics
func (h *StatsHandler) ResetStats(w http.ResponseWriter, r *http.Request) {
	h.tracker.ResetAllStatistics()
	w.WriteHeader(http.StatusNoContent)
}

// Export returns the full store as the verbose export document
func (h *StatsHandler) Export(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.tracker.ExportSnapshot())
}
