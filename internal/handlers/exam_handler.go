package handlers

import (
	"errors"
	"net/http"
	"strings"

	"examtrack/internal/catalog"
)

// ExamHandler serves the read-only exam catalog
type ExamHandler struct {
	catalog *catalog.Catalog
}

// NewExamHandler creates a new exam handler
func NewExamHandler(cat *catalog.Catalog) *ExamHandler {
	return &ExamHandler{catalog: cat}
}

// ListExams returns every exam in the manifest
func (h *ExamHandler) ListExams(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.catalog.List())
}

// GetExam returns one manifest entry
func (h *ExamHandler) GetExam(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(r.PathValue("code")))
	exam, err := h.catalog.Get(code)
	if errors.Is(err, catalog.ErrExamNotFound) {
		respondWithError(w, http.StatusNotFound, "Exam not found", "", nil)
		return
	}
	respondWithJSON(w, http.StatusOK, exam)
}
