package migrate

import (
	"log"

	"examtrack/internal/models"
	"examtrack/internal/stats"
)

// DefaultCorruptionThreshold is the multiplier used when none is
// configured. A persisted counted-questions value this many times larger
// than the number of genuinely answered questions marks the session as
// drifted.
const DefaultCorruptionThreshold = 10

// MinCorruptionThreshold keeps a misconfigured threshold from flagging
// every session with a rounding-level mismatch.
const MinCorruptionThreshold = 2

// DetectCorruption reports whether a session's persisted counted-questions
// value has drifted implausibly far from the number of questions that hold
// at least one graded (non-preview) attempt.
func DetectCorruption(s *models.Session, threshold int) bool {
	if threshold < MinCorruptionThreshold {
		threshold = MinCorruptionThreshold
	}
	real := 0
	for _, q := range s.Questions {
		if q.Answered() {
			real++
		}
	}
	return s.TotalQuestions > real*threshold
}

// RepairSession discards a session's persisted rollup and rebuilds it from
// the raw attempt records. Returns true when any counter changed.
func RepairSession(s *models.Session) bool {
	before := [6]int{
		s.TotalQuestions, s.CorrectAnswers, s.IncorrectAnswers,
		s.PreviewAnswers, s.TotalResets, s.TotalHighlights,
	}
	stats.RecomputeSessionRollup(s)
	after := [6]int{
		s.TotalQuestions, s.CorrectAnswers, s.IncorrectAnswers,
		s.PreviewAnswers, s.TotalResets, s.TotalHighlights,
	}
	return before != after
}

// RepairStore runs corruption detection over every session in the store,
// the active one included, and rebuilds the rollup of each flagged
// session. Returns the number of sessions whose counters actually
// changed.
func RepairStore(store *models.StudyStore, threshold int) int {
	repaired := 0
	check := func(s *models.Session) {
		if s == nil || !DetectCorruption(s, threshold) {
			return
		}
		counted := s.TotalQuestions
		if RepairSession(s) {
			repaired++
			log.Printf("repaired session %s: counted questions %d -> %d", s.ID, counted, s.TotalQuestions)
		}
	}
	for _, s := range store.Sessions {
		check(s)
	}
	check(store.CurrentSession)
	return repaired
}
