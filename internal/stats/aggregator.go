package stats

import (
	"math"

	"examtrack/internal/models"
)

// RecomputeSessionRollup rebuilds a session's counters from its question
// records. Counters are always derived from scratch, never patched in
// place, so a drifted value can not survive a recompute. Elapsed time is
// not derived here; it is fixed once when the session is finalized.
func RecomputeSessionRollup(s *models.Session) {
	if s == nil {
		return
	}
	var correct, incorrect, preview, resets, highlights int
	for _, q := range s.Questions {
		if q.FirstActionRecorded {
			switch q.FirstActionType {
			case models.FirstActionCorrect:
				correct++
			case models.FirstActionIncorrect:
				incorrect++
			case models.FirstActionPreview:
				preview++
			}
		}
		resets += q.ResetCount
		highlights += q.HighlightClicks + q.HighlightViews
	}
	s.CorrectAnswers = correct
	s.IncorrectAnswers = incorrect
	s.PreviewAnswers = preview
	s.TotalQuestions = correct + incorrect + preview
	s.TotalResets = resets
	s.TotalHighlights = highlights
}

// SessionScore returns the session's percentage score:
// round(100 * correct / (correct + incorrect + preview)), 0 when nothing
// was counted.
func SessionScore(s *models.Session) int {
	denom := s.CorrectAnswers + s.IncorrectAnswers + s.PreviewAnswers
	return roundPercent(s.CorrectAnswers, denom)
}

// RecomputeGlobalAggregate rebuilds the all-time totals and the per-exam
// buckets from the ended-session history. It zeroes both first, so it is
// idempotent and safe to run at any time. The active session is never
// counted here.
func RecomputeGlobalAggregate(store *models.StudyStore) {
	store.TotalStats = models.GlobalStats{}
	store.ExamStats = make(map[string]*models.ExamStats)

	for _, s := range store.Sessions {
		addToTotals(&store.TotalStats, s)

		bucket, ok := store.ExamStats[s.ExamCode]
		if !ok {
			bucket = &models.ExamStats{ExamName: s.ExamName}
			store.ExamStats[s.ExamCode] = bucket
		}
		bucket.SessionCount++
		bucket.TotalQuestions += s.TotalQuestions
		bucket.CorrectAnswers += s.CorrectAnswers
		bucket.IncorrectAnswers += s.IncorrectAnswers
		bucket.PreviewAnswers += s.PreviewAnswers
		bucket.TotalTime += s.TotalTime
		bucket.TotalResets += s.TotalResets

		if score := SessionScore(s); score > bucket.BestScore {
			bucket.BestScore = score
		}
		if s.StartTime >= bucket.LastAttempt {
			bucket.LastAttempt = s.StartTime
			if s.ExamName != "" {
				bucket.ExamName = s.ExamName
			}
		}
	}

	for _, bucket := range store.ExamStats {
		denom := bucket.CorrectAnswers + bucket.IncorrectAnswers + bucket.PreviewAnswers
		bucket.AverageScore = roundPercent(bucket.CorrectAnswers, denom)
	}
}

// CombinedTotals returns the historical totals merged with the live
// rollup of the active session, without mutating the store.
func CombinedTotals(store *models.StudyStore) models.GlobalStats {
	totals := store.TotalStats
	if cur := store.CurrentSession; cur != nil && cur.Active() {
		live := cur.Clone()
		RecomputeSessionRollup(live)
		addToTotals(&totals, live)
	}
	return totals
}

func addToTotals(t *models.GlobalStats, s *models.Session) {
	t.TotalQuestions += s.TotalQuestions
	t.TotalCorrect += s.CorrectAnswers
	t.TotalIncorrect += s.IncorrectAnswers
	t.TotalPreview += s.PreviewAnswers
	t.TotalTime += s.TotalTime
	t.TotalResets += s.TotalResets
	t.TotalHighlights += s.TotalHighlights
}

func roundPercent(num, denom int) int {
	if denom <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(num) / float64(denom)))
}
