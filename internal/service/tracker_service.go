package service

import (
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"examtrack/internal/catalog"
	"examtrack/internal/models"
	"examtrack/internal/repository"
	"examtrack/internal/stats"
	"examtrack/internal/utils"
)

// scoreAttempt grades one submission: full marks when judged correct,
// otherwise partial credit for the overlap with the required letters.
func scoreAttempt(selected, required []string, isCorrect bool) int {
	if isCorrect {
		return 100
	}
	if len(required) == 0 {
		return 0
	}
	overlap := utils.IntersectionCount(selected, required)
	return int(math.Round(100 * float64(overlap) / float64(len(required))))
}

// TrackerService owns the in-memory statistics store and the active
// session pointer. A single mutex serializes every call, so concurrent
// HTTP handlers cannot interleave mutations. Persistence failures are
// logged and never roll back in-memory state.
type TrackerService struct {
	mu      sync.Mutex
	store   *models.StudyStore
	repo    *repository.StoreRepository
	catalog *catalog.Catalog

	// now is replaceable so tests can pin timestamps
	now func() time.Time
}

// NewTrackerService loads the persisted store through the repository and
// returns a tracker bound to it.
func NewTrackerService(repo *repository.StoreRepository, cat *catalog.Catalog) (*TrackerService, error) {
	store, err := repo.Load()
	if err != nil {
		return nil, err
	}
	return &TrackerService{
		store:   store,
		repo:    repo,
		catalog: cat,
		now:     time.Now,
	}, nil
}

// StartSession finalizes any active session, then begins a new one for
// the given exam. An empty display name is resolved through the catalog.
func (s *TrackerService) StartSession(examCode, examName string) (*models.Session, error) {
	code := strings.ToUpper(strings.TrimSpace(examCode))
	if err := utils.ValidateExamCode(code); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.finalizeActive(now)

	if strings.TrimSpace(examName) == "" {
		examName = s.catalog.ResolveName(code)
	}
	session := &models.Session{
		ID:        utils.GenerateSessionID(),
		ExamCode:  code,
		ExamName:  examName,
		StartTime: now.UnixMilli(),
		Questions: []*models.QuestionAttempt{},
	}
	s.store.CurrentSession = session
	s.persist()
	return session.Clone(), nil
}

// EndSession finalizes the active session and moves it to history. It
// returns the ended session, or nil when none was active.
func (s *TrackerService) EndSession() *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	ended := s.finalizeActive(s.now())
	if ended == nil {
		return nil
	}
	s.persist()
	return ended.Clone()
}

// finalizeActive ends the current session, appends it to history, and
// refreshes the historical aggregate. The caller holds the lock and
// persists afterwards.
func (s *TrackerService) finalizeActive(now time.Time) *models.Session {
	session := s.store.CurrentSession
	if session == nil {
		return nil
	}
	stats.RecomputeSessionRollup(session)
	end := now.UnixMilli()
	session.EndTime = &end
	session.Completed = true
	session.TotalTime = (end - session.StartTime) / 1000
	s.store.Sessions = append(s.store.Sessions, session)
	s.store.CurrentSession = nil
	stats.RecomputeGlobalAggregate(s.store)
	return session
}

// RecordAttempt appends one answer submission to the active session and
// returns a snapshot with the refreshed rollup. A nil snapshot means no
// session is active and the call did nothing.
func (s *TrackerService) RecordAttempt(questionNumber int, correctLetters, selectedLetters []string, isCorrect bool, timeSpent int64, highlightActive bool) *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.store.CurrentSession
	if session == nil {
		log.Printf("recordAttempt for question %d ignored, no active session", questionNumber)
		return nil
	}

	now := s.now().UnixMilli()
	required := utils.NormalizeLetters(correctLetters)
	selected := utils.NormalizeLetters(selectedLetters)

	q := findOrCreateQuestion(session, questionNumber, now)
	if len(required) > 0 {
		q.CorrectLetters = required
	}
	q.Attempts = append(q.Attempts, models.Attempt{
		Selected:  selected,
		Correct:   isCorrect,
		Highlight: highlightActive,
		Timestamp: now,
		TimeSpent: timeSpent,
	})
	q.IsCorrect = isCorrect
	q.TimeSpent += timeSpent
	q.EndTime = &now

	if highlightActive {
		q.RecordFirstAction(models.FirstActionPreview)
	} else {
		if isCorrect {
			q.RecordFirstAction(models.FirstActionCorrect)
		} else {
			q.RecordFirstAction(models.FirstActionIncorrect)
		}
		q.Score = scoreAttempt(selected, q.CorrectLetters, isCorrect)
	}

	stats.RecomputeSessionRollup(session)
	s.persist()
	return session.Clone()
}

// RecordHighlightView counts one reveal of the correct answers. A
// question met through highlight first is classified as previewed.
func (s *TrackerService) RecordHighlightView(questionNumber int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.store.CurrentSession
	if session == nil {
		return
	}
	q := findOrCreateQuestion(session, questionNumber, s.now().UnixMilli())
	q.HighlightViews++
	q.RecordFirstAction(models.FirstActionPreview)
	stats.RecomputeSessionRollup(session)
	s.persist()
}

// RecordHighlightClick counts one press of the highlight button.
func (s *TrackerService) RecordHighlightClick(questionNumber int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.store.CurrentSession
	if session == nil {
		return
	}
	q := findOrCreateQuestion(session, questionNumber, s.now().UnixMilli())
	q.HighlightClicks++
	q.RecordFirstAction(models.FirstActionPreview)
	stats.RecomputeSessionRollup(session)
	s.persist()
}

// RecordReset drops the latest submission for a question. The reset
// counter always moves; the attempt list only shrinks when something is
// there to pop.
func (s *TrackerService) RecordReset(questionNumber int) *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.store.CurrentSession
	if session == nil {
		return nil
	}

	q := findOrCreateQuestion(session, questionNumber, s.now().UnixMilli())
	q.ResetCount++
	if n := len(q.Attempts); n > 0 {
		q.Attempts = q.Attempts[:n-1]
		recomputeLatest(q)
	}
	stats.RecomputeSessionRollup(session)
	s.persist()
	return session.Clone()
}

// GetGlobalStats returns the historical all-time totals.
func (s *TrackerService) GetGlobalStats() models.GlobalStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.TotalStats
}

// GetAllExamStats returns a copy of every per-exam bucket.
func (s *TrackerService) GetAllExamStats() map[string]*models.ExamStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]*models.ExamStats, len(s.store.ExamStats))
	for code, e := range s.store.ExamStats {
		out[code] = e.Clone()
	}
	return out
}

// GetExamStats returns the bucket for one exam code.
func (s *TrackerService) GetExamStats(examCode string) (*models.ExamStats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.store.ExamStats[strings.ToUpper(strings.TrimSpace(examCode))]
	if !ok {
		return nil, false
	}
	return e.Clone(), true
}

// GetCurrentSessionStats returns a live snapshot of the active session
// with its rollup freshly recomputed, or nil when none is active.
func (s *TrackerService) GetCurrentSessionStats() *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.store.CurrentSession
	if session == nil {
		return nil
	}
	snapshot := session.Clone()
	stats.RecomputeSessionRollup(snapshot)
	return snapshot
}

// GetCombinedStats merges the historical totals with the live session
// without double-counting it into the persisted aggregate.
func (s *TrackerService) GetCombinedStats() models.GlobalStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return stats.CombinedTotals(s.store)
}

// ResetAllStatistics wipes everything back to an empty store.
func (s *TrackerService) ResetAllStatistics() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store = models.NewStore()
	s.persist()
}

// ExportSnapshot returns a deep copy of the full store wrapped in the
// verbose export document.
func (s *TrackerService) ExportSnapshot() *models.ExportDocument {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &models.ExportDocument{
		Statistics: s.store.Clone(),
		ExportDate: s.now(),
		Version:    models.StoreVersion,
	}
}

// findOrCreateQuestion returns the attempt record for questionNumber,
// creating it lazily on first interaction.
func findOrCreateQuestion(session *models.Session, questionNumber int, now int64) *models.QuestionAttempt {
	if q := session.Question(questionNumber); q != nil {
		return q
	}
	q := &models.QuestionAttempt{
		QuestionNumber:  questionNumber,
		CorrectLetters:  []string{},
		Attempts:        []models.Attempt{},
		StartTime:       now,
		FirstActionType: models.FirstActionNone,
	}
	session.Questions = append(session.Questions, q)
	return q
}

// recomputeLatest rebuilds latest correctness and score from the tail
// of the attempt list after a pop. A highlight-mode tail was never
// graded, so it contributes no score.
func recomputeLatest(q *models.QuestionAttempt) {
	last := q.LastAttempt()
	if last == nil {
		q.IsCorrect = false
		q.Score = 0
		return
	}
	q.IsCorrect = last.Correct
	if last.Highlight {
		q.Score = 0
		return
	}
	q.Score = scoreAttempt(last.Selected, q.CorrectLetters, last.Correct)
}

// persist writes the store through the repository. Failures are logged
// and in-memory state is kept so no session progress is lost.
func (s *TrackerService) persist() {
	if err := s.repo.Save(s.store); err != nil {
		log.Printf("Warning: Failed to persist statistics: %v", err)
	}
}
