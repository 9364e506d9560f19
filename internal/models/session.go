package models

// First-action classifications for a question within a session.
const (
	FirstActionNone      = "none"
	FirstActionCorrect   = "correct"
	FirstActionIncorrect = "incorrect"
	FirstActionPreview   = "preview"
)

// Session represents one continuous study run against a single exam
type Session struct {
	ID               string             `json:"id"`
	ExamCode         string             `json:"examCode"`
	ExamName         string             `json:"examName"`
	StartTime        int64              `json:"startTime"`
	EndTime          *int64             `json:"endTime,omitempty"`
	Completed        bool               `json:"completed"`
	Questions        []*QuestionAttempt `json:"questions"`
	TotalQuestions   int                `json:"totalQuestions"`
	CorrectAnswers   int                `json:"correctAnswers"`
	IncorrectAnswers int                `json:"incorrectAnswers"`
	PreviewAnswers   int                `json:"previewAnswers"`
	TotalTime        int64              `json:"totalTime"` // whole seconds
	TotalResets      int                `json:"totalResets"`
	TotalHighlights  int                `json:"totalHighlights"`
}

// QuestionAttempt tracks every interaction with one question inside a session
type QuestionAttempt struct {
	QuestionNumber      int       `json:"questionNumber"`
	CorrectLetters      []string  `json:"correctLetters"`
	Attempts            []Attempt `json:"attempts"`
	StartTime           int64     `json:"startTime"`
	EndTime             *int64    `json:"endTime,omitempty"`
	TimeSpent           int64     `json:"timeSpent"` // seconds, cumulative
	IsCorrect           bool      `json:"isCorrect"`
	Score               int       `json:"score"`
	ResetCount          int       `json:"resetCount"`
	HighlightClicks     int       `json:"highlightClicks"`
	HighlightViews      int       `json:"highlightViews"`
	FirstActionType     string    `json:"firstActionType"`
	FirstActionRecorded bool      `json:"firstActionRecorded"`
}

// Attempt is a single answer submission or preview interaction
type Attempt struct {
	Selected  []string `json:"selected"`
	Correct   bool     `json:"correct"`
	Highlight bool     `json:"highlight"`
	Timestamp int64    `json:"timestamp"`
	TimeSpent int64    `json:"timeSpent"` // seconds
}

// Question returns the attempt record for questionNumber, or nil
func (s *Session) Question(questionNumber int) *QuestionAttempt {
	for _, q := range s.Questions {
		if q.QuestionNumber == questionNumber {
			return q
		}
	}
	return nil
}

// Active reports whether the session has not been finalized yet
func (s *Session) Active() bool {
	return !s.Completed && s.EndTime == nil
}

// LastAttempt returns the most recent sub-record, or nil when none exist
func (q *QuestionAttempt) LastAttempt() *Attempt {
	if len(q.Attempts) == 0 {
		return nil
	}
	return &q.Attempts[len(q.Attempts)-1]
}

// RecordFirstAction classifies the question once, on its first
// interaction. Later calls never change the stored classification.
func (q *QuestionAttempt) RecordFirstAction(action string) {
	if q.FirstActionRecorded {
		return
	}
	q.FirstActionType = action
	q.FirstActionRecorded = true
}

// Answered reports whether the question holds at least one graded
// (non-highlight) submission.
func (q *QuestionAttempt) Answered() bool {
	for _, a := range q.Attempts {
		if !a.Highlight {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the session
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.EndTime = cloneTime(s.EndTime)
	if s.Questions != nil {
		out.Questions = make([]*QuestionAttempt, len(s.Questions))
		for i, q := range s.Questions {
			out.Questions[i] = q.Clone()
		}
	}
	return &out
}

// Clone returns a deep copy of the question record
func (q *QuestionAttempt) Clone() *QuestionAttempt {
	if q == nil {
		return nil
	}
	out := *q
	out.CorrectLetters = cloneLetters(q.CorrectLetters)
	out.EndTime = cloneTime(q.EndTime)
	if q.Attempts != nil {
		out.Attempts = make([]Attempt, len(q.Attempts))
		for i, a := range q.Attempts {
			out.Attempts[i] = a.Clone()
		}
	}
	return &out
}

// Clone returns a copy of the attempt with its own letters slice
func (a Attempt) Clone() Attempt {
	out := a
	out.Selected = cloneLetters(a.Selected)
	return out
}

func cloneLetters(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneTime(t *int64) *int64 {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
