package codec

import "examtrack/internal/models"

// The compact persisted form is the same object graph marshaled through
// these parallel structs. Shrinking happens per field, before generic
// serialization, so a short key can never be re-matched against another
// key or a value the way raw text substitution could.
type wireStore struct {
	Version        int                  `json:"v"`
	Sessions       []*wireSession       `json:"s"`
	CurrentSession *wireSession         `json:"cs,omitempty"`
	TotalStats     wireGlobals          `json:"ts"`
	ExamStats      map[string]*wireExam `json:"es"`
}

type wireSession struct {
	ID               string          `json:"i"`
	ExamCode         string          `json:"e"`
	ExamName         string          `json:"n"`
	StartTime        int64           `json:"st"`
	EndTime          *int64          `json:"et,omitempty"`
	Completed        bool            `json:"c"`
	Questions        []*wireQuestion `json:"q"`
	TotalQuestions   int             `json:"tq"`
	CorrectAnswers   int             `json:"ca"`
	IncorrectAnswers int             `json:"ia"`
	PreviewAnswers   int             `json:"pa"`
	TotalTime        int64           `json:"tt"`
	TotalResets      int             `json:"tr"`
	TotalHighlights  int             `json:"th"`
}

type wireQuestion struct {
	QuestionNumber      int           `json:"qn"`
	CorrectLetters      []string      `json:"cl"`
	Attempts            []wireAttempt `json:"a"`
	StartTime           int64         `json:"st"`
	EndTime             *int64        `json:"et,omitempty"`
	TimeSpent           int64         `json:"ts"`
	IsCorrect           bool          `json:"ic"`
	Score               int           `json:"sc"`
	ResetCount          int           `json:"rc"`
	HighlightClicks     int           `json:"hc"`
	HighlightViews      int           `json:"hv"`
	FirstActionType     string        `json:"fa"`
	FirstActionRecorded bool          `json:"fr"`
}

type wireAttempt struct {
	Selected  []string `json:"l"`
	Correct   bool     `json:"c"`
	Highlight bool     `json:"h"`
	Timestamp int64    `json:"w"`
	TimeSpent int64    `json:"ts"`
}

type wireGlobals struct {
	TotalQuestions  int   `json:"tq"`
	TotalCorrect    int   `json:"tc"`
	TotalIncorrect  int   `json:"ti"`
	TotalPreview    int   `json:"tp"`
	TotalTime       int64 `json:"tt"`
	TotalResets     int   `json:"tr"`
	TotalHighlights int   `json:"th"`
}

type wireExam struct {
	ExamName         string `json:"n"`
	SessionCount     int    `json:"sn"`
	TotalQuestions   int    `json:"tq"`
	CorrectAnswers   int    `json:"ca"`
	IncorrectAnswers int    `json:"ia"`
	PreviewAnswers   int    `json:"pa"`
	TotalTime        int64  `json:"tt"`
	TotalResets      int    `json:"tr"`
	AverageScore     int    `json:"as"`
	BestScore        int    `json:"bs"`
	LastAttempt      int64  `json:"la"`
}

func toWire(st *models.StudyStore) *wireStore {
	w := &wireStore{
		Version:        st.Version,
		CurrentSession: sessionToWire(st.CurrentSession),
		TotalStats:     wireGlobals(st.TotalStats),
	}
	if st.Sessions != nil {
		w.Sessions = make([]*wireSession, len(st.Sessions))
		for i, s := range st.Sessions {
			w.Sessions[i] = sessionToWire(s)
		}
	}
	if st.ExamStats != nil {
		w.ExamStats = make(map[string]*wireExam, len(st.ExamStats))
		for code, e := range st.ExamStats {
			we := wireExam(*e)
			w.ExamStats[code] = &we
		}
	}
	return w
}

func fromWire(w *wireStore) *models.StudyStore {
	st := &models.StudyStore{
		Version:        w.Version,
		CurrentSession: sessionFromWire(w.CurrentSession),
		TotalStats:     models.GlobalStats(w.TotalStats),
	}
	if w.Sessions != nil {
		st.Sessions = make([]*models.Session, len(w.Sessions))
		for i, s := range w.Sessions {
			st.Sessions[i] = sessionFromWire(s)
		}
	}
	if w.ExamStats != nil {
		st.ExamStats = make(map[string]*models.ExamStats, len(w.ExamStats))
		for code, e := range w.ExamStats {
			me := models.ExamStats(*e)
			st.ExamStats[code] = &me
		}
	}
	return st
}

func sessionToWire(s *models.Session) *wireSession {
	if s == nil {
		return nil
	}
	w := &wireSession{
		ID:               s.ID,
		ExamCode:         s.ExamCode,
		ExamName:         s.ExamName,
		StartTime:        s.StartTime,
		EndTime:          s.EndTime,
		Completed:        s.Completed,
		TotalQuestions:   s.TotalQuestions,
		CorrectAnswers:   s.CorrectAnswers,
		IncorrectAnswers: s.IncorrectAnswers,
		PreviewAnswers:   s.PreviewAnswers,
		TotalTime:        s.TotalTime,
		TotalResets:      s.TotalResets,
		TotalHighlights:  s.TotalHighlights,
	}
	if s.Questions != nil {
		w.Questions = make([]*wireQuestion, len(s.Questions))
		for i, q := range s.Questions {
			w.Questions[i] = questionToWire(q)
		}
	}
	return w
}

func sessionFromWire(w *wireSession) *models.Session {
	if w == nil {
		return nil
	}
	s := &models.Session{
		ID:               w.ID,
		ExamCode:         w.ExamCode,
		ExamName:         w.ExamName,
		StartTime:        w.StartTime,
		EndTime:          w.EndTime,
		Completed:        w.Completed,
		TotalQuestions:   w.TotalQuestions,
		CorrectAnswers:   w.CorrectAnswers,
		IncorrectAnswers: w.IncorrectAnswers,
		PreviewAnswers:   w.PreviewAnswers,
		TotalTime:        w.TotalTime,
		TotalResets:      w.TotalResets,
		TotalHighlights:  w.TotalHighlights,
	}
	if w.Questions != nil {
		s.Questions = make([]*models.QuestionAttempt, len(w.Questions))
		for i, q := range w.Questions {
			s.Questions[i] = questionFromWire(q)
		}
	}
	return s
}

func questionToWire(q *models.QuestionAttempt) *wireQuestion {
	if q == nil {
		return nil
	}
	w := &wireQuestion{
		QuestionNumber:      q.QuestionNumber,
		CorrectLetters:      q.CorrectLetters,
		StartTime:           q.StartTime,
		EndTime:             q.EndTime,
		TimeSpent:           q.TimeSpent,
		IsCorrect:           q.IsCorrect,
		Score:               q.Score,
		ResetCount:          q.ResetCount,
		HighlightClicks:     q.HighlightClicks,
		HighlightViews:      q.HighlightViews,
		FirstActionType:     q.FirstActionType,
		FirstActionRecorded: q.FirstActionRecorded,
	}
	if q.Attempts != nil {
		w.Attempts = make([]wireAttempt, len(q.Attempts))
		for i, a := range q.Attempts {
			w.Attempts[i] = wireAttempt(a)
		}
	}
	return w
}

func questionFromWire(w *wireQuestion) *models.QuestionAttempt {
	if w == nil {
		return nil
	}
	q := &models.QuestionAttempt{
		QuestionNumber:      w.QuestionNumber,
		CorrectLetters:      w.CorrectLetters,
		StartTime:           w.StartTime,
		EndTime:             w.EndTime,
		TimeSpent:           w.TimeSpent,
		IsCorrect:           w.IsCorrect,
		Score:               w.Score,
		ResetCount:          w.ResetCount,
		HighlightClicks:     w.HighlightClicks,
		HighlightViews:      w.HighlightViews,
		FirstActionType:     w.FirstActionType,
		FirstActionRecorded: w.FirstActionRecorded,
	}
	if w.Attempts != nil {
		q.Attempts = make([]models.Attempt, len(w.Attempts))
		for i, a := range w.Attempts {
			q.Attempts[i] = models.Attempt(a)
		}
	}
	return q
}
