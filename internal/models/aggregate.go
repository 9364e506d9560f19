package models

// GlobalStats holds the all-time totals across every ended session
type GlobalStats struct {
	TotalQuestions  int   `json:"totalQuestions"`
	TotalCorrect    int   `json:"totalCorrect"`
	TotalIncorrect  int   `json:"totalIncorrect"`
	TotalPreview    int   `json:"totalPreview"`
	TotalTime       int64 `json:"totalTime"` // whole seconds
	TotalResets     int   `json:"totalResets"`
	TotalHighlights int   `json:"totalHighlights"`
}

// ExamStats accumulates the history of one exam code
type ExamStats struct {
	ExamName         string `json:"examName"`
	SessionCount     int    `json:"sessionCount"`
	TotalQuestions   int    `json:"totalQuestions"`
	CorrectAnswers   int    `json:"correctAnswers"`
	IncorrectAnswers int    `json:"incorrectAnswers"`
	PreviewAnswers   int    `json:"previewAnswers"`
	TotalTime        int64  `json:"totalTime"`
	TotalResets      int    `json:"totalResets"`
	AverageScore     int    `json:"averageScore"`
	BestScore        int    `json:"bestScore"`
	LastAttempt      int64  `json:"lastAttempt"` // unix ms of the latest session start
}

// Clone returns a copy of the exam bucket
func (e *ExamStats) Clone() *ExamStats {
	if e == nil {
		return nil
	}
	out := *e
	return &out
}
