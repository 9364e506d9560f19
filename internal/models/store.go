package models

import "time"

// StoreVersion is the current schema version of the persisted document.
const StoreVersion = 3

// StudyStore is the full persisted document: session history, the active
// session, and the derived aggregates.
type StudyStore struct {
	Version        int                   `json:"version"`
	Sessions       []*Session            `json:"sessions"`
	CurrentSession *Session              `json:"currentSession,omitempty"`
	TotalStats     GlobalStats           `json:"totalStats"`
	ExamStats      map[string]*ExamStats `json:"examStats"`
}

// ExportDocument wraps a verbose store snapshot for external renderers
type ExportDocument struct {
	Statistics *StudyStore `json:"statistics"`
	ExportDate time.Time   `json:"exportDate"`
	Version    int         `json:"version"`
}

// NewStore returns an empty store at the current schema version
func NewStore() *StudyStore {
	return &StudyStore{
		Version:   StoreVersion,
		Sessions:  []*Session{},
		ExamStats: map[string]*ExamStats{},
	}
}

// Clone returns a deep copy of the whole store
func (s *StudyStore) Clone() *StudyStore {
	if s == nil {
		return nil
	}
	out := *s
	if s.Sessions != nil {
		out.Sessions = make([]*Session, len(s.Sessions))
		for i, sess := range s.Sessions {
			out.Sessions[i] = sess.Clone()
		}
	}
	out.CurrentSession = s.CurrentSession.Clone()
	if s.ExamStats != nil {
		out.ExamStats = make(map[string]*ExamStats, len(s.ExamStats))
		for code, e := range s.ExamStats {
			out.ExamStats[code] = e.Clone()
		}
	}
	return &out
}
