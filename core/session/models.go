package session

import (
	"errors"
	"time"

	"github.com/Abdelhadi-Wael/gradebook-project/core/gradebook"
)

var ErrNotFound = errors.New("session not found")

// Session holds one instructor's raw inputs and weight config. Computed
// results are never stored on it: every read recomputes from these inputs.
type Session struct {
	ID        string                 `json:"id"`
	Roster    *gradebook.Table       `json:"roster,omitempty"`
	Grades    *gradebook.Table       `json:"grades,omitempty"`
	Quizzes   []gradebook.Quiz       `json:"quizzes,omitempty"`
	Weights   gradebook.WeightConfig `json:"weights,omitempty"`
	CreatedAt time.Time              `json:"created_at"` // UTC
	UpdatedAt time.Time              `json:"updated_at"` // UTC
}

// HasInputs reports whether the session can produce a gradebook yet.
func (s *Session) HasInputs() bool {
	return s.Roster != nil && s.Grades != nil
}

type Repository interface {
	CreateSession(s Session) (Session, error)
	// GetSession returns ErrNotFound for unknown or expired sessions.
	GetSession(id string) (Session, error)
	SaveSession(s Session) (Session, error)
	DeleteSession(id string) error
}
