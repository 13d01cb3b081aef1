package session

import (
	"errors"
	"time"

	"mindprint/internal/belief"
	"mindprint/internal/gate"
)

// ErrNotFound is returned when a session id has no stored state.
var ErrNotFound = errors.New("session not found")

// #region state
// State is one immutable snapshot of a session. Every processed answer
// produces a new snapshot with a fresh VersionID chained to its parent, so a
// session's full history stays replayable.
type State struct {
	ID           string
	VersionID    string
	ParentID     string
	Step         int
	Belief       belief.Belief
	Answers      map[string]string
	Dealbreakers gate.Record
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// New returns the step-zero snapshot for a session: neutral belief, no
// answers, no dealbreakers.
func New(id, versionID string, now time.Time) State {
	return State{
		ID:        id,
		VersionID: versionID,
		Step:      0,
		Belief:    belief.Neutral(),
		Answers:   map[string]string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Answered reports whether a question already has a recorded answer.
func (s State) Answered(questionID string) bool {
	_, ok := s.Answers[questionID]
	return ok
}

// #endregion state

// #region store
// Store persists session snapshots. Put stores a snapshot and makes it the
// session's active version; Get returns the active version.
type Store interface {
	Get(id string) (State, error)
	Put(s State) error
	Delete(id string) error
	Close() error
}

// #endregion store
