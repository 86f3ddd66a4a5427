package store

import (
	"time"

	"manygolf/internal/config"
	"manygolf/internal/domain"
)

// Store holds the canonical snapshot of one session.
// It is owned by a single tick context and is not safe for concurrent use.
type Store struct {
	state  domain.State
	timing config.Timing
	clock  func() time.Time
}

// New creates a store in the waiting state. clock may be nil to use time.Now.
func New(timing config.Timing, clock func() time.Time) *Store {
	if clock == nil {
		clock = time.Now
	}
	return &Store{
		state:  domain.NewState(),
		timing: timing,
		clock:  clock,
	}
}

// State returns the current snapshot.
func (s *Store) State() domain.State {
	return s.state
}

// Dispatch applies action and returns the new snapshot.
// On error the current snapshot is kept and returned.
func (s *Store) Dispatch(action Action) (domain.State, error) {
	next, err := Reduce(s.state, action, Env{
		Now:         s.clock().UnixMilli(),
		LevelOverMS: s.timing.LevelOverMS,
	})
	if err != nil {
		return s.state, err
	}
	s.state = next
	return next, nil
}
