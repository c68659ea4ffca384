package actions

import (
	"slices"
	"sync"
)

// State holds the live configuration shared by every request handler.
// Handlers only read; Replace is the single writer.
type State struct {
	mu  sync.RWMutex
	cfg Config
}

func NewState(cfg Config) *State {
	return &State{cfg: cfg}
}

func (s *State) SessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.SessionID
}

func (s *State) Port() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Port
}

// Snapshot returns the page title and a copy of the action table.
func (s *State) Snapshot() (string, []Action) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Title, slices.Clone(s.cfg.Actions)
}

// Lookup finds the first action whose id matches.
func (s *State) Lookup(id string) (Action, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.cfg.Actions {
		if a.ID == id {
			return a, true
		}
	}
	return Action{}, false
}

// Replace swaps in the title and action table of next. Session id and port
// are bound at startup and stay as they are.
func (s *State) Replace(next Config) {
	s.mu.Lock()
	s.cfg.Title = next.Title
	s.cfg.Actions = next.Actions
	s.mu.Unlock()
}
