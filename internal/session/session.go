// Package session interprets the inbound snapshot stream: it tracks the
// current phase, folds results snapshots into the score ledger, and derives
// the state the view layer renders.
package session

import (
	"sync"

	"quizo/internal/domain"
	"quizo/internal/ledger"
)

// Session holds the last observed snapshot and the derived score ledger for
// one connection. Observe is the only mutator and is called from a single
// goroutine; reads may come from anywhere.
type Session struct {
	nickname string

	mu       sync.RWMutex
	last     *domain.Snapshot
	scores   ledger.Ledger
	selected *int // locally chosen option for the current question
}

// New creates an empty session for the given local nickname. The ledger
// starts empty and phases read as lobby until the first snapshot arrives,
// matching the optimistic post-connect transition.
func New(nickname string) *Session {
	return &Session{nickname: nickname}
}

// Observe validates and applies one snapshot. Malformed snapshots are
// rejected without touching any state; processing is strictly in arrival
// order because the caller serializes invocations.
func (s *Session) Observe(snap domain.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last == nil || s.last.CurrentQuestionIndex != snap.CurrentQuestionIndex || snap.State != domain.PhaseQuestion {
		s.selected = nil
	}
	s.last = &snap
	s.scores = ledger.Apply(s.scores, snap)
	return nil
}

// MarkSelected remembers the locally submitted option so the view can gate
// re-submission before the server echoes the answer back in a snapshot.
func (s *Session) MarkSelected(option int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = &option
}

// Phase returns the label extracted from the latest snapshot, lobby if none
// has been observed yet.
func (s *Session) Phase() domain.Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return domain.PhaseLobby
	}
	return s.last.State
}

// Reset drops the snapshot and ledger, e.g. when returning to the join
// screen after closing the connection.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = nil
	s.scores = nil
	s.selected = nil
}
