package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/hupe1980/cvmesh/core"
)

// ErrNotFound is returned when no snapshot exists for a session id.
var ErrNotFound = errors.New("session not found")

// InMemoryStore is a volatile SessionStore implementation storing
// snapshots in a process local map. It is safe for concurrent access and best
// suited for tests or single-run CLIs. Bodies are copied on the way in and
// out to prevent external mutation of internal state.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]core.SessionSnapshot
	now      func() time.Time
}

// NewInMemoryStore constructs an empty in‑memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]core.SessionSnapshot), now: time.Now}
}

// Save stores a copy of the snapshot, keeping the first Created timestamp.
func (s *InMemoryStore) Save(_ context.Context, snap core.SessionSnapshot) (string, error) {
	if snap.ID == "" {
		return "", fmt.Errorf("session: empty id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snap = stamp(snap, s.sessions[snap.ID], s.now())
	snap.Body = slices.Clone(snap.Body)
	s.sessions[snap.ID] = snap
	return "memory://sessions/" + snap.ID, nil
}

// Get returns a copy of the stored snapshot.
func (s *InMemoryStore) Get(_ context.Context, id string) (core.SessionSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.sessions[id]
	if !ok {
		return core.SessionSnapshot{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	snap.Body = slices.Clone(snap.Body)
	return snap, nil
}

// List returns the sorted ids of all stored sessions.
func (s *InMemoryStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// stamp fills Created / Updated; prev is the zero value for new sessions.
func stamp(snap, prev core.SessionSnapshot, now time.Time) core.SessionSnapshot {
	switch {
	case !prev.Created.IsZero():
		snap.Created = prev.Created
	case snap.Created.IsZero():
		snap.Created = now
	}
	snap.Updated = now
	return snap
}
