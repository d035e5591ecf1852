package artifact

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// InMemoryStore is a trivial in‑process ArtifactStore implementation useful
// for tests, examples and single‑process runs. It keeps all artifacts in
// a nested map guarded by an RWMutex. Data is copied on save / retrieval to
// avoid accidental external mutation of internal buffers.
//
// Layout: owner -> name -> raw bytes
type InMemoryStore struct {
	mu        sync.RWMutex
	artifacts map[string]map[string][]byte
}

// NewInMemoryStore returns an empty in‑memory artifact store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{artifacts: make(map[string]map[string][]byte)}
}

// Save stores (or overwrites) the artifact bytes for the given owner and name.
// The input slice is copied before storage.
func (a *InMemoryStore) Save(_ context.Context, owner, name string, data []byte) (string, error) {
	if err := validateName(owner, name); err != nil {
		return "", err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.artifacts[owner]; !exists {
		a.artifacts[owner] = make(map[string][]byte)
	}
	a.artifacts[owner][name] = slices.Clone(data)
	return URI(owner, name), nil
}

// Get returns a copy of the stored artifact bytes or ErrNotFound.
func (a *InMemoryStore) Get(_ context.Context, owner, name string) ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	data, ok := a.artifacts[owner][name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, URI(owner, name))
	}
	return slices.Clone(data), nil
}

// List returns the sorted artifact names stored for the owner.
func (a *InMemoryStore) List(_ context.Context, owner string) ([]string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	names := make([]string, 0, len(a.artifacts[owner]))
	for name := range a.artifacts[owner] {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// Delete removes the artifact if present or returns ErrNotFound.
func (a *InMemoryStore) Delete(_ context.Context, owner, name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	m, ok := a.artifacts[owner]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, URI(owner, name))
	}
	if _, ok := m[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, URI(owner, name))
	}
	delete(m, name)
	return nil
}
