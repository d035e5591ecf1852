package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/cvmesh/core"
)

// FileStore persists each snapshot as <dir>/<id>.json.
type FileStore struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("session: create %s: %w", dir, err)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

type fileRecord struct {
	ID      string          `json:"id"`
	Created time.Time       `json:"created_at"`
	Updated time.Time       `json:"updated_at"`
	Session json.RawMessage `json:"session"`
}

func (s *FileStore) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("session: invalid id %q", id)
	}
	return filepath.Join(s.dir, id+".json"), nil
}

// Save writes the snapshot, keeping the Created timestamp of an existing file.
// Body must hold valid JSON.
func (s *FileStore) Save(ctx context.Context, snap core.SessionSnapshot) (string, error) {
	path, err := s.path(snap.ID)
	if err != nil {
		return "", err
	}
	if !json.Valid(snap.Body) {
		return "", fmt.Errorf("session: body of %s is not valid JSON", snap.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.read(path)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return "", err
	}
	snap = stamp(snap, prev, s.now())

	data, err := json.MarshalIndent(fileRecord{
		ID:      snap.ID,
		Created: snap.Created,
		Updated: snap.Updated,
		Session: snap.Body,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("session: encode %s: %w", snap.ID, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("session: write %s: %w", path, err)
	}
	return path, nil
}

// Get reads a stored snapshot.
func (s *FileStore) Get(_ context.Context, id string) (core.SessionSnapshot, error) {
	path, err := s.path(id)
	if err != nil {
		return core.SessionSnapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(path)
}

func (s *FileStore) read(path string) (core.SessionSnapshot, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return core.SessionSnapshot{}, fmt.Errorf("%w: %s", ErrNotFound, filepath.Base(path))
	}
	if err != nil {
		return core.SessionSnapshot{}, fmt.Errorf("session: read %s: %w", path, err)
	}
	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return core.SessionSnapshot{}, fmt.Errorf("session: decode %s: %w", path, err)
	}
	return core.SessionSnapshot{ID: rec.ID, Body: rec.Session, Created: rec.Created, Updated: rec.Updated}, nil
}

// List returns the sorted ids of all stored sessions.
func (s *FileStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("session: list %s: %w", s.dir, err)
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".json"); ok && !e.IsDir() {
			ids = append(ids, name)
		}
	}
	slices.Sort(ids)
	return ids, nil
}
