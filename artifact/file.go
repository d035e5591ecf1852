package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// URI returns the location string reported for a stored artifact.
func URI(owner, name string) string {
	return fmt.Sprintf("artifact://%s/%s", owner, name)
}

func validateName(owner, name string) error {
	for _, part := range []string{owner, name} {
		if part == "" || part == "." || part == ".." || strings.ContainsAny(part, `/\`) {
			return fmt.Errorf("%w: %q/%q", ErrInvalidName, owner, name)
		}
	}
	return nil
}

// FileStore keeps artifacts as files under <dir>/<owner>/<name>.
type FileStore struct {
	dir string
}

// NewFileStore creates the base directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("artifact: create %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Save writes the artifact and returns its file path as URI.
func (s *FileStore) Save(_ context.Context, owner, name string, data []byte) (string, error) {
	if err := validateName(owner, name); err != nil {
		return "", err
	}
	ownerDir := filepath.Join(s.dir, owner)
	if err := os.MkdirAll(ownerDir, 0o755); err != nil {
		return "", fmt.Errorf("artifact: create %s: %w", ownerDir, err)
	}
	path := filepath.Join(ownerDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("artifact: write %s: %w", path, err)
	}
	return path, nil
}

// Get reads an artifact or returns ErrNotFound.
func (s *FileStore) Get(_ context.Context, owner, name string) ([]byte, error) {
	if err := validateName(owner, name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, owner, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, URI(owner, name))
	}
	if err != nil {
		return nil, fmt.Errorf("artifact: read %s: %w", URI(owner, name), err)
	}
	return data, nil
}

// List returns the sorted artifact names of an owner.
func (s *FileStore) List(_ context.Context, owner string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, owner))
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("artifact: list %s: %w", owner, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

// Delete removes an artifact or returns ErrNotFound.
func (s *FileStore) Delete(_ context.Context, owner, name string) error {
	if err := validateName(owner, name); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.dir, owner, name))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, URI(owner, name))
	}
	return err
}
