package core

import "context"

// ArtifactStore defines the interface for artifact persistence. Artifacts are
// scoped by owner (typically the user id). Save returns a URI that locates
// the stored bytes.
type ArtifactStore interface {
	Save(ctx context.Context, owner, name string, data []byte) (string, error)
	Get(ctx context.Context, owner, name string) ([]byte, error)
	List(ctx context.Context, owner string) ([]string, error)
	Delete(ctx context.Context, owner, name string) error
}
