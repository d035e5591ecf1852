package core

import (
	"context"
	"time"
)

// SessionSnapshot is a persisted pipeline session record. Body holds the
// JSON encoding of the record so stores stay independent of its Go type.
type SessionSnapshot struct {
	ID      string    `json:"id"`
	Body    []byte    `json:"body"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}

// SessionStore persists session snapshots. Save overwrites by ID and keeps
// the first Created timestamp.
type SessionStore interface {
	Save(ctx context.Context, snap SessionSnapshot) (string, error)
	Get(ctx context.Context, id string) (SessionSnapshot, error)
	List(ctx context.Context) ([]string, error)
}
