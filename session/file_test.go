package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hupe1980/cvmesh/core"
)

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := store.Save(ctx, core.SessionSnapshot{ID: "session_1", Body: []byte(`{"status":"in_progress"}`)}); err != nil {
		t.Fatal(err)
	}
	first, err := store.Get(ctx, "session_1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Save(ctx, core.SessionSnapshot{ID: "session_1", Body: []byte(`{"status":"completed"}`)}); err != nil {
		t.Fatal(err)
	}
	second, err := store.Get(ctx, "session_1")
	if err != nil {
		t.Fatal(err)
	}

	if !first.Created.Equal(second.Created) {
		t.Fatalf("created changed: %v -> %v", first.Created, second.Created)
	}
	var body map[string]string
	if err := json.Unmarshal(second.Body, &body); err != nil || body["status"] != "completed" {
		t.Fatalf("unexpected body %s (%v)", second.Body, err)
	}

	ids, err := store.List(ctx)
	if err != nil || len(ids) != 1 || ids[0] != "session_1" {
		t.Fatalf("list: %v %v", ids, err)
	}
}

func TestFileStore_Errors(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.Save(ctx, core.SessionSnapshot{ID: "../x", Body: []byte(`{}`)}); err == nil {
		t.Fatal("expected invalid id error")
	}
	if _, err := store.Save(ctx, core.SessionSnapshot{ID: "x", Body: []byte(`not json`)}); err == nil {
		t.Fatal("expected invalid body error")
	}
}
