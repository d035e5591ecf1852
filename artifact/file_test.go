package artifact

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	uri, err := store.Save(ctx, "user_1", "cv.json", []byte(`{"a":1}`))
	if err != nil {
		t.Fatal(err)
	}
	if uri != filepath.Join(dir, "user_1", "cv.json") {
		t.Fatalf("unexpected uri %q", uri)
	}

	data, err := store.Get(ctx, "user_1", "cv.json")
	if err != nil || string(data) != `{"a":1}` {
		t.Fatalf("get: %q %v", data, err)
	}

	names, err := store.List(ctx, "user_1")
	if err != nil || len(names) != 1 || names[0] != "cv.json" {
		t.Fatalf("list: %v %v", names, err)
	}

	if err := store.Delete(ctx, "user_1", "cv.json"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(ctx, "user_1", "cv.json"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if names, _ := store.List(ctx, "missing"); len(names) != 0 {
		t.Fatalf("expected empty list, got %v", names)
	}
}
