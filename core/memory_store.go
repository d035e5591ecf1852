package core

import "context"

// MemoryStore keeps keyed documents per namespace plus a searchable text
// index. Implementations can back search with embeddings, keywords or any
// heuristic.
type MemoryStore interface {
	Put(ctx context.Context, namespace, key string, doc map[string]any) error
	Get(ctx context.Context, namespace, key string) (map[string]any, error)
	Keys(ctx context.Context, namespace string) ([]string, error)
	Index(ctx context.Context, namespace, id, content string, metadata map[string]any) error
	Search(ctx context.Context, namespace, query string, limit int) ([]SearchResult, error)
}
