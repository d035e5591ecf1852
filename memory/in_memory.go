package memory

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"unicode"

	"github.com/hupe1980/cvmesh/core"
)

// ErrNotFound is returned by Get when a namespace holds no document for a key.
var ErrNotFound = errors.New("memory not found")

type entry struct {
	ID       string
	Content  string
	Tokens   map[string]struct{}
	Metadata map[string]any
}

// InMemoryStore is a process‑local MemoryStore. It offers:
//  1. Namespaced key/document storage (Put / Get / Keys)
//  2. An indexed text corpus per namespace with token overlap Search
//
// Concurrency: protected by RWMutex.
// Search: the score is the fraction of distinct query tokens found in the
// indexed content. Results with score 0 are dropped. Suitable for tests and
// small corpora; swap for a vector index for semantic retrieval.
type InMemoryStore struct {
	mu    sync.RWMutex
	docs  map[string]map[string]map[string]any // namespace -> key -> doc
	index map[string]map[string]entry          // namespace -> id -> entry
}

// NewInMemoryStore creates a new in-memory memory store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		docs:  make(map[string]map[string]map[string]any),
		index: make(map[string]map[string]entry),
	}
}

// Put stores a shallow copy of doc under namespace/key, replacing any
// previous document.
func (m *InMemoryStore) Put(_ context.Context, namespace, key string, doc map[string]any) error {
	if key == "" {
		return fmt.Errorf("memory: empty key")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ns, ok := m.docs[namespace]
	if !ok {
		ns = make(map[string]map[string]any)
		m.docs[namespace] = ns
	}
	ns[key] = maps.Clone(doc)
	return nil
}

// Get returns a shallow copy of the stored document.
func (m *InMemoryStore) Get(_ context.Context, namespace, key string) (map[string]any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[namespace][key]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, namespace, key)
	}
	return maps.Clone(doc), nil
}

// Keys lists the document keys of a namespace in sorted order.
func (m *InMemoryStore) Keys(_ context.Context, namespace string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.docs[namespace])), nil
}

// Index adds or replaces a searchable entry.
func (m *InMemoryStore) Index(_ context.Context, namespace, id, content string, metadata map[string]any) error {
	if id == "" {
		return fmt.Errorf("memory: empty id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ns, ok := m.index[namespace]
	if !ok {
		ns = make(map[string]entry)
		m.index[namespace] = ns
	}
	ns[id] = entry{ID: id, Content: content, Tokens: tokenSet(content), Metadata: maps.Clone(metadata)}
	return nil
}

// Search ranks indexed entries by token overlap with query. An empty query
// matches everything with score 1. Ties are broken by id. limit <= 0 means no
// limit.
func (m *InMemoryStore) Search(_ context.Context, namespace, query string, limit int) ([]core.SearchResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	q := tokenSet(query)
	results := make([]core.SearchResult, 0)
	for _, e := range m.index[namespace] {
		score := 1.0
		if len(q) > 0 {
			hits := 0
			for tok := range q {
				if _, ok := e.Tokens[tok]; ok {
					hits++
				}
			}
			score = float64(hits) / float64(len(q))
		}
		if score == 0 {
			continue
		}
		results = append(results, core.SearchResult{ID: e.ID, Content: e.Content, Score: score, Metadata: maps.Clone(e.Metadata)})
	}

	slices.SortFunc(results, func(a, b core.SearchResult) int {
		if a.Score != b.Score {
			if a.Score > b.Score {
				return -1
			}
			return 1
		}
		return strings.Compare(a.ID, b.ID)
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, f := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	}) {
		set[f] = struct{}{}
	}
	return set
}
