// Package storage implements the knowledge_storage unit. Profiles live in a
// core.MemoryStore namespace and are indexed for similarity search; session
// records are persisted as JSON snapshots in a core.SessionStore.
package storage
