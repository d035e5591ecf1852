// Package memory contains concrete MemoryStore implementations. The store
// interface and SearchResult type reside in the core package; depend on
// core.MemoryStore and pick an implementation at wiring time.
package memory
