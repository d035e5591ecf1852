// Package artifact provides core.ArtifactStore implementations used by the
// generation unit to keep rendered outputs: a process-local InMemoryStore and
// a directory backed FileStore.
package artifact
