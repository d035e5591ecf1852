// Package logging provides a minimal logging interface and adapters for cvmesh.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that capability units and the orchestrator use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", os.Stderr)
//	mesh := cvmesh.New(func(o *cvmesh.Options) { o.Logger = logger })
package logging
