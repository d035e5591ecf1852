// Package testutil contains scripted fake capability units used by tests
// that exercise the orchestrator and the composition root. They are not
// intended for production usage.
package testutil
