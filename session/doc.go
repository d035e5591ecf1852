// Package session houses concrete implementations of core.SessionStore.
// The interface itself lives in the core package so that units depend only
// on the contract; the composition root decides which implementation to
// instantiate.
package session
