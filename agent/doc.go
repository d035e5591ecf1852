// Package agent contains the capability unit used by every participant of a
// cvmesh pipeline. The package focuses on three concerns:
//
//  1. Dispatch: each Unit owns a table from action name to core.Handler built
//     at construction time; peers are called by name through that table.
//  2. Containment: Invoke wraps every call in an envelope, recovers panics and
//     turns all failures into a core.Result instead of an error or unwind.
//  3. Wiring: RegisterPeer and Connect build the peer tables once at startup.
//
// Execution Model:
//   - Invoke blocks until the handler returns; the caller's context (plus an
//     optional per-call timeout) is passed to the handler.
//   - The peer table is written at assembly and read concurrently afterwards.
package agent
