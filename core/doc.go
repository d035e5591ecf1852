// Package core provides the call contract shared by every capability unit in
// cvmesh. It defines:
//
//   - Envelope / Result (the request/response pair of one cross-unit call)
//   - Params / Data (argument and payload mappings) with typed accessors
//   - Handler / Action (entries of a unit's dispatch table)
//   - Agent (the read-only view one unit holds of a peer)
//   - Pluggable stores for session records, artifacts and searchable memory
//
// The package keeps implementation concerns (dispatch, orchestration,
// persistence) out of scope so that higher level packages depend only on
// small interfaces.
package core
