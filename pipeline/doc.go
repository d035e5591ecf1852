// Package pipeline contains the orchestrator unit. It drives one CV
// enhancement run through a fixed sequence of collaborator calls:
//
//	ingest -> analyze -> (interact | skip) -> store -> generate -> done
//
// Ingestion, analysis and generation are fail-fast. Interaction and both
// storage calls degrade: a failure is logged and the run continues with the
// last known good values. Progress is kept in a SessionRecord whose payload
// is a closed set of State types, so a field only exists once the stage that
// produces it has committed.
package pipeline
