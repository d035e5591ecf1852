// Package model defines the provider‑agnostic abstraction for the language
// models some units consult (for example to extract structured job
// requirements from a posting).
//
// Providers (OpenAI, Anthropic) implement Model in sub packages so the units
// stay decoupled from vendor SDKs. MockModel serves tests and offline runs.
package model
