// Package domain holds the payload types exchanged between the CV units:
// the JSON Resume shaped Resume, job requirements, gap analysis results and
// the well-known unit, action and parameter names.
//
// Units pass these values inside core.Params and core.Data. Decode and
// DecodeData accept either the typed value or its JSON-shaped map form so a
// handler works the same for in-process callers and for payloads that went
// through encoding/json.
package domain
