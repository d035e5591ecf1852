// Package ingestion implements the cv_ingestion unit. Its parse action reads
// a CV from a file reference and returns it as a domain.Resume together with
// a completeness validation.
//
// Supported inputs are JSON Resume documents (.json) and plain text or
// Markdown CVs (.txt, .md) whose sections are detected from their headings.
// When a model is configured, text CVs are first converted by the model and
// the heading parser is the fallback.
package ingestion
