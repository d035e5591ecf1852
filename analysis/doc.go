// Package analysis implements the job_understanding unit. It turns a job
// posting (raw text or a URL) into domain.JobRequirements and compares a CV
// against them, producing a prioritized gap analysis with a questionnaire.
//
// Requirement extraction is pluggable: KeywordExtractor scans the posting for
// a known vocabulary and needs no external service; ModelExtractor asks a
// language model for a structured reading of the posting.
package analysis
