package domain

import "slices"

// Priority ranks a gap.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Rank orders priorities from critical (0) to low (3). Unknown values rank
// as low.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	default:
		return 3
	}
}

// Urgent reports whether the priority demands user interaction.
func (p Priority) Urgent() bool { return p == PriorityCritical || p == PriorityHigh }

// Gap categories.
const (
	CategorySkill         = "skill"
	CategoryExperience    = "experience"
	CategoryEducation     = "education"
	CategoryCertification = "certification"
	CategorySummary       = "summary"
)

// Gap is a detected mismatch between a CV and a job requirement.
type Gap struct {
	ID          string   `json:"id"`
	Category    string   `json:"category"`
	Priority    Priority `json:"priority"`
	Description string   `json:"description"`
	RequiredBy  string   `json:"required_by,omitempty"`
	Addressable bool     `json:"addressable"`
}

// Match is a requirement the CV already demonstrates.
type Match struct {
	Category    string  `json:"category"`
	Requirement string  `json:"requirement"`
	Evidence    string  `json:"evidence"`
	MatchScore  float64 `json:"match_score"`
}

type Recommendation struct {
	Type        string   `json:"type"` // highlight, reorder, expand, add
	Description string   `json:"description"`
	Section     string   `json:"section"`
	Priority    Priority `json:"priority"`
}

// Question asks the user about one gap.
type Question struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	GapID    string   `json:"gap_id"`
	Type     string   `json:"type"`
	Priority Priority `json:"priority"`
	Answered bool     `json:"answered"`
	Answer   string   `json:"answer,omitempty"`
}

type Questionnaire struct {
	Questions     []Question `json:"questions"`
	EstimatedTime int        `json:"estimated_time"` // minutes
}

// Requirement is one must-have or nice-to-have item of a job posting.
type Requirement struct {
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

// JobRequirements is the structured form of a job posting.
type JobRequirements struct {
	Title          string        `json:"title"`
	Company        string        `json:"company,omitempty"`
	Description    string        `json:"description,omitempty"`
	MustHave       []Requirement `json:"must_have"`
	NiceToHave     []Requirement `json:"nice_to_have"`
	YearsMin       int           `json:"years_min,omitempty"`
	Level          string        `json:"level,omitempty"`
	EmploymentType string        `json:"employment_type,omitempty"`
}

// Keywords returns every requirement keyword, must-haves first.
func (j JobRequirements) Keywords() []string {
	var out []string
	for _, r := range slices.Concat(j.MustHave, j.NiceToHave) {
		out = append(out, r.Keywords...)
	}
	return out
}

// GapAnalysis is the result of comparing a CV against a job posting.
type GapAnalysis struct {
	HasGaps         bool             `json:"has_gaps"`
	OverallMatch    float64          `json:"overall_match"`
	Gaps            []Gap            `json:"gaps"`
	Matches         []Match          `json:"matches"`
	Recommendations []Recommendation `json:"recommendations"`
	Questionnaire   Questionnaire    `json:"questionnaire"`
	JobData         JobRequirements  `json:"job_data"`
}

// NeedsInteraction reports whether at least one gap is critical or high.
func (g GapAnalysis) NeedsInteraction() bool {
	return slices.ContainsFunc(g.Gaps, func(gap Gap) bool { return gap.Priority.Urgent() })
}

// UrgentGaps returns the critical and high gaps.
func (g GapAnalysis) UrgentGaps() []Gap {
	var out []Gap
	for _, gap := range g.Gaps {
		if gap.Priority.Urgent() {
			out = append(out, gap)
		}
	}
	return out
}
