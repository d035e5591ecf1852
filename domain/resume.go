package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Resume is a JSON Resume shaped CV.
type Resume struct {
	Basics       Basics        `json:"basics"`
	Work         []Work        `json:"work"`
	Education    []Education   `json:"education"`
	Skills       []Skill       `json:"skills"`
	Projects     []Project     `json:"projects"`
	Certificates []Certificate `json:"certificates"`
}

type Basics struct {
	Name     string    `json:"name,omitempty"`
	Label    string    `json:"label,omitempty"`
	Email    string    `json:"email,omitempty"`
	Phone    string    `json:"phone,omitempty"`
	URL      string    `json:"url,omitempty"`
	Summary  string    `json:"summary,omitempty"`
	Location Location  `json:"location"`
	Profiles []Profile `json:"profiles,omitempty"`
}

type Location struct {
	Address string `json:"address,omitempty"`
}

type Profile struct {
	Network string `json:"network"`
	URL     string `json:"url"`
}

type Work struct {
	Company    string   `json:"company,omitempty"`
	Position   string   `json:"position,omitempty"`
	StartDate  string   `json:"startDate,omitempty"`
	EndDate    string   `json:"endDate,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	Highlights []string `json:"highlights,omitempty"`
}

type Education struct {
	Institution string `json:"institution,omitempty"`
	Area        string `json:"area,omitempty"`
	StudyType   string `json:"studyType,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	GPA         string `json:"gpa,omitempty"`
}

// Skill is a named group of keywords.
type Skill struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

type Project struct {
	Name        string   `json:"name"`
	Description []string `json:"description,omitempty"`
}

type Certificate struct {
	Name    string   `json:"name"`
	Details []string `json:"details,omitempty"`
}

// Clone returns a deep copy.
func (r Resume) Clone() Resume {
	out := r
	out.Basics.Profiles = slices.Clone(r.Basics.Profiles)
	out.Work = cloneEach(r.Work, func(w Work) Work {
		w.Highlights = slices.Clone(w.Highlights)
		return w
	})
	out.Education = slices.Clone(r.Education)
	out.Skills = cloneEach(r.Skills, func(s Skill) Skill {
		s.Keywords = slices.Clone(s.Keywords)
		return s
	})
	out.Projects = cloneEach(r.Projects, func(p Project) Project {
		p.Description = slices.Clone(p.Description)
		return p
	})
	out.Certificates = cloneEach(r.Certificates, func(c Certificate) Certificate {
		c.Details = slices.Clone(c.Details)
		return c
	})
	return out
}

// cloneEach keeps nil slices nil.
func cloneEach[T any](in []T, fn func(T) T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}

// SkillKeywords returns every skill keyword, lower-cased and de-duplicated,
// in first-seen order.
func (r Resume) SkillKeywords() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, s := range r.Skills {
		for _, k := range s.Keywords {
			k = strings.ToLower(strings.TrimSpace(k))
			if k == "" {
				continue
			}
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	return out
}

// Text flattens the resume into plain text for indexing and matching.
func (r Resume) Text() string {
	var parts []string
	add := func(format string, args ...any) { parts = append(parts, fmt.Sprintf(format, args...)) }

	if r.Basics.Name != "" {
		add("Name: %s", r.Basics.Name)
	}
	if r.Basics.Label != "" {
		add("Title: %s", r.Basics.Label)
	}
	if r.Basics.Summary != "" {
		add("Summary: %s", r.Basics.Summary)
	}
	for _, w := range r.Work {
		add("Position: %s at %s", w.Position, w.Company)
		if w.Summary != "" {
			parts = append(parts, w.Summary)
		}
		parts = append(parts, w.Highlights...)
	}
	for _, e := range r.Education {
		add("Education: %s in %s from %s", e.StudyType, e.Area, e.Institution)
	}
	for _, s := range r.Skills {
		add("Skills: %s: %s", s.Name, strings.Join(s.Keywords, ", "))
	}
	for _, p := range r.Projects {
		add("Project: %s %s", p.Name, strings.Join(p.Description, " "))
	}
	for _, c := range r.Certificates {
		add("Certificate: %s", c.Name)
	}
	return strings.Join(parts, "\n")
}
