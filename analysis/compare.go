package analysis

import (
	"fmt"
	"strings"

	"github.com/hupe1980/cvmesh/domain"
)

// Compare scores a CV against job requirements.
//
// Gap priorities: a missing must-have is high, a CV without work history is
// critical, a missing nice-to-have is medium and a missing summary is low.
// OverallMatch is the share of requirements the CV demonstrates, in percent.
func Compare(cv domain.Resume, job domain.JobRequirements) domain.GapAnalysis {
	skills := make(map[string]bool)
	for _, k := range cv.SkillKeywords() {
		skills[k] = true
		if term, ok := aliases[k]; ok {
			skills[term] = true
		}
	}
	text := strings.ToLower(cv.Text())

	evidence := func(req domain.Requirement) (string, bool) {
		for _, kw := range req.Keywords {
			kw = strings.ToLower(kw)
			if skills[kw] {
				return "skills", true
			}
			if containsTerm(text, kw) {
				return "experience", true
			}
		}
		return "", false
	}

	ga := domain.GapAnalysis{
		Gaps:            []domain.Gap{},
		Matches:         []domain.Match{},
		Recommendations: []domain.Recommendation{},
		JobData:         job,
	}
	addGap := func(category string, p domain.Priority, desc, requiredBy string, addressable bool) {
		ga.Gaps = append(ga.Gaps, domain.Gap{
			ID:          fmt.Sprintf("gap_%d", len(ga.Gaps)+1),
			Category:    category,
			Priority:    p,
			Description: desc,
			RequiredBy:  requiredBy,
			Addressable: addressable,
		})
	}

	matched, total := 0, 0
	check := func(reqs []domain.Requirement, kind string, missing domain.Priority) {
		for _, req := range reqs {
			total++
			if where, ok := evidence(req); ok {
				matched++
				ga.Matches = append(ga.Matches, domain.Match{
					Category:    req.Category,
					Requirement: req.Description,
					Evidence:    where,
					MatchScore:  1,
				})
				continue
			}
			addGap(req.Category, missing, req.Description, kind+": "+req.Description, true)
		}
	}
	check(job.MustHave, "must-have", domain.PriorityHigh)

	if len(cv.Work) == 0 {
		addGap(domain.CategoryExperience, domain.PriorityCritical, "professional work experience", "work history", true)
	}

	check(job.NiceToHave, "nice-to-have", domain.PriorityMedium)

	if strings.TrimSpace(cv.Basics.Summary) == "" {
		addGap(domain.CategorySummary, domain.PriorityLow, "professional summary", "CV completeness", true)
	}

	ga.OverallMatch = 100
	if total > 0 {
		ga.OverallMatch = float64(matched) / float64(total) * 100
	}
	ga.HasGaps = len(ga.Gaps) > 0
	ga.Recommendations = recommend(ga)
	ga.Questionnaire = domain.NewQuestionnaire(ga.Gaps)
	return ga
}

func recommend(ga domain.GapAnalysis) []domain.Recommendation {
	recs := []domain.Recommendation{}
	for _, m := range ga.Matches {
		section := "skills"
		if m.Evidence == "experience" {
			section = "work"
		}
		recs = append(recs, domain.Recommendation{
			Type:        "highlight",
			Description: fmt.Sprintf("Highlight %s early in the %s section", m.Requirement, section),
			Section:     section,
			Priority:    domain.PriorityHigh,
		})
	}
	for _, g := range ga.Gaps {
		switch {
		case g.Category == domain.CategorySummary:
			recs = append(recs, domain.Recommendation{Type: "add", Description: "Add a short professional summary targeted at the role", Section: "basics", Priority: domain.PriorityMedium})
		case g.Priority == domain.PriorityMedium:
			recs = append(recs, domain.Recommendation{Type: "expand", Description: fmt.Sprintf("Mention any exposure to %s", g.Description), Section: "skills", Priority: domain.PriorityLow})
		}
	}
	return recs
}
