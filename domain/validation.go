package domain

// Validation reports how complete a parsed CV is.
type Validation struct {
	IsValid           bool     `json:"is_valid"`
	CompletenessScore float64  `json:"completeness_score"`
	MissingFields     []string `json:"missing_fields"`
	TotalChecks       int      `json:"total_checks"`
	PassedChecks      int      `json:"passed_checks"`
}

// Validate scores r over ten checks. Name, email and the work, education
// and skills sections are required; phone, projects and certificates add to
// the score only. The score is capped at the number of checks. A CV passing
// at least half the checks is valid.
func Validate(r Resume) Validation {
	const total = 10
	score := 0
	missing := []string{}

	check := func(ok bool, weight int, field string) {
		if ok {
			score += weight
		} else if field != "" {
			missing = append(missing, field)
		}
	}
	check(r.Basics.Name != "", 1, "basics.name")
	check(r.Basics.Email != "", 1, "basics.email")
	check(len(r.Work) > 0, 2, "work")
	check(len(r.Education) > 0, 2, "education")
	check(len(r.Skills) > 0, 2, "skills")
	check(r.Basics.Phone != "", 1, "")
	check(len(r.Projects) > 0, 1, "")
	check(len(r.Certificates) > 0, 1, "")

	score = min(score, total)

	return Validation{
		IsValid:           score >= total/2,
		CompletenessScore: float64(score) / total * 100,
		MissingFields:     missing,
		TotalChecks:       total,
		PassedChecks:      score,
	}
}
