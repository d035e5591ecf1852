package generation

import (
	"cmp"
	"slices"
	"strings"
	"unicode"

	"github.com/hupe1980/cvmesh/domain"
)

// DefaultTemplate is used when no title keyword matches.
const DefaultTemplate = "professional"

type templateRule struct {
	name     string
	keywords []string
}

// templateRules are checked in order; the first keyword hit wins.
var templateRules = []templateRule{
	{"executive", []string{"executive", "director", "vp", "vice president", "ceo", "cto", "cfo", "chief"}},
	{"engineering", []string{"engineer", "developer", "programmer", "software", "backend", "frontend", "fullstack", "devops", "sre"}},
	{"management", []string{"manager", "lead", "head of", "supervisor", "coordinator"}},
	{"design", []string{"designer", "ux", "ui", "creative", "artist", "graphic"}},
	{"data", []string{"data scientist", "data analyst", "data engineer", "ml engineer", "machine learning"}},
	{"marketing", []string{"marketing", "growth", "seo", "content", "brand", "digital marketing"}},
	{"sales", []string{"sales", "account executive", "business development", "account manager"}},
	{"finance", []string{"accountant", "financial analyst", "finance", "auditor", "controller"}},
	{"operations", []string{"operations", "logistics", "supply chain", "operations manager"}},
	{"hr", []string{"hr", "human resources", "recruiter", "talent acquisition"}},
	{"consulting", []string{"consultant", "advisor", "analyst", "strategist"}},
}

// SelectTemplate maps a job title to a layout name.
func SelectTemplate(title string) string {
	text := " " + normalize(title) + " "
	for _, rule := range templateRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, " "+kw+" ") {
				return rule.name
			}
		}
	}
	return DefaultTemplate
}

func normalize(s string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}), " ")
}

// Tailor returns a copy of cv with skill groups and keywords that the job
// asks for moved to the front. Order among equally relevant entries is kept.
func Tailor(cv domain.Resume, job domain.JobRequirements) domain.Resume {
	out := cv.Clone()
	wanted := make(map[string]struct{})
	for _, kw := range job.Keywords() {
		wanted[strings.ToLower(kw)] = struct{}{}
	}
	if len(wanted) == 0 {
		return out
	}

	relevant := func(kw string) bool {
		_, ok := wanted[strings.ToLower(kw)]
		return ok
	}
	hits := func(s domain.Skill) int {
		n := 0
		for _, kw := range s.Keywords {
			if relevant(kw) {
				n++
			}
		}
		return n
	}

	for i := range out.Skills {
		slices.SortStableFunc(out.Skills[i].Keywords, func(a, b string) int {
			return cmp.Compare(rank(relevant(a)), rank(relevant(b)))
		})
	}
	slices.SortStableFunc(out.Skills, func(a, b domain.Skill) int {
		return cmp.Compare(hits(b), hits(a))
	})
	return out
}

func rank(ok bool) int {
	if ok {
		return 0
	}
	return 1
}
