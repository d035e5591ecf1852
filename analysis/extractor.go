package analysis

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hupe1980/cvmesh/domain"
	"github.com/hupe1980/cvmesh/model"
	"github.com/tidwall/gjson"
)

// RequirementExtractor reads structured requirements out of a posting.
type RequirementExtractor interface {
	Extract(ctx context.Context, posting string) (domain.JobRequirements, error)
}

// KeywordExtractor finds vocabulary terms in a posting. Terms are must-have
// unless they appear in a nice-to-have block or on a line with a
// preference cue.
type KeywordExtractor struct {
	Vocabulary []string
}

// NewKeywordExtractor uses DefaultVocabulary when vocabulary is empty.
func NewKeywordExtractor(vocabulary ...string) *KeywordExtractor {
	if len(vocabulary) == 0 {
		vocabulary = DefaultVocabulary
	}
	return &KeywordExtractor{Vocabulary: vocabulary}
}

var (
	niceCues = []string{"nice to have", "nice-to-have", "preferred", "bonus", "a plus", "desirable", "good to have"}
	mustCues = []string{"requirements", "required", "must have", "must-have", "qualifications", "what you bring", "you have"}
	yearsRe  = regexp.MustCompile(`(\d+)\+?\s*(?:years|yrs)`)
	levels   = []string{"principal", "staff", "lead", "senior", "mid", "junior", "entry"}
)

func hasAny(s string, cues []string) bool {
	for _, c := range cues {
		if strings.Contains(s, c) {
			return true
		}
	}
	return false
}

// Extract implements RequirementExtractor.
func (k *KeywordExtractor) Extract(_ context.Context, posting string) (domain.JobRequirements, error) {
	if strings.TrimSpace(posting) == "" {
		return domain.JobRequirements{}, errors.New("empty job description")
	}
	job := domain.JobRequirements{MustHave: []domain.Requirement{}, NiceToHave: []domain.Requirement{}}

	seen := make(map[string]bool)
	nice := false
	for _, line := range strings.Split(posting, "\n") {
		trimmed := strings.TrimSpace(strings.TrimLeft(line, "#*-• "))
		if trimmed == "" {
			continue
		}
		if job.Title == "" {
			job.Title = strings.TrimSpace(strings.TrimPrefix(trimmed, "Job Title:"))
			continue
		}
		lower := strings.ToLower(trimmed)
		lineNice := hasAny(lower, niceCues)
		switch {
		case lineNice && len(findTerms(lower, k.Vocabulary)) == 0:
			nice = true
		case hasAny(lower, mustCues) && !lineNice:
			nice = false
		}
		if m := yearsRe.FindStringSubmatch(lower); m != nil && job.YearsMin == 0 {
			job.YearsMin, _ = strconv.Atoi(m[1])
		}

		for _, term := range findTerms(lower, k.Vocabulary) {
			if seen[term] {
				continue
			}
			seen[term] = true
			req := domain.Requirement{Category: domain.CategorySkill, Description: term, Keywords: []string{term}}
			if nice || lineNice {
				job.NiceToHave = append(job.NiceToHave, req)
			} else {
				job.MustHave = append(job.MustHave, req)
			}
		}
	}

	title := strings.ToLower(job.Title)
	for _, l := range levels {
		if containsTerm(title, l) {
			job.Level = l
			break
		}
	}
	return job, nil
}

// ModelExtractor asks a language model for the requirements.
type ModelExtractor struct {
	Model model.Model
}

const extractInstructions = `You analyze job advertisements. Reply with JSON only:
{"title": "...", "company": "...", "description": "brief summary",
 "must_have": [{"category": "skill|experience|education|certification", "description": "...", "keywords": ["..."]}],
 "nice_to_have": [same shape],
 "years_min": 0, "level": "entry|junior|mid|senior|lead", "employment_type": "..."}
Extract ALL requirements and separate must-have from nice-to-have.`

const maxPostingChars = 3000

// Extract implements RequirementExtractor.
func (m *ModelExtractor) Extract(ctx context.Context, posting string) (domain.JobRequirements, error) {
	if len(posting) > maxPostingChars {
		posting = posting[:maxPostingChars]
	}
	resp, err := m.Model.Generate(ctx, model.Request{
		Instructions: extractInstructions,
		Prompt:       "Job Advertisement:\n" + posting,
	})
	if err != nil {
		return domain.JobRequirements{}, fmt.Errorf("extract requirements: %w", err)
	}
	js, ok := model.ExtractJSON(resp.Text)
	if !ok {
		return domain.JobRequirements{}, errors.New("extract requirements: reply holds no JSON object")
	}
	return parseRequirements(gjson.Parse(js)), nil
}

// parseRequirements reads both the snake_case shape requested above and the
// camelCase requirements.mustHave shape some models fall back to.
func parseRequirements(doc gjson.Result) domain.JobRequirements {
	first := func(paths ...string) gjson.Result {
		for _, p := range paths {
			if r := doc.Get(p); r.Exists() {
				return r
			}
		}
		return gjson.Result{}
	}
	reqs := func(r gjson.Result) []domain.Requirement {
		out := []domain.Requirement{}
		for _, item := range r.Array() {
			if item.Type == gjson.String {
				s := strings.ToLower(item.String())
				out = append(out, domain.Requirement{Category: domain.CategorySkill, Description: item.String(), Keywords: []string{s}})
				continue
			}
			req := domain.Requirement{
				Category:    item.Get("category").String(),
				Description: item.Get("description").String(),
			}
			if req.Category == "" {
				req.Category = domain.CategorySkill
			}
			for _, kw := range item.Get("keywords").Array() {
				req.Keywords = append(req.Keywords, strings.ToLower(kw.String()))
			}
			if len(req.Keywords) == 0 && req.Description != "" {
				req.Keywords = []string{strings.ToLower(req.Description)}
			}
			out = append(out, req)
		}
		return out
	}

	company := first("company.name", "company")
	return domain.JobRequirements{
		Title:          doc.Get("title").String(),
		Company:        company.String(),
		Description:    doc.Get("description").String(),
		MustHave:       reqs(first("must_have", "requirements.mustHave")),
		NiceToHave:     reqs(first("nice_to_have", "requirements.niceToHave")),
		YearsMin:       int(first("years_min", "experience.yearsMin").Int()),
		Level:          strings.ToLower(first("level", "experience.level").String()),
		EmploymentType: first("employment_type", "employmentType").String(),
	}
}

// FallbackExtractor uses Primary and retries with Secondary when Primary
// fails, e.g. a model extractor backed by keyword matching.
type FallbackExtractor struct {
	Primary   RequirementExtractor
	Secondary RequirementExtractor
}

// Extract implements RequirementExtractor.
func (f *FallbackExtractor) Extract(ctx context.Context, posting string) (domain.JobRequirements, error) {
	job, err := f.Primary.Extract(ctx, posting)
	if err == nil {
		return job, nil
	}
	if ctx.Err() != nil {
		return domain.JobRequirements{}, err
	}
	return f.Secondary.Extract(ctx, posting)
}
