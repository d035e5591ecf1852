package interaction

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/hupe1980/cvmesh/agent"
	"github.com/hupe1980/cvmesh/core"
	"github.com/hupe1980/cvmesh/domain"
	"github.com/hupe1980/cvmesh/logging"
)

// Options configures the interaction unit.
type Options struct {
	Logger  logging.Logger
	Answers AnswerSource
}

// Agent is the user_interaction unit.
type Agent struct {
	*agent.Unit
	opts Options
}

// New constructs the interaction unit. Without an AnswerSource nothing is
// asked and the CV comes back unchanged.
func New(optFns ...func(o *Options)) *Agent {
	opts := Options{
		Logger:  logging.NoOpLogger{},
		Answers: NoAnswers{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Answers == nil {
		opts.Answers = NoAnswers{}
	}

	a := &Agent{opts: opts}
	a.Unit = agent.New(domain.UnitInteraction, func(o *agent.Options) {
		o.Description = "Collects missing information through conversational interaction"
		o.Logger = opts.Logger
		o.Actions = []core.Action{
			{Name: domain.ActionCollectInfo, Description: "Ask about critical and high gaps and update the CV", Handler: a.collectInfo},
		}
	})
	return a
}

// Turn is one entry of the conversation log.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	GapID   string `json:"gap_id,omitempty"`
}

// Outcome is the result of one collection round.
type Outcome struct {
	Updated       domain.Resume
	GapsAddressed int
	Conversation  []Turn
}

// Collect asks about every urgent gap and integrates the accepted answers
// into a copy of cv.
func (a *Agent) Collect(ctx context.Context, gaps []domain.Gap, cv domain.Resume) (Outcome, error) {
	out := Outcome{Updated: cv.Clone(), Conversation: []Turn{}}

	urgent := slices.DeleteFunc(slices.Clone(gaps), func(g domain.Gap) bool { return !g.Priority.Urgent() })
	questions := domain.NewQuestionnaire(urgent).Questions
	byID := make(map[string]domain.Gap, len(urgent))
	for _, g := range urgent {
		byID[g.ID] = g
	}

	for _, q := range questions {
		gap := byID[q.GapID]
		out.Conversation = append(out.Conversation, Turn{Role: "assistant", Content: q.Question, GapID: gap.ID})

		answer, ok, err := a.opts.Answers.Answer(ctx, q, gap)
		if err != nil {
			return Outcome{}, fmt.Errorf("collect answer for %s: %w", gap.ID, err)
		}
		if !ok {
			continue
		}
		out.Conversation = append(out.Conversation, Turn{Role: "user", Content: answer, GapID: gap.ID})
		if declined(answer) {
			continue
		}
		integrate(&out.Updated, gap, answer)
		out.GapsAddressed++
	}
	return out, nil
}

func (a *Agent) collectInfo(ctx context.Context, params core.Params) (core.Data, error) {
	cv, err := domain.Decode[domain.Resume](params, domain.KeyStructuredContent)
	if err != nil {
		return nil, err
	}
	gaps := domain.DecodeOr(params, domain.KeyGaps, []domain.Gap{})

	out, err := a.Collect(ctx, gaps, cv)
	if err != nil {
		return nil, err
	}
	a.Logger().Info("collected information", "gaps_addressed", out.GapsAddressed, "total_gaps", len(gaps))

	return core.Data{
		domain.KeyUpdatedContent: out.Updated,
		domain.KeyGapsAddressed:  out.GapsAddressed,
		"total_gaps":             len(gaps),
		"conversation":           out.Conversation,
	}, nil
}

func declined(answer string) bool {
	a := strings.ToLower(strings.TrimSpace(answer))
	switch a {
	case "no", "none", "n/a", "skip", "-":
		return true
	}
	return strings.HasPrefix(a, "no ") || strings.HasPrefix(a, "no,")
}

const additionalSkills = "Additional"

// integrate folds one answer into cv according to the gap category.
func integrate(cv *domain.Resume, gap domain.Gap, answer string) {
	switch gap.Category {
	case domain.CategorySkill:
		i := slices.IndexFunc(cv.Skills, func(s domain.Skill) bool { return s.Name == additionalSkills })
		if i < 0 {
			cv.Skills = append(cv.Skills, domain.Skill{Name: additionalSkills})
			i = len(cv.Skills) - 1
		}
		if !slices.Contains(cv.Skills[i].Keywords, gap.Description) {
			cv.Skills[i].Keywords = append(cv.Skills[i].Keywords, gap.Description)
		}
		if len(cv.Work) > 0 {
			cv.Work[0].Highlights = append(cv.Work[0].Highlights, answer)
		}
	case domain.CategorySummary:
		cv.Basics.Summary = answer
	case domain.CategoryExperience:
		if len(cv.Work) == 0 {
			cv.Work = append(cv.Work, domain.Work{Summary: answer})
		} else {
			cv.Work[0].Highlights = append(cv.Work[0].Highlights, answer)
		}
	case domain.CategoryEducation:
		cv.Education = append(cv.Education, domain.Education{Area: gap.Description, Institution: answer})
	case domain.CategoryCertification:
		cv.Certificates = append(cv.Certificates, domain.Certificate{Name: gap.Description, Details: []string{answer}})
	default:
		cv.Basics.Summary = strings.TrimSpace(cv.Basics.Summary + " " + answer)
	}
}
