package analysis

import (
	"context"
	"fmt"

	"github.com/hupe1980/cvmesh/agent"
	"github.com/hupe1980/cvmesh/core"
	"github.com/hupe1980/cvmesh/domain"
	"github.com/hupe1980/cvmesh/logging"
)

// Options configures the analysis unit.
type Options struct {
	Logger    logging.Logger
	Extractor RequirementExtractor
	Fetcher   Fetcher
}

// Agent is the job_understanding unit.
type Agent struct {
	*agent.Unit
	opts Options
}

// New constructs the analysis unit. The default extractor is a
// KeywordExtractor over DefaultVocabulary.
func New(optFns ...func(o *Options)) *Agent {
	opts := Options{
		Logger:    logging.NoOpLogger{},
		Extractor: NewKeywordExtractor(),
		Fetcher:   NewHTTPFetcher(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	a := &Agent{opts: opts}
	a.Unit = agent.New(domain.UnitAnalysis, func(o *agent.Options) {
		o.Description = "Analyzes job advertisements and identifies skill gaps against a CV"
		o.Logger = opts.Logger
		o.Actions = []core.Action{
			{Name: domain.ActionAnalyzeGap, Description: "Compare a CV against a job posting", Handler: a.analyzeGap},
			{Name: domain.ActionAnalyzeJob, Description: "Extract requirements from a job posting", Handler: a.analyzeJob},
		}
	})
	return a
}

// AnalyzeJob resolves the posting text and extracts its requirements.
func (a *Agent) AnalyzeJob(ctx context.Context, posting, sourceType string) (domain.JobRequirements, error) {
	text := posting
	switch sourceType {
	case "", domain.SourceText:
	case domain.SourceURL:
		fetched, err := a.opts.Fetcher.Fetch(ctx, posting)
		if err != nil {
			return domain.JobRequirements{}, fmt.Errorf("failed to fetch job ad: %w", err)
		}
		text = fetched
	default:
		return domain.JobRequirements{}, fmt.Errorf("%w: unknown source type %q", core.ErrInvalidParam, sourceType)
	}

	job, err := a.opts.Extractor.Extract(ctx, text)
	if err != nil {
		return domain.JobRequirements{}, err
	}
	a.Logger().Info("extracted job requirements",
		"title", job.Title,
		"must_have", len(job.MustHave),
		"nice_to_have", len(job.NiceToHave),
	)
	return job, nil
}

func (a *Agent) analyzeJob(ctx context.Context, params core.Params) (core.Data, error) {
	posting, err := params.String(domain.KeyJobDescription)
	if err != nil {
		return nil, err
	}
	sourceType := params.StringOr(domain.KeySourceType, domain.SourceText)

	job, err := a.AnalyzeJob(ctx, posting, sourceType)
	if err != nil {
		return nil, err
	}
	source := "text_input"
	if sourceType == domain.SourceURL {
		source = posting
	}
	return core.Data{"job_data": job, "source": source, domain.KeySourceType: sourceType}, nil
}

func (a *Agent) analyzeGap(ctx context.Context, params core.Params) (core.Data, error) {
	cv, err := domain.Decode[domain.Resume](params, domain.KeyStructuredContent)
	if err != nil {
		return nil, err
	}
	posting, err := params.String(domain.KeyJobDescription)
	if err != nil {
		return nil, err
	}

	job, err := a.AnalyzeJob(ctx, posting, params.StringOr(domain.KeySourceType, domain.SourceText))
	if err != nil {
		return nil, err
	}

	ga := Compare(cv, job)
	a.Logger().Info("gap analysis complete",
		"gaps", len(ga.Gaps),
		"overall_match", ga.OverallMatch,
		"needs_interaction", ga.NeedsInteraction(),
	)
	return ToData(ga), nil
}

// ToData lays a gap analysis out as an analyze_gap payload.
func ToData(ga domain.GapAnalysis) core.Data {
	return core.Data{
		"has_gaps":        ga.HasGaps,
		"overall_match":   ga.OverallMatch,
		"gaps":            ga.Gaps,
		"matches":         ga.Matches,
		"recommendations": ga.Recommendations,
		"questionnaire":   ga.Questionnaire,
		"job_data":        ga.JobData,
	}
}
