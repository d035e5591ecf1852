package generation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/cvmesh/agent"
	"github.com/hupe1980/cvmesh/artifact"
	"github.com/hupe1980/cvmesh/core"
	"github.com/hupe1980/cvmesh/domain"
	"github.com/hupe1980/cvmesh/logging"
)

// Output formats.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

const anonymousOwner = "anonymous"

// Options configures the generation unit.
type Options struct {
	Logger    logging.Logger
	Artifacts core.ArtifactStore

	// Clock stamps file names. Defaults to time.Now.
	Clock func() time.Time
}

// Agent is the cv_generator unit.
type Agent struct {
	*agent.Unit
	opts Options
}

// New constructs the generation unit. Artifacts default to an in-memory store.
func New(optFns ...func(o *Options)) *Agent {
	opts := Options{
		Logger: logging.NoOpLogger{},
		Clock:  time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Artifacts == nil {
		opts.Artifacts = artifact.NewInMemoryStore()
	}

	a := &Agent{opts: opts}
	a.Unit = agent.New(domain.UnitGeneration, func(o *agent.Options) {
		o.Description = "Generates tailored CVs as Markdown and JSON Resume artifacts"
		o.Logger = opts.Logger
		o.Actions = []core.Action{
			{Name: domain.ActionGenerate, Description: "Tailor and render a CV for a job", Handler: a.generate},
		}
	})
	return a
}

// Output describes one generation run.
type Output struct {
	Artifacts map[string]string
	Tailored  domain.Resume
	Template  string
	Formats   []string
}

// Generate tailors cv to job and stores the rendered artifacts under owner.
func (a *Agent) Generate(ctx context.Context, cv domain.Resume, job domain.JobRequirements, owner string) (Output, error) {
	if owner == "" {
		owner = anonymousOwner
	}
	tailored := Tailor(cv, job)
	tmpl := SelectTemplate(job.Title)
	a.Logger().Debug("selected template", "template", tmpl, "title", job.Title)

	md, err := RenderMarkdown(tailored, tmpl)
	if err != nil {
		return Output{}, err
	}
	js, err := RenderJSON(tailored)
	if err != nil {
		return Output{}, fmt.Errorf("render json: %w", err)
	}

	base := fmt.Sprintf("%s_CV_%s", fileStem(cv, owner), a.opts.Clock().UTC().Format("20060102_150405"))
	out := Output{
		Artifacts: make(map[string]string, 2),
		Tailored:  tailored,
		Template:  tmpl,
	}
	for _, f := range []struct {
		format, ext string
		data        []byte
	}{
		{FormatMarkdown, ".md", md},
		{FormatJSON, ".json", js},
	} {
		uri, err := a.opts.Artifacts.Save(ctx, owner, base+f.ext, f.data)
		if err != nil {
			return Output{}, fmt.Errorf("save %s artifact: %w", f.format, err)
		}
		out.Artifacts[f.format] = uri
		out.Formats = append(out.Formats, f.format)
	}
	return out, nil
}

func (a *Agent) generate(ctx context.Context, params core.Params) (core.Data, error) {
	cv, err := domain.Decode[domain.Resume](params, domain.KeyStructuredContent)
	if err != nil {
		return nil, err
	}
	gaps := domain.DecodeOr(params, domain.KeyGapAnalysis, domain.GapAnalysis{})
	job := domain.DecodeOr(params, domain.KeyJobRequirements, gaps.JobData)
	userID := params.StringOr(domain.KeyUserID, "")

	out, err := a.Generate(ctx, cv, job, userID)
	if err != nil {
		return nil, err
	}
	a.Logger().Info("generated cv", "user_id", userID, "template", out.Template, "formats", out.Formats)

	return core.Data{
		domain.KeyOutputArtifacts: out.Artifacts,
		"tailored_cv":             out.Tailored,
		"template_used":           out.Template,
		"formats_generated":       out.Formats,
		domain.KeyUserID:          userID,
	}, nil
}

func fileStem(cv domain.Resume, owner string) string {
	stem := strings.TrimSpace(cv.Basics.Name)
	if stem == "" {
		stem = owner
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\':
			return '_'
		}
		return r
	}, stem)
}
