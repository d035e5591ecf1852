// Package cvmesh is the composition root of the CV enhancement pipeline. New
// constructs the five collaborator units and the orchestrator, wires them
// into a full mesh exactly once and returns a Mesh that runs the pipeline.
// The peer tables are never modified after New returns.
//
// Every collaborator can be replaced through Options, which is how tests and
// embedders swap in their own units. Replacement units must use the
// standard unit names from package domain.
package cvmesh

import (
	"context"
	"time"

	"github.com/hupe1980/cvmesh/agent"
	"github.com/hupe1980/cvmesh/analysis"
	"github.com/hupe1980/cvmesh/artifact"
	"github.com/hupe1980/cvmesh/core"
	"github.com/hupe1980/cvmesh/generation"
	"github.com/hupe1980/cvmesh/ingestion"
	"github.com/hupe1980/cvmesh/interaction"
	"github.com/hupe1980/cvmesh/logging"
	"github.com/hupe1980/cvmesh/memory"
	"github.com/hupe1980/cvmesh/model"
	"github.com/hupe1980/cvmesh/pipeline"
	"github.com/hupe1980/cvmesh/session"
	"github.com/hupe1980/cvmesh/storage"
)

// Options configures the Mesh.
type Options struct {
	// Model, when set, backs CV text conversion and requirement extraction.
	// Both fall back to the heuristic parsers when the model fails.
	Model model.Model

	// Answers supplies answers to gap questions. Defaults to NoAnswers.
	Answers interaction.AnswerSource

	// Fetcher loads job postings given by URL. Defaults to an HTTP fetcher.
	Fetcher analysis.Fetcher

	// Stores (defaults to in-memory implementations if not provided)
	SessionStore  core.SessionStore
	ArtifactStore core.ArtifactStore
	MemoryStore   core.MemoryStore

	// ParallelFinalize runs profile storage and generation concurrently.
	ParallelFinalize bool

	// CallTimeout bounds each collaborator call made by the orchestrator,
	// except collect_info.
	CallTimeout time.Duration

	// InteractionTimeout bounds collect_info. Zero waits for the answers.
	InteractionTimeout time.Duration

	// Collaborator overrides. Nil selects the default unit.
	Ingestion   agent.Registrar
	Analysis    agent.Registrar
	Interaction agent.Registrar
	Storage     agent.Registrar
	Generation  agent.Registrar

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Mesh is the assembled set of units.
type Mesh struct {
	orchestrator *pipeline.Orchestrator
	units        []agent.Registrar
}

// New builds and wires every unit.
func New(optFns ...func(o *Options)) *Mesh {
	opts := Options{
		SessionStore:  session.NewInMemoryStore(),
		ArtifactStore: artifact.NewInMemoryStore(),
		MemoryStore:   memory.NewInMemoryStore(),
		Answers:       interaction.NoAnswers{},
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	orch := pipeline.New(func(o *pipeline.Options) {
		o.Logger = opts.Logger
		o.ParallelFinalize = opts.ParallelFinalize
		o.CallTimeout = opts.CallTimeout
		o.InteractionTimeout = opts.InteractionTimeout
	})

	units := []agent.Registrar{
		orch,
		orDefault(opts.Ingestion, func() agent.Registrar {
			return ingestion.New(func(o *ingestion.Options) {
				o.Logger = opts.Logger
				o.Model = opts.Model
			})
		}),
		orDefault(opts.Analysis, func() agent.Registrar {
			return analysis.New(func(o *analysis.Options) {
				o.Logger = opts.Logger
				if opts.Fetcher != nil {
					o.Fetcher = opts.Fetcher
				}
				if opts.Model != nil {
					o.Extractor = &analysis.FallbackExtractor{
						Primary:   &analysis.ModelExtractor{Model: opts.Model},
						Secondary: analysis.NewKeywordExtractor(),
					}
				}
			})
		}),
		orDefault(opts.Interaction, func() agent.Registrar {
			return interaction.New(func(o *interaction.Options) {
				o.Logger = opts.Logger
				o.Answers = opts.Answers
			})
		}),
		orDefault(opts.Storage, func() agent.Registrar {
			return storage.New(func(o *storage.Options) {
				o.Logger = opts.Logger
				o.Memory = opts.MemoryStore
				o.Sessions = opts.SessionStore
			})
		}),
		orDefault(opts.Generation, func() agent.Registrar {
			return generation.New(func(o *generation.Options) {
				o.Logger = opts.Logger
				o.Artifacts = opts.ArtifactStore
			})
		}),
	}
	agent.Connect(units...)

	opts.Logger.Info("mesh assembled", "units", len(units))
	return &Mesh{orchestrator: orch, units: units}
}

func orDefault(r agent.Registrar, build func() agent.Registrar) agent.Registrar {
	if r != nil {
		return r
	}
	return build()
}

// Run executes the pipeline once.
func (m *Mesh) Run(ctx context.Context, req pipeline.Request) pipeline.Result {
	return m.orchestrator.Run(ctx, req)
}

// Orchestrator returns the coordinating unit.
func (m *Mesh) Orchestrator() *pipeline.Orchestrator { return m.orchestrator }

// Unit looks up a unit by name.
func (m *Mesh) Unit(name string) (core.Agent, bool) {
	for _, u := range m.units {
		if u.Name() == name {
			return u, true
		}
	}
	return nil, false
}

// Units returns every unit, orchestrator first.
func (m *Mesh) Units() []core.Agent {
	out := make([]core.Agent, 0, len(m.units))
	for _, u := range m.units {
		out = append(out, u)
	}
	return out
}

// Info returns the capability descriptor of every unit that provides one.
func (m *Mesh) Info() []core.Descriptor {
	var out []core.Descriptor
	for _, u := range m.units {
		if d, ok := u.(interface{ Info() core.Descriptor }); ok {
			out = append(out, d.Info())
		}
	}
	return out
}
