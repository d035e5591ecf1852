package cvmesh

import (
	"fmt"
	"net/http"
	"path/filepath"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/hupe1980/cvmesh/analysis"
	"github.com/hupe1980/cvmesh/artifact"
	"github.com/hupe1980/cvmesh/config"
	"github.com/hupe1980/cvmesh/interaction"
	"github.com/hupe1980/cvmesh/logging"
	"github.com/hupe1980/cvmesh/model"
	"github.com/hupe1980/cvmesh/model/anthropic"
	"github.com/hupe1980/cvmesh/model/openai"
	"github.com/hupe1980/cvmesh/session"
)

// FromConfig builds a Mesh from a loaded configuration. optFns run after the
// configuration has been applied and may override any of it.
func FromConfig(cfg *config.Config, optFns ...func(o *Options)) (*Mesh, error) {
	m, err := NewModel(cfg.LLM)
	if err != nil {
		return nil, err
	}

	base := []func(o *Options){func(o *Options) {
		o.Logger = logging.NewSlogLogger(cfg.LogLevel(), cfg.Log.Format, nil)
		o.Model = m
		o.ParallelFinalize = cfg.Pipeline.ParallelFinalize
		o.CallTimeout = cfg.CallTimeout()
		o.InteractionTimeout = cfg.InteractionTimeout()
		o.Fetcher = analysis.NewHTTPFetcher(func(fo *analysis.FetcherOptions) {
			fo.Client = &http.Client{Timeout: cfg.FetchTimeout()}
			fo.UserAgent = cfg.Analysis.UserAgent
		})
		if len(cfg.Interaction.Answers) > 0 {
			o.Answers = interaction.ScriptedAnswers(cfg.Interaction.Answers)
		}
	}}

	if cfg.Storage.Type == config.StorageFile {
		sessions, err := session.NewFileStore(filepath.Join(cfg.Storage.DataDir, "sessions"))
		if err != nil {
			return nil, err
		}
		artifacts, err := artifact.NewFileStore(filepath.Join(cfg.Storage.DataDir, "outputs"))
		if err != nil {
			return nil, err
		}
		base = append(base, func(o *Options) {
			o.SessionStore = sessions
			o.ArtifactStore = artifacts
		})
	}

	return New(append(base, optFns...)...), nil
}

// NewModel builds the model selected by cfg. It returns nil for the "none"
// provider.
func NewModel(cfg config.LLMConfig) (model.Model, error) {
	switch cfg.Provider {
	case config.ProviderNone, "":
		return nil, nil
	case config.ProviderMock:
		name := cfg.Model
		if name == "" {
			name = "mock"
		}
		return model.NewMockModel(name), nil
	case config.ProviderOpenAI:
		return openai.NewModel(func(o *openai.Options) {
			o.APIKey = cfg.APIKey
			o.Temperature = cfg.Temperature
			o.MaxCompletionTokens = cfg.MaxTokens
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
		}), nil
	case config.ProviderAnthropic:
		return anthropic.NewModel(func(o *anthropic.Options) {
			o.APIKey = cfg.APIKey
			o.Temperature = cfg.Temperature
			o.MaxTokens = cfg.MaxTokens
			if cfg.Model != "" {
				o.Model = anthropicsdk.Model(cfg.Model)
			}
		}), nil
	default:
		return nil, fmt.Errorf("%w: llm.provider %q", config.ErrInvalid, cfg.Provider)
	}
}
