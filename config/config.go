package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/cvmesh/logging"
)

// ErrInvalid is returned when a configuration value fails validation.
var ErrInvalid = errors.New("invalid config")

// Environment overrides.
const (
	EnvMode             = "CVMESH_MODE"
	EnvLogLevel         = "CVMESH_LOG_LEVEL"
	EnvLogFormat        = "CVMESH_LOG_FORMAT"
	EnvStorageType      = "CVMESH_STORAGE_TYPE"
	EnvDataDir          = "CVMESH_DATA_DIR"
	EnvLLMProvider      = "CVMESH_LLM_PROVIDER"
	EnvLLMModel         = "CVMESH_LLM_MODEL"
	EnvLLMAPIKey        = "CVMESH_LLM_API_KEY"
	EnvLLMTemperature   = "CVMESH_LLM_TEMPERATURE"
	EnvLLMMaxTokens     = "CVMESH_LLM_MAX_TOKENS"
	EnvCallTimeout      = "CVMESH_CALL_TIMEOUT"
	EnvInteractTimeout  = "CVMESH_INTERACTION_TIMEOUT"
	EnvParallelFinalize = "CVMESH_PARALLEL_FINALIZE"
)

// Storage backends.
const (
	StorageMemory = "memory"
	StorageFile   = "file"
)

// LLM providers.
const (
	ProviderNone      = "none"
	ProviderMock      = "mock"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config is the root configuration.
type Config struct {
	Mode        string            `yaml:"mode"`
	Log         LogConfig         `yaml:"log"`
	Storage     StorageConfig     `yaml:"storage"`
	LLM         LLMConfig         `yaml:"llm"`
	Pipeline    PipelineConfig    `yaml:"pipeline"`
	Interaction InteractionConfig `yaml:"interaction"`
	Analysis    AnalysisConfig    `yaml:"analysis"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// StorageConfig selects where sessions, profiles and artifacts live. The
// file backend keeps sessions under <data_dir>/sessions and artifacts under
// <data_dir>/outputs.
type StorageConfig struct {
	Type    string `yaml:"type"`
	DataDir string `yaml:"data_dir"`
}

type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"api_key"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int64   `yaml:"max_tokens"`
}

// PipelineConfig tunes the orchestrator. Timeouts are Go durations; "0"
// means no deadline. call_timeout never applies to collect_info, which is
// bounded by interaction_timeout only.
type PipelineConfig struct {
	CallTimeout        string `yaml:"call_timeout"`
	InteractionTimeout string `yaml:"interaction_timeout"`
	ParallelFinalize   bool   `yaml:"parallel_finalize"`
}

// InteractionConfig configures how gap questions are answered. Answers are
// keyed by gap id, gap description or gap category.
type InteractionConfig struct {
	Interactive bool              `yaml:"interactive"`
	Answers     map[string]string `yaml:"answers"`
}

type AnalysisConfig struct {
	FetchTimeout string `yaml:"fetch_timeout"`
	UserAgent    string `yaml:"user_agent"`
}

// Default returns the local-mode configuration.
func Default() *Config {
	c := &Config{LLM: LLMConfig{Temperature: 0.2}}
	c.loadDefaults()
	return c
}

// Load decodes path over Default() when it is not empty, then applies
// environment overrides and validation. Keys missing from the file keep
// their default; keys set to a zero value stay zero.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}
	return cfg, nil
}

// Finalize applies defaults and environment overrides, then validates.
func (c *Config) Finalize() error {
	c.loadDefaults()
	if err := c.loadEnv(); err != nil {
		return err
	}
	return c.Validate()
}

func (c *Config) loadDefaults() {
	if c.Mode == "" {
		c.Mode = "local"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Storage.Type == "" {
		c.Storage.Type = StorageMemory
	}
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = "./data"
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = ProviderNone
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 2048
	}
	if c.Pipeline.CallTimeout == "" {
		c.Pipeline.CallTimeout = "0"
	}
	if c.Pipeline.InteractionTimeout == "" {
		c.Pipeline.InteractionTimeout = "0"
	}
	if c.Analysis.FetchTimeout == "" {
		c.Analysis.FetchTimeout = "15s"
	}
	if c.Analysis.UserAgent == "" {
		c.Analysis.UserAgent = "cvmesh/1.0"
	}
}

func (c *Config) loadEnv() error {
	for env, dst := range map[string]*string{
		EnvMode:            &c.Mode,
		EnvLogLevel:        &c.Log.Level,
		EnvLogFormat:       &c.Log.Format,
		EnvStorageType:     &c.Storage.Type,
		EnvDataDir:         &c.Storage.DataDir,
		EnvLLMProvider:     &c.LLM.Provider,
		EnvLLMModel:        &c.LLM.Model,
		EnvLLMAPIKey:       &c.LLM.APIKey,
		EnvCallTimeout:     &c.Pipeline.CallTimeout,
		EnvInteractTimeout: &c.Pipeline.InteractionTimeout,
	} {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv(EnvLLMTemperature); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, EnvLLMTemperature, err)
		}
		c.LLM.Temperature = f
	}
	if v := os.Getenv(EnvLLMMaxTokens); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, EnvLLMMaxTokens, err)
		}
		c.LLM.MaxTokens = n
	}
	if v := os.Getenv(EnvParallelFinalize); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, EnvParallelFinalize, err)
		}
		c.Pipeline.ParallelFinalize = b
	}
	return nil
}

// Validate checks every value and reports the first problem.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalid, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q, want text or json", ErrInvalid, c.Log.Format)
	}

	switch c.Storage.Type {
	case StorageMemory:
	case StorageFile:
		if strings.TrimSpace(c.Storage.DataDir) == "" {
			return fmt.Errorf("%w: storage.data_dir required for file storage", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: storage.type %q", ErrInvalid, c.Storage.Type)
	}

	switch c.LLM.Provider {
	case ProviderNone, ProviderMock:
	case ProviderOpenAI, ProviderAnthropic:
		if c.LLM.APIKey == "" {
			return fmt.Errorf("%w: llm.api_key required for %s", ErrInvalid, c.LLM.Provider)
		}
	default:
		return fmt.Errorf("%w: llm.provider %q", ErrInvalid, c.LLM.Provider)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("%w: llm.temperature %v out of range [0, 2]", ErrInvalid, c.LLM.Temperature)
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("%w: llm.max_tokens must be positive", ErrInvalid)
	}

	for name, v := range map[string]string{
		"pipeline.call_timeout":        c.Pipeline.CallTimeout,
		"pipeline.interaction_timeout": c.Pipeline.InteractionTimeout,
		"analysis.fetch_timeout":       c.Analysis.FetchTimeout,
	} {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, name, err)
		}
		if d < 0 {
			return fmt.Errorf("%w: %s is negative", ErrInvalid, name)
		}
	}
	return nil
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() logging.LogLevel {
	l, _ := logging.ParseLevel(c.Log.Level)
	return l
}

// CallTimeout returns pipeline.call_timeout as a duration.
func (c *Config) CallTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Pipeline.CallTimeout)
	return d
}

// InteractionTimeout returns pipeline.interaction_timeout as a duration.
func (c *Config) InteractionTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Pipeline.InteractionTimeout)
	return d
}

// FetchTimeout returns analysis.fetch_timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Analysis.FetchTimeout)
	return d
}
