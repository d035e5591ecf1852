package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hupe1980/cvmesh/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cvmesh.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, "local", c.Mode)
	assert.Equal(t, StorageMemory, c.Storage.Type)
	assert.Equal(t, ProviderNone, c.LLM.Provider)
	assert.Equal(t, 0.2, c.LLM.Temperature)
	assert.Equal(t, int64(2048), c.LLM.MaxTokens)
	assert.Equal(t, logging.LogLevelInfo, c.LogLevel())
	assert.Zero(t, c.CallTimeout())
	assert.Zero(t, c.InteractionTimeout())
	assert.Equal(t, 15*time.Second, c.FetchTimeout())
	require.NoError(t, c.Validate())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  format: json
storage:
  type: file
  data_dir: /tmp/cvmesh
llm:
  provider: openai
  model: gpt-4o-mini
  api_key: sk-test
pipeline:
  call_timeout: 30s
  interaction_timeout: 10m
  parallel_finalize: true
interaction:
  answers:
    kubernetes: Ran clusters at Acme
`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, logging.LogLevelDebug, c.LogLevel())
	assert.Equal(t, "json", c.Log.Format)
	assert.Equal(t, StorageFile, c.Storage.Type)
	assert.Equal(t, "/tmp/cvmesh", c.Storage.DataDir)
	assert.Equal(t, "gpt-4o-mini", c.LLM.Model)
	assert.Equal(t, 30*time.Second, c.CallTimeout())
	assert.Equal(t, 10*time.Minute, c.InteractionTimeout())
	assert.True(t, c.Pipeline.ParallelFinalize)
	assert.Equal(t, map[string]string{"kubernetes": "Ran clusters at Acme"}, c.Interaction.Answers)
	assert.Equal(t, 0.2, c.LLM.Temperature)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvLLMProvider, ProviderAnthropic)
	t.Setenv(EnvLLMAPIKey, "key")
	t.Setenv(EnvLLMTemperature, "0.7")
	t.Setenv(EnvLLMMaxTokens, "1024")
	t.Setenv(EnvParallelFinalize, "true")
	t.Setenv(EnvLogLevel, "warn")

	c, err := Load(writeConfig(t, "llm:\n  provider: openai\n"))
	require.NoError(t, err)

	assert.Equal(t, ProviderAnthropic, c.LLM.Provider)
	assert.Equal(t, "key", c.LLM.APIKey)
	assert.Equal(t, 0.7, c.LLM.Temperature)
	assert.Equal(t, int64(1024), c.LLM.MaxTokens)
	assert.True(t, c.Pipeline.ParallelFinalize)
	assert.Equal(t, logging.LogLevelWarn, c.LogLevel())
}

func TestLoad_ExplicitZeroTemperature(t *testing.T) {
	c, err := Load(writeConfig(t, "llm:\n  provider: mock\n  temperature: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, c.LLM.Temperature)
	assert.Equal(t, int64(2048), c.LLM.MaxTokens)

	c, err = Load(writeConfig(t, "llm:\n  provider: mock\n"))
	require.NoError(t, err)
	assert.Equal(t, 0.2, c.LLM.Temperature)
}

func TestLoad_NoFile(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, c.Storage.Type)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config")

	_, err = Load(writeConfig(t, "log: [unclosed"))
	assert.ErrorContains(t, err, "parse config")

	t.Setenv(EnvLLMMaxTokens, "many")
	_, err = Load("")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	tests := map[string]func(c *Config){
		"log level":      func(c *Config) { c.Log.Level = "loud" },
		"log format":     func(c *Config) { c.Log.Format = "xml" },
		"storage type":   func(c *Config) { c.Storage.Type = "s3" },
		"data dir":       func(c *Config) { c.Storage.Type = StorageFile; c.Storage.DataDir = " " },
		"provider":       func(c *Config) { c.LLM.Provider = "ollama" },
		"api key":        func(c *Config) { c.LLM.Provider = ProviderOpenAI },
		"temperature":    func(c *Config) { c.LLM.Temperature = 3 },
		"max tokens":     func(c *Config) { c.LLM.MaxTokens = -1 },
		"call timeout":   func(c *Config) { c.Pipeline.CallTimeout = "soon" },
		"negative fetch": func(c *Config) { c.Analysis.FetchTimeout = "-1s" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(c)
			assert.ErrorIs(t, c.Validate(), ErrInvalid)
		})
	}
}
