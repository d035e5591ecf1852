package cvmesh

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hupe1980/cvmesh/artifact"
	"github.com/hupe1980/cvmesh/config"
	"github.com/hupe1980/cvmesh/core"
	"github.com/hupe1980/cvmesh/domain"
	"github.com/hupe1980/cvmesh/interaction"
	"github.com/hupe1980/cvmesh/internal/testutil"
	"github.com/hupe1980/cvmesh/memory"
	"github.com/hupe1980/cvmesh/pipeline"
	"github.com/hupe1980/cvmesh/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cvText = `# Jane Doe
Senior Software Engineer
jane@example.com | +1 555 123 4567 | github.com/janedoe

## Summary
Backend engineer focused on distributed systems.

## Experience
Senior Engineer at Acme Corp
2020 - Present
- Built Go microservices
- Led Kubernetes migration

## Education
University of Somewhere
Bachelor of Science in Computer Science
2012 - 2016

## Skills
Languages: Go, Python, SQL
Kubernetes, Docker
`

const posting = `Platform Engineer
Requirements:
- Go and Terraform
Nice to have:
- Kafka
`

func writeCV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cv.md")
	require.NoError(t, os.WriteFile(path, []byte(cvText), 0o600))
	return path
}

func TestNew_WiresFullMesh(t *testing.T) {
	m := New()

	names := make([]string, 0, 6)
	for _, u := range m.Units() {
		names = append(names, u.Name())
	}
	assert.Equal(t, []string{
		domain.UnitOrchestrator, domain.UnitIngestion, domain.UnitAnalysis,
		domain.UnitInteraction, domain.UnitStorage, domain.UnitGeneration,
	}, names)

	info := m.Info()
	require.Len(t, info, 6)
	for _, d := range info {
		assert.Len(t, d.Peers, 5, d.Name)
		assert.NotContains(t, d.Peers, d.Name)
	}

	u, ok := m.Unit(domain.UnitStorage)
	require.True(t, ok)
	assert.Equal(t, []string{
		domain.ActionRetrieveRecord, domain.ActionRetrieveSession, domain.ActionSearchSimilar,
		domain.ActionStoreRecord, domain.ActionStoreSession,
	}, u.ListActions())

	_, ok = m.Unit("nope")
	assert.False(t, ok)
}

func TestRun_EndToEnd(t *testing.T) {
	sessions := session.NewInMemoryStore()
	artifacts := artifact.NewInMemoryStore()
	mem := memory.NewInMemoryStore()

	m := New(func(o *Options) {
		o.SessionStore = sessions
		o.ArtifactStore = artifacts
		o.MemoryStore = mem
		o.Answers = interaction.ScriptedAnswers{domain.CategorySkill: "Wrote Terraform modules for AWS"}
	})

	res := m.Run(context.Background(), pipeline.Request{
		SourceRef:      writeCV(t),
		JobDescription: posting,
		UserID:         "jane",
	})
	require.Equal(t, pipeline.StatusCompleted, res.Status, res.Error)
	assert.Equal(t, []string{
		domain.StepIngestion, domain.StepGapAnalysis, domain.StepUserInteraction,
		domain.StepKnowledgeStore, domain.StepCVGeneration,
	}, res.Steps)
	assert.InDelta(t, 33.33, res.MatchScore, 0.01)
	require.NotNil(t, res.GapAnalysis)
	assert.True(t, res.GapAnalysis.NeedsInteraction())
	assert.Contains(t, res.StructuredContent.SkillKeywords(), "terraform")

	ctx := context.Background()
	files, err := artifacts.List(ctx, "jane")
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.Len(t, res.OutputArtifacts, 2)

	snap, err := sessions.Get(ctx, res.SessionID)
	require.NoError(t, err)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(snap.Body, &rec))
	assert.Equal(t, "completed", rec["status"])
	assert.NotEmpty(t, rec["profile_id"])
	assert.Len(t, rec["output_files"], 2)

	hits, err := mem.Search(ctx, "profiles", "terraform", 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "jane", hits[0].Metadata["user_id"])
}

func TestRun_NoUrgentGaps(t *testing.T) {
	m := New()

	res := m.Run(context.Background(), pipeline.Request{
		SourceRef:      writeCV(t),
		JobDescription: "Backend Engineer\nRequirements:\n- Go\n- Kubernetes\n",
	})
	require.Equal(t, pipeline.StatusCompleted, res.Status, res.Error)
	assert.Equal(t, []string{
		domain.StepIngestion, domain.StepGapAnalysis, domain.StepKnowledgeStore, domain.StepCVGeneration,
	}, res.Steps)
	assert.Equal(t, 100.0, res.MatchScore)
	assert.NotEmpty(t, res.OutputArtifacts)
}

func TestRun_IngestionFailure(t *testing.T) {
	m := New()

	res := m.Run(context.Background(), pipeline.Request{
		SourceRef:      filepath.Join(t.TempDir(), "cv.pdf"),
		JobDescription: posting,
	})
	assert.Equal(t, pipeline.StatusFailed, res.Status)
	assert.Equal(t, []string{}, res.Steps)
	assert.Contains(t, res.Error, "unsupported CV format")
}

func TestNew_CollaboratorOverride(t *testing.T) {
	fake := testutil.NewFakeUnit(domain.UnitGeneration, map[string]testutil.Reply{
		domain.ActionGenerate: {Err: errors.New("renderer offline")},
	})
	m := New(func(o *Options) { o.Generation = fake })

	res := m.Run(context.Background(), pipeline.Request{SourceRef: writeCV(t), JobDescription: posting})
	assert.Equal(t, pipeline.StatusFailed, res.Status)
	assert.Contains(t, res.Error, "cv_generation failed")
	assert.Contains(t, res.Error, "renderer offline")
	assert.Equal(t, []string{
		domain.StepIngestion, domain.StepGapAnalysis, domain.StepUserInteraction, domain.StepKnowledgeStore,
	}, res.Steps)
	assert.Len(t, fake.Calls(), 1)
}

func TestFromConfig_FileStorage(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Storage.Type = config.StorageFile
	cfg.Storage.DataDir = dir
	cfg.LLM.Provider = config.ProviderMock
	cfg.Log.Level = "error"
	require.NoError(t, cfg.Validate())

	m, err := FromConfig(cfg)
	require.NoError(t, err)

	res := m.Run(context.Background(), pipeline.Request{SourceRef: writeCV(t), JobDescription: posting, UserID: "jane"})
	require.Equal(t, pipeline.StatusCompleted, res.Status, res.Error)

	_, err = os.Stat(filepath.Join(dir, "sessions", res.SessionID+".json"))
	assert.NoError(t, err)
	entries, err := os.ReadDir(filepath.Join(dir, "outputs", "jane"))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

// slowAnswers answers every question after a delay, like a person typing.
type slowAnswers struct {
	delay  time.Duration
	answer string
}

func (s slowAnswers) Answer(ctx context.Context, _ domain.Question, _ domain.Gap) (string, bool, error) {
	select {
	case <-ctx.Done():
		return "", false, ctx.Err()
	case <-time.After(s.delay):
		return s.answer, true, nil
	}
}

func TestFromConfig_CallTimeoutKeepsSlowAnswers(t *testing.T) {
	cfg := config.Default()
	assert.Zero(t, cfg.CallTimeout())

	cfg.Pipeline.CallTimeout = "200ms"
	require.NoError(t, cfg.Validate())

	m, err := FromConfig(cfg, func(o *Options) {
		o.Logger = nil
		o.Answers = slowAnswers{delay: 400 * time.Millisecond, answer: "Wrote Terraform modules for AWS"}
	})
	require.NoError(t, err)

	res := m.Run(context.Background(), pipeline.Request{SourceRef: writeCV(t), JobDescription: posting, UserID: "jane"})
	require.Equal(t, pipeline.StatusCompleted, res.Status, res.Error)
	assert.Contains(t, res.Steps, domain.StepUserInteraction)
	assert.Contains(t, res.StructuredContent.SkillKeywords(), "terraform")
}

func TestNewModel(t *testing.T) {
	m, err := NewModel(config.LLMConfig{Provider: config.ProviderNone})
	require.NoError(t, err)
	assert.Nil(t, m)

	m, err = NewModel(config.LLMConfig{Provider: config.ProviderMock})
	require.NoError(t, err)
	assert.Equal(t, "mock", m.Info().Provider)

	m, err = NewModel(config.LLMConfig{Provider: config.ProviderOpenAI, APIKey: "sk-test", Model: "gpt-4o"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", m.Info().Name)

	m, err = NewModel(config.LLMConfig{Provider: config.ProviderAnthropic, APIKey: "key"})
	require.NoError(t, err)
	assert.Equal(t, "anthropic", m.Info().Provider)

	_, err = NewModel(config.LLMConfig{Provider: "ollama"})
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestRunAction(t *testing.T) {
	h, ok := New().Orchestrator().Handler(domain.ActionRun)
	require.True(t, ok)

	data, err := h(context.Background(), core.Params{
		domain.KeySourceRef:      writeCV(t),
		domain.KeyJobDescription: posting,
	})
	require.NoError(t, err)
	r := data[domain.KeyResult].(pipeline.Result)
	assert.Equal(t, pipeline.StatusCompleted, r.Status)
}
