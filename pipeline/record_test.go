package pipeline

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hupe1980/cvmesh/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRecord_Accessors(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := newRecord("session_1", "u1", now)

	_, ok := rec.Content()
	assert.False(t, ok)
	_, ok = rec.Analysis()
	assert.False(t, ok)

	ingested := Ingested{Content: ingestedCV}
	rec.complete(domain.StepIngestion, ingested, now)
	cv, ok := rec.Content()
	assert.True(t, ok)
	assert.Equal(t, ingestedCV, cv)
	_, ok = rec.Analysis()
	assert.False(t, ok)

	analyzed := Analyzed{Ingested: ingested, Analysis: domain.GapAnalysis{OverallMatch: 50}}
	rec.complete(domain.StepGapAnalysis, analyzed, now)
	rec.complete("", Prepared{Analyzed: analyzed, Working: updatedCV}, now)
	cv, _ = rec.Content()
	assert.Equal(t, updatedCV, cv)

	rec.complete("", Stored{Prepared: rec.State.(Prepared)}, now)
	_, ok = rec.ProfileID()
	assert.False(t, ok)
	_, ok = rec.Artifacts()
	assert.False(t, ok)

	rec.fail(domain.StepCVGeneration, errors.New("boom"), now)
	assert.Equal(t, StatusFailed, rec.Status)
	assert.EqualError(t, rec.Err(), "boom")
	ga, ok := rec.Analysis()
	assert.True(t, ok)
	assert.Equal(t, 50.0, ga.OverallMatch)
	assert.Equal(t, []string{domain.StepIngestion, domain.StepGapAnalysis}, rec.Steps)
}

func TestSessionRecord_MarshalJSON(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := newRecord("session_1", "u1", now)

	b, err := json.Marshal(rec.Clone())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"session_id": "session_1",
		"user_id": "u1",
		"status": "in_progress",
		"created_at": "2025-01-01T00:00:00Z",
		"updated_at": "2025-01-01T00:00:00Z",
		"steps_completed": []
	}`, string(b))

	prepared := Prepared{Analyzed: Analyzed{Ingested: Ingested{Content: ingestedCV}}, Working: ingestedCV}
	rec.complete(domain.StepCVGeneration, Generated{
		Stored:    Stored{Prepared: prepared, ProfileID: "profile_1"},
		Artifacts: map[string]string{"json": "artifact://u1/cv.json"},
	}, now)
	rec.Status = StatusCompleted

	b, err = json.Marshal(rec.Clone())
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, "completed", out["status"])
	assert.Equal(t, "profile_1", out["profile_id"])
	assert.Equal(t, map[string]any{"json": "artifact://u1/cv.json"}, out["output_files"])
	assert.Equal(t, []any{"cv_generation"}, out["steps_completed"])
	assert.Contains(t, out, "cv_data")
	assert.Contains(t, out, "gap_analysis")
	assert.NotContains(t, out, "error")
}

func TestStageError(t *testing.T) {
	cause := errors.New("boom")
	err := error(&StageError{Stage: domain.StepIngestion, Err: cause})

	assert.EqualError(t, err, "ingestion failed: boom")
	assert.ErrorIs(t, err, ErrStage)
	assert.ErrorIs(t, err, cause)
}
