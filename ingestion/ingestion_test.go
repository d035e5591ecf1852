package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/cvmesh/agent"
	"github.com/hupe1980/cvmesh/core"
	"github.com/hupe1980/cvmesh/domain"
	"github.com/hupe1980/cvmesh/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func invokeParse(t *testing.T, a *Agent, params core.Params) core.Result {
	t.Helper()
	caller := agent.New("caller")
	agent.Connect(caller, a)
	return caller.Invoke(context.Background(), domain.UnitIngestion, domain.ActionParse, params)
}

func TestParse_TextFile(t *testing.T) {
	path := writeFile(t, "cv.txt", sampleCV)
	a := New()

	res := invokeParse(t, a, core.Params{domain.KeySourceRef: path, domain.KeyUserID: "user_1"})
	require.True(t, res.Success, res.Error)

	resume, err := domain.Decode[domain.Resume](res.Data, domain.KeyStructuredContent)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", resume.Basics.Name)

	validation, err := domain.Decode[domain.Validation](res.Data, domain.KeyValidation)
	require.NoError(t, err)
	assert.True(t, validation.IsValid)
	assert.Equal(t, 10, validation.PassedChecks)

	meta := res.Data[domain.KeyMetadata].(map[string]any)
	assert.Equal(t, "user_1", meta["user_id"])
	assert.Equal(t, MethodPlainText, meta["extraction_method"])
}

func TestParse_JSONResume(t *testing.T) {
	want := domain.Resume{
		Basics: domain.Basics{Name: "Ada", Email: "ada@example.com"},
		Skills: []domain.Skill{{Name: "Languages", Keywords: []string{"Go"}}},
	}
	b, err := json.Marshal(want)
	require.NoError(t, err)
	path := writeFile(t, "cv.json", string(b))

	parsed, err := New().Parse(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, MethodJSONResume, parsed.Method)
	assert.Equal(t, want.Basics, parsed.Content.Basics)
	assert.Equal(t, []string{"work", "education"}, parsed.Validation.MissingFields)
}

func TestParse_Errors(t *testing.T) {
	a := New()

	_, err := a.Parse(context.Background(), "cv.pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = a.Parse(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = a.Parse(context.Background(), writeFile(t, "bad.json", "{"))
	assert.Error(t, err)

	res := invokeParse(t, a, core.Params{})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, domain.KeySourceRef)
}

func TestParse_ModelConversion(t *testing.T) {
	text := "Jane Doe\nsome unstructured CV"
	m := model.NewMockModel("mock")
	m.AddResponse("CV text:\n"+text, "```json\n{\"basics\":{\"name\":\"Jane Model\"},\"skills\":[{\"name\":\"Core\",\"keywords\":[\"Go\"]}]}\n```")

	a := New(func(o *Options) {
		o.Model = m
		o.ReadFile = func(string) ([]byte, error) { return []byte(text), nil }
	})

	parsed, err := a.Parse(context.Background(), "cv.md")
	require.NoError(t, err)
	assert.Equal(t, MethodModel, parsed.Method)
	assert.Equal(t, "Jane Model", parsed.Content.Basics.Name)
	require.Len(t, m.Requests(), 1)
	assert.Equal(t, convertInstructions, m.Requests()[0].Instructions)
}

func TestParse_ModelFailureFallsBack(t *testing.T) {
	m := model.NewMockModel("mock")
	m.FailWith(errors.New("rate limited"))

	a := New(func(o *Options) {
		o.Model = m
		o.ReadFile = func(string) ([]byte, error) { return []byte(sampleCV), nil }
	})

	parsed, err := a.Parse(context.Background(), "cv.txt")
	require.NoError(t, err)
	assert.Equal(t, MethodPlainText, parsed.Method)
	assert.Equal(t, "Jane Doe", parsed.Content.Basics.Name)
}
