package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   LogLevelDebug,
		"":        LogLevelInfo,
		"INFO":    LogLevelInfo,
		"warning": LogLevelWarn,
		"Error":   LogLevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewSlogLogger_JSONWithAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := With(NewSlogLogger(LogLevelInfo, "json", &buf), "unit", "orchestrator")

	logger.Debug("hidden")
	logger.Info("stage complete", "step", "ingestion")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &rec))
	assert.Equal(t, "stage complete", rec["msg"])
	assert.Equal(t, "orchestrator", rec["unit"])
	assert.Equal(t, "ingestion", rec["step"])
}

type recordingLogger struct {
	NoOpLogger
	args []any
}

func (r *recordingLogger) Info(_ string, args ...any) { r.args = args }

func TestWith_WrapsForeignLogger(t *testing.T) {
	rec := &recordingLogger{}
	With(rec, "a", 1).Info("msg", "b", 2)

	assert.Equal(t, []any{"a", 1, "b", 2}, rec.args)
	assert.Equal(t, NoOpLogger{}, With(nil))
}
