package anthropic

import (
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/hupe1980/cvmesh/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ model.Model = (*Model)(nil)

func TestBuildParams(t *testing.T) {
	client := anthropic.NewClient()
	m := NewModelFromClient(&client, func(o *Options) { o.MaxTokens = 100 })

	params := m.buildParams(model.Request{Instructions: "sys", Prompt: "hello"})
	require.Len(t, params.Messages, 1)
	require.Len(t, params.System, 1)
	assert.Equal(t, "sys", params.System[0].Text)
	assert.Equal(t, int64(100), params.MaxTokens)

	params = m.buildParams(model.Request{Prompt: "hello", MaxTokens: 7})
	assert.Empty(t, params.System)
	assert.Equal(t, int64(7), params.MaxTokens)

	assert.Equal(t, "anthropic", m.Info().Provider)
}
