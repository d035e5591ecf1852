package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Model = (*MockModel)(nil)

func TestMockModel_Generate(t *testing.T) {
	m := NewMockModel("mock")
	m.AddResponse("hello", "world")

	resp, err := m.Generate(context.Background(), Request{Prompt: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "world", resp.Text)
	assert.Equal(t, "stop", resp.FinishReason)

	resp, err = m.Generate(context.Background(), Request{Prompt: "other"})
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: other", resp.Text)

	assert.Len(t, m.Requests(), 2)
	assert.Equal(t, Info{Name: "mock", Provider: "mock"}, m.Info())
}

func TestMockModel_Errors(t *testing.T) {
	m := NewMockModel("mock")
	_, err := m.Generate(context.Background(), Request{})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.Generate(ctx, Request{Prompt: "x"})
	assert.ErrorIs(t, err, context.Canceled)

	boom := errors.New("boom")
	m.FailWith(boom)
	_, err = m.Generate(context.Background(), Request{Prompt: "x"})
	assert.ErrorIs(t, err, boom)
}
