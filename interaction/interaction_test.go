package interaction

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/hupe1980/cvmesh/agent"
	"github.com/hupe1980/cvmesh/core"
	"github.com/hupe1980/cvmesh/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	baseCV = domain.Resume{
		Basics: domain.Basics{Name: "Ada"},
		Work:   []domain.Work{{Company: "Acme", Position: "Engineer"}},
		Skills: []domain.Skill{{Name: "Languages", Keywords: []string{"Go"}}},
	}
	gaps = []domain.Gap{
		{ID: "gap_1", Category: domain.CategorySkill, Priority: domain.PriorityHigh, Description: "kubernetes"},
		{ID: "gap_2", Category: domain.CategorySkill, Priority: domain.PriorityMedium, Description: "kafka"},
		{ID: "gap_3", Category: domain.CategorySummary, Priority: domain.PriorityCritical, Description: "professional summary"},
		{ID: "gap_4", Category: domain.CategorySkill, Priority: domain.PriorityHigh, Description: "terraform"},
	}
)

type mockAnswers struct {
	mock.Mock
}

func (m *mockAnswers) Answer(ctx context.Context, q domain.Question, gap domain.Gap) (string, bool, error) {
	args := m.Called(ctx, q, gap)
	return args.String(0), args.Bool(1), args.Error(2)
}

func TestCollect_IntegratesAnswers(t *testing.T) {
	answers := new(mockAnswers)
	answers.On("Answer", mock.Anything, mock.Anything, gaps[2]).Return("Backend engineer with ten years of Go.", true, nil)
	answers.On("Answer", mock.Anything, mock.Anything, gaps[0]).Return("Ran EKS clusters at Acme", true, nil)
	answers.On("Answer", mock.Anything, mock.Anything, gaps[3]).Return("no", true, nil)

	a := New(func(o *Options) { o.Answers = answers })
	out, err := a.Collect(context.Background(), gaps, baseCV)
	require.NoError(t, err)

	assert.Equal(t, 2, out.GapsAddressed)
	assert.Equal(t, "Backend engineer with ten years of Go.", out.Updated.Basics.Summary)
	require.Len(t, out.Updated.Skills, 2)
	assert.Equal(t, domain.Skill{Name: "Additional", Keywords: []string{"kubernetes"}}, out.Updated.Skills[1])
	assert.Equal(t, []string{"Ran EKS clusters at Acme"}, out.Updated.Work[0].Highlights)

	// critical first, medium gap never asked
	require.Len(t, out.Conversation, 6)
	assert.Equal(t, "gap_3", out.Conversation[0].GapID)
	answers.AssertNotCalled(t, "Answer", mock.Anything, mock.Anything, gaps[1])
	answers.AssertExpectations(t)

	// input untouched
	assert.Empty(t, baseCV.Basics.Summary)
	assert.Len(t, baseCV.Skills, 1)
	assert.Empty(t, baseCV.Work[0].Highlights)
}

func TestCollect_AnswerSourceError(t *testing.T) {
	answers := new(mockAnswers)
	answers.On("Answer", mock.Anything, mock.Anything, mock.Anything).Return("", false, errors.New("terminal closed"))

	_, err := New(func(o *Options) { o.Answers = answers }).Collect(context.Background(), gaps, baseCV)
	assert.ErrorContains(t, err, "terminal closed")
}

func TestCollectInfo_Action(t *testing.T) {
	a := New(func(o *Options) {
		o.Answers = ScriptedAnswers{"kubernetes": "Operated clusters", "summary": "Seasoned engineer"}
	})
	caller := agent.New("caller")
	agent.Connect(caller, a)

	res := caller.Invoke(context.Background(), domain.UnitInteraction, domain.ActionCollectInfo, core.Params{
		domain.KeyGaps:              gaps,
		domain.KeyStructuredContent: baseCV,
	})
	require.True(t, res.Success, res.Error)
	assert.Equal(t, 2, res.Data[domain.KeyGapsAddressed])
	assert.Equal(t, 4, res.Data["total_gaps"])

	updated := res.Data[domain.KeyUpdatedContent].(domain.Resume)
	assert.Equal(t, "Seasoned engineer", updated.Basics.Summary)

	res = caller.Invoke(context.Background(), domain.UnitInteraction, domain.ActionCollectInfo, core.Params{domain.KeyGaps: gaps})
	assert.False(t, res.Success)
}

func TestNoAnswers_LeavesCVUnchanged(t *testing.T) {
	out, err := New().Collect(context.Background(), gaps, baseCV)
	require.NoError(t, err)
	assert.Equal(t, 0, out.GapsAddressed)
	assert.Equal(t, baseCV, out.Updated)
	assert.Len(t, out.Conversation, 3)
}

func TestPromptAnswers(t *testing.T) {
	var out bytes.Buffer
	p := NewPromptAnswers(strings.NewReader("Yes, five years\n\n"), &out)
	q := domain.Question{Question: "Do you know Go?", Priority: domain.PriorityCritical}

	answer, ok, err := p.Answer(context.Background(), q, domain.Gap{})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Yes, five years", answer)
	assert.Contains(t, out.String(), "IMPORTANT: Do you know Go?")

	_, ok, err = p.Answer(context.Background(), q, domain.Gap{})
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = p.Answer(context.Background(), q, domain.Gap{})
	require.NoError(t, err)
	assert.False(t, ok)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = p.Answer(ctx, q, domain.Gap{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPromptAnswers_CancelWhileWaiting(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	p := NewPromptAnswers(r, io.Discard)
	q := domain.Question{Question: "Do you know Go?", Priority: domain.PriorityHigh}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, _, err := p.Answer(ctx, q, domain.Gap{})
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Answer did not return after cancellation")
	}

	go func() { _, _ = io.WriteString(w, "Yes\n") }()
	answer, ok, err := p.Answer(context.Background(), q, domain.Gap{})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Yes", answer)
}

func TestDeclined(t *testing.T) {
	for _, s := range []string{"no", " None ", "N/A", "no experience", "No, never"} {
		assert.True(t, declined(s), s)
	}
	for _, s := range []string{"yes", "nominal experience with Go", "Node.js"} {
		assert.False(t, declined(s), s)
	}
}
