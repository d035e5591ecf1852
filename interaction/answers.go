package interaction

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/hupe1980/cvmesh/domain"
)

// AnswerSource supplies the user's answer to a question. ok is false when
// the user has nothing to add.
type AnswerSource interface {
	Answer(ctx context.Context, q domain.Question, gap domain.Gap) (answer string, ok bool, err error)
}

// NoAnswers never has an answer. It runs the pipeline non-interactively.
type NoAnswers struct{}

// Answer implements AnswerSource.
func (NoAnswers) Answer(context.Context, domain.Question, domain.Gap) (string, bool, error) {
	return "", false, nil
}

// ScriptedAnswers answers from a fixed table. Keys are matched against the
// gap id, then the lower-cased gap description, then the gap category.
type ScriptedAnswers map[string]string

// Answer implements AnswerSource.
func (s ScriptedAnswers) Answer(_ context.Context, _ domain.Question, gap domain.Gap) (string, bool, error) {
	for _, key := range []string{gap.ID, strings.ToLower(gap.Description), gap.Category} {
		if a, ok := s[key]; ok && strings.TrimSpace(a) != "" {
			return a, true, nil
		}
	}
	return "", false, nil
}

// PromptAnswers asks on an output stream and reads one line per answer.
// Lines are read by a background goroutine, so a cancelled context ends a
// pending Answer without waiting for input. A line typed after that
// cancellation is handed to the next Answer.
type PromptAnswers struct {
	mu  sync.Mutex
	in  *bufio.Scanner
	out io.Writer

	start sync.Once
	lines chan string
	err   error // set before lines is closed
}

// NewPromptAnswers creates a line based prompt, typically on stdin/stdout.
func NewPromptAnswers(in io.Reader, out io.Writer) *PromptAnswers {
	return &PromptAnswers{in: bufio.NewScanner(in), out: out, lines: make(chan string)}
}

func (p *PromptAnswers) read() {
	for p.in.Scan() {
		p.lines <- p.in.Text()
	}
	p.err = p.in.Err()
	close(p.lines)
}

// Answer implements AnswerSource. An empty line means no answer.
func (p *PromptAnswers) Answer(ctx context.Context, q domain.Question, _ domain.Gap) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	prefix := ""
	switch q.Priority {
	case domain.PriorityCritical:
		prefix = "IMPORTANT: "
	case domain.PriorityHigh:
		prefix = "! "
	}
	if _, err := fmt.Fprintf(p.out, "%s%s\n> ", prefix, q.Question); err != nil {
		return "", false, err
	}

	p.start.Do(func() { go p.read() })
	select {
	case <-ctx.Done():
		return "", false, ctx.Err()
	case line, ok := <-p.lines:
		if !ok {
			return "", false, p.err
		}
		answer := strings.TrimSpace(line)
		return answer, answer != "", nil
	}
}
