package testutil

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/hupe1980/cvmesh/agent"
	"github.com/hupe1980/cvmesh/core"
)

// Reply scripts the outcome of one action. Handler, when set, wins over the
// static fields.
type Reply struct {
	Data    core.Data
	Err     error
	Panic   any
	Handler core.Handler
}

// Call records one handled invocation.
type Call struct {
	Action string
	Params core.Params
}

// FakeUnit is a capability unit whose actions replay a script and record
// every call they receive.
type FakeUnit struct {
	*agent.Unit

	mu    sync.Mutex
	calls []Call
}

// NewFakeUnit builds a unit named name exposing one action per script entry.
func NewFakeUnit(name string, script map[string]Reply) *FakeUnit {
	f := &FakeUnit{}
	actions := make([]core.Action, 0, len(script))
	for _, action := range slices.Sorted(maps.Keys(script)) {
		reply := script[action]
		actions = append(actions, core.Action{
			Name:    action,
			Handler: f.record(action, reply),
		})
	}
	f.Unit = agent.New(name, func(o *agent.Options) { o.Actions = actions })
	return f
}

func (f *FakeUnit) record(action string, r Reply) core.Handler {
	return func(ctx context.Context, params core.Params) (core.Data, error) {
		f.mu.Lock()
		f.calls = append(f.calls, Call{Action: action, Params: params})
		f.mu.Unlock()

		switch {
		case r.Handler != nil:
			return r.Handler(ctx, params)
		case r.Panic != nil:
			panic(r.Panic)
		case r.Err != nil:
			return nil, r.Err
		default:
			return maps.Clone(r.Data), nil
		}
	}
}

// Calls returns the recorded calls in arrival order.
func (f *FakeUnit) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// CallsTo returns the recorded calls of one action.
func (f *FakeUnit) CallsTo(action string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Action == action {
			out = append(out, c)
		}
	}
	return out
}

// Called reports whether any action of the unit was invoked.
func (f *FakeUnit) Called() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls) > 0
}
