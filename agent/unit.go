package agent

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/hupe1980/cvmesh/core"
	"github.com/hupe1980/cvmesh/logging"
)

// Options configures a Unit.
type Options struct {
	// Description is the human-readable purpose of the unit.
	Description string

	// Actions populate the dispatch table. Later entries with the same name
	// replace earlier ones.
	Actions []core.Action

	// Logger receives call trace records. Defaults to a NoOpLogger.
	Logger logging.Logger

	// CallTimeout bounds every outbound Invoke that does not set its own
	// timeout. Zero means no deadline beyond the caller's context.
	CallTimeout time.Duration

	// Clock stamps envelopes. Defaults to time.Now.
	Clock func() time.Time
}

// Unit is a named capability unit. It exposes a fixed dispatch table of
// actions and keeps a table of peers it may call through Invoke.
//
// The dispatch table is immutable after construction. The peer table is
// written during assembly (RegisterPeer / Connect) and only read afterwards;
// it is guarded by an RWMutex so reads stay cheap.
type Unit struct {
	name        string
	description string
	actions     map[string]core.Action
	logger      logging.Logger
	callTimeout time.Duration
	clock       func() time.Time

	mu    sync.RWMutex
	peers map[string]core.Agent
}

// New constructs a Unit with the given name.
func New(name string, optFns ...func(o *Options)) *Unit {
	opts := Options{
		Description: fmt.Sprintf("Agent %s", name),
		Logger:      logging.NoOpLogger{},
		Clock:       time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	actions := make(map[string]core.Action, len(opts.Actions))
	for _, a := range opts.Actions {
		if a.Name == "" || a.Handler == nil {
			continue
		}
		actions[a.Name] = a
	}

	return &Unit{
		name:        name,
		description: opts.Description,
		actions:     actions,
		logger:      logging.With(opts.Logger, "unit", name),
		callTimeout: opts.CallTimeout,
		clock:       opts.Clock,
		peers:       make(map[string]core.Agent),
	}
}

// Name returns the unit's unique name.
func (u *Unit) Name() string { return u.name }

// Description returns the human-readable purpose of the unit.
func (u *Unit) Description() string { return u.description }

// Logger returns the unit's logger, already tagged with the unit name.
func (u *Unit) Logger() logging.Logger { return u.logger }

// Handler looks up an action in the dispatch table.
func (u *Unit) Handler(action string) (core.Handler, bool) {
	a, ok := u.actions[action]
	if !ok {
		return nil, false
	}
	return a.Handler, true
}

// ListActions returns the sorted names of all exposed actions.
func (u *Unit) ListActions() []string {
	names := make([]string, 0, len(u.actions))
	for name := range u.actions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// RegisterPeer records a peer under name. Re-registering a name replaces the
// previous reference.
func (u *Unit) RegisterPeer(name string, peer core.Agent) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.peers[name] = peer
	u.logger.Debug("registered peer", "peer", name)
}

// Peer returns the peer registered under name.
func (u *Unit) Peer(name string) (core.Agent, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	p, ok := u.peers[name]
	return p, ok
}

// Peers returns the sorted names of all registered peers.
func (u *Unit) Peers() []string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	names := make([]string, 0, len(u.peers))
	for name := range u.peers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Info returns the unit's capability descriptor.
func (u *Unit) Info() core.Descriptor {
	names := u.ListActions()
	actions := make([]core.ActionInfo, 0, len(names))
	for _, name := range names {
		actions = append(actions, core.ActionInfo{Name: name, Description: u.actions[name].Description})
	}
	return core.Descriptor{
		Name:        u.name,
		Description: u.description,
		Actions:     actions,
		Peers:       u.Peers(),
	}
}

var _ core.Agent = (*Unit)(nil)
