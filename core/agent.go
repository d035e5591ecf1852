package core

import "context"

// Handler is one entry of a unit's dispatch table. Expected failures are
// reported through the error; the invocation boundary additionally recovers
// panics.
type Handler func(ctx context.Context, params Params) (Data, error)

// Action binds a handler to the name peers use to call it.
type Action struct {
	Name        string
	Description string
	Handler     Handler
}

// Agent is the view one capability unit holds of a peer. Dispatch goes
// through Handler; nothing reflects over the peer's methods.
type Agent interface {
	Name() string
	Description() string
	Handler(action string) (Handler, bool)
	ListActions() []string
}

// ActionInfo describes one exposed action.
type ActionInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Descriptor is the capability descriptor of a unit: identity, exposed
// actions and the names of its known peers.
type Descriptor struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Actions     []ActionInfo `json:"actions"`
	Peers       []string     `json:"registered_agents"`
}
