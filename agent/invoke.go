package agent

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/hupe1980/cvmesh/core"
)

// CallOptions tune a single Invoke.
type CallOptions struct {
	// CorrelationID overrides the generated tracing key.
	CorrelationID string
	// Timeout bounds the call and overrides the unit's CallTimeout. Zero
	// keeps the unit's default, a negative value disables the deadline.
	Timeout time.Duration
}

// WithCorrelationID sets the correlation id of a call.
func WithCorrelationID(id string) func(o *CallOptions) {
	return func(o *CallOptions) { o.CorrelationID = id }
}

// WithTimeout bounds a call.
func WithTimeout(d time.Duration) func(o *CallOptions) {
	return func(o *CallOptions) { o.Timeout = d }
}

// WithoutTimeout lifts the unit's CallTimeout for one call. The caller's
// context still applies.
func WithoutTimeout() func(o *CallOptions) {
	return func(o *CallOptions) { o.Timeout = -1 }
}

// Invoke calls action on the peer registered as recipient. It is the only way
// one unit calls another and it never returns an error or panics: routing
// failures, handler errors and handler panics all come back as a failure
// Result that echoes the envelope's correlation id.
func (u *Unit) Invoke(ctx context.Context, recipient, action string, params core.Params, optFns ...func(o *CallOptions)) core.Result {
	opts := CallOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Timeout == 0 {
		opts.Timeout = u.callTimeout
	}

	env := core.NewEnvelope(u.name, recipient, action, params, opts.CorrelationID, u.clock())
	u.trace(func() {
		u.logger.Info("a2a call",
			"sender", env.Sender,
			"recipient", env.Recipient,
			"action", env.Action,
			"correlation_id", env.CorrelationID,
		)
	})

	peer, ok := u.Peer(recipient)
	if !ok {
		return u.fail(env, 0, fmt.Errorf("%w: agent %q not registered with %q", core.ErrUnknownRecipient, recipient, u.name))
	}

	handler, ok := peer.Handler(action)
	if !ok {
		return u.fail(env, 0, fmt.Errorf("%w: agent %q does not have action %q", core.ErrUnknownAction, recipient, action))
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	data, err := call(ctx, handler, env.Params.Clone())
	elapsed := time.Since(start)
	if err == nil && ctx.Err() != nil {
		err = fmt.Errorf("agent %q action %q: %w", recipient, action, ctx.Err())
	}
	if err != nil {
		return u.fail(env, elapsed, err)
	}

	u.trace(func() {
		u.logger.Info("a2a response",
			"sender", env.Sender,
			"recipient", env.Recipient,
			"action", env.Action,
			"correlation_id", env.CorrelationID,
			"duration", elapsed,
		)
	})
	return core.Succeed(env.CorrelationID, data)
}

// call runs a handler, turning a panic into a *core.PanicError.
func call(ctx context.Context, h core.Handler, params core.Params) (data core.Data, err error) {
	defer func() {
		if r := recover(); r != nil {
			data = nil
			err = &core.PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return h(ctx, params)
}

func (u *Unit) fail(env core.Envelope, elapsed time.Duration, err error) core.Result {
	u.trace(func() {
		u.logger.Error("a2a call failed",
			"sender", env.Sender,
			"recipient", env.Recipient,
			"action", env.Action,
			"correlation_id", env.CorrelationID,
			"duration", elapsed,
			"error", err.Error(),
		)
	})
	return core.Fail(env.CorrelationID, err)
}

// trace runs a logging statement; a panicking logger must not change the
// outcome of the call being traced.
func (u *Unit) trace(fn func()) {
	defer func() { _ = recover() }()
	fn()
}

// Notify sends a fire-and-forget message to a peer. It is recorded in the
// trace log only; nothing is dispatched.
func (u *Unit) Notify(_ context.Context, recipient, content, kind string) {
	if kind == "" {
		kind = "info"
	}
	u.trace(func() {
		u.logger.Info("a2a message", "sender", u.name, "recipient", recipient, "kind", kind, "content", content)
	})
}
