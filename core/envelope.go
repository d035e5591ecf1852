package core

import (
	"encoding/json"
	"fmt"
	"time"
)

// Envelope is the request half of a cross-unit call. It is created by the
// calling unit and treated as immutable afterwards.
type Envelope struct {
	Sender        string    `json:"sender"`
	Recipient     string    `json:"recipient"`
	Action        string    `json:"action"`
	Params        Params    `json:"params"`
	CorrelationID string    `json:"correlation_id"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewEnvelope builds an envelope stamped with now. An empty correlationID is
// replaced by the generated form {sender}_{recipient}_{timestamp}.
func NewEnvelope(sender, recipient, action string, params Params, correlationID string, now time.Time) Envelope {
	now = now.UTC()
	if correlationID == "" {
		correlationID = NewCorrelationID(sender, recipient, now)
	}
	if params == nil {
		params = Params{}
	}
	return Envelope{
		Sender:        sender,
		Recipient:     recipient,
		Action:        action,
		Params:        params,
		CorrelationID: correlationID,
		Timestamp:     now,
	}
}

// NewCorrelationID returns the tracing key used when the caller supplies none.
// It is not a deduplication key; reusing one concurrently is a caller error.
func NewCorrelationID(sender, recipient string, at time.Time) string {
	return fmt.Sprintf("%s_%s_%s", sender, recipient, at.UTC().Format(time.RFC3339Nano))
}

// Result is the response half of a cross-unit call. Exactly one of Data and
// Error is meaningful depending on Success.
type Result struct {
	Success       bool
	Data          Data
	CorrelationID string
	Error         string
}

// Succeed wraps a handler payload into a success Result. A nil payload is
// normalized to an empty map so callers never need a nil check.
func Succeed(correlationID string, data Data) Result {
	if data == nil {
		data = Data{}
	}
	return Result{Success: true, Data: data, CorrelationID: correlationID}
}

// Fail wraps an error into a failure Result carrying only its text.
func Fail(correlationID string, err error) Result {
	msg := "unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return Result{Success: false, CorrelationID: correlationID, Error: msg}
}

// Err returns the failure as an error value, or nil on success.
func (r Result) Err() error {
	if r.Success {
		return nil
	}
	return &CallError{CorrelationID: r.CorrelationID, Message: r.Error}
}

type resultJSON struct {
	Success       bool    `json:"success"`
	Data          Data    `json:"data"`
	CorrelationID string  `json:"correlation_id"`
	Error         *string `json:"error"`
}

// MarshalJSON always emits both data and error, using null for the one that
// does not apply.
func (r Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{Success: r.Success, CorrelationID: r.CorrelationID}
	if r.Success {
		out.Data = r.Data
	} else {
		msg := r.Error
		out.Error = &msg
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the shape produced by MarshalJSON.
func (r *Result) UnmarshalJSON(b []byte) error {
	var in resultJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	r.Success = in.Success
	r.Data = in.Data
	r.CorrelationID = in.CorrelationID
	r.Error = ""
	if in.Error != nil {
		r.Error = *in.Error
	}
	return nil
}
