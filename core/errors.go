package core

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownRecipient is returned when the target unit is not a registered peer.
	ErrUnknownRecipient = errors.New("unknown recipient")
	// ErrUnknownAction is returned when the target unit exposes no such action.
	ErrUnknownAction = errors.New("unknown action")
	// ErrInvalidParam is returned when a parameter is missing or has the wrong type.
	ErrInvalidParam = errors.New("invalid parameter")
)

// PanicError carries a value recovered from a panicking handler.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string { return fmt.Sprintf("panic: %v", e.Value) }

// CallError is the error form of a failed Result. Only the text of the
// original failure survives the call boundary.
type CallError struct {
	CorrelationID string
	Message       string
}

func (e *CallError) Error() string { return e.Message }
