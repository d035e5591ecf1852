package pipeline

import "errors"

// ErrStage marks a failed pipeline stage.
var ErrStage = errors.New("pipeline stage failed")

// StageError reports which stage failed and why. It matches ErrStage and the
// underlying cause with errors.Is.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return e.Stage + " failed: " + e.Err.Error() }

func (e *StageError) Unwrap() []error { return []error{ErrStage, e.Err} }
