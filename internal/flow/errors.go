package flow

import (
	"errors"
	"fmt"
)

// Run-level errors.
var (
	// ErrUnstable indicates a face velocity became NaN or Inf.
	ErrUnstable = errors.New("flow: simulation unstable (non-finite face velocity)")

	// ErrCanceled indicates the run was interrupted by its context.
	ErrCanceled = errors.New("flow: run canceled by context")
)

// SimulationError wraps an error with the step at which it happened.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
