package heli

import (
	"errors"
	"fmt"
)

var (
	// ErrDimensionMismatch indicates a parameter or noise vector of the wrong length.
	ErrDimensionMismatch = errors.New("heli: dimension mismatch")

	// ErrInvalidConfig indicates a non-positive timestep or step budget.
	ErrInvalidConfig = errors.New("heli: invalid config")

	// ErrParameterBounds indicates an unknown or out-of-range coefficient.
	ErrParameterBounds = errors.New("heli: parameter out of valid bounds")

	// ErrUnknownAirframe indicates a preset name that is not registered.
	ErrUnknownAirframe = errors.New("heli: unknown airframe")

	// ErrInvalidState indicates NaN or Inf in the state.
	ErrInvalidState = errors.New("heli: invalid state (NaN or Inf detected)")
)

// StepError wraps an error with episode context.
type StepError struct {
	Step    int
	State   State
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d: %v", e.Step, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}

// Validate reports a StepError when the snapshot holds a non-finite state.
func (s Snapshot) Validate() error {
	if !s.State.IsValid() {
		return &StepError{Step: s.Steps, State: s.State, Wrapped: ErrInvalidState}
	}
	return nil
}
