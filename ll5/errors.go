package ll5

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for malformed data or constraints: mismatched
	// lengths, an empty dataset, or a NaN/Inf in the data or in a seed/fixed value.
	ErrInvalidInput = errors.New("ll5: invalid input")

	// ErrFitFailed matches every error returned because the solver failed.
	ErrFitFailed = errors.New("ll5: fit failed")

	// ErrFixedParameterViolated is returned when a fixed parameter did not come back
	// bit-identical.
	ErrFixedParameterViolated = errors.New("ll5: fixed parameter violated")
)

// FitError reports a solver failure.
//
// errors.Is matches both ErrFitFailed and the solver's own sentinel, such as
// lm.ErrSingularSystem or lm.ErrNoImprovement.
type FitError struct {
	// Free lists the names of the parameters that were being optimised.
	Free []string
	// Err is the solver error.
	Err error
}

// Error implements the error interface.
func (e *FitError) Error() string {
	return fmt.Sprintf("ll5: fit failed (free %v): %v", e.Free, e.Err)
}

// Unwrap returns ErrFitFailed and the underlying solver error.
func (e *FitError) Unwrap() []error {
	return []error{ErrFitFailed, e.Err}
}

// FixedViolationError reports a fixed parameter whose output differs from its input.
type FixedViolationError struct {
	Index int
	Want  float64
	Got   float64
}

// Error implements the error interface.
func (e *FixedViolationError) Error() string {
	return fmt.Sprintf("ll5: fixed parameter %s changed from %g to %g", ParamName(e.Index), e.Want, e.Got)
}

// Unwrap returns ErrFixedParameterViolated.
func (e *FixedViolationError) Unwrap() error {
	return ErrFixedParameterViolated
}
