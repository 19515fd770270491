package lm

import "errors"

var (
	// ErrInvalidProblem is returned when a Problem is malformed (no residual function,
	// empty initial guess, non-positive point count, non-finite initial guess).
	ErrInvalidProblem = errors.New("lm: invalid problem")

	// ErrInvalidConfig is returned when solver options are out of range.
	ErrInvalidConfig = errors.New("lm: invalid configuration")

	// ErrDegenerateProblem is returned when there are fewer residuals than parameters.
	ErrDegenerateProblem = errors.New("lm: degenerate problem")

	// ErrSingularSystem is returned when the damped normal equations cannot be solved.
	ErrSingularSystem = errors.New("lm: singular system")

	// ErrNoImprovement is returned when the rejection limit is exceeded.
	ErrNoImprovement = errors.New("lm: no improvement")

	// ErrNumericInstability is returned as soon as NaN or Inf shows up in the current
	// residuals, the Jacobian, or a solved step.
	ErrNumericInstability = errors.New("lm: numeric instability")
)
