package lm

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/arloliu/ll5fit/internal/options"
)

// Default solver settings.
const (
	DefaultMaxIterations     = 500
	DefaultFunctionTolerance = 1e-12
	DefaultStepTolerance     = 1e-12
	DefaultInitialDamping    = 1e-3
	DefaultDampingDecrease   = 0.1
	DefaultDampingIncrease   = 10.0
	DefaultMaxRejections     = 30
)

// minDamping keeps λ from underflowing after a long run of accepted steps.
const minDamping = 1e-15

// Config holds the solver settings.
type Config struct {
	// MaxIterations caps the number of Jacobian evaluations (outer iterations).
	MaxIterations int
	// FunctionTolerance is the relative sum-of-squares decrease that counts as converged.
	FunctionTolerance float64
	// StepTolerance is the relative step norm that counts as converged.
	StepTolerance float64
	// InitialDamping is the starting λ.
	InitialDamping float64
	// DampingDecrease multiplies λ after an accepted step (0 < x < 1).
	DampingDecrease float64
	// DampingIncrease multiplies λ after a rejected step or a singular solve (x > 1).
	DampingIncrease float64
	// MaxRejections is the number of consecutive rejected steps tolerated within one
	// iteration; one more returns ErrNoImprovement.
	MaxRejections int
	// FailOnNonFiniteTrial turns NaN/Inf residuals at a trial point into
	// ErrNumericInstability instead of a rejected step.
	FailOnNonFiniteTrial bool
	// Logger receives per-iteration diagnostics.
	Logger zerolog.Logger
}

// DefaultConfig returns the default solver settings.
func DefaultConfig() Config {
	return Config{
		MaxIterations:     DefaultMaxIterations,
		FunctionTolerance: DefaultFunctionTolerance,
		StepTolerance:     DefaultStepTolerance,
		InitialDamping:    DefaultInitialDamping,
		DampingDecrease:   DefaultDampingDecrease,
		DampingIncrease:   DefaultDampingIncrease,
		MaxRejections:     DefaultMaxRejections,
		Logger:            zerolog.Nop(),
	}
}

// Validate checks the settings for consistency.
func (c *Config) Validate() error {
	switch {
	case c.MaxIterations < 1:
		return fmt.Errorf("%w: max iterations must be positive, got %d", ErrInvalidConfig, c.MaxIterations)
	case !nonNegativeFinite(c.FunctionTolerance):
		return fmt.Errorf("%w: function tolerance must be finite and non-negative, got %g", ErrInvalidConfig, c.FunctionTolerance)
	case !nonNegativeFinite(c.StepTolerance):
		return fmt.Errorf("%w: step tolerance must be finite and non-negative, got %g", ErrInvalidConfig, c.StepTolerance)
	case !(c.InitialDamping > 0) || math.IsInf(c.InitialDamping, 1):
		return fmt.Errorf("%w: initial damping must be positive, got %g", ErrInvalidConfig, c.InitialDamping)
	case !(c.DampingDecrease > 0 && c.DampingDecrease < 1):
		return fmt.Errorf("%w: damping decrease must be in (0, 1), got %g", ErrInvalidConfig, c.DampingDecrease)
	case !(c.DampingIncrease > 1) || math.IsInf(c.DampingIncrease, 1):
		return fmt.Errorf("%w: damping increase must be greater than 1, got %g", ErrInvalidConfig, c.DampingIncrease)
	case c.MaxRejections < 0:
		return fmt.Errorf("%w: max rejections must not be negative, got %d", ErrInvalidConfig, c.MaxRejections)
	}

	return nil
}

func nonNegativeFinite(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}

// Option is a functional option for Config.
type Option = options.Option[*Config]

// WithMaxIterations sets the iteration cap.
func WithMaxIterations(n int) Option {
	return options.NoError(func(cfg *Config) {
		cfg.MaxIterations = n
	})
}

// WithFunctionTolerance sets the relative sum-of-squares convergence tolerance.
func WithFunctionTolerance(tol float64) Option {
	return options.NoError(func(cfg *Config) {
		cfg.FunctionTolerance = tol
	})
}

// WithStepTolerance sets the relative step-norm convergence tolerance.
func WithStepTolerance(tol float64) Option {
	return options.NoError(func(cfg *Config) {
		cfg.StepTolerance = tol
	})
}

// WithInitialDamping sets the starting damping factor λ.
func WithInitialDamping(lambda float64) Option {
	return options.NoError(func(cfg *Config) {
		cfg.InitialDamping = lambda
	})
}

// WithDampingFactors sets the multipliers applied to λ after accepted and rejected steps.
func WithDampingFactors(decrease, increase float64) Option {
	return options.NoError(func(cfg *Config) {
		cfg.DampingDecrease = decrease
		cfg.DampingIncrease = increase
	})
}

// WithMaxRejections sets how many consecutive rejected steps are tolerated. The solver
// fails with ErrNoImprovement on rejection n+1.
func WithMaxRejections(n int) Option {
	return options.NoError(func(cfg *Config) {
		cfg.MaxRejections = n
	})
}

// WithFailOnNonFiniteTrial makes NaN/Inf residuals at a trial point fatal.
func WithFailOnNonFiniteTrial(enabled bool) Option {
	return options.NoError(func(cfg *Config) {
		cfg.FailOnNonFiniteTrial = enabled
	})
}

// WithLogger sets the logger used for solver diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return options.NoError(func(cfg *Config) {
		cfg.Logger = logger
	})
}
