package ll5

import (
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arloliu/ll5fit/internal/options"
	"github.com/arloliu/ll5fit/lm"
)

// DefaultZeroDose replaces x = 0 before fitting.
const DefaultZeroDose = 1e-100

// FixedMode selects how fixed parameters are honoured.
type FixedMode uint8

const (
	// FixedExclude removes fixed parameters from the optimisation and substitutes their
	// values inside the model.
	FixedExclude FixedMode = iota
	// FixedSeedAndVerify optimises all five parameters, using fixed values as seeds, and
	// fails with ErrFixedParameterViolated if any fixed value moved.
	FixedSeedAndVerify
)

var fixedModeNames = map[FixedMode]string{
	FixedExclude:       "exclude",
	FixedSeedAndVerify: "seed-and-verify",
}

// String returns the string representation of the mode.
func (m FixedMode) String() string {
	if name, ok := fixedModeNames[m]; ok {
		return name
	}

	return "unknown"
}

// FixedModeFromString parses a mode name ("exclude" or "seed-and-verify").
func FixedModeFromString(name string) (FixedMode, error) {
	for mode, n := range fixedModeNames {
		if n == strings.ToLower(name) {
			return mode, nil
		}
	}

	return 0, fmt.Errorf("%w: unknown fixed mode %q", ErrInvalidInput, name)
}

// FitConfig holds the settings of a fit.
type FitConfig struct {
	SolverOptions []lm.Option
	SeedPolicy    SeedPolicy
	FixedMode     FixedMode
	ZeroDose      float64
	Logger        zerolog.Logger
}

func defaultFitConfig() FitConfig {
	return FitConfig{
		SeedPolicy: SeedHeuristic,
		FixedMode:  FixedExclude,
		ZeroDose:   DefaultZeroDose,
		Logger:     zerolog.Nop(),
	}
}

// Validate checks the settings for consistency.
func (c *FitConfig) Validate() error {
	if _, ok := seedPolicyNames[c.SeedPolicy]; !ok {
		return fmt.Errorf("%w: unknown seed policy %d", ErrInvalidInput, c.SeedPolicy)
	}
	if _, ok := fixedModeNames[c.FixedMode]; !ok {
		return fmt.Errorf("%w: unknown fixed mode %d", ErrInvalidInput, c.FixedMode)
	}
	if !(c.ZeroDose > 0) || math.IsInf(c.ZeroDose, 1) {
		return fmt.Errorf("%w: zero dose substitute must be positive and finite, got %g", ErrInvalidInput, c.ZeroDose)
	}

	return nil
}

// FitOption is a functional option for FitConfig.
type FitOption = options.Option[*FitConfig]

// WithSolverOptions passes options through to lm.Solve.
func WithSolverOptions(opts ...lm.Option) FitOption {
	return options.NoError(func(cfg *FitConfig) {
		cfg.SolverOptions = append(cfg.SolverOptions, opts...)
	})
}

// WithSeedPolicy sets how free parameters are seeded.
func WithSeedPolicy(policy SeedPolicy) FitOption {
	return options.NoError(func(cfg *FitConfig) {
		cfg.SeedPolicy = policy
	})
}

// WithFixedMode sets how fixed parameters are honoured.
func WithFixedMode(mode FixedMode) FitOption {
	return options.NoError(func(cfg *FitConfig) {
		cfg.FixedMode = mode
	})
}

// WithZeroDose sets the value that replaces x = 0.
func WithZeroDose(v float64) FitOption {
	return options.NoError(func(cfg *FitConfig) {
		cfg.ZeroDose = v
	})
}

// WithLogger sets the logger for the fit and the solver.
func WithLogger(logger zerolog.Logger) FitOption {
	return options.NoError(func(cfg *FitConfig) {
		cfg.Logger = logger
	})
}
