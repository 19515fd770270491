// Package config loads the ll5fit command-line configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/ll5fit/ll5"
	"github.com/arloliu/ll5fit/lm"
)

// Config holds fit settings read from a file.
// Zero values mean "unspecified": the library default applies, and command-line flags
// override whatever the file sets.
type Config struct {
	SeedPolicy string             `json:"seed_policy" yaml:"seed_policy" toml:"seed_policy"`
	FixedMode  string             `json:"fixed_mode" yaml:"fixed_mode" toml:"fixed_mode"`
	ZeroDose   float64            `json:"zero_dose" yaml:"zero_dose" toml:"zero_dose"`
	Fixed      map[string]float64 `json:"fixed" yaml:"fixed" toml:"fixed"`
	Seeds      map[string]float64 `json:"seeds" yaml:"seeds" toml:"seeds"`
	Solver     Solver             `json:"solver" yaml:"solver" toml:"solver"`
	Output     Output             `json:"output" yaml:"output" toml:"output"`
	LogLevel   string             `json:"log_level" yaml:"log_level" toml:"log_level"`
}

// Solver mirrors lm.Config.
type Solver struct {
	MaxIterations        int     `json:"max_iterations" yaml:"max_iterations" toml:"max_iterations"`
	FunctionTolerance    float64 `json:"function_tolerance" yaml:"function_tolerance" toml:"function_tolerance"`
	StepTolerance        float64 `json:"step_tolerance" yaml:"step_tolerance" toml:"step_tolerance"`
	InitialDamping       float64 `json:"initial_damping" yaml:"initial_damping" toml:"initial_damping"`
	DampingDecrease      float64 `json:"damping_decrease" yaml:"damping_decrease" toml:"damping_decrease"`
	DampingIncrease      float64 `json:"damping_increase" yaml:"damping_increase" toml:"damping_increase"`
	MaxRejections        int     `json:"max_rejections" yaml:"max_rejections" toml:"max_rejections"`
	FailOnNonFiniteTrial bool    `json:"fail_on_non_finite_trial" yaml:"fail_on_non_finite_trial" toml:"fail_on_non_finite_trial"`
}

// Output selects where and how the report is written.
type Output struct {
	Format      string `json:"format" yaml:"format" toml:"format"`
	Path        string `json:"path" yaml:"path" toml:"path"`
	MetricsFile string `json:"metrics_file" yaml:"metrics_file" toml:"metrics_file"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".json":
		err = json.Unmarshal(b, &cfg)
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Constraints converts the fixed and seeds tables into ll5 constraints.
func (c Config) Constraints() (ll5.Constraints, error) {
	var cons ll5.Constraints
	for _, name := range sortedKeys(c.Seeds) {
		i, err := ll5.ParamIndex(name)
		if err != nil {
			return cons, fmt.Errorf("seeds: %w", err)
		}
		cons[i] = ll5.Seed(c.Seeds[name])
	}
	for _, name := range sortedKeys(c.Fixed) {
		i, err := ll5.ParamIndex(name)
		if err != nil {
			return cons, fmt.Errorf("fixed: %w", err)
		}
		if _, seeded := c.Seeds[name]; seeded {
			return cons, fmt.Errorf("parameter %s is both fixed and seeded", name)
		}
		cons[i] = ll5.Fix(c.Fixed[name])
	}

	return cons, nil
}

// FitOptions converts the non-zero settings into ll5 options.
func (c Config) FitOptions() ([]ll5.FitOption, error) {
	var opts []ll5.FitOption

	if c.SeedPolicy != "" {
		policy, err := ll5.SeedPolicyFromString(c.SeedPolicy)
		if err != nil {
			return nil, err
		}
		opts = append(opts, ll5.WithSeedPolicy(policy))
	}
	if c.FixedMode != "" {
		mode, err := ll5.FixedModeFromString(c.FixedMode)
		if err != nil {
			return nil, err
		}
		opts = append(opts, ll5.WithFixedMode(mode))
	}
	if c.ZeroDose != 0 {
		opts = append(opts, ll5.WithZeroDose(c.ZeroDose))
	}
	if solverOpts := c.Solver.options(); len(solverOpts) > 0 {
		opts = append(opts, ll5.WithSolverOptions(solverOpts...))
	}

	return opts, nil
}

func (s Solver) options() []lm.Option {
	var opts []lm.Option
	if s.MaxIterations != 0 {
		opts = append(opts, lm.WithMaxIterations(s.MaxIterations))
	}
	if s.FunctionTolerance != 0 {
		opts = append(opts, lm.WithFunctionTolerance(s.FunctionTolerance))
	}
	if s.StepTolerance != 0 {
		opts = append(opts, lm.WithStepTolerance(s.StepTolerance))
	}
	if s.InitialDamping != 0 {
		opts = append(opts, lm.WithInitialDamping(s.InitialDamping))
	}
	if s.DampingDecrease != 0 || s.DampingIncrease != 0 {
		dec, inc := s.DampingDecrease, s.DampingIncrease
		if dec == 0 {
			dec = lm.DefaultDampingDecrease
		}
		if inc == 0 {
			inc = lm.DefaultDampingIncrease
		}
		opts = append(opts, lm.WithDampingFactors(dec, inc))
	}
	if s.MaxRejections != 0 {
		opts = append(opts, lm.WithMaxRejections(s.MaxRejections))
	}
	if s.FailOnNonFiniteTrial {
		opts = append(opts, lm.WithFailOnNonFiniteTrial(true))
	}

	return opts
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
