package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/ll5fit/internal/options"
	"github.com/arloliu/ll5fit/ll5"
	"github.com/arloliu/ll5fit/lm"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))

	return p
}

const yamlConfig = `
seed_policy: constant
fixed_mode: seed-and-verify
zero_dose: 1e-50
fixed:
  d: 10
seeds:
  e: 4.5
solver:
  max_iterations: 50
  damping_increase: 5
output:
  format: json
  path: report.json.zst
  metrics_file: fit.prom
log_level: debug
`

const tomlConfig = `
seed_policy = "heuristic"
log_level = "warn"

[fixed]
c = 0.0
d = 10.0

[solver]
step_tolerance = 1e-10
fail_on_non_finite_trial = true
`

const jsonConfig = `{
  "fixed_mode": "exclude",
  "seeds": {"b": 2},
  "solver": {"max_rejections": 12, "initial_damping": 0.01},
  "output": {"format": "text"}
}`

func TestLoadYAML(t *testing.T) {
	p := writeTempFile(t, t.TempDir(), "fit.yaml", yamlConfig)
	cfg, err := Load(p)
	require.NoError(t, err)

	require.Equal(t, "constant", cfg.SeedPolicy)
	require.Equal(t, "seed-and-verify", cfg.FixedMode)
	require.Equal(t, 1e-50, cfg.ZeroDose)
	require.Equal(t, map[string]float64{"d": 10}, cfg.Fixed)
	require.Equal(t, map[string]float64{"e": 4.5}, cfg.Seeds)
	require.Equal(t, 50, cfg.Solver.MaxIterations)
	require.Equal(t, 5.0, cfg.Solver.DampingIncrease)
	require.Equal(t, Output{Format: "json", Path: "report.json.zst", MetricsFile: "fit.prom"}, cfg.Output)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadTOML(t *testing.T) {
	p := writeTempFile(t, t.TempDir(), "fit.toml", tomlConfig)
	cfg, err := Load(p)
	require.NoError(t, err)

	require.Equal(t, "heuristic", cfg.SeedPolicy)
	require.Equal(t, "warn", cfg.LogLevel)
	require.Equal(t, map[string]float64{"c": 0, "d": 10}, cfg.Fixed)
	require.Equal(t, 1e-10, cfg.Solver.StepTolerance)
	require.True(t, cfg.Solver.FailOnNonFiniteTrial)
}

func TestLoadJSON(t *testing.T) {
	p := writeTempFile(t, t.TempDir(), "fit.json", jsonConfig)
	cfg, err := Load(p)
	require.NoError(t, err)

	require.Equal(t, "exclude", cfg.FixedMode)
	require.Equal(t, map[string]float64{"b": 2}, cfg.Seeds)
	require.Equal(t, 12, cfg.Solver.MaxRejections)
	require.Equal(t, 0.01, cfg.Solver.InitialDamping)
	require.Equal(t, "text", cfg.Output.Format)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("")
	require.Error(t, err)

	_, err = Load("/definitely/not/a/real/file-12345.yaml")
	require.ErrorIs(t, err, os.ErrNotExist)

	d := t.TempDir()
	tests := map[string]string{
		"cfg.txt":   "not supported",
		"bad.yaml":  "fixed: [1, 2\n",
		"bad.json":  `{"fixed": }`,
		"bad.toml":  "seed_policy=heuristic\n",
		"type.yaml": "solver:\n  max_iterations: many\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeTempFile(t, d, name, content))
			require.Error(t, err)
		})
	}
}

func TestConstraints(t *testing.T) {
	cfg := Config{
		Fixed: map[string]float64{"d": 10, "c": 0},
		Seeds: map[string]float64{"e": 4},
	}

	cons, err := cfg.Constraints()
	require.NoError(t, err)
	require.Equal(t, ll5.Constraints{
		ll5.IndexC: ll5.Fix(0),
		ll5.IndexD: ll5.Fix(10),
		ll5.IndexE: ll5.Seed(4),
	}, cons)

	_, err = Config{Fixed: map[string]float64{"g": 1}}.Constraints()
	require.ErrorIs(t, err, ll5.ErrInvalidInput)

	_, err = Config{Seeds: map[string]float64{"B": 1}}.Constraints()
	require.ErrorIs(t, err, ll5.ErrInvalidInput)

	_, err = Config{Fixed: map[string]float64{"d": 1}, Seeds: map[string]float64{"d": 2}}.Constraints()
	require.ErrorContains(t, err, "both fixed and seeded")
}

func TestFitOptions(t *testing.T) {
	p := writeTempFile(t, t.TempDir(), "fit.yaml", yamlConfig)
	cfg, err := Load(p)
	require.NoError(t, err)

	opts, err := cfg.FitOptions()
	require.NoError(t, err)

	fc := ll5.FitConfig{ZeroDose: ll5.DefaultZeroDose, Logger: zerolog.Nop()}
	require.NoError(t, options.Apply(&fc, opts...))
	require.Equal(t, ll5.SeedConstant, fc.SeedPolicy)
	require.Equal(t, ll5.FixedSeedAndVerify, fc.FixedMode)
	require.Equal(t, 1e-50, fc.ZeroDose)
	require.Len(t, fc.SolverOptions, 2)

	sc := lm.DefaultConfig()
	require.NoError(t, options.Apply(&sc, fc.SolverOptions...))
	require.Equal(t, 50, sc.MaxIterations)
	require.Equal(t, lm.DefaultDampingDecrease, sc.DampingDecrease)
	require.Equal(t, 5.0, sc.DampingIncrease)
}

func TestFitOptions_Empty(t *testing.T) {
	opts, err := Config{}.FitOptions()
	require.NoError(t, err)
	require.Empty(t, opts)
}

func TestFitOptions_Invalid(t *testing.T) {
	_, err := Config{SeedPolicy: "random"}.FitOptions()
	require.ErrorIs(t, err, ll5.ErrInvalidInput)

	_, err = Config{FixedMode: "ignore"}.FitOptions()
	require.ErrorIs(t, err, ll5.ErrInvalidInput)
}
