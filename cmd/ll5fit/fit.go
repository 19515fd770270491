package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/arloliu/ll5fit"
	"github.com/arloliu/ll5fit/internal/config"
	"github.com/arloliu/ll5fit/internal/metrics"
	"github.com/arloliu/ll5fit/ll5"
)

type fitFlags struct {
	configPath    string
	fix           []string
	seed          []string
	seedPolicy    string
	fixedMode     string
	maxIterations int
	output        string
	format        string
	metricsFile   string
}

func newFitCmd() *cobra.Command {
	var flags fitFlags

	cmd := &cobra.Command{
		Use:   "fit <data.csv>",
		Short: "Fit the LL5 curve to an x,y CSV file",
		Long: `Fit y = c + (d - c) / (1 + (x/e)^b)^f to a two-column CSV file.

The file may be compressed; .zst, .sz/.s2 and .lz4 suffixes are recognised.
Settings come from --config (YAML, TOML or JSON) and are overridden by flags.`,
		Example: `  ll5fit fit doses.csv --fix d=10
  ll5fit fit doses.csv.zst --seed e=4 --format json --output report.json.zst`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFit(cmd, args[0], flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.configPath, "config", "", "Configuration file (.yaml, .yml, .toml, .json)")
	f.StringSliceVar(&flags.fix, "fix", nil, "Fixed parameters as name=value, e.g. d=10,c=0")
	f.StringSliceVar(&flags.seed, "seed", nil, "Starting values as name=value, e.g. e=4")
	f.StringVar(&flags.seedPolicy, "seed-policy", "", "Default seeds: heuristic|constant")
	f.StringVar(&flags.fixedMode, "fixed-mode", "", "Fixed parameter handling: exclude|seed-and-verify")
	f.IntVar(&flags.maxIterations, "max-iterations", 0, "Solver iteration cap (0 keeps the default)")
	f.StringVarP(&flags.output, "output", "o", "", "Write the JSON report to this file (compressed by suffix)")
	f.StringVar(&flags.format, "format", "text", "Output format on stdout: text|json")
	f.StringVar(&flags.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")

	return cmd
}

// loadFitConfig merges the config file with the flags that were set explicitly.
func loadFitConfig(cmd *cobra.Command, flags fitFlags) (config.Config, error) {
	var cfg config.Config
	if flags.configPath != "" {
		var err error
		if cfg, err = config.Load(flags.configPath); err != nil {
			return cfg, err
		}
	}

	changed := cmd.Flags().Changed
	if changed("seed-policy") {
		cfg.SeedPolicy = flags.seedPolicy
	}
	if changed("fixed-mode") {
		cfg.FixedMode = flags.fixedMode
	}
	if changed("max-iterations") {
		cfg.Solver.MaxIterations = flags.maxIterations
	}
	if changed("output") {
		cfg.Output.Path = flags.output
	}
	if changed("format") || cfg.Output.Format == "" {
		cfg.Output.Format = flags.format
	}
	if changed("metrics-file") {
		cfg.Output.MetricsFile = flags.metricsFile
	}
	if changed("log-level") || cfg.LogLevel == "" {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}

	fixed, err := parseAssignments(flags.fix)
	if err != nil {
		return cfg, fmt.Errorf("--fix: %w", err)
	}
	seeds, err := parseAssignments(flags.seed)
	if err != nil {
		return cfg, fmt.Errorf("--seed: %w", err)
	}
	for name := range fixed {
		if _, ok := seeds[name]; ok {
			return cfg, fmt.Errorf("parameter %s given to both --fix and --seed", name)
		}
	}
	cfg.Fixed = mergeAssignments(cfg.Fixed, fixed, cfg.Seeds)
	cfg.Seeds = mergeAssignments(cfg.Seeds, seeds, cfg.Fixed)

	return cfg, nil
}

// mergeAssignments adds overrides to base, dropping each overridden name from other so
// a flag can turn a seeded parameter into a fixed one and back.
func mergeAssignments(base, overrides, other map[string]float64) map[string]float64 {
	if len(overrides) == 0 {
		return base
	}
	if base == nil {
		base = make(map[string]float64, len(overrides))
	}
	for name, v := range overrides {
		base[name] = v
		delete(other, name)
	}

	return base
}

func runFit(cmd *cobra.Command, path string, flags fitFlags) error {
	cfg, err := loadFitConfig(cmd, flags)
	if err != nil {
		return err
	}
	if cfg.Output.Format != "text" && cfg.Output.Format != "json" {
		return fmt.Errorf("unsupported format %q (want text or json)", cfg.Output.Format)
	}

	logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return err
	}

	cons, err := cfg.Constraints()
	if err != nil {
		return err
	}
	opts, err := cfg.FitOptions()
	if err != nil {
		return err
	}
	opts = append(opts, ll5.WithLogger(logger))

	fm := metrics.New()
	start := time.Now()
	res, ds, err := ll5fit.FitFile(path, cons, opts...)
	if ds != nil {
		fm.Observe(res, err, time.Since(start))
	}
	if cfg.Output.MetricsFile != "" {
		if werr := fm.WriteTextfile(cfg.Output.MetricsFile); werr != nil {
			err = errors.Join(err, fmt.Errorf("write metrics: %w", werr))
		}
	}
	if err != nil {
		return err
	}

	logFitResult(logger, res)

	report := ll5fit.NewReport(res, ds)
	if cfg.Output.Path != "" {
		if err := report.WriteFile(cfg.Output.Path); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		logger.Info().Str("path", cfg.Output.Path).Msg("report written")
	}

	if cfg.Output.Format == "json" {
		return report.WriteJSON(cmd.OutOrStdout())
	}

	return report.WriteText(cmd.OutOrStdout())
}

func logFitResult(logger zerolog.Logger, res *ll5.Result) {
	if !res.Converged() {
		logger.Warn().
			Int("iterations", res.Iterations).
			Float64("ssr", res.SSR).
			Msg("iteration limit reached before convergence; parameters are the best found")
	}
}
