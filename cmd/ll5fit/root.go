package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/arloliu/ll5fit/ll5"
)

const defaultLogLevel = "info"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ll5fit",
		Short:         "Fit five-parameter log-logistic dose-response curves",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("log-level", defaultLogLevel, "Log level: trace|debug|info|warn|error")

	root.AddCommand(newFitCmd(), newCurveCmd())

	return root
}

// newLogger builds a console logger on w at the named level.
func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}

	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}

	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

// parseAssignments parses name=value pairs such as "d=10".
func parseAssignments(pairs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("expected name=value, got %q", pair)
		}
		name = strings.TrimSpace(name)
		if _, err := ll5.ParamIndex(name); err != nil {
			return nil, err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", name, err)
		}
		out[name] = v
	}

	return out, nil
}
