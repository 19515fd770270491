// Package metrics records fit outcomes as Prometheus metrics and writes them in the
// node-exporter textfile format.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arloliu/ll5fit/ll5"
	"github.com/arloliu/ll5fit/lm"
)

const namespace = "ll5fit"

// Outcome label values.
const (
	OutcomeConverged     = "converged"
	OutcomeMaxIterations = "max_iterations"
	OutcomeError         = "error"
)

// FitMetrics holds the fit collectors on a private registry.
type FitMetrics struct {
	registry   *prometheus.Registry
	fits       *prometheus.CounterVec
	iterations prometheus.Histogram
	duration   prometheus.Histogram
	ssr        prometheus.Gauge
}

// New creates the collectors and registers them on a fresh registry.
func New() *FitMetrics {
	m := &FitMetrics{
		registry: prometheus.NewRegistry(),
		fits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "fit",
				Name:      "total",
				Help:      "Total number of fits by outcome and failure cause",
			},
			[]string{"outcome", "cause"},
		),
		iterations: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "fit",
				Name:      "iterations",
				Help:      "Solver iterations per successful fit",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "fit",
				Name:      "duration_seconds",
				Help:      "Duration of fits in seconds",
				Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
			},
		),
		ssr: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "fit",
				Name:      "last_ssr",
				Help:      "Residual sum of squares of the most recent successful fit",
			},
		),
	}
	m.registry.MustRegister(m.fits, m.iterations, m.duration, m.ssr)

	return m
}

// Registry returns the registry holding the fit collectors.
func (m *FitMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe records one fit. Exactly one of res and err is expected to be non-nil.
func (m *FitMetrics) Observe(res *ll5.Result, err error, elapsed time.Duration) {
	m.duration.Observe(elapsed.Seconds())

	if err != nil {
		m.fits.WithLabelValues(OutcomeError, Cause(err)).Inc()
		return
	}

	outcome := OutcomeConverged
	if !res.Converged() {
		outcome = OutcomeMaxIterations
	}
	m.fits.WithLabelValues(outcome, "").Inc()
	m.iterations.Observe(float64(res.Iterations))
	m.ssr.Set(res.SSR)
}

// WriteTextfile writes the current values to path for the node-exporter textfile
// collector. The file is replaced atomically.
func (m *FitMetrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

var causes = []struct {
	err   error
	label string
}{
	{ll5.ErrInvalidInput, "invalid_input"},
	{ll5.ErrFixedParameterViolated, "fixed_parameter_violated"},
	{lm.ErrInvalidProblem, "invalid_problem"},
	{lm.ErrInvalidConfig, "invalid_config"},
	{lm.ErrDegenerateProblem, "degenerate_problem"},
	{lm.ErrSingularSystem, "singular_system"},
	{lm.ErrNoImprovement, "no_improvement"},
	{lm.ErrNumericInstability, "numeric_instability"},
}

// Cause maps a fit error to a short label value, or "other" for unrecognised errors.
func Cause(err error) string {
	for _, c := range causes {
		if errors.Is(err, c.err) {
			return c.label
		}
	}

	return "other"
}
