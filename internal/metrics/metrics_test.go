package metrics

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/ll5fit/ll5"
	"github.com/arloliu/ll5fit/lm"
)

func TestObserve(t *testing.T) {
	m := New()

	m.Observe(&ll5.Result{Status: lm.StatusConverged, Iterations: 12, SSR: 0.5}, nil, time.Millisecond)
	m.Observe(&ll5.Result{Status: lm.StatusConverged, Iterations: 3, SSR: 0.25}, nil, time.Millisecond)
	m.Observe(&ll5.Result{Status: lm.StatusMaxIterationsReached, Iterations: 500, SSR: 1}, nil, time.Second)
	m.Observe(nil, &ll5.FitError{Err: lm.ErrSingularSystem}, time.Microsecond)

	require.Equal(t, 2.0, testutil.ToFloat64(m.fits.WithLabelValues(OutcomeConverged, "")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.fits.WithLabelValues(OutcomeMaxIterations, "")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.fits.WithLabelValues(OutcomeError, "singular_system")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.ssr))
	require.Equal(t, 3, testutil.CollectAndCount(m.fits))

	expected := `
# HELP ll5fit_fit_last_ssr Residual sum of squares of the most recent successful fit
# TYPE ll5fit_fit_last_ssr gauge
ll5fit_fit_last_ssr 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "ll5fit_fit_last_ssr"))
}

func TestCause(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("load: %w", ll5.ErrInvalidInput), "invalid_input"},
		{&ll5.FixedViolationError{Index: ll5.IndexD}, "fixed_parameter_violated"},
		{&ll5.FitError{Err: lm.ErrDegenerateProblem}, "degenerate_problem"},
		{&ll5.FitError{Err: fmt.Errorf("iteration 3: %w", lm.ErrNoImprovement)}, "no_improvement"},
		{&ll5.FitError{Err: lm.ErrNumericInstability}, "numeric_instability"},
		{&ll5.FitError{Err: lm.ErrInvalidConfig}, "invalid_config"},
		{lm.ErrInvalidProblem, "invalid_problem"},
		{errors.New("disk full"), "other"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, Cause(tt.err))
		})
	}
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.Observe(&ll5.Result{Status: lm.StatusConverged, Iterations: 7, SSR: 0.125}, nil, 2*time.Millisecond)

	path := filepath.Join(t.TempDir(), "ll5fit.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	body := string(data)
	require.Contains(t, body, `ll5fit_fit_total{cause="",outcome="converged"} 1`)
	require.Contains(t, body, "ll5fit_fit_iterations_count 1")
	require.Contains(t, body, "ll5fit_fit_duration_seconds_count 1")
	require.Contains(t, body, "ll5fit_fit_last_ssr 0.125")
}

func TestNew_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.Observe(nil, lm.ErrInvalidProblem, 0)

	require.Equal(t, 1, testutil.CollectAndCount(a.fits))
	require.Equal(t, 0, testutil.CollectAndCount(b.fits))
}
