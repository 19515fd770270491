package ll5

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/ll5fit/lm"
)

var (
	scenarioX = []float64{1, 2, 3, 4, 5, 6, 7, 8}
	scenarioY = []float64{10, 9.5, 9, 8, 5, 2, 1, 0}
)

func recoveryData() ([]float64, []float64) {
	x := []float64{0.5, 1, 2, 3, 4, 5, 6, 8, 10, 12, 15, 20}

	return x, trueParams.EvalAll(x)
}

func requireSameBits(t *testing.T, want, got float64, msgAndArgs ...any) {
	t.Helper()
	require.Equal(t, math.Float64bits(want), math.Float64bits(got), msgAndArgs...)
}

func TestFit_Scenario(t *testing.T) {
	res, err := Fit(scenarioX, scenarioY, Constraints{IndexD: Fix(10)})
	require.NoError(t, err)
	require.True(t, res.Converged())

	requireSameBits(t, 10, res.Params.D)
	require.InDelta(t, 4.5916, res.Params.B, 1e-3)
	require.InDelta(t, -0.0165, res.Params.C, 1e-3)
	require.InDelta(t, 7.6016, res.Params.E, 1e-3)
	require.InDelta(t, 5.0919, res.Params.F, 1e-2)
	require.InDelta(t, 0.52545, res.SSR, 1e-4)
	require.Greater(t, res.RSquared, 0.99)
	require.InDelta(t, math.Sqrt(res.SSR/8), res.RMSE, 1e-12)
	require.Equal(t, 8, res.Points)
	require.Equal(t, []string{"d"}, res.Fixed())

	opt := res.Optional()
	for i, v := range opt {
		require.NotNil(t, v)
		requireSameBits(t, res.Params.At(i), *v)
	}
}

// TestFit_RecoveryAllSubsets fits exact data generated from known parameters with
// every combination of fixed parameters.
func TestFit_RecoveryAllSubsets(t *testing.T) {
	x, y := recoveryData()
	want := trueParams.Array()

	for mask := 0; mask < 1<<NumParams; mask++ {
		var cons Constraints
		for i := 0; i < NumParams; i++ {
			if mask&(1<<i) != 0 {
				cons[i] = Fix(want[i])
			}
		}

		t.Run(fmt.Sprintf("fixed=%05b", mask), func(t *testing.T) {
			res, err := Fit(x, y, cons)
			require.NoError(t, err)
			require.True(t, res.Converged())

			for i := 0; i < NumParams; i++ {
				if cons[i].IsFixed() {
					requireSameBits(t, want[i], res.Params.At(i), "fixed %s", ParamName(i))
					continue
				}
				require.InDelta(t, want[i], res.Params.At(i), 1e-6, "free %s", ParamName(i))
			}
			require.Less(t, res.SSR, 1e-12)
		})
	}
}

func TestFit_AllFixed(t *testing.T) {
	want := Params{B: 1.25, C: -0.1, D: 9.75, E: 3.3, F: 0.8}
	var cons Constraints
	for i, v := range want.Array() {
		cons[i] = Fix(v)
	}

	for _, mode := range []FixedMode{FixedExclude, FixedSeedAndVerify} {
		t.Run(mode.String(), func(t *testing.T) {
			res, err := Fit(scenarioX, scenarioY, cons, WithFixedMode(mode))
			require.NoError(t, err)
			require.Equal(t, want, res.Params)
			require.Equal(t, lm.StatusConverged, res.Status)
			require.Equal(t, 0, res.Iterations)
			require.Equal(t, 0, res.Evaluations)
			require.Equal(t, calculateSSR(scenarioY, want.EvalAll(scenarioX)), res.SSR)
		})
	}

	t.Run("undefined curve", func(t *testing.T) {
		// a negative midpoint with a fractional slope has no real value
		bad := Params{B: 1.5, C: 0, D: 10, E: -2, F: 1}
		var cons Constraints
		for i, v := range bad.Array() {
			cons[i] = Fix(v)
		}

		for _, mode := range []FixedMode{FixedExclude, FixedSeedAndVerify} {
			res, err := Fit(scenarioX, scenarioY, cons, WithFixedMode(mode))
			require.Nil(t, res, mode.String())
			require.ErrorIs(t, err, ErrFitFailed, mode.String())
			require.ErrorIs(t, err, lm.ErrNumericInstability, mode.String())
			require.ErrorContains(t, err, "point 0 (x=1)", mode.String())

			var fitErr *FitError
			require.True(t, errors.As(err, &fitErr))
			require.Empty(t, fitErr.Free)
		}
	})
}

func TestFit_Idempotent(t *testing.T) {
	first, err := Fit(scenarioX, scenarioY, Constraints{IndexD: Fix(10)})
	require.NoError(t, err)

	cons := Constraints{IndexD: Fix(10)}
	for _, i := range []int{IndexB, IndexC, IndexE, IndexF} {
		cons[i] = Seed(first.Params.At(i))
	}

	second, err := Fit(scenarioX, scenarioY, cons)
	require.NoError(t, err)
	require.True(t, second.Converged())
	require.LessOrEqual(t, second.Iterations, 2)
	require.InDelta(t, first.SSR, second.SSR, 1e-9)
	for i := 0; i < NumParams; i++ {
		require.InDelta(t, first.Params.At(i), second.Params.At(i), 1e-4, ParamName(i))
	}

	t.Run("fitted values fixed", func(t *testing.T) {
		cons := Constraints{
			IndexB: Fix(first.Params.B),
			IndexC: Seed(first.Params.C),
			IndexD: Fix(10),
			IndexE: Fix(first.Params.E),
			IndexF: Seed(first.Params.F),
		}

		third, err := Fit(scenarioX, scenarioY, cons)
		require.NoError(t, err)
		require.True(t, third.Converged())
		require.Equal(t, []string{"b", "d", "e"}, third.Fixed())
		require.Equal(t, math.Float64bits(first.Params.B), math.Float64bits(third.Params.B))
		require.Equal(t, math.Float64bits(first.Params.E), math.Float64bits(third.Params.E))
		require.Equal(t, math.Float64bits(10.0), math.Float64bits(third.Params.D))
		require.InDelta(t, first.SSR, third.SSR, 1e-9)
	})
}

func TestFit_PointsVersusFreeParameters(t *testing.T) {
	t.Run("as many points as free parameters", func(t *testing.T) {
		x := []float64{1, 3, 5, 8, 12}
		res, err := Fit(x, trueParams.EvalAll(x), Constraints{})
		require.NoError(t, err)
		require.True(t, res.Converged())
		require.Less(t, res.SSR, 1e-12)
	})

	t.Run("fewer points than free parameters", func(t *testing.T) {
		x := []float64{1, 3, 5, 8}
		_, err := Fit(x, trueParams.EvalAll(x), Constraints{})
		require.ErrorIs(t, err, ErrFitFailed)
		require.ErrorIs(t, err, lm.ErrDegenerateProblem)

		var fitErr *FitError
		require.True(t, errors.As(err, &fitErr))
		require.Equal(t, []string{"b", "c", "d", "e", "f"}, fitErr.Free)
	})

	t.Run("fixing parameters makes room", func(t *testing.T) {
		x := []float64{1, 3, 5, 8}
		res, err := Fit(x, trueParams.EvalAll(x), Constraints{IndexF: Fix(trueParams.F)})
		require.NoError(t, err)
		require.Less(t, res.SSR, 1e-12)
	})
}

func TestFit_ZeroDose(t *testing.T) {
	want := Params{B: 1.5, C: 0.5, D: 8, E: 3, F: 1}
	x := []float64{0, 0.5, 1, 2, 3, 4, 6, 9, 12}
	y := make([]float64, len(x))
	for i, v := range x {
		if v == 0 {
			v = DefaultZeroDose
		}
		y[i] = want.Eval(v)
	}

	res, err := Fit(x, y, Constraints{})
	require.NoError(t, err)
	require.True(t, res.Converged())
	for i := 0; i < NumParams; i++ {
		require.InDelta(t, want.At(i), res.Params.At(i), 1e-6, ParamName(i))
	}
}

func TestFit_SeedAndVerify(t *testing.T) {
	// the unconstrained optimum moves d away from 10
	_, err := Fit(scenarioX, scenarioY, Constraints{IndexD: Fix(10)}, WithFixedMode(FixedSeedAndVerify))
	require.ErrorIs(t, err, ErrFixedParameterViolated)

	var violation *FixedViolationError
	require.True(t, errors.As(err, &violation))
	require.Equal(t, IndexD, violation.Index)
	require.Equal(t, 10.0, violation.Want)
	require.NotEqual(t, 10.0, violation.Got)
}

func TestFit_SeedPolicyConstantIsSingular(t *testing.T) {
	// with c == d every shape column of the Jacobian vanishes
	_, err := Fit(scenarioX, scenarioY, Constraints{}, WithSeedPolicy(SeedConstant))
	require.ErrorIs(t, err, ErrFitFailed)
	require.ErrorIs(t, err, lm.ErrSingularSystem)
}

func TestFit_SolverOptions(t *testing.T) {
	res, err := Fit(scenarioX, scenarioY, Constraints{IndexD: Fix(10)},
		WithSolverOptions(lm.WithMaxIterations(3)))
	require.NoError(t, err)
	require.Equal(t, lm.StatusMaxIterationsReached, res.Status)
	require.Equal(t, 3, res.Iterations)
	requireSameBits(t, 10, res.Params.D)

	_, err = Fit(scenarioX, scenarioY, Constraints{}, WithSolverOptions(lm.WithMaxIterations(-1)))
	require.ErrorIs(t, err, ErrFitFailed)
	require.ErrorIs(t, err, lm.ErrInvalidConfig)
}

func TestFit_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		x, y []float64
		cons Constraints
		opts []FitOption
	}{
		{name: "length mismatch", x: []float64{1, 2}, y: []float64{1}},
		{name: "empty", x: nil, y: nil},
		{name: "NaN dose", x: []float64{1, math.NaN()}, y: []float64{1, 2}},
		{name: "Inf response", x: []float64{1, 2}, y: []float64{1, math.Inf(-1)}},
		{name: "NaN fixed value", x: scenarioX, y: scenarioY, cons: Constraints{IndexD: Fix(math.NaN())}},
		{name: "zero dose substitute", x: scenarioX, y: scenarioY, opts: []FitOption{WithZeroDose(0)}},
		{name: "unknown seed policy", x: scenarioX, y: scenarioY, opts: []FitOption{WithSeedPolicy(7)}},
		{name: "unknown fixed mode", x: scenarioX, y: scenarioY, opts: []FitOption{WithFixedMode(7)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Fit(tt.x, tt.y, tt.cons, tt.opts...)
			require.ErrorIs(t, err, ErrInvalidInput)
			require.Nil(t, res)
		})
	}
}

func TestFit_DoesNotModifyInput(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4, 5, 6, 10, 20}
	y := trueParams.EvalAll(x)
	xCopy := append([]float64(nil), x...)
	yCopy := append([]float64(nil), y...)

	_, err := Fit(x, y, Constraints{IndexC: Fix(trueParams.C)})
	require.NoError(t, err)
	require.Equal(t, xCopy, x)
	require.Equal(t, yCopy, y)
}

func TestFit_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.InfoLevel)

	_, err := Fit(scenarioX, scenarioY, Constraints{IndexD: Fix(10)}, WithLogger(logger))
	require.NoError(t, err)
	require.Contains(t, buf.String(), `"message":"ll5: fit complete"`)
	require.Contains(t, buf.String(), `"fixed":["d"]`)
	require.NotContains(t, buf.String(), "step accepted")
}

func TestFit_Concurrent(t *testing.T) {
	x, y := recoveryData()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	results := make([]*Result, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = Fit(x, y, Constraints{IndexC: Fix(trueParams.C)})
		}(i)
	}
	wg.Wait()

	for i := range errs {
		require.NoError(t, errs[i])
		require.Equal(t, results[0].Params, results[i].Params)
	}
}

func TestFitErrorMessages(t *testing.T) {
	err := &FitError{Free: []string{"b"}, Err: lm.ErrNoImprovement}
	require.Equal(t, "ll5: fit failed (free [b]): lm: no improvement", err.Error())

	v := &FixedViolationError{Index: IndexE, Want: 4, Got: 4.5}
	require.Equal(t, "ll5: fixed parameter e changed from 4 to 4.5", v.Error())
}
