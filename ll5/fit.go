package ll5

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/arloliu/ll5fit/internal/hash"
	"github.com/arloliu/ll5fit/internal/options"
	"github.com/arloliu/ll5fit/lm"
)

// Fit fits the LL5 curve to (x, y) under the given constraints.
//
// Parameters:
//   - x: Doses; x = 0 is replaced by the zero-dose value before fitting
//   - y: Responses, one per dose
//   - cons: Per-parameter constraints; the zero value leaves everything free
//   - opts: Optional fit settings
//
// Returns:
//   - *Result: Fitted parameters and diagnostics
//   - error: ErrInvalidInput, a *FitError, or a *FixedViolationError
//
// Example:
//
//	res, err := ll5.Fit(x, y, ll5.Constraints{ll5.IndexD: ll5.Fix(10)})
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("e = %.3f\n", res.Params.E)
func Fit(x, y []float64, cons Constraints, opts ...FitOption) (*Result, error) {
	cfg := defaultFitConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}
	if err := validateData(x, y); err != nil {
		return nil, err
	}
	if err := cons.validate(); err != nil {
		return nil, err
	}

	f := newFitter(x, y, cons, cfg)
	start := time.Now()

	res, err := f.fit()
	if err != nil {
		cfg.Logger.Debug().
			Str("dataset", hash.String(f.fingerprint)).
			Err(err).
			Msg("ll5: fit failed")

		return nil, err
	}

	cfg.Logger.Info().
		Str("dataset", hash.String(res.Fingerprint)).
		Int("points", res.Points).
		Strs("fixed", res.Fixed()).
		Stringer("status", res.Status).
		Int("iterations", res.Iterations).
		Float64("ssr", res.SSR).
		Dur("elapsed", time.Since(start)).
		Msg("ll5: fit complete")

	return res, nil
}

func validateData(x, y []float64) error {
	if len(x) != len(y) {
		return fmt.Errorf("%w: %d x values and %d y values", ErrInvalidInput, len(x), len(y))
	}
	if len(x) == 0 {
		return fmt.Errorf("%w: empty dataset", ErrInvalidInput)
	}
	for i := range x {
		if !finite(x[i]) || !finite(y[i]) {
			return fmt.Errorf("%w: point %d is (%g, %g)", ErrInvalidInput, i, x[i], y[i])
		}
	}

	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// fitter adapts one LL5 fit to an lm.Problem.
type fitter struct {
	cfg  FitConfig
	x, y []float64
	// doses is x with zeros replaced
	doses []float64
	cons  Constraints
	// base holds the seed for every slot and the exact value for fixed slots
	base Params
	// active lists the indices handed to the solver
	active      []int
	fingerprint uint64
}

func newFitter(x, y []float64, cons Constraints, cfg FitConfig) *fitter {
	doses := make([]float64, len(x))
	for i, v := range x {
		if v == 0 {
			v = cfg.ZeroDose
		}
		doses[i] = v
	}

	base := cfg.SeedPolicy.defaultSeeds(x, y)
	active := make([]int, 0, NumParams)
	for i, p := range cons {
		if v, ok := p.Value(); ok {
			base.Set(i, v)
		}
		if !p.IsFixed() || cfg.FixedMode == FixedSeedAndVerify {
			active = append(active, i)
		}
	}

	return &fitter{
		cfg:         cfg,
		x:           x,
		y:           y,
		doses:       doses,
		cons:        cons,
		base:        base,
		active:      active,
		fingerprint: hash.Points(x, y),
	}
}

func (f *fitter) fit() (*Result, error) {
	// nothing to optimise
	if len(f.cons.FixedIndices()) == NumParams {
		if err := f.checkFinite(f.base); err != nil {
			return nil, &FitError{Err: err}
		}

		return f.result(f.base, lm.StatusConverged, lm.CriterionNone, 0, 0), nil
	}

	init := make([]float64, len(f.active))
	for k, i := range f.active {
		init[k] = f.base.At(i)
	}

	prob := lm.Problem{
		Points:    len(f.doses),
		Residuals: f.residuals,
		Jacobian:  f.jacobian,
		Init:      init,
	}

	solverOpts := make([]lm.Option, 0, len(f.cfg.SolverOptions)+1)
	solverOpts = append(solverOpts, lm.WithLogger(f.cfg.Logger))
	solverOpts = append(solverOpts, f.cfg.SolverOptions...)

	sol, err := lm.Solve(prob, solverOpts...)
	if err != nil {
		return nil, &FitError{Free: f.activeNames(), Err: err}
	}

	params := f.expand(sol.X)
	if err := f.verifyFixed(params); err != nil {
		return nil, err
	}

	return f.result(params, sol.Status, sol.Criterion, sol.Iterations, sol.Evaluations), nil
}

// checkFinite reports ErrNumericInstability when p gives a NaN or infinite residual at
// any dose.
func (f *fitter) checkFinite(p Params) error {
	for i, x := range f.doses {
		r := p.Eval(x) - f.y[i]
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return fmt.Errorf("%w: non-finite residual %g at point %d (x=%g)", lm.ErrNumericInstability, r, i, f.x[i])
		}
	}

	return nil
}

// expand writes the solver's reduced vector into a full parameter set.
func (f *fitter) expand(reduced []float64) Params {
	p := f.base
	for k, i := range f.active {
		p.Set(i, reduced[k])
	}

	return p
}

func (f *fitter) residuals(dst, reduced []float64) {
	p := f.expand(reduced)
	for i, x := range f.doses {
		dst[i] = p.Eval(x) - f.y[i]
	}
}

func (f *fitter) jacobian(dst *mat.Dense, reduced []float64) {
	p := f.expand(reduced)

	var partials [NumParams]float64
	for i, x := range f.doses {
		p.Partials(x, &partials)
		for k, j := range f.active {
			dst.Set(i, k, partials[j])
		}
	}
}

func (f *fitter) verifyFixed(p Params) error {
	for _, i := range f.cons.FixedIndices() {
		want := f.cons[i].value
		got := p.At(i)
		if math.Float64bits(got) != math.Float64bits(want) {
			return &FixedViolationError{Index: i, Want: want, Got: got}
		}
	}

	return nil
}

func (f *fitter) result(p Params, status lm.Status, crit lm.Criterion, iterations, evaluations int) *Result {
	predicted := p.EvalAll(f.doses)

	return &Result{
		Params:      p,
		Constraints: f.cons,
		Status:      status,
		Criterion:   crit,
		Iterations:  iterations,
		Evaluations: evaluations,
		SSR:         calculateSSR(f.y, predicted),
		RMSE:        calculateRMSE(f.y, predicted),
		RSquared:    calculateRSquared(f.y, predicted),
		Points:      len(f.y),
		Fingerprint: f.fingerprint,
	}
}

func (f *fitter) activeNames() []string {
	names := make([]string, len(f.active))
	for k, i := range f.active {
		names[k] = paramNames[i]
	}

	return names
}
