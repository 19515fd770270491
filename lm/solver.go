package lm

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/arloliu/ll5fit/internal/options"
)

// Result is the outcome of a successful solve.
type Result struct {
	// X is the final parameter vector.
	X []float64
	// Status tells whether the solve converged or ran out of iterations.
	Status Status
	// Criterion is the convergence test that fired (CriterionNone if not converged).
	Criterion Criterion
	// Iterations is the number of completed outer iterations.
	Iterations int
	// Evaluations counts residual evaluations, including finite-difference probes.
	Evaluations int
	// SSR is the final sum of squared residuals.
	SSR float64
	// Damping is the final value of λ.
	Damping float64
}

// Converged reports whether the solve met a convergence criterion.
func (r *Result) Converged() bool {
	return r.Status == StatusConverged
}

// String returns a one-line summary of the result.
func (r *Result) String() string {
	return fmt.Sprintf("Result{Status: %s, Criterion: %s, Iterations: %d, SSR: %g, X: %v}",
		r.Status, r.Criterion, r.Iterations, r.SSR, r.X)
}

// Solve minimizes the sum of squared residuals of p starting from p.Init.
//
// Parameters:
//   - p: The problem definition
//   - opts: Optional solver settings (see Config)
//
// Returns:
//   - *Result: Final point and diagnostics
//   - error: One of the package sentinels, wrapped with context
//
// Example:
//
//	res, err := lm.Solve(problem, lm.WithMaxIterations(100))
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.X, res.Status)
func Solve(p Problem, opts ...Option) (*Result, error) {
	cfg := DefaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}
	if err := p.validate(); err != nil {
		return nil, err
	}

	s := newSolver(p, cfg)

	return s.run()
}

// solver holds the per-call state. Nothing in it outlives a Solve call.
type solver struct {
	cfg  Config
	prob Problem
	log  zerolog.Logger
	n, m int

	x      []float64
	trial  []float64
	r      *mat.VecDense
	rTrial *mat.VecDense

	jac     *mat.Dense
	jtj     *mat.SymDense
	aug     *mat.SymDense
	grad    *mat.VecDense
	negGrad *mat.VecDense
	step    *mat.VecDense
	chol    mat.Cholesky
	lu      mat.LU

	// finite-difference scratch
	probe  []float64
	rProbe []float64

	ssr    float64
	lambda float64
	evals  int
}

func newSolver(p Problem, cfg Config) *solver {
	n, m := p.Points, p.Dim()
	s := &solver{
		cfg:     cfg,
		prob:    p,
		log:     cfg.Logger,
		n:       n,
		m:       m,
		x:       make([]float64, m),
		trial:   make([]float64, m),
		r:       mat.NewVecDense(n, nil),
		rTrial:  mat.NewVecDense(n, nil),
		jac:     mat.NewDense(n, m, nil),
		jtj:     mat.NewSymDense(m, nil),
		aug:     mat.NewSymDense(m, nil),
		grad:    mat.NewVecDense(m, nil),
		negGrad: mat.NewVecDense(m, nil),
		step:    mat.NewVecDense(m, nil),
		lambda:  cfg.InitialDamping,
	}
	copy(s.x, p.Init)
	if p.Jacobian == nil {
		s.probe = make([]float64, m)
		s.rProbe = make([]float64, n)
	}

	return s
}

func (s *solver) run() (*Result, error) {
	s.evalResiduals(s.x, s.r)
	if i, ok := firstNonFinite(s.r.RawVector().Data); !ok {
		return nil, fmt.Errorf("%w: residual[%d] is %g at the initial point",
			ErrNumericInstability, i, s.r.AtVec(i))
	}
	s.ssr = sumSquares(s.r)

	if s.ssr == 0 {
		return s.result(0, StatusConverged, CriterionZeroResidual), nil
	}

	for iter := 1; iter <= s.cfg.MaxIterations; iter++ {
		if err := s.evalJacobian(); err != nil {
			return nil, fmt.Errorf("iteration %d: %w", iter, err)
		}
		s.formNormalEquations()

		done, crit, err := s.iterate(iter)
		if err != nil {
			return nil, err
		}
		if done {
			s.log.Debug().
				Int("iterations", iter).
				Float64("ssr", s.ssr).
				Stringer("criterion", crit).
				Msg("lm: converged")

			return s.result(iter, StatusConverged, crit), nil
		}
	}

	s.log.Debug().
		Int("iterations", s.cfg.MaxIterations).
		Float64("ssr", s.ssr).
		Msg("lm: iteration limit reached")

	return s.result(s.cfg.MaxIterations, StatusMaxIterationsReached, CriterionNone), nil
}

// iterate runs one outer iteration: it keeps proposing steps from the current point,
// raising λ after every rejection, until a step is accepted or a stop condition fires.
func (s *solver) iterate(iter int) (bool, Criterion, error) {
	xNorm := floats.Norm(s.x, 2)

	for rejections := 0; ; {
		if err := s.solveStep(); err != nil {
			return false, CriterionNone, fmt.Errorf("iteration %d: %w", iter, err)
		}
		stepNorm := mat.Norm(s.step, 2)

		for j := range s.trial {
			s.trial[j] = s.x[j] + s.step.AtVec(j)
		}
		s.evalResiduals(s.trial, s.rTrial)

		i, finite := firstNonFinite(s.rTrial.RawVector().Data)
		if !finite && s.cfg.FailOnNonFiniteTrial {
			return false, CriterionNone, fmt.Errorf("%w: residual[%d] is %g at trial point %v (iteration %d)",
				ErrNumericInstability, i, s.rTrial.AtVec(i), s.trial, iter)
		}

		if finite {
			trialSSR := sumSquares(s.rTrial)
			if trialSSR < s.ssr {
				rel := (s.ssr - trialSSR) / s.ssr
				s.accept(trialSSR)
				s.lambda = math.Max(s.lambda*s.cfg.DampingDecrease, minDamping)

				s.log.Debug().
					Int("iter", iter).
					Float64("ssr", trialSSR).
					Float64("lambda", s.lambda).
					Float64("step", stepNorm).
					Msg("lm: step accepted")

				switch {
				case trialSSR == 0:
					return true, CriterionZeroResidual, nil
				case rel <= s.cfg.FunctionTolerance:
					return true, CriterionFunction, nil
				case s.smallStep(stepNorm, xNorm):
					return true, CriterionStep, nil
				}

				return false, CriterionNone, nil
			}

			// a negligible step that cannot improve the fit: the point is a minimum
			if s.smallStep(stepNorm, xNorm) {
				return true, CriterionStep, nil
			}
		}

		rejections++
		s.lambda *= s.cfg.DampingIncrease
		s.log.Trace().
			Int("iter", iter).
			Int("rejections", rejections).
			Bool("finite", finite).
			Float64("lambda", s.lambda).
			Msg("lm: step rejected")

		if rejections > s.cfg.MaxRejections {
			return false, CriterionNone, fmt.Errorf("%w: %d consecutive rejected steps at iteration %d (ssr %g)",
				ErrNoImprovement, rejections, iter, s.ssr)
		}
	}
}

func (s *solver) smallStep(stepNorm, xNorm float64) bool {
	tol := s.cfg.StepTolerance

	return stepNorm <= tol*(xNorm+tol)
}

func (s *solver) accept(ssr float64) {
	copy(s.x, s.trial)
	s.r, s.rTrial = s.rTrial, s.r
	s.ssr = ssr
}

func (s *solver) evalResiduals(params []float64, dst *mat.VecDense) {
	s.prob.Residuals(dst.RawVector().Data, params)
	s.evals++
}

func (s *solver) result(iterations int, status Status, crit Criterion) *Result {
	x := make([]float64, s.m)
	copy(x, s.x)

	return &Result{
		X:           x,
		Status:      status,
		Criterion:   crit,
		Iterations:  iterations,
		Evaluations: s.evals,
		SSR:         s.ssr,
		Damping:     s.lambda,
	}
}

func sumSquares(v *mat.VecDense) float64 {
	return mat.Dot(v, v)
}

// firstNonFinite returns the index of the first NaN or Inf in v, and false; or -1 and
// true when every entry is finite.
func firstNonFinite(v []float64) (int, bool) {
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return i, false
		}
	}

	return -1, true
}
