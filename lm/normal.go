package lm

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// sqrtEpsilon scales forward-difference steps.
var sqrtEpsilon = math.Sqrt(0x1p-52)

var errUnsolvable = errors.New("damped normal equations are not solvable")

func (s *solver) evalJacobian() error {
	if s.prob.Jacobian != nil {
		s.prob.Jacobian(s.jac, s.x)
	} else {
		s.forwardDifferences()
	}

	for i := 0; i < s.n; i++ {
		if j, ok := firstNonFinite(s.jac.RawRowView(i)); !ok {
			return fmt.Errorf("%w: jacobian entry (%d, %d) is %g", ErrNumericInstability, i, j, s.jac.At(i, j))
		}
	}

	return nil
}

// forwardDifferences fills the Jacobian with one-sided difference quotients around the
// current point, reusing the residuals already computed there.
func (s *solver) forwardDifferences() {
	copy(s.probe, s.x)
	r := s.r.RawVector().Data
	for j := 0; j < s.m; j++ {
		h := sqrtEpsilon * math.Max(math.Abs(s.x[j]), 1)
		s.probe[j] = s.x[j] + h
		h = s.probe[j] - s.x[j]

		s.prob.Residuals(s.rProbe, s.probe)
		s.evals++
		for i := 0; i < s.n; i++ {
			s.jac.Set(i, j, (s.rProbe[i]-r[i])/h)
		}
		s.probe[j] = s.x[j]
	}
}

// formNormalEquations computes JᵀJ and −Jᵀr at the current point.
func (s *solver) formNormalEquations() {
	s.jtj.SymOuterK(1, s.jac.T())
	s.grad.MulVec(s.jac.T(), s.r)
	s.negGrad.ScaleVec(-1, s.grad)
}

// solveStep computes the damped step. A singular system is retried once with λ raised
// by DampingIncrease before it is reported.
func (s *solver) solveStep() error {
	if err := s.solveDamped(); err != nil {
		s.lambda *= s.cfg.DampingIncrease
		s.log.Debug().Float64("lambda", s.lambda).Msg("lm: singular system, retrying with more damping")

		if err := s.solveDamped(); err != nil {
			return fmt.Errorf("%w: %w (lambda %g)", ErrSingularSystem, err, s.lambda)
		}
	}

	if j, ok := firstNonFinite(s.step.RawVector().Data); !ok {
		return fmt.Errorf("%w: step[%d] is %g", ErrNumericInstability, j, s.step.AtVec(j))
	}

	return nil
}

// solveDamped solves (JᵀJ + λ·diag(JᵀJ)) Δ = −Jᵀr into s.step.
func (s *solver) solveDamped() error {
	s.aug.CopySym(s.jtj)
	for i := 0; i < s.m; i++ {
		s.aug.SetSym(i, i, s.jtj.At(i, i)*(1+s.lambda))
	}

	if s.chol.Factorize(s.aug) {
		if err := s.chol.SolveVecTo(s.step, s.negGrad); usable(err) {
			return nil
		}
	}

	s.lu.Factorize(s.aug)
	if err := s.lu.SolveVecTo(s.step, false, s.negGrad); !usable(err) {
		return fmt.Errorf("%w: %w", errUnsolvable, err)
	}

	return nil
}

// usable reports whether a solve produced a step. Ill-conditioning alone is tolerated:
// a poor step is rejected by the trial evaluation.
func usable(err error) bool {
	if err == nil {
		return true
	}
	var cond mat.Condition

	return errors.As(err, &cond) && !math.IsInf(float64(cond), 1)
}
