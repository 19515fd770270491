package lm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ResidualFunc writes the residuals at params into dst. len(dst) equals Problem.Points.
//
// Implementations must not retain dst or params.
type ResidualFunc func(dst, params []float64)

// JacobianFunc writes ∂rᵢ/∂pⱼ at params into dst, a Points × len(params) matrix.
type JacobianFunc func(dst *mat.Dense, params []float64)

// Problem describes a nonlinear least-squares problem.
type Problem struct {
	// Points is the number of residuals.
	Points int
	// Residuals evaluates the residual vector.
	Residuals ResidualFunc
	// Jacobian evaluates the Jacobian. When nil, forward differences are used.
	Jacobian JacobianFunc
	// Init is the starting point. It is not modified.
	Init []float64
}

// Dim returns the number of parameters.
func (p Problem) Dim() int {
	return len(p.Init)
}

func (p Problem) validate() error {
	if p.Residuals == nil {
		return fmt.Errorf("%w: nil residual function", ErrInvalidProblem)
	}
	if p.Points < 1 {
		return fmt.Errorf("%w: point count must be positive, got %d", ErrInvalidProblem, p.Points)
	}
	if len(p.Init) == 0 {
		return fmt.Errorf("%w: empty initial guess", ErrInvalidProblem)
	}
	for j, v := range p.Init {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: initial guess[%d] is %g", ErrInvalidProblem, j, v)
		}
	}
	if p.Points < len(p.Init) {
		return fmt.Errorf("%w: %d points for %d parameters", ErrDegenerateProblem, p.Points, len(p.Init))
	}

	return nil
}
