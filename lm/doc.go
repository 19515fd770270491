// Package lm implements a Levenberg-Marquardt minimizer for nonlinear least-squares
// problems.
//
// The solver minimizes the sum of squared residuals Σ rᵢ(p)² over a parameter vector p,
// given a residual function and (optionally) its Jacobian. It knows nothing about the
// model behind the residuals; the ll5 package builds on it to fit log-logistic curves.
//
// # Algorithm
//
// Each iteration evaluates the Jacobian J at the current point, forms the normal
// equations with Marquardt's diagonal damping
//
//	(JᵀJ + λ·diag(JᵀJ)) Δ = −Jᵀr
//
// and solves them with a Cholesky factorization, falling back to LU with partial
// pivoting when the augmented matrix is not positive definite. A trial point p + Δ that
// lowers the sum of squares is accepted and λ shrinks (towards Gauss-Newton); otherwise
// the step is rejected, λ grows (towards gradient descent) and the step is recomputed
// from the same point.
//
// # Termination
//
// The solver reports StatusConverged when one of these holds:
//
//   - the relative decrease of the sum of squares drops to FunctionTolerance
//   - the step norm ‖Δ‖ drops to StepTolerance·(‖p‖ + StepTolerance)
//   - the residuals vanish exactly
//
// Running out of iterations is not an error: the best point is returned with
// StatusMaxIterationsReached.
//
// # Errors
//
//   - ErrInvalidProblem / ErrInvalidConfig: malformed input, detected before any work
//   - ErrDegenerateProblem: fewer residuals than parameters
//   - ErrSingularSystem: the damped normal equations could not be solved, even after one
//     retry with stronger damping
//   - ErrNoImprovement: more than MaxRejections consecutive steps were rejected
//   - ErrNumericInstability: NaN or Inf in the residuals at the current point, the
//     Jacobian, or the solved step
//
// # Basic Usage
//
//	res, err := lm.Solve(lm.Problem{
//	    Points:    len(ts),
//	    Residuals: func(dst, p []float64) {
//	        for i, t := range ts {
//	            dst[i] = p[0]*math.Exp(-p[1]*t) - ys[i]
//	        }
//	    },
//	    Init: []float64{1, 0.1},
//	}, lm.WithMaxIterations(200))
//
// A nil Jacobian makes the solver use forward differences.
//
// # Thread Safety
//
// Solve keeps all scratch state in a per-call value; concurrent calls on independent
// problems need no locking.
package lm
