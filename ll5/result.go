package ll5

import (
	"fmt"

	"github.com/arloliu/ll5fit/lm"
)

// Result is the outcome of a successful fit.
type Result struct {
	// Params holds all five parameters; fixed slots equal their constraint values.
	Params Params
	// Constraints are the constraints the fit ran with.
	Constraints Constraints
	// Status is the solver's terminal status.
	Status lm.Status
	// Criterion is the convergence test that fired.
	Criterion lm.Criterion
	// Iterations and Evaluations are the solver's counters.
	Iterations  int
	Evaluations int
	// SSR is the residual sum of squares at Params.
	SSR float64
	// RMSE is the root mean square error at Params.
	RMSE float64
	// RSquared is the coefficient of determination at Params.
	RSquared float64
	// Points is the number of data points.
	Points int
	// Fingerprint identifies the dataset (xxHash64 of the points).
	Fingerprint uint64
}

// Converged reports whether the solver met a convergence criterion.
func (r *Result) Converged() bool {
	return r.Status == lm.StatusConverged
}

// Optional returns the parameters in the optional-float convention, ordered b, c, d, e,
// f. Every slot is populated.
func (r *Result) Optional() [NumParams]*float64 {
	var out [NumParams]*float64
	vals := r.Params.Array()
	for i := range vals {
		v := vals[i]
		out[i] = &v
	}

	return out
}

// Fixed returns the names of the parameters that were held fixed.
func (r *Result) Fixed() []string {
	idx := r.Constraints.FixedIndices()
	names := make([]string, len(idx))
	for i, j := range idx {
		names[i] = paramNames[j]
	}

	return names
}

// String returns a string representation of the result.
func (r *Result) String() string {
	return fmt.Sprintf("Result{%s, Status: %s, Iterations: %d, SSR: %.6g, R²: %.4f}",
		r.Params, r.Status, r.Iterations, r.SSR, r.RSquared)
}
