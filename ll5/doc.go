// Package ll5 fits the five-parameter log-logistic curve
//
//	y = c + (d - c) / (1 + (x/e)^b)^f
//
// to (x, y) data by nonlinear least squares, with any subset of the parameters held
// fixed at caller-supplied values.
//
// # Parameters
//
//   - b: slope at the inflection point
//   - c: response as x goes to infinity (lower plateau for b > 0)
//   - d: response at x = 0 (upper plateau for b > 0)
//   - e: dose scale; the inflection point for f = 1
//   - f: asymmetry; f = 1 reduces the model to the four-parameter logistic
//
// # Constraints
//
// Each parameter is free, seeded, or fixed:
//
//	cons := ll5.Constraints{
//	    ll5.IndexD: ll5.Fix(10),  // returned exactly as given
//	    ll5.IndexE: ll5.Seed(4),  // optimised, starting from 4
//	}                             // b, c, f are free
//
// Fixed values come back bit-identical. By default they are removed from the
// optimisation entirely (FixedExclude); FixedSeedAndVerify optimises all five and
// reports a drifted fixed value as ErrFixedParameterViolated.
//
// # Zero Dose
//
// x = 0 is replaced by a tiny positive value (1e-100 by default, see WithZeroDose) so
// the curve reaches its x = 0 plateau without evaluating log(0).
//
// # Basic Usage
//
//	x := []float64{1, 2, 3, 4, 5, 6, 7, 8}
//	y := []float64{10, 9.5, 9, 8, 5, 2, 1, 0}
//
//	res, err := ll5.Fit(x, y, ll5.Constraints{ll5.IndexD: ll5.Fix(10)})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Params)
//
// # Errors
//
// Input problems are reported as ErrInvalidInput. Any solver failure is returned as a
// *FitError, which matches both ErrFitFailed and the underlying lm sentinel
// (lm.ErrSingularSystem, lm.ErrDegenerateProblem and so on) with errors.Is.
package ll5
