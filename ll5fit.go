// Package ll5fit fits five-parameter log-logistic dose-response curves.
//
// The model is
//
//	y = c + (d - c) / (1 + (x/e)^b)^f
//
// and any subset of b, c, d, e, f can be held at a fixed value while the rest are
// estimated by Levenberg-Marquardt least squares.
//
// # Core Features
//
//   - Fixed parameters are returned bit-identical to the values supplied
//   - Analytic Jacobian, with forward differences available in the lm package
//   - Data-driven starting values, or constant seeds of 1
//   - CSV datasets, plain or compressed with zstd, S2 or LZ4
//
// # Basic Usage
//
// With optional values, where nil means "estimate this parameter":
//
//	x := []float64{1, 2, 3, 4, 5, 6, 7, 8}
//	y := []float64{10, 9.5, 9, 8, 5, 2, 1, 0}
//
//	params, err := ll5fit.Fit(x, y, nil, nil, ll5fit.Float(10), nil, nil)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(*params[0], *params[2]) // b, and d == 10
//
// From a file:
//
//	res, ds, err := ll5fit.FitFile("doses.csv.zst", ll5.Constraints{ll5.IndexD: ll5.Fix(10)})
//
// # Package Structure
//
// This package provides convenient top-level wrappers. The ll5 package holds the model
// and the fixed-parameter handling, lm the generic solver, and dataset the CSV I/O.
package ll5fit

import (
	"fmt"
	"math"

	"github.com/arloliu/ll5fit/dataset"
	"github.com/arloliu/ll5fit/ll5"
)

// Float returns a pointer to v, for the optional arguments of Fit.
func Float(v float64) *float64 {
	return &v
}

// Fit fits the LL5 curve using optional parameters: nil is estimated, non-nil is held
// fixed at the pointed-to value.
//
// Parameters:
//   - x, y: Doses and responses of equal length
//   - b, c, d, e, f: Optional fixed values
//
// Returns:
//   - [5]*float64: All five parameters ordered b, c, d, e, f, every slot non-nil
//   - error: As returned by ll5.Fit
func Fit(x, y []float64, b, c, d, e, f *float64, opts ...ll5.FitOption) ([ll5.NumParams]*float64, error) {
	cons := ll5.FixOptional([ll5.NumParams]*float64{b, c, d, e, f})

	res, err := ll5.Fit(x, y, cons, opts...)
	if err != nil {
		return [ll5.NumParams]*float64{}, err
	}

	return res.Optional(), nil
}

// FitDataset fits ds under the given constraints.
func FitDataset(ds *dataset.Dataset, cons ll5.Constraints, opts ...ll5.FitOption) (*ll5.Result, error) {
	if ds == nil {
		return nil, fmt.Errorf("%w: nil dataset", ll5.ErrInvalidInput)
	}

	return ll5.Fit(ds.X, ds.Y, cons, opts...)
}

// FitFile loads a CSV dataset (optionally compressed, see dataset.Load) and fits it.
// The loaded dataset is returned alongside the result.
func FitFile(path string, cons ll5.Constraints, opts ...ll5.FitOption) (*ll5.Result, *dataset.Dataset, error) {
	ds, err := dataset.Load(path)
	if err != nil {
		return nil, nil, err
	}

	res, err := FitDataset(ds, cons, opts...)
	if err != nil {
		return nil, ds, err
	}

	return res, ds, nil
}

// Curve evaluates p at points evenly spaced doses from `from` to `to` inclusive.
func Curve(p ll5.Params, from, to float64, points int) (*dataset.Dataset, error) {
	if points < 2 {
		return nil, fmt.Errorf("%w: curve needs at least 2 points, got %d", ll5.ErrInvalidInput, points)
	}
	if math.IsNaN(from) || math.IsNaN(to) || math.IsInf(from, 0) || math.IsInf(to, 0) || !(to > from) {
		return nil, fmt.Errorf("%w: invalid curve range [%g, %g]", ll5.ErrInvalidInput, from, to)
	}

	x := make([]float64, points)
	step := (to - from) / float64(points-1)
	for i := range x {
		x[i] = from + float64(i)*step
	}
	x[points-1] = to

	y := p.EvalAll(x)
	for i := range y {
		// the plateau at zero dose
		if x[i] == 0 {
			y[i] = p.Eval(ll5.DefaultZeroDose)
		}
	}

	return &dataset.Dataset{Name: p.String(), X: x, Y: y}, nil
}
