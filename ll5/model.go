package ll5

import (
	"fmt"
	"math"
)

// Parameter indices into Params and Constraints.
const (
	IndexB = iota
	IndexC
	IndexD
	IndexE
	IndexF

	// NumParams is the number of model parameters.
	NumParams
)

var paramNames = [NumParams]string{"b", "c", "d", "e", "f"}

// ParamName returns the single-letter name of the parameter at index i.
func ParamName(i int) string {
	if i < 0 || i >= NumParams {
		return "?"
	}

	return paramNames[i]
}

// ParamIndex returns the index of the parameter with the given name ("b" through "f").
func ParamIndex(name string) (int, error) {
	for i, n := range paramNames {
		if n == name {
			return i, nil
		}
	}

	return -1, fmt.Errorf("%w: unknown parameter %q (want one of b, c, d, e, f)", ErrInvalidInput, name)
}

// Params is a full LL5 parameter vector.
type Params struct {
	B float64
	C float64
	D float64
	E float64
	F float64
}

// ParamsFromArray builds Params from values ordered b, c, d, e, f.
func ParamsFromArray(v [NumParams]float64) Params {
	return Params{B: v[IndexB], C: v[IndexC], D: v[IndexD], E: v[IndexE], F: v[IndexF]}
}

// Array returns the parameters ordered b, c, d, e, f.
func (p Params) Array() [NumParams]float64 {
	return [NumParams]float64{p.B, p.C, p.D, p.E, p.F}
}

// At returns the parameter at index i.
func (p Params) At(i int) float64 {
	switch i {
	case IndexB:
		return p.B
	case IndexC:
		return p.C
	case IndexD:
		return p.D
	case IndexE:
		return p.E
	case IndexF:
		return p.F
	}
	panic(fmt.Sprintf("ll5: parameter index %d out of range", i))
}

// Set sets the parameter at index i.
func (p *Params) Set(i int, v float64) {
	switch i {
	case IndexB:
		p.B = v
	case IndexC:
		p.C = v
	case IndexD:
		p.D = v
	case IndexE:
		p.E = v
	case IndexF:
		p.F = v
	default:
		panic(fmt.Sprintf("ll5: parameter index %d out of range", i))
	}
}

// Eval evaluates the curve at x.
//
// A negative x/e with a non-integer b yields NaN.
func (p Params) Eval(x float64) float64 {
	q := 1 + math.Pow(x/p.E, p.B)

	return p.C + (p.D-p.C)*math.Pow(q, -p.F)
}

// EvalAll evaluates the curve at every point of xs.
func (p Params) EvalAll(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = p.Eval(x)
	}

	return out
}

// Partials writes the derivatives of the curve at x with respect to b, c, d, e and f
// into dst.
//
// With u = x/e and q = 1 + u^b:
//
//	∂c = 1 - q^-f
//	∂d = q^-f
//	∂f = -(d-c)·q^-f·ln q
//	∂b = -(d-c)·f·q^(-f-1)·u^b·ln u
//	∂e = (d-c)·f·b·q^(-f-1)·u^b / e
//
// Terms whose power factor underflows to zero are taken as exactly zero, so x near 0
// and x far beyond e stay finite.
func (p Params) Partials(x float64, dst *[NumParams]float64) {
	u := x / p.E
	pw := math.Pow(u, p.B)
	q := 1 + pw
	qf := math.Pow(q, -p.F)
	amp := p.D - p.C

	dst[IndexC] = 1 - qf
	dst[IndexD] = qf

	if qf == 0 {
		dst[IndexF] = 0
	} else {
		dst[IndexF] = -amp * qf * math.Log(q)
	}

	// ratio is u^b / q
	var ratio float64
	switch {
	case pw == 0:
		ratio = 0
	case math.IsInf(pw, 1):
		ratio = 1
	default:
		ratio = pw / q
	}

	t := amp * p.F * qf * ratio
	if t == 0 {
		dst[IndexB] = 0
		dst[IndexE] = 0

		return
	}
	dst[IndexB] = -t * math.Log(u)
	dst[IndexE] = t * p.B / p.E
}

// String returns a string representation of the parameters.
func (p Params) String() string {
	return fmt.Sprintf("Params{b: %g, c: %g, d: %g, e: %g, f: %g}", p.B, p.C, p.D, p.E, p.F)
}
