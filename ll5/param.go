package ll5

import (
	"fmt"
	"math"
)

// Kind tells how a parameter takes part in a fit.
type Kind uint8

const (
	// KindFree parameters are optimised from a default seed.
	KindFree Kind = iota
	// KindSeeded parameters are optimised from a caller-supplied starting value.
	KindSeeded
	// KindFixed parameters are held at a caller-supplied value and returned unchanged.
	KindFixed
)

var kindNames = map[Kind]string{
	KindFree:   "free",
	KindSeeded: "seeded",
	KindFixed:  "fixed",
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "unknown"
}

// Param is the constraint on one parameter. The zero value is free.
type Param struct {
	kind  Kind
	value float64
}

// Free returns an unconstrained parameter.
func Free() Param {
	return Param{}
}

// Seed returns a parameter that is optimised starting from v.
func Seed(v float64) Param {
	return Param{kind: KindSeeded, value: v}
}

// Fix returns a parameter held at v.
func Fix(v float64) Param {
	return Param{kind: KindFixed, value: v}
}

// Kind returns the constraint kind.
func (p Param) Kind() Kind {
	return p.kind
}

// Value returns the seed or fixed value, and false for a free parameter.
func (p Param) Value() (float64, bool) {
	if p.kind == KindFree {
		return 0, false
	}

	return p.value, true
}

// IsFixed reports whether the parameter is fixed.
func (p Param) IsFixed() bool {
	return p.kind == KindFixed
}

// String returns a string representation of the constraint.
func (p Param) String() string {
	if p.kind == KindFree {
		return p.kind.String()
	}

	return fmt.Sprintf("%s(%g)", p.kind, p.value)
}

// Constraints holds one Param per model parameter, indexed by IndexB..IndexF.
//
// The zero value leaves every parameter free.
type Constraints [NumParams]Param

// FixOptional builds Constraints from optional values: nil is free, non-nil is fixed.
func FixOptional(vals [NumParams]*float64) Constraints {
	var cons Constraints
	for i, v := range vals {
		if v != nil {
			cons[i] = Fix(*v)
		}
	}

	return cons
}

// FixedIndices returns the indices of the fixed parameters in ascending order.
func (c Constraints) FixedIndices() []int {
	idx := make([]int, 0, NumParams)
	for i, p := range c {
		if p.IsFixed() {
			idx = append(idx, i)
		}
	}

	return idx
}

// FreeCount returns the number of parameters that are not fixed.
func (c Constraints) FreeCount() int {
	return NumParams - len(c.FixedIndices())
}

func (c Constraints) validate() error {
	for i, p := range c {
		if p.kind > KindFixed {
			return fmt.Errorf("%w: parameter %s has unknown constraint kind %d", ErrInvalidInput, paramNames[i], p.kind)
		}
		if v, ok := p.Value(); ok && (math.IsNaN(v) || math.IsInf(v, 0)) {
			return fmt.Errorf("%w: %s value for parameter %s is %g", ErrInvalidInput, p.kind, paramNames[i], v)
		}
	}

	return nil
}
