package ll5

import (
	"fmt"
	"slices"
	"strings"
)

// SeedPolicy picks starting values for free parameters.
type SeedPolicy uint8

const (
	// SeedHeuristic derives seeds from the data: b = 1, f = 1, d from the smallest x,
	// c from the largest x, e the median positive x.
	SeedHeuristic SeedPolicy = iota
	// SeedConstant starts every free parameter at 1.
	SeedConstant
)

var seedPolicyNames = map[SeedPolicy]string{
	SeedHeuristic: "heuristic",
	SeedConstant:  "constant",
}

// String returns the string representation of the policy.
func (s SeedPolicy) String() string {
	if name, ok := seedPolicyNames[s]; ok {
		return name
	}

	return "unknown"
}

// SeedPolicyFromString parses a policy name ("heuristic" or "constant").
func SeedPolicyFromString(name string) (SeedPolicy, error) {
	for policy, n := range seedPolicyNames {
		if n == strings.ToLower(name) {
			return policy, nil
		}
	}

	return 0, fmt.Errorf("%w: unknown seed policy %q", ErrInvalidInput, name)
}

// defaultSeeds returns starting values for every parameter under the policy. x and y
// are the caller's data, before zero-dose substitution.
func (s SeedPolicy) defaultSeeds(x, y []float64) Params {
	if s == SeedConstant {
		return Params{B: 1, C: 1, D: 1, E: 1, F: 1}
	}

	lo, hi := 0, 0
	for i := range x {
		if x[i] < x[lo] {
			lo = i
		}
		if x[i] > x[hi] {
			hi = i
		}
	}

	d, c := y[lo], y[hi]
	if c == d {
		d, c = slices.Max(y), slices.Min(y)
	}

	return Params{B: 1, C: c, D: d, E: medianPositive(x), F: 1}
}

// medianPositive returns the median of the strictly positive values of xs, or 1 when
// there are none.
func medianPositive(xs []float64) float64 {
	pos := make([]float64, 0, len(xs))
	for _, x := range xs {
		if x > 0 {
			pos = append(pos, x)
		}
	}
	if len(pos) == 0 {
		return 1
	}

	slices.Sort(pos)
	mid := len(pos) / 2
	if len(pos)%2 == 1 {
		return pos[mid]
	}

	return (pos[mid-1] + pos[mid]) / 2
}
