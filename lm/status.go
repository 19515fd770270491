package lm

// Status is the terminal state of a successful solve.
type Status uint8

const (
	// StatusConverged means one of the convergence criteria was met.
	StatusConverged Status = iota + 1
	// StatusMaxIterationsReached means the iteration cap was hit first; the result is the
	// best point found.
	StatusMaxIterationsReached
)

var statusNames = map[Status]string{
	StatusConverged:            "converged",
	StatusMaxIterationsReached: "max-iterations-reached",
}

// String returns the string representation of the status.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}

	return "unknown"
}

// Criterion records which test ended a converged solve.
type Criterion uint8

const (
	// CriterionNone is used when the solve did not converge.
	CriterionNone Criterion = iota
	// CriterionFunction: relative decrease of the sum of squares within tolerance.
	CriterionFunction
	// CriterionStep: step norm within tolerance.
	CriterionStep
	// CriterionZeroResidual: the residuals are exactly zero.
	CriterionZeroResidual
)

var criterionNames = map[Criterion]string{
	CriterionNone:         "none",
	CriterionFunction:     "function-tolerance",
	CriterionStep:         "step-tolerance",
	CriterionZeroResidual: "zero-residual",
}

// String returns the string representation of the criterion.
func (c Criterion) String() string {
	if name, ok := criterionNames[c]; ok {
		return name
	}

	return "unknown"
}
