package lm_test

import (
	"fmt"
	"log"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/arloliu/ll5fit/lm"
)

// ExampleSolve fits y = a·exp(-k·x) to exact data with an analytic Jacobian.
func ExampleSolve() {
	xs := []float64{0, 1, 2, 3, 4, 5, 6, 7}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = 3 * math.Exp(-0.5*x)
	}

	problem := lm.Problem{
		Points: len(xs),
		Residuals: func(dst, p []float64) {
			for i, x := range xs {
				dst[i] = p[0]*math.Exp(-p[1]*x) - ys[i]
			}
		},
		Jacobian: func(dst *mat.Dense, p []float64) {
			for i, x := range xs {
				e := math.Exp(-p[1] * x)
				dst.Set(i, 0, e)
				dst.Set(i, 1, -p[0]*x*e)
			}
		},
		Init: []float64{1, 0.1},
	}

	res, err := lm.Solve(problem)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("status:", res.Status)
	fmt.Printf("a=%.4f k=%.4f\n", res.X[0], res.X[1])

	// Output:
	// status: converged
	// a=3.0000 k=0.5000
}

// ExampleSolve_numericJacobian lets the solver approximate the Jacobian.
func ExampleSolve_numericJacobian() {
	problem := lm.Problem{
		Points: 2,
		Residuals: func(dst, p []float64) {
			dst[0] = 10 * (p[1] - p[0]*p[0])
			dst[1] = 1 - p[0]
		},
		Init: []float64{-1.2, 1},
	}

	res, err := lm.Solve(problem, lm.WithMaxIterations(200))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("x=%.3f y=%.3f\n", res.X[0], res.X[1])

	// Output:
	// x=1.000 y=1.000
}
