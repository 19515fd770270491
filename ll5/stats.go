package ll5

import "math"

// calculateSSR returns the residual sum of squares Σ(observed - predicted)².
func calculateSSR(observed, predicted []float64) float64 {
	ssRes := 0.0
	for i := range observed {
		diff := observed[i] - predicted[i]
		ssRes += diff * diff
	}

	return ssRes
}

// calculateRSquared calculates the coefficient of determination.
//
// Formula: R² = 1 - (SS_res / SS_tot)
//   - SS_res: Sum of squares of residuals (observed - predicted)²
//   - SS_tot: Total sum of squares (observed - mean)²
//
// Parameters:
//   - observed: Measured responses
//   - predicted: Responses of the fitted curve at the same doses
//
// Returns:
//   - float64: R² (1 for a perfect fit; 0 when the data has no variance)
func calculateRSquared(observed, predicted []float64) float64 {
	if len(observed) == 0 {
		return 0
	}

	mean := calculateMean(observed)
	ssTot := 0.0
	for _, v := range observed {
		ssTot += (v - mean) * (v - mean)
	}

	if ssTot == 0 {
		return 0
	}

	return 1.0 - calculateSSR(observed, predicted)/ssTot
}

// calculateRMSE calculates the root mean square error √(SS_res / n).
func calculateRMSE(observed, predicted []float64) float64 {
	if len(observed) == 0 {
		return 0
	}

	return math.Sqrt(calculateSSR(observed, predicted) / float64(len(observed)))
}

func calculateMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}
