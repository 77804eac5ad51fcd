package ahp

import "math"

const (
	maxIterations        = 100
	convergenceTolerance = 1e-6
)

// Solution is the outcome of the power iteration.
type Solution struct {
	Weights    []float64
	Iterations int
	Converged  bool
}

// SolveWeights returns the normalised principal eigenvector of m.
func SolveWeights(m Matrix) []float64 {
	return SolveWeightsDetailed(m).Weights
}

// SolveWeightsDetailed runs power iteration from the all-ones vector. Each step
// multiplies by m and divides by the component sum; it stops once no component
// moves by more than 1e-6, or after 100 steps with the last vector as-is.
func SolveWeightsDetailed(m Matrix) Solution {
	n := m.Size()
	v := make([]float64, n)
	for i := range v {
		v[i] = 1.0
	}

	var sol Solution
	for iter := 1; iter <= maxIterations; iter++ {
		next := normalize(m.mulVec(v))

		converged := true
		for i := range next {
			if math.Abs(next[i]-v[i]) > convergenceTolerance {
				converged = false
				break
			}
		}

		v = next
		sol.Iterations = iter
		if converged {
			sol.Converged = true
			break
		}
	}

	sol.Weights = normalize(v)
	return sol
}

func normalize(v []float64) []float64 {
	var sum float64
	for _, x := range v {
		sum += x
	}
	out := make([]float64, len(v))
	if sum == 0 {
		return out
	}
	for i, x := range v {
		out[i] = x / sum
	}
	return out
}
