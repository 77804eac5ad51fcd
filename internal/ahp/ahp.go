// Package ahp derives dimension weights from a priority ranking using the
// Analytic Hierarchy Process.
package ahp

// WeightResult is the full output of one AHP calculation.
type WeightResult struct {
	Matrix     [][]float64        `json:"matrix"`
	Weights    map[string]float64 `json:"weights"`
	LambdaMax  float64            `json:"lambda_max"`
	CI         float64            `json:"ci"`
	CR         float64            `json:"cr"`
	Consistent bool               `json:"consistent"`
	Dimensions []string           `json:"dimensions"`
	Iterations int                `json:"iterations"`
	Converged  bool               `json:"converged"`
}

// Vector returns the weights in the fixed dimension order.
func (w *WeightResult) Vector() []float64 {
	out := make([]float64, DimensionCount)
	for i, d := range dimensionOrder {
		out[i] = w.Weights[string(d)]
	}
	return out
}

// Calculate validates the ranking, builds the judgment matrix, solves for the
// weights and checks consistency.
func Calculate(r PriorityRanking) (*WeightResult, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	m := BuildMatrix(r)
	sol := SolveWeightsDetailed(m)
	cons, err := CheckConsistency(m, sol.Weights)
	if err != nil {
		return nil, err
	}

	weights := make(map[string]float64, DimensionCount)
	for i, d := range dimensionOrder {
		weights[string(d)] = sol.Weights[i]
	}

	return &WeightResult{
		Matrix:     m.Rows(),
		Weights:    weights,
		LambdaMax:  cons.LambdaMax,
		CI:         cons.CI,
		CR:         cons.CR,
		Consistent: cons.Consistent,
		Dimensions: Codes(),
		Iterations: sol.Iterations,
		Converged:  sol.Converged,
	}, nil
}
