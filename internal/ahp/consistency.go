package ahp

// ConsistencyThreshold is the CR below which a matrix is considered acceptable.
const ConsistencyThreshold = 0.10

// randomIndex holds Saaty's random index, randomIndex[n-1] for a matrix of size n.
var randomIndex = [...]float64{0, 0, 0.58, 0.90, 1.12, 1.24, 1.32, 1.41, 1.45, 1.49}

// RandomIndex returns RI for a matrix of size n.
func RandomIndex(n int) (float64, error) {
	if n < 1 || n > len(randomIndex) {
		return 0, &UnsupportedDimensionCountError{N: n}
	}
	return randomIndex[n-1], nil
}

// ConsistencyResult describes how far a matrix is from perfect transitivity.
type ConsistencyResult struct {
	LambdaMax  float64 `json:"lambda_max"`
	CI         float64 `json:"ci"`
	CR         float64 `json:"cr"`
	Consistent bool    `json:"consistent"`
}

// CheckConsistency computes lambda max, CI and CR for m and its weight vector.
// The result is advisory; an inconsistent matrix is not an error.
func CheckConsistency(m Matrix, weights []float64) (ConsistencyResult, error) {
	n := m.Size()
	ri, err := RandomIndex(n)
	if err != nil {
		return ConsistencyResult{}, err
	}

	aw := m.mulVec(weights)
	var lambda float64
	for i := range aw {
		lambda += aw[i] / weights[i]
	}
	lambda /= float64(n)

	var ci, cr float64
	if n > 1 {
		ci = (lambda - float64(n)) / float64(n-1)
	}
	// RI is zero for n <= 2, where any reciprocal matrix is consistent.
	if ri > 0 {
		cr = ci / ri
	}

	return ConsistencyResult{
		LambdaMax:  lambda,
		CI:         ci,
		CR:         cr,
		Consistent: cr < ConsistencyThreshold,
	}, nil
}
