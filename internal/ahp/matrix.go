package ahp

// Matrix is a square pairwise comparison matrix, row-major.
type Matrix [][]float64

// Size returns the matrix dimension.
func (m Matrix) Size() int { return len(m) }

// BuildMatrix derives the judgment matrix from a ranking.
//
// For i != j with diff = rank(j) - rank(i), entry [i][j] is diff+1 when i outranks j
// and 1/(|diff|+1) otherwise, so [j][i] is always the reciprocal of [i][j].
// The ranking must already be valid.
func BuildMatrix(r PriorityRanking) Matrix {
	n := DimensionCount
	m := make(Matrix, n)
	for i := 0; i < n; i++ {
		m[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			if i == j {
				m[i][j] = 1.0
				continue
			}
			diff := r[dimensionOrder[j]] - r[dimensionOrder[i]]
			if diff > 0 {
				m[i][j] = float64(diff) + 1.0
			} else {
				m[i][j] = 1.0 / (float64(-diff) + 1.0)
			}
		}
	}
	return m
}

// Rows returns a deep copy suitable for serialization.
func (m Matrix) Rows() [][]float64 {
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

func (m Matrix) mulVec(v []float64) []float64 {
	out := make([]float64, len(m))
	for i, row := range m {
		var sum float64
		for j, x := range row {
			sum += x * v[j]
		}
		out[i] = sum
	}
	return out
}
