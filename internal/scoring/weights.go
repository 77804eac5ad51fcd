package scoring

import (
	"fmt"
	"math"

	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/ahp"
)

// CompositeWeights defines the coefficient of each dimension in the total score.
// All weights must sum to 1.0 (±0.001 tolerance).
type CompositeWeights struct {
	Reliability    float64 `json:"reliability" yaml:"reliability"`
	Security       float64 `json:"security" yaml:"security"`
	AntiJamming    float64 `json:"anti_jamming" yaml:"anti_jamming"`
	Effectiveness  float64 `json:"effectiveness" yaml:"effectiveness"`
	Processing     float64 `json:"processing" yaml:"processing"`
	Networking     float64 `json:"networking" yaml:"networking"`
	HumanOperation float64 `json:"operation" yaml:"operation"`
	Response       float64 `json:"response" yaml:"response"`
}

// DefaultCompositeWeights returns the fixed doctrine coefficients.
func DefaultCompositeWeights() CompositeWeights {
	return CompositeWeights{
		Reliability:    0.25,
		Security:       0.20,
		AntiJamming:    0.15,
		Effectiveness:  0.15,
		Processing:     0.10,
		Networking:     0.07,
		HumanOperation: 0.05,
		Response:       0.03,
	}
}

// WeightsFromAHP converts an AHP weight result into composite coefficients.
// The default scoring path never calls this; it is an explicit opt-in.
func WeightsFromAHP(res *ahp.WeightResult) CompositeWeights {
	v := res.Vector()
	return weightsFromVector(v)
}

func weightsFromVector(v []float64) CompositeWeights {
	return CompositeWeights{
		Reliability:    v[0],
		Security:       v[1],
		AntiJamming:    v[2],
		Effectiveness:  v[3],
		Processing:     v[4],
		Networking:     v[5],
		HumanOperation: v[6],
		Response:       v[7],
	}
}

// Vector returns the coefficients in the fixed dimension order.
func (w CompositeWeights) Vector() [ahp.DimensionCount]float64 {
	return [ahp.DimensionCount]float64{
		w.Reliability, w.Security, w.AntiJamming, w.Effectiveness,
		w.Processing, w.Networking, w.HumanOperation, w.Response,
	}
}

// Sum returns the total of all weights.
func (w CompositeWeights) Sum() float64 {
	var sum float64
	for _, v := range w.Vector() {
		sum += v
	}
	return sum
}

// Validate checks that weights sum to 1.0 and none are negative.
func (w CompositeWeights) Validate() error {
	if math.Abs(w.Sum()-1.0) > 0.001 {
		return fmt.Errorf("composite weights sum to %.4f, must sum to 1.0", w.Sum())
	}
	for i, v := range w.Vector() {
		if v < 0 {
			return fmt.Errorf("negative weight for %s: %f", ahp.Codes()[i], v)
		}
	}
	return nil
}
