package scoring

import (
	"fmt"
	"math"

	"github.com/cockroachdb/apd/v3"

	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/ahp"
	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/store"
)

var (
	decZero    = apd.New(0, 0)
	decTwo     = apd.New(2, 0)
	decTen     = apd.New(10, 0)
	decTwenty  = apd.New(20, 0)
	decFifty   = apd.New(50, 0)
	decHundred = apd.New(100, 0)
	decKilo    = apd.New(1000, 0)
	decMillion = apd.New(1_000_000, 0)
)

// DimensionScores holds the eight 0–100 dimension scores of one test batch.
type DimensionScores struct {
	Reliability    float64 `json:"reliability_score" yaml:"reliability_score"`
	Security       float64 `json:"security_score" yaml:"security_score"`
	AntiJamming    float64 `json:"anti_jamming_score" yaml:"anti_jamming_score"`
	Effectiveness  float64 `json:"effectiveness_score" yaml:"effectiveness_score"`
	Processing     float64 `json:"processing_score" yaml:"processing_score"`
	Networking     float64 `json:"networking_score" yaml:"networking_score"`
	HumanOperation float64 `json:"operation_score" yaml:"operation_score"`
	Response       float64 `json:"response_score" yaml:"response_score"`
}

// Values returns the scores in the fixed dimension order (RL, SC, AJ, EF, PO, NC, HO, RS).
func (s DimensionScores) Values() [ahp.DimensionCount]float64 {
	return [ahp.DimensionCount]float64{
		s.Reliability, s.Security, s.AntiJamming, s.Effectiveness,
		s.Processing, s.Networking, s.HumanOperation, s.Response,
	}
}

// dimensionDecimals are the exact scores in the fixed dimension order.
type dimensionDecimals [ahp.DimensionCount]*apd.Decimal

func (d dimensionDecimals) scores() (DimensionScores, error) {
	var v [ahp.DimensionCount]float64
	for i, dec := range d {
		f, err := dec.Float64()
		if err != nil {
			return DimensionScores{}, err
		}
		v[i] = f
	}
	return DimensionScores{
		Reliability: v[0], Security: v[1], AntiJamming: v[2], Effectiveness: v[3],
		Processing: v[4], Networking: v[5], HumanOperation: v[6], Response: v[7],
	}, nil
}

func scoreDecimals(m *store.Measurement) (dimensionDecimals, error) {
	c := &decimalCalc{}
	d := dimensionDecimals{
		reliability(c, m),
		security(c, m),
		antiJamming(c, m),
		effectiveness(c, m),
		processing(c, m),
		networking(c, m),
		operation(c, m),
		response(c, m),
	}
	if c.err != nil {
		return dimensionDecimals{}, fmt.Errorf("score dimensions of %s: %w", m.TestID, c.err)
	}
	return d, nil
}

// ScoreDimensions maps one measurement row onto the eight dimensions.
func ScoreDimensions(m *store.Measurement) (DimensionScores, error) {
	d, err := scoreDecimals(m)
	if err != nil {
		return DimensionScores{}, err
	}
	return d.scores()
}

// --- Individual dimension calculators ---
//
// Each starts from a baseline and applies one term per present field. Absent
// fields leave the running value untouched. Divisions are exact; no term is
// rounded before the weighted total. The float wrappers return NaN for a
// non-finite input.

// ResponseScore penalises slow call setup and transmission delay.
func ResponseScore(m *store.Measurement) float64 { return floatScore(response, m) }

// ProcessingScore rewards throughput and spectral efficiency.
func ProcessingScore(m *store.Measurement) float64 { return floatScore(processing, m) }

// EffectivenessScore penalises bit errors and packet loss.
func EffectivenessScore(m *store.Measurement) float64 { return floatScore(effectiveness, m) }

// ReliabilityScore penalises network crashes. When a task success rate is
// recorded it replaces the crash-adjusted value entirely.
func ReliabilityScore(m *store.Measurement) float64 { return floatScore(reliability, m) }

// AntiJammingScore rewards SINR and jamming margin.
func AntiJammingScore(m *store.Measurement) float64 { return floatScore(antiJamming, m) }

// OperationScore is the operation success rate as a percentage, 100 when unknown.
func OperationScore(m *store.Measurement) float64 { return floatScore(operation, m) }

// NetworkingScore is the connectivity rate as a percentage, 100 when unknown.
func NetworkingScore(m *store.Measurement) float64 { return floatScore(networking, m) }

// SecurityScore penalises detection probability. A recorded interception
// resistance replaces the result with its raw value.
func SecurityScore(m *store.Measurement) float64 { return floatScore(security, m) }

func response(c *decimalCalc, m *store.Measurement) *apd.Decimal {
	score := c.copy(decHundred)
	if m.AvgCallSetupDurationMs != nil {
		score = c.sub(score, c.quo(c.num(*m.AvgCallSetupDurationMs), decTwenty))
	}
	if m.AvgTransmissionDelayMs != nil {
		score = c.sub(score, c.quo(c.num(*m.AvgTransmissionDelayMs), decTen))
	}
	return c.clamp(score)
}

func processing(c *decimalCalc, m *store.Measurement) *apd.Decimal {
	score := c.copy(decFifty)
	if m.EffectiveThroughput != nil {
		score = c.add(score, c.quo(c.num(*m.EffectiveThroughput), decKilo))
	}
	if m.SpectralEfficiency != nil {
		score = c.add(score, c.mul(c.num(*m.SpectralEfficiency), decTen))
	}
	return c.clamp(score)
}

func effectiveness(c *decimalCalc, m *store.Measurement) *apd.Decimal {
	score := c.copy(decHundred)
	if m.AvgBER != nil && *m.AvgBER > 0 {
		score = c.sub(score, c.mul(c.num(*m.AvgBER), decMillion))
	}
	if m.AvgPLR != nil {
		score = c.sub(score, c.mul(c.num(*m.AvgPLR), decHundred))
	}
	return c.clamp(score)
}

func reliability(c *decimalCalc, m *store.Measurement) *apd.Decimal {
	score := c.copy(decHundred)
	if m.TotalNetworkCrashes != nil && *m.TotalNetworkCrashes > 0 {
		score = c.sub(score, c.mul(apd.New(int64(*m.TotalNetworkCrashes), 0), decTen))
	}
	if m.TaskSuccessRate != nil {
		score = c.mul(c.num(*m.TaskSuccessRate), decHundred)
	}
	return c.clamp(score)
}

func antiJamming(c *decimalCalc, m *store.Measurement) *apd.Decimal {
	score := c.copy(decFifty)
	if m.AvgSINR != nil {
		score = c.add(score, c.mul(c.num(*m.AvgSINR), decTwo))
	}
	if m.AvgJammingMargin != nil {
		score = c.add(score, c.mul(c.num(*m.AvgJammingMargin), decTwo))
	}
	return c.clamp(score)
}

func operation(c *decimalCalc, m *store.Measurement) *apd.Decimal {
	score := c.copy(decHundred)
	if m.OperationSuccessRate != nil {
		score = c.mul(c.num(*m.OperationSuccessRate), decHundred)
	}
	return c.clamp(score)
}

func networking(c *decimalCalc, m *store.Measurement) *apd.Decimal {
	score := c.copy(decHundred)
	if m.AvgConnectivityRate != nil {
		score = c.mul(c.num(*m.AvgConnectivityRate), decHundred)
	}
	return c.clamp(score)
}

func security(c *decimalCalc, m *store.Measurement) *apd.Decimal {
	score := c.copy(decHundred)
	if m.DetectionProbability != nil {
		score = c.sub(score, c.mul(c.num(*m.DetectionProbability), decHundred))
	}
	if m.InterceptionResistance != nil {
		score = c.num(*m.InterceptionResistance)
	}
	return c.clamp(score)
}

func floatScore(fn func(*decimalCalc, *store.Measurement) *apd.Decimal, m *store.Measurement) float64 {
	c := &decimalCalc{}
	d := fn(c, m)
	if c.err != nil {
		return math.NaN()
	}
	f, err := d.Float64()
	if err != nil {
		return math.NaN()
	}
	return f
}

// decimalCalc chains decimal operations in decimalCtx and keeps the first error.
// After an error every operation returns zero.
type decimalCalc struct {
	err error
}

func (c *decimalCalc) num(f float64) *apd.Decimal {
	if c.err != nil {
		return new(apd.Decimal)
	}
	d, err := decimalFromFloat(f)
	if err != nil {
		c.err = err
		return new(apd.Decimal)
	}
	return d
}

func (c *decimalCalc) copy(x *apd.Decimal) *apd.Decimal {
	return new(apd.Decimal).Set(x)
}

func (c *decimalCalc) apply(op func(d, x, y *apd.Decimal) (apd.Condition, error), x, y *apd.Decimal) *apd.Decimal {
	d := new(apd.Decimal)
	if c.err != nil {
		return d
	}
	if _, err := op(d, x, y); err != nil {
		c.err = err
	}
	return d
}

func (c *decimalCalc) add(x, y *apd.Decimal) *apd.Decimal { return c.apply(decimalCtx.Add, x, y) }
func (c *decimalCalc) sub(x, y *apd.Decimal) *apd.Decimal { return c.apply(decimalCtx.Sub, x, y) }
func (c *decimalCalc) mul(x, y *apd.Decimal) *apd.Decimal { return c.apply(decimalCtx.Mul, x, y) }
func (c *decimalCalc) quo(x, y *apd.Decimal) *apd.Decimal { return c.apply(decimalCtx.Quo, x, y) }

// clamp bounds a score to [0, 100].
func (c *decimalCalc) clamp(x *apd.Decimal) *apd.Decimal {
	if x.Cmp(decZero) < 0 {
		return c.copy(decZero)
	}
	if x.Cmp(decHundred) > 0 {
		return c.copy(decHundred)
	}
	return x
}
