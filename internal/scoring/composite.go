// Package scoring turns raw test batch measurements into dimension scores, a
// weighted composite total, a grade and a rank.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"sort"
	"strconv"

	"github.com/cockroachdb/apd/v3"
	"golang.org/x/sync/errgroup"

	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/ahp"
	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/store"
)

// decimalCtx rounds half-up, matching how totals are reported.
var decimalCtx = func() *apd.Context {
	c := apd.BaseContext.WithPrecision(34)
	c.Rounding = apd.RoundHalfUp
	return c
}()

// ErrNonFinite is returned when a measurement field is NaN or infinite.
var ErrNonFinite = errors.New("non-finite measurement value")

// CompositeResult is the scoring output for one test batch.
type CompositeResult struct {
	TestID     string `json:"test_id"`
	ScenarioID int    `json:"scenario_id"`

	DimensionScores

	TotalScore float64 `json:"total_score"`
	Grade      string  `json:"grade"`
	Rank       int     `json:"rank"`

	// Pass-through key metrics
	TaskSuccessRate               *float64 `json:"task_success_rate,omitempty"`
	CommunicationAvailabilityRate *float64 `json:"communication_availability_rate,omitempty"`
	TotalNetworkCrashes           *int     `json:"total_network_crashes,omitempty"`
	TotalCommunications           *int     `json:"total_communications,omitempty"`
}

// FactorResult captures one dimension's contribution to the total score.
type FactorResult struct {
	Dimension string  `json:"dimension"`
	Score     float64 `json:"score"`
	Weight    float64 `json:"weight"`
	Weighted  float64 `json:"weighted"`
}

// CompositeScorer combines dimension scores with a coefficient table.
type CompositeScorer struct {
	weights CompositeWeights
	coeffs  [ahp.DimensionCount]*apd.Decimal
	workers int
	logger  *slog.Logger
}

// NewCompositeScorer creates a scorer. workers bounds the scoring fan-out;
// zero or less uses GOMAXPROCS.
func NewCompositeScorer(weights CompositeWeights, workers int, logger *slog.Logger) (*CompositeScorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	s := &CompositeScorer{weights: weights, workers: workers, logger: logger}
	for i, w := range weights.Vector() {
		d, err := decimalFromFloat(w)
		if err != nil {
			return nil, fmt.Errorf("weight %s: %w", ahp.Codes()[i], err)
		}
		s.coeffs[i] = d
	}
	return s, nil
}

// Weights returns the coefficient table in use.
func (s *CompositeScorer) Weights() CompositeWeights { return s.weights }

// Score computes dimension scores, total and grade for one measurement. Rank is
// left at zero; it only has meaning across a scored set.
func (s *CompositeScorer) Score(m *store.Measurement) (CompositeResult, error) {
	dec, err := scoreDecimals(m)
	if err != nil {
		return CompositeResult{}, err
	}
	dims, err := dec.scores()
	if err != nil {
		return CompositeResult{}, fmt.Errorf("convert dimensions for %s: %w", m.TestID, err)
	}

	total, err := s.weightedTotal(dec)
	if err != nil {
		return CompositeResult{}, fmt.Errorf("score %s: %w", m.TestID, err)
	}
	rounded := new(apd.Decimal)
	if _, err := decimalCtx.Quantize(rounded, total, -2); err != nil {
		return CompositeResult{}, fmt.Errorf("round total for %s: %w", m.TestID, err)
	}
	totalScore, err := rounded.Float64()
	if err != nil {
		return CompositeResult{}, fmt.Errorf("convert total for %s: %w", m.TestID, err)
	}

	return CompositeResult{
		TestID:                        m.TestID,
		ScenarioID:                    m.ScenarioID,
		DimensionScores:               dims,
		TotalScore:                    totalScore,
		Grade:                         gradeDecimal(total),
		TaskSuccessRate:               m.TaskSuccessRate,
		CommunicationAvailabilityRate: m.CommunicationAvailabilityRate,
		TotalNetworkCrashes:           m.TotalNetworkCrashes,
		TotalCommunications:           m.TotalCommunications,
	}, nil
}

// Rank scores every measurement and orders the results by total score,
// highest first. Equal totals keep their input order. Ranks start at 1.
func (s *CompositeScorer) Rank(ctx context.Context, measurements []*store.Measurement) ([]CompositeResult, error) {
	results := make([]CompositeResult, len(measurements))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, m := range measurements {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := s.Score(m)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalScore > results[j].TotalScore
	})
	for i := range results {
		results[i].Rank = i + 1
	}

	if s.logger != nil {
		s.logger.Debug("ranked test batches", "count", len(results))
	}
	return results, nil
}

// Explain returns each dimension's weighted contribution for one measurement.
func (s *CompositeScorer) Explain(m *store.Measurement) ([]FactorResult, error) {
	dec, err := scoreDecimals(m)
	if err != nil {
		return nil, err
	}
	weights := s.weights.Vector()
	codes := ahp.Codes()

	factors := make([]FactorResult, len(dec))
	for i, d := range dec {
		var term apd.Decimal
		if _, err := decimalCtx.Mul(&term, d, s.coeffs[i]); err != nil {
			return nil, fmt.Errorf("weigh %s for %s: %w", codes[i], m.TestID, err)
		}
		score, err := d.Float64()
		if err != nil {
			return nil, err
		}
		weighted, err := term.Float64()
		if err != nil {
			return nil, err
		}
		factors[i] = FactorResult{
			Dimension: codes[i],
			Score:     score,
			Weight:    weights[i],
			Weighted:  weighted,
		}
	}
	return factors, nil
}

func (s *CompositeScorer) weightedTotal(dims dimensionDecimals) (*apd.Decimal, error) {
	total := new(apd.Decimal)
	for i, d := range dims {
		var term apd.Decimal
		if _, err := decimalCtx.Mul(&term, d, s.coeffs[i]); err != nil {
			return nil, err
		}
		if _, err := decimalCtx.Add(total, total, &term); err != nil {
			return nil, err
		}
	}
	return total, nil
}

// decimalFromFloat uses the shortest decimal representation of f, so 0.07
// becomes exactly 0.07 rather than its binary approximation.
func decimalFromFloat(f float64) (*apd.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("decimal from %v: %w", f, ErrNonFinite)
	}
	d, _, err := apd.NewFromString(strconv.FormatFloat(f, 'f', -1, 64))
	if err != nil {
		return nil, fmt.Errorf("decimal from %v: %w", f, err)
	}
	return d, nil
}
