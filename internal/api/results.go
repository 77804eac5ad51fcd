package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/ahp"
	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/events"
	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/scoring"
	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/store"
)

const (
	weightsSourceFixed = "fixed"
	weightsSourceAHP   = "ahp"
)

type ResultsHandler struct {
	store   store.Store
	scorer  *scoring.CompositeScorer
	events  events.Client
	workers int
	logger  *slog.Logger
}

func NewResultsHandler(s store.Store, scorer *scoring.CompositeScorer, ev events.Client, workers int, logger *slog.Logger) *ResultsHandler {
	return &ResultsHandler{store: s, scorer: scorer, events: ev, workers: workers, logger: logger}
}

type evaluateRequest struct {
	Priorities map[string]int `json:"priorities,omitempty"`
	ScenarioID *int           `json:"scenario_id,omitempty"`
}

type evaluateResponse struct {
	RunID         uuid.UUID                 `json:"run_id"`
	WeightsSource string                    `json:"weights_source"`
	Weights       map[string]float64        `json:"weights"`
	AHP           *ahp.WeightResult         `json:"ahp,omitempty"`
	Results       []scoring.CompositeResult `json:"results"`
}

// Results ranks every stored test batch with the configured coefficients.
// limit and offset select a window of the ranking; ranks always reflect the
// whole filtered set.
// GET /api/v1/evaluations/results
func (h *ResultsHandler) Results(w http.ResponseWriter, r *http.Request) {
	filter, err := measurementFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, offset := filter.Limit, filter.Offset
	filter.Limit, filter.Offset = 0, 0

	results, err := h.rank(r, h.scorer, filter, weightsSourceFixed)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pageResults(results, limit, offset))
}

func pageResults(results []scoring.CompositeResult, limit, offset int) []scoring.CompositeResult {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(results) {
		return []scoring.CompositeResult{}
	}
	results = results[offset:]
	if limit > 0 && limit < len(results) {
		results = results[:limit]
	}
	return results
}

// Evaluate ranks every stored test batch and stores the run. When priorities
// are supplied the coefficients come from AHP instead of the fixed table.
// POST /api/v1/evaluations/results
func (h *ResultsHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	start := time.Now()
	scorer := h.scorer
	source := weightsSourceFixed
	var weightResult *ahp.WeightResult
	var ranking ahp.PriorityRanking
	if len(req.Priorities) > 0 {
		var err error
		ranking, err = ahp.ParsePriorities(req.Priorities)
		if err != nil {
			writeErr(w, err)
			return
		}
		weightResult, err = calculateWeights(ranking, h.events, h.logger)
		if err != nil {
			writeErr(w, err)
			return
		}
		scorer, err = scoring.NewCompositeScorer(scoring.WeightsFromAHP(weightResult), h.workers, h.logger)
		if err != nil {
			writeErr(w, err)
			return
		}
		source = weightsSourceAHP
	}

	results, err := h.rank(r, scorer, store.MeasurementFilter{ScenarioID: req.ScenarioID}, source)
	if err != nil {
		writeErr(w, err)
		return
	}

	payload, err := json.Marshal(results)
	if err != nil {
		writeErr(w, err)
		return
	}
	run := &store.EvaluationRun{
		WeightsSource: source,
		Weights:       weightsByCode(scorer.Weights()),
		ResultCount:   len(results),
		Results:       payload,
	}
	if ranking != nil {
		run.Priorities = ranking.Codes()
	}
	if err := h.store.CreateEvaluationRun(r.Context(), run); err != nil {
		writeErr(w, err)
		return
	}

	h.publishCompleted(run, results, time.Since(start))

	writeJSON(w, http.StatusCreated, evaluateResponse{
		RunID:         run.ID,
		WeightsSource: source,
		Weights:       run.Weights,
		AHP:           weightResult,
		Results:       results,
	})
}

// GetRun handles GET /api/v1/evaluations/runs/{id}
func (h *ResultsHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid run id")
		return
	}
	run, err := h.store.GetEvaluationRun(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	if run == nil {
		writeError(w, http.StatusNotFound, "evaluation run not found")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (h *ResultsHandler) rank(r *http.Request, scorer *scoring.CompositeScorer, filter store.MeasurementFilter, source string) ([]scoring.CompositeResult, error) {
	ms, err := h.store.ListMeasurements(r.Context(), filter)
	if err != nil {
		return nil, err
	}
	results, err := scorer.Rank(r.Context(), ms)
	if err != nil {
		return nil, err
	}
	scoringRuns.WithLabelValues(source).Inc()
	recordsScored.Observe(float64(len(results)))
	if results == nil {
		results = []scoring.CompositeResult{}
	}
	return results, nil
}

func (h *ResultsHandler) publishCompleted(run *store.EvaluationRun, results []scoring.CompositeResult, elapsed time.Duration) {
	now := time.Now().UTC()
	completed := events.EvaluationCompletedEvent{
		ResultCount:   len(results),
		WeightsSource: run.WeightsSource,
		DurationMs:    elapsed.Milliseconds(),
		Timestamp:     now,
	}
	if len(results) > 0 {
		completed.TopTestID = results[0].TestID
		completed.TopScore = results[0].TotalScore
	}
	if err := h.events.Publish(events.SubjectEvaluationCompleted, completed); err != nil {
		h.logger.Warn("failed to publish evaluation event", "error", err)
	}
	if err := h.events.Publish(events.SubjectRunStored(run.ID.String()), events.EvaluationRunStoredEvent{
		RunID:         run.ID.String(),
		WeightsSource: run.WeightsSource,
		ResultCount:   run.ResultCount,
		Timestamp:     now,
	}); err != nil {
		h.logger.Warn("failed to publish run event", "run_id", run.ID, "error", err)
	}
}

func weightsByCode(cw scoring.CompositeWeights) map[string]float64 {
	vec := cw.Vector()
	out := make(map[string]float64, len(vec))
	for i, code := range ahp.Codes() {
		out[code] = vec[i]
	}
	return out
}
