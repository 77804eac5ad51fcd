package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/ahp"
	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/events"
)

type prioritiesRequest struct {
	Priorities map[string]int `json:"priorities"`
}

type AHPHandler struct {
	events events.Client
	logger *slog.Logger
}

func NewAHPHandler(ev events.Client, logger *slog.Logger) *AHPHandler {
	return &AHPHandler{events: ev, logger: logger}
}

// Calculate derives dimension weights from a priority ranking.
// POST /api/v1/ahp/calculate
func (h *AHPHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req prioritiesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ranking, err := ahp.ParsePriorities(req.Priorities)
	if err != nil {
		writeErr(w, err)
		return
	}
	res, err := calculateWeights(ranking, h.events, h.logger)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// calculateWeights runs AHP for a ranking, records the outcome and announces
// it on the bus. An inconsistent ranking is logged but still used.
func calculateWeights(ranking ahp.PriorityRanking, ev events.Client, logger *slog.Logger) (*ahp.WeightResult, error) {
	res, err := ahp.Calculate(ranking)
	if err != nil {
		return nil, err
	}
	ahpCalculations.WithLabelValues(strconv.FormatBool(res.Consistent)).Inc()
	publishCalculated(ev, logger, ranking, res)
	return res, nil
}

func publishCalculated(ev events.Client, logger *slog.Logger, ranking ahp.PriorityRanking, res *ahp.WeightResult) {
	if !res.Consistent {
		logger.Warn("ahp ranking failed consistency check", "cr", res.CR, "priorities", ranking.Codes())
	}
	err := ev.Publish(events.SubjectAHPCalculated, events.AHPCalculatedEvent{
		Priorities: ranking.Codes(),
		Weights:    res.Weights,
		LambdaMax:  res.LambdaMax,
		CR:         res.CR,
		Consistent: res.Consistent,
		Timestamp:  time.Now().UTC(),
	})
	if err != nil {
		logger.Warn("failed to publish ahp event", "error", err)
	}
}
