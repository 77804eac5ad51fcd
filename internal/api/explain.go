package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/scoring"
	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/store"
)

type ExplainHandler struct {
	store  store.Store
	scorer *scoring.CompositeScorer
}

func NewExplainHandler(s store.Store, scorer *scoring.CompositeScorer) *ExplainHandler {
	return &ExplainHandler{store: s, scorer: scorer}
}

// Explain returns the per-dimension scoring breakdown for a test batch.
// GET /api/v1/evaluations/test/{testID}/explain
func (h *ExplainHandler) Explain(w http.ResponseWriter, r *http.Request) {
	m, err := h.store.GetMeasurement(r.Context(), chi.URLParam(r, "testID"))
	if err != nil {
		writeErr(w, err)
		return
	}
	if m == nil {
		writeError(w, http.StatusNotFound, "test batch not found")
		return
	}

	res, err := h.scorer.Score(m)
	if err != nil {
		writeErr(w, err)
		return
	}

	factors, err := h.scorer.Explain(m)
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"test_id":     m.TestID,
		"scenario_id": m.ScenarioID,
		"total_score": res.TotalScore,
		"grade":       res.Grade,
		"factors":     factors,
	})
}
