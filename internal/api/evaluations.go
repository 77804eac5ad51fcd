package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/events"
	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/store"
)

const defaultSuccessRateThreshold = 0.9

type EvaluationsHandler struct {
	store  store.Store
	events events.Client
	logger *slog.Logger
}

func NewEvaluationsHandler(s store.Store, ev events.Client, logger *slog.Logger) *EvaluationsHandler {
	return &EvaluationsHandler{store: s, events: ev, logger: logger}
}

// List handles GET /api/v1/evaluations
func (h *EvaluationsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := measurementFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.list(w, r, filter)
}

// Count handles GET /api/v1/evaluations/count
func (h *EvaluationsHandler) Count(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.CountMeasurements(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": n})
}

// GetByTest handles GET /api/v1/evaluations/test/{testID}
func (h *EvaluationsHandler) GetByTest(w http.ResponseWriter, r *http.Request) {
	m, err := h.store.GetMeasurement(r.Context(), chi.URLParam(r, "testID"))
	if err != nil {
		writeErr(w, err)
		return
	}
	if m == nil {
		writeError(w, http.StatusNotFound, "test batch not found")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// ListByScenario handles GET /api/v1/evaluations/scenario/{scenarioID}
func (h *EvaluationsHandler) ListByScenario(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "scenarioID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid scenario id")
		return
	}
	h.list(w, r, store.MeasurementFilter{ScenarioID: &id})
}

// Crashes handles GET /api/v1/evaluations/crashes
func (h *EvaluationsHandler) Crashes(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, store.MeasurementFilter{CrashesOnly: true})
}

// LowSuccessRate handles GET /api/v1/evaluations/low-success-rate?threshold=0.9
func (h *EvaluationsHandler) LowSuccessRate(w http.ResponseWriter, r *http.Request) {
	threshold, err := queryFloat(r, "threshold", defaultSuccessRateThreshold)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.list(w, r, store.MeasurementFilter{SuccessRateBelow: &threshold})
}

// Create handles POST /api/v1/evaluations
func (h *EvaluationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var m store.Measurement
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	m.TestID = strings.TrimSpace(m.TestID)
	if m.TestID == "" {
		writeError(w, http.StatusBadRequest, "test_id is required")
		return
	}

	if err := h.store.CreateMeasurement(r.Context(), &m); err != nil {
		writeErr(w, err)
		return
	}
	measurementsIngested.Inc()

	if err := h.events.Publish(events.SubjectMeasurementIngested, events.MeasurementIngestedEvent{
		EvaluationID: m.EvaluationID,
		TestID:       m.TestID,
		ScenarioID:   m.ScenarioID,
		Timestamp:    time.Now().UTC(),
	}); err != nil {
		h.logger.Warn("failed to publish ingest event", "test_id", m.TestID, "error", err)
	}

	writeJSON(w, http.StatusCreated, m)
}

func (h *EvaluationsHandler) list(w http.ResponseWriter, r *http.Request, filter store.MeasurementFilter) {
	ms, err := h.store.ListMeasurements(r.Context(), filter)
	if err != nil {
		writeErr(w, err)
		return
	}
	if ms == nil {
		ms = []*store.Measurement{}
	}
	writeJSON(w, http.StatusOK, ms)
}

func measurementFilterFromQuery(r *http.Request) (store.MeasurementFilter, error) {
	var f store.MeasurementFilter
	if v := r.URL.Query().Get("scenario_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return f, errInvalid("scenario_id")
		}
		f.ScenarioID = &id
	}
	var err error
	if f.Limit, err = queryInt(r, "limit", 0); err != nil {
		return f, err
	}
	if f.Offset, err = queryInt(r, "offset", 0); err != nil {
		return f, err
	}
	return f, nil
}
