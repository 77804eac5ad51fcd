package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/ahp"
	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/evaluator"
)

type ExternalHandler struct {
	client evaluator.Client
	logger *slog.Logger
}

func NewExternalHandler(c evaluator.Client, logger *slog.Logger) *ExternalHandler {
	return &ExternalHandler{client: c, logger: logger}
}

// Calculate handles POST /api/v1/external-evaluation/calculate
func (h *ExternalHandler) Calculate(w http.ResponseWriter, r *http.Request) {
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

	res, err := h.client.Evaluate(r.Context(), ranking)
	if err != nil {
		evaluatorCalls.WithLabelValues("error").Inc()
		h.logger.Error("external evaluation failed", "error", err)
		h.writeEvaluatorErr(w, err)
		return
	}
	evaluatorCalls.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, res)
}

// Environment handles GET /api/v1/external-evaluation/environment
func (h *ExternalHandler) Environment(w http.ResponseWriter, r *http.Request) {
	env, err := h.client.Environment(r.Context())
	if err != nil {
		h.writeEvaluatorErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, env)
}

func (h *ExternalHandler) writeEvaluatorErr(w http.ResponseWriter, err error) {
	var failed *evaluator.FailedError
	switch {
	case errors.Is(err, evaluator.ErrDisabled):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, err.Error())
	case errors.As(err, &failed):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeErr(w, err)
	}
}
