package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/config"
	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/evaluator"
	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/events"
	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/scoring"
	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/store"
)

func NewRouter(s store.Store, ev events.Client, eval evaluator.Client, scorer *scoring.CompositeScorer, cfg *config.Config, logger *slog.Logger) http.Handler {
	if ev == nil {
		ev = events.NopClient{}
	}
	if eval == nil {
		eval = evaluator.Disabled()
	}

	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(cfg.Server.RateLimitPerSec, cfg.Server.RateLimitBurst))

	weights := NewAHPHandler(ev, logger)
	evaluations := NewEvaluationsHandler(s, ev, logger)
	results := NewResultsHandler(s, scorer, ev, cfg.Scoring.Workers, logger)
	explain := NewExplainHandler(s, scorer)
	comms := NewCommunicationsHandler(s)
	tables := NewTablesHandler(s)
	external := NewExternalHandler(eval, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/ahp/calculate", weights.Calculate)

		r.Get("/evaluations", evaluations.List)
		r.Post("/evaluations", evaluations.Create)
		r.Get("/evaluations/count", evaluations.Count)
		r.Get("/evaluations/test/{testID}", evaluations.GetByTest)
		r.Get("/evaluations/test/{testID}/explain", explain.Explain)
		r.Get("/evaluations/scenario/{scenarioID}", evaluations.ListByScenario)
		r.Get("/evaluations/crashes", evaluations.Crashes)
		r.Get("/evaluations/low-success-rate", evaluations.LowSuccessRate)

		r.Get("/evaluations/results", results.Results)
		r.Post("/evaluations/results", results.Evaluate)
		r.Get("/evaluations/runs/{id}", results.GetRun)

		r.Get("/communications", comms.List)
		r.Get("/communications/test/{testID}/stats", comms.Stats)

		r.Post("/external-evaluation/calculate", external.Calculate)
		r.Get("/external-evaluation/environment", external.Environment)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.Server.AdminToken))
			r.Get("/tables/{name}/structure", tables.Structure)
			r.Get("/tables/{name}/data", tables.Data)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
