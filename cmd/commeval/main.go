package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/api"
	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/config"
	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/evaluator"
	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/events"
	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/scoring"
	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger = newLogger(cfg.Logging)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := store.NewPostgresStore(ctx, cfg.Database.URL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("connected to database", "schema_version", store.MeasurementSchemaVersion)

	// Events (optional)
	eventsClient := connectEvents(ctx, cfg.Events.NATSURL, logger)
	defer eventsClient.Close()

	// External evaluator
	var evalClient evaluator.Client
	switch cfg.Evaluator.Mode {
	case "process":
		evalClient = evaluator.NewProcessClient(cfg.Evaluator.Executable, cfg.Evaluator.ScriptPath, cfg.EvaluatorTimeout(), logger)
	case "http":
		evalClient = evaluator.NewHTTPClient(cfg.Evaluator.URL, cfg.EvaluatorTimeout())
	default:
		evalClient = evaluator.Disabled()
	}
	logger.Info("external evaluator configured", "mode", cfg.Evaluator.Mode)

	// Composite scorer
	scorer, err := scoring.NewCompositeScorer(cfg.Scoring.Weights, cfg.Scoring.Workers, logger)
	if err != nil {
		logger.Error("invalid scoring weights", "error", err)
		os.Exit(1)
	}

	// API server
	router := api.NewRouter(db, eventsClient, evalClient, scorer, cfg, logger)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: api.NewMetricsRouter(),
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

// connectEvents returns a NATS publisher, or a NopClient when no URL is set or
// the broker is unreachable. A missing stream only downgrades persistence.
func connectEvents(ctx context.Context, url string, logger *slog.Logger) events.Client {
	if url == "" {
		return events.NopClient{}
	}
	nc, err := events.NewNATSClient(ctx, url, logger)
	var streamErr *events.StreamSetupError
	switch {
	case errors.As(err, &streamErr):
		logger.Warn("event stream unavailable, events will not be persisted", "stream", streamErr.Stream, "error", streamErr.Err)
		return nc
	case err != nil:
		logger.Warn("failed to connect to nats, running without events", "error", err)
		return events.NopClient{}
	}
	logger.Info("connected to nats", "stream", events.StreamName)
	return nc
}
