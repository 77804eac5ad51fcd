package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/scoring"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Events    EventsConfig    `yaml:"events"`
	Evaluator EvaluatorConfig `yaml:"evaluator"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port              int     `yaml:"port"`
	MetricsPort       int     `yaml:"metrics_port"`
	AdminToken        string  `yaml:"admin_token"`
	RateLimitPerSec   float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst    int     `yaml:"rate_limit_burst"`
	ShutdownTimeoutMs int     `yaml:"shutdown_timeout_ms"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type EventsConfig struct {
	NATSURL string `yaml:"nats_url"`
}

// EvaluatorConfig selects the external scripted evaluator. Mode is "process",
// "http" or "" (disabled).
type EvaluatorConfig struct {
	Mode       string `yaml:"mode"`
	Executable string `yaml:"executable"`
	ScriptPath string `yaml:"script_path"`
	URL        string `yaml:"url"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

type ScoringConfig struct {
	Weights scoring.CompositeWeights `yaml:"weights"`
	Workers int                      `yaml:"workers"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) EvaluatorTimeout() time.Duration {
	return time.Duration(c.Evaluator.TimeoutSec) * time.Second
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutMs) * time.Millisecond
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:              8700,
			MetricsPort:       8701,
			RateLimitPerSec:   2,
			RateLimitBurst:    20,
			ShutdownTimeoutMs: 10000,
		},
		Database: DatabaseConfig{
			URL: "postgres://localhost:5432/military_communication_effectiveness",
		},
		Events: EventsConfig{
			NATSURL: "nats://localhost:4222",
		},
		Evaluator: EvaluatorConfig{
			Mode:       "process",
			Executable: "python",
			ScriptPath: "python_service/evaluation_service.py",
			TimeoutSec: 300,
		},
		Scoring: ScoringConfig{
			Weights: scoring.DefaultCompositeWeights(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Scoring.Weights.Validate(); err != nil {
		return nil, fmt.Errorf("scoring weights: %w", err)
	}
	switch cfg.Evaluator.Mode {
	case "", "process", "http":
	default:
		return nil, fmt.Errorf("unknown evaluator mode %q", cfg.Evaluator.Mode)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("COMMEVAL_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("COMMEVAL_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("COMMEVAL_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("COMMEVAL_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("COMMEVAL_NATS_URL"); v != "" {
		cfg.Events.NATSURL = v
	}
	if v := os.Getenv("COMMEVAL_EVALUATOR_MODE"); v != "" {
		cfg.Evaluator.Mode = v
	}
	if v := os.Getenv("COMMEVAL_EVALUATOR_EXECUTABLE"); v != "" {
		cfg.Evaluator.Executable = v
	}
	if v := os.Getenv("COMMEVAL_EVALUATOR_SCRIPT"); v != "" {
		cfg.Evaluator.ScriptPath = v
	}
	if v := os.Getenv("COMMEVAL_EVALUATOR_URL"); v != "" {
		cfg.Evaluator.URL = v
	}
	if v := os.Getenv("COMMEVAL_EVALUATOR_TIMEOUT_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Evaluator.TimeoutSec = n
		}
	}
	if v := os.Getenv("COMMEVAL_SCORING_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scoring.Workers = n
		}
	}
	if v := os.Getenv("COMMEVAL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
