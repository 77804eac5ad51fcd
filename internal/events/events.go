package events

import "time"

type AHPCalculatedEvent struct {
	Priorities map[string]int     `json:"priorities"`
	Weights    map[string]float64 `json:"weights"`
	LambdaMax  float64            `json:"lambda_max"`
	CR         float64            `json:"cr"`
	Consistent bool               `json:"consistent"`
	Timestamp  time.Time          `json:"timestamp"`
}

type EvaluationCompletedEvent struct {
	ResultCount   int       `json:"result_count"`
	WeightsSource string    `json:"weights_source"`
	TopTestID     string    `json:"top_test_id,omitempty"`
	TopScore      float64   `json:"top_score,omitempty"`
	DurationMs    int64     `json:"duration_ms"`
	Timestamp     time.Time `json:"timestamp"`
}

type EvaluationRunStoredEvent struct {
	RunID         string    `json:"run_id"`
	WeightsSource string    `json:"weights_source"`
	ResultCount   int       `json:"result_count"`
	Timestamp     time.Time `json:"timestamp"`
}

type MeasurementIngestedEvent struct {
	EvaluationID int64     `json:"evaluation_id"`
	TestID       string    `json:"test_id"`
	ScenarioID   int       `json:"scenario_id"`
	Timestamp    time.Time `json:"timestamp"`
}
