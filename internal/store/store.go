package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrTableNotAllowed is returned when a table outside the browse whitelist is requested.
var ErrTableNotAllowed = errors.New("table not allowed")

// Communication is one during-battle communication event.
type Communication struct {
	CommunicationID     int64    `json:"communication_id"`
	ScenarioID          int      `json:"scenario_id"`
	TestID              string   `json:"test_id"`
	SourceNodeID        *string  `json:"source_node_id,omitempty"`
	TargetNodeID        *string  `json:"target_node_id,omitempty"`
	CommunicationType   *string  `json:"communication_type,omitempty"`
	DurationMs          *int64   `json:"communication_duration_ms,omitempty"`
	CallSetupDurationMs *float64 `json:"call_setup_duration_ms,omitempty"`
	CallSetupSuccess    *bool    `json:"call_setup_success,omitempty"`
	TransmissionDelayMs *float64 `json:"transmission_delay_ms,omitempty"`
	InstantSINR         *float64 `json:"instant_sinr,omitempty"`
	InstantBER          *float64 `json:"instant_ber,omitempty"`
	InstantPLR          *float64 `json:"instant_plr,omitempty"`
	JammingMargin       *float64 `json:"jamming_margin,omitempty"`
	Success             *bool    `json:"communication_success,omitempty"`
	FailureReason       *string  `json:"failure_reason,omitempty"`
	EncryptionUsed      *bool    `json:"encryption_used,omitempty"`
	Detected            *bool    `json:"detected,omitempty"`
	Intercepted         *bool    `json:"intercepted,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// CommunicationFilter narrows a communication listing.
type CommunicationFilter struct {
	TestID       string
	ScenarioID   *int
	FailedOnly   bool
	DetectedOnly bool
	Limit        int
	Offset       int
}

// CommunicationStats summarises the communications of one test batch.
type CommunicationStats struct {
	TestID      string  `json:"test_id"`
	Total       int64   `json:"total"`
	Successful  int64   `json:"successful"`
	Detected    int64   `json:"detected"`
	SuccessRate float64 `json:"success_rate"` // percent, 0 when Total is 0
}

// EvaluationRun is a stored snapshot of one ranked scoring pass.
type EvaluationRun struct {
	ID            uuid.UUID          `json:"id"`
	WeightsSource string             `json:"weights_source"` // "fixed" or "ahp"
	Weights       map[string]float64 `json:"weights"`
	Priorities    map[string]int     `json:"priorities,omitempty"`
	ResultCount   int                `json:"result_count"`
	Results       json.RawMessage    `json:"results"`
	CreatedAt     time.Time          `json:"created_at"`
}

// ColumnInfo describes one column of a browsable table.
type ColumnInfo struct {
	Name      string `json:"column_name"`
	DataType  string `json:"data_type"`
	Comment   string `json:"column_comment,omitempty"`
	MaxLength *int   `json:"column_length,omitempty"`
	Nullable  bool   `json:"nullable"`
}

// TablePage is one page of raw rows from a browsable table.
type TablePage struct {
	Records    []map[string]interface{} `json:"records"`
	Total      int64                    `json:"total"`
	Page       int                      `json:"page"`
	Size       int                      `json:"size"`
	TotalPages int                      `json:"total_pages"`
}

// BrowsableTables lists the tables exposed through DescribeTable and GetTablePage.
var BrowsableTables = map[string]bool{
	"communication_network_lifecycle":   true,
	"during_battle_communications":      true,
	"military_effectiveness_evaluation": true,
}

type Store interface {
	// Measurements
	ListMeasurements(ctx context.Context, filter MeasurementFilter) ([]*Measurement, error)
	GetMeasurement(ctx context.Context, testID string) (*Measurement, error)
	CreateMeasurement(ctx context.Context, m *Measurement) error
	CountMeasurements(ctx context.Context) (int64, error)

	// Communications
	ListCommunications(ctx context.Context, filter CommunicationFilter) ([]*Communication, error)
	GetCommunicationStats(ctx context.Context, testID string) (*CommunicationStats, error)

	// Evaluation runs
	CreateEvaluationRun(ctx context.Context, run *EvaluationRun) error
	GetEvaluationRun(ctx context.Context, id uuid.UUID) (*EvaluationRun, error)

	// Table browsing
	DescribeTable(ctx context.Context, table string) ([]ColumnInfo, error)
	GetTablePage(ctx context.Context, table string, page, size int) (*TablePage, error)

	Close() error
}
