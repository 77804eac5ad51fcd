package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// metricColumns must stay in step with Measurement.metricValues and metricTargets.
var metricColumns = []string{
	"avg_call_setup_duration_ms", "avg_transmission_delay_ms",
	"effective_throughput", "spectral_efficiency", "channel_utilization",
	"avg_concurrent_links", "avg_communication_distance",
	"avg_ber", "avg_plr",
	"task_success_rate", "communication_availability_rate", "total_network_crashes",
	"avg_response_time_ms", "avg_handling_duration_ms",
	"avg_snr", "avg_sinr", "avg_jamming_margin",
	"avg_operator_reaction_time_ms", "operation_success_rate",
	"avg_network_setup_duration_ms", "avg_network_setup_speed", "avg_connectivity_rate",
	"deployment_speed", "personnel_avg_deployment_speed",
	"avg_key_age_hours", "key_compromise_frequency", "avg_key_leak_response_time_ms",
	"key_security_index", "key_response_efficiency",
	"detection_probability", "interception_resistance",
	"total_communications", "total_lifecycles",
	"total_communication_duration_ms", "total_interruption_time_ms",
}

var measurementColumns = "evaluation_id, scenario_id, test_id, " +
	strings.Join(metricColumns, ", ") + ", created_at, updated_at"

func (m *Measurement) metricValues() []interface{} {
	return []interface{}{
		m.AvgCallSetupDurationMs, m.AvgTransmissionDelayMs,
		m.EffectiveThroughput, m.SpectralEfficiency, m.ChannelUtilization,
		m.AvgConcurrentLinks, m.AvgCommunicationDistance,
		m.AvgBER, m.AvgPLR,
		m.TaskSuccessRate, m.CommunicationAvailabilityRate, m.TotalNetworkCrashes,
		m.AvgResponseTimeMs, m.AvgHandlingDurationMs,
		m.AvgSNR, m.AvgSINR, m.AvgJammingMargin,
		m.AvgOperatorReactionTimeMs, m.OperationSuccessRate,
		m.AvgNetworkSetupDurationMs, m.AvgNetworkSetupSpeed, m.AvgConnectivityRate,
		m.DeploymentSpeed, m.PersonnelAvgDeploymentSpeed,
		m.AvgKeyAgeHours, m.KeyCompromiseFrequency, m.AvgKeyLeakResponseTimeMs,
		m.KeySecurityIndex, m.KeyResponseEfficiency,
		m.DetectionProbability, m.InterceptionResistance,
		m.TotalCommunications, m.TotalLifecycles,
		m.TotalCommunicationDurationMs, m.TotalInterruptionTimeMs,
	}
}

func (m *Measurement) metricTargets() []interface{} {
	return []interface{}{
		&m.AvgCallSetupDurationMs, &m.AvgTransmissionDelayMs,
		&m.EffectiveThroughput, &m.SpectralEfficiency, &m.ChannelUtilization,
		&m.AvgConcurrentLinks, &m.AvgCommunicationDistance,
		&m.AvgBER, &m.AvgPLR,
		&m.TaskSuccessRate, &m.CommunicationAvailabilityRate, &m.TotalNetworkCrashes,
		&m.AvgResponseTimeMs, &m.AvgHandlingDurationMs,
		&m.AvgSNR, &m.AvgSINR, &m.AvgJammingMargin,
		&m.AvgOperatorReactionTimeMs, &m.OperationSuccessRate,
		&m.AvgNetworkSetupDurationMs, &m.AvgNetworkSetupSpeed, &m.AvgConnectivityRate,
		&m.DeploymentSpeed, &m.PersonnelAvgDeploymentSpeed,
		&m.AvgKeyAgeHours, &m.KeyCompromiseFrequency, &m.AvgKeyLeakResponseTimeMs,
		&m.KeySecurityIndex, &m.KeyResponseEfficiency,
		&m.DetectionProbability, &m.InterceptionResistance,
		&m.TotalCommunications, &m.TotalLifecycles,
		&m.TotalCommunicationDurationMs, &m.TotalInterruptionTimeMs,
	}
}

func (m *Measurement) scanTargets() []interface{} {
	targets := []interface{}{&m.EvaluationID, &m.ScenarioID, &m.TestID}
	targets = append(targets, m.metricTargets()...)
	return append(targets, &m.CreatedAt, &m.UpdatedAt)
}

func (s *PostgresStore) ListMeasurements(ctx context.Context, filter MeasurementFilter) ([]*Measurement, error) {
	query := `SELECT ` + measurementColumns + ` FROM military_effectiveness_evaluation WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.ScenarioID != nil {
		n++
		query += fmt.Sprintf(" AND scenario_id = $%d", n)
		args = append(args, *filter.ScenarioID)
	}
	if filter.SuccessRateBelow != nil {
		n++
		query += fmt.Sprintf(" AND task_success_rate < $%d", n)
		args = append(args, *filter.SuccessRateBelow)
	}
	if filter.CrashesOnly {
		query += " AND total_network_crashes > 0"
	}

	switch {
	case filter.CrashesOnly:
		query += " ORDER BY total_network_crashes DESC, test_id ASC"
	case filter.SuccessRateBelow != nil:
		query += " ORDER BY task_success_rate ASC, test_id ASC"
	default:
		query += " ORDER BY test_id ASC"
	}

	if filter.Limit > 0 {
		n++
		query += fmt.Sprintf(" LIMIT $%d", n)
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list measurements: %w", err)
	}
	defer rows.Close()

	var out []*Measurement
	for rows.Next() {
		m := &Measurement{}
		if err := rows.Scan(m.scanTargets()...); err != nil {
			return nil, fmt.Errorf("scan measurement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetMeasurement(ctx context.Context, testID string) (*Measurement, error) {
	m := &Measurement{}
	err := s.pool.QueryRow(ctx, `
		SELECT `+measurementColumns+`
		FROM military_effectiveness_evaluation WHERE test_id = $1`, testID,
	).Scan(m.scanTargets()...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get measurement %s: %w", testID, err)
	}
	return m, nil
}

func (s *PostgresStore) CreateMeasurement(ctx context.Context, m *Measurement) error {
	cols := append([]string{"scenario_id", "test_id"}, metricColumns...)
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	args := append([]interface{}{m.ScenarioID, m.TestID}, m.metricValues()...)

	err := s.pool.QueryRow(ctx, `
		INSERT INTO military_effectiveness_evaluation (`+strings.Join(cols, ", ")+`)
		VALUES (`+strings.Join(placeholders, ", ")+`)
		RETURNING evaluation_id, created_at, updated_at`,
		args...,
	).Scan(&m.EvaluationID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create measurement %s: %w", m.TestID, err)
	}
	return nil
}

func (s *PostgresStore) CountMeasurements(ctx context.Context) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM military_effectiveness_evaluation`).Scan(&n)
	return n, err
}
