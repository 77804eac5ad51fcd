package store

import (
	"context"
	"fmt"
)

const communicationColumns = `communication_id, scenario_id, test_id,
	source_node_id, target_node_id, communication_type, communication_duration_ms,
	call_setup_duration_ms, call_setup_success, transmission_delay_ms,
	instant_sinr, instant_ber, instant_plr, jamming_margin,
	communication_success, failure_reason,
	encryption_used, detected, intercepted,
	created_at`

func (s *PostgresStore) ListCommunications(ctx context.Context, filter CommunicationFilter) ([]*Communication, error) {
	query := `SELECT ` + communicationColumns + ` FROM during_battle_communications WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.TestID != "" {
		n++
		query += fmt.Sprintf(" AND test_id = $%d", n)
		args = append(args, filter.TestID)
	}
	if filter.ScenarioID != nil {
		n++
		query += fmt.Sprintf(" AND scenario_id = $%d", n)
		args = append(args, *filter.ScenarioID)
	}
	if filter.FailedOnly {
		query += " AND communication_success = false"
	}
	if filter.DetectedOnly {
		query += " AND detected = true"
	}

	query += " ORDER BY communication_id ASC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 500
	}
	n++
	query += fmt.Sprintf(" LIMIT $%d", n)
	args = append(args, limit)

	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list communications: %w", err)
	}
	defer rows.Close()

	var out []*Communication
	for rows.Next() {
		c := &Communication{}
		if err := rows.Scan(
			&c.CommunicationID, &c.ScenarioID, &c.TestID,
			&c.SourceNodeID, &c.TargetNodeID, &c.CommunicationType, &c.DurationMs,
			&c.CallSetupDurationMs, &c.CallSetupSuccess, &c.TransmissionDelayMs,
			&c.InstantSINR, &c.InstantBER, &c.InstantPLR, &c.JammingMargin,
			&c.Success, &c.FailureReason,
			&c.EncryptionUsed, &c.Detected, &c.Intercepted,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan communication: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetCommunicationStats(ctx context.Context, testID string) (*CommunicationStats, error) {
	stats := &CommunicationStats{TestID: testID}
	err := s.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE communication_success = true),
			COUNT(*) FILTER (WHERE detected = true)
		FROM during_battle_communications WHERE test_id = $1`, testID,
	).Scan(&stats.Total, &stats.Successful, &stats.Detected)
	if err != nil {
		return nil, fmt.Errorf("communication stats %s: %w", testID, err)
	}
	stats.SuccessRate = SuccessRate(stats.Successful, stats.Total)
	return stats, nil
}

// SuccessRate returns successful/total as a percentage, 0 when total is 0.
func SuccessRate(successful, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(successful) / float64(total) * 100
}
