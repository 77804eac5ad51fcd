package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func (s *PostgresStore) CreateEvaluationRun(ctx context.Context, run *EvaluationRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	weightsJSON, err := json.Marshal(run.Weights)
	if err != nil {
		return fmt.Errorf("marshal weights: %w", err)
	}
	var prioritiesJSON []byte
	if run.Priorities != nil {
		if prioritiesJSON, err = json.Marshal(run.Priorities); err != nil {
			return fmt.Errorf("marshal priorities: %w", err)
		}
	}

	return s.pool.QueryRow(ctx, `
		INSERT INTO evaluation_runs (id, weights_source, weights, priorities, result_count, results)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		run.ID, run.WeightsSource, weightsJSON, prioritiesJSON, run.ResultCount, []byte(run.Results),
	).Scan(&run.CreatedAt)
}

func (s *PostgresStore) GetEvaluationRun(ctx context.Context, id uuid.UUID) (*EvaluationRun, error) {
	run := &EvaluationRun{}
	var weightsJSON, prioritiesJSON, resultsJSON []byte
	err := s.pool.QueryRow(ctx, `
		SELECT id, weights_source, weights, priorities, result_count, results, created_at
		FROM evaluation_runs WHERE id = $1`, id,
	).Scan(&run.ID, &run.WeightsSource, &weightsJSON, &prioritiesJSON, &run.ResultCount, &resultsJSON, &run.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get evaluation run %s: %w", id, err)
	}
	if weightsJSON != nil {
		_ = json.Unmarshal(weightsJSON, &run.Weights)
	}
	if prioritiesJSON != nil {
		_ = json.Unmarshal(prioritiesJSON, &run.Priorities)
	}
	run.Results = resultsJSON
	return run, nil
}
