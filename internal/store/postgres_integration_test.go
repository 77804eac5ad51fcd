//go:build integration

package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *PostgresStore {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := NewPostgresStore(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}

	t.Cleanup(func() {
		_, _ = s.pool.Exec(ctx, "TRUNCATE evaluation_runs")
		_, _ = s.pool.Exec(ctx, "TRUNCATE during_battle_communications RESTART IDENTITY")
		_, _ = s.pool.Exec(ctx, "TRUNCATE military_effectiveness_evaluation RESTART IDENTITY")
		s.Close()
	})

	return s
}

func f64(v float64) *float64 { return &v }
func intp(v int) *int        { return &v }

func TestCreateAndGetMeasurement(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	m := &Measurement{
		ScenarioID:          1,
		TestID:              "TEST-2026-001",
		TaskSuccessRate:     f64(0.93),
		TotalNetworkCrashes: intp(2),
		AvgSINR:             f64(14.5),
	}
	require.NoError(t, s.CreateMeasurement(ctx, m))
	assert.NotZero(t, m.EvaluationID)
	assert.False(t, m.CreatedAt.IsZero())

	got, err := s.GetMeasurement(ctx, "TEST-2026-001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 0.93, *got.TaskSuccessRate)
	assert.Equal(t, 2, *got.TotalNetworkCrashes)
	assert.Nil(t, got.AvgBER)

	missing, err := s.GetMeasurement(ctx, "NOPE")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListMeasurementFilters(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	rows := []*Measurement{
		{ScenarioID: 1, TestID: "A", TaskSuccessRate: f64(0.95), TotalNetworkCrashes: intp(0)},
		{ScenarioID: 1, TestID: "B", TaskSuccessRate: f64(0.70), TotalNetworkCrashes: intp(3)},
		{ScenarioID: 2, TestID: "C", TaskSuccessRate: f64(0.85), TotalNetworkCrashes: intp(1)},
	}
	for _, m := range rows {
		require.NoError(t, s.CreateMeasurement(ctx, m))
	}

	all, err := s.ListMeasurements(ctx, MeasurementFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	scenario := 1
	byScenario, err := s.ListMeasurements(ctx, MeasurementFilter{ScenarioID: &scenario})
	require.NoError(t, err)
	assert.Len(t, byScenario, 2)

	crashes, err := s.ListMeasurements(ctx, MeasurementFilter{CrashesOnly: true})
	require.NoError(t, err)
	require.Len(t, crashes, 2)
	assert.Equal(t, "B", crashes[0].TestID)

	threshold := 0.9
	low, err := s.ListMeasurements(ctx, MeasurementFilter{SuccessRateBelow: &threshold})
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "B", low[0].TestID)

	n, err := s.CountMeasurements(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestEvaluationRunRoundTrip(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	run := &EvaluationRun{
		WeightsSource: "fixed",
		Weights:       map[string]float64{"RL": 0.25},
		ResultCount:   1,
		Results:       json.RawMessage(`[{"test_id":"A","rank":1}]`),
	}
	require.NoError(t, s.CreateEvaluationRun(ctx, run))
	assert.NotEqual(t, uuid.Nil, run.ID)

	got, err := s.GetEvaluationRun(ctx, run.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "fixed", got.WeightsSource)
	assert.Equal(t, 0.25, got.Weights["RL"])
	assert.JSONEq(t, `[{"test_id":"A","rank":1}]`, string(got.Results))
}

func TestTableBrowsing(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	cols, err := s.DescribeTable(ctx, "military_effectiveness_evaluation")
	require.NoError(t, err)
	require.NotEmpty(t, cols)
	assert.Equal(t, "evaluation_id", cols[0].Name)

	page, err := s.GetTablePage(ctx, "during_battle_communications", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)
	assert.Empty(t, page.Records)

	_, err = s.DescribeTable(ctx, "pg_authid")
	assert.True(t, errors.Is(err, ErrTableNotAllowed))
}

func TestCommunicationStatsEmpty(t *testing.T) {
	s := setupTestDB(t)
	stats, err := s.GetCommunicationStats(context.Background(), "NONE")
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Total)
	assert.Equal(t, 0.0, stats.SuccessRate)
}
