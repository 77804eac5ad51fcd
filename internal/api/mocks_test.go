package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/ahp"
	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/config"
	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/evaluator"
	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/scoring"
	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/store"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) ListMeasurements(ctx context.Context, f store.MeasurementFilter) ([]*store.Measurement, error) {
	args := m.Called(ctx, f)
	ms, _ := args.Get(0).([]*store.Measurement)
	return ms, args.Error(1)
}

func (m *MockStore) GetMeasurement(ctx context.Context, testID string) (*store.Measurement, error) {
	args := m.Called(ctx, testID)
	ms, _ := args.Get(0).(*store.Measurement)
	return ms, args.Error(1)
}

func (m *MockStore) CreateMeasurement(ctx context.Context, ms *store.Measurement) error {
	return m.Called(ctx, ms).Error(0)
}

func (m *MockStore) CountMeasurements(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) ListCommunications(ctx context.Context, f store.CommunicationFilter) ([]*store.Communication, error) {
	args := m.Called(ctx, f)
	cs, _ := args.Get(0).([]*store.Communication)
	return cs, args.Error(1)
}

func (m *MockStore) GetCommunicationStats(ctx context.Context, testID string) (*store.CommunicationStats, error) {
	args := m.Called(ctx, testID)
	s, _ := args.Get(0).(*store.CommunicationStats)
	return s, args.Error(1)
}

func (m *MockStore) CreateEvaluationRun(ctx context.Context, run *store.EvaluationRun) error {
	return m.Called(ctx, run).Error(0)
}

func (m *MockStore) GetEvaluationRun(ctx context.Context, id uuid.UUID) (*store.EvaluationRun, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*store.EvaluationRun)
	return r, args.Error(1)
}

func (m *MockStore) DescribeTable(ctx context.Context, table string) ([]store.ColumnInfo, error) {
	args := m.Called(ctx, table)
	cols, _ := args.Get(0).([]store.ColumnInfo)
	return cols, args.Error(1)
}

func (m *MockStore) GetTablePage(ctx context.Context, table string, page, size int) (*store.TablePage, error) {
	args := m.Called(ctx, table, page, size)
	p, _ := args.Get(0).(*store.TablePage)
	return p, args.Error(1)
}

func (m *MockStore) Close() error { return nil }

type published struct {
	subject string
	data    interface{}
}

type recordingEvents struct {
	mu     sync.Mutex
	events []published
}

func (e *recordingEvents) Publish(subject string, data interface{}) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, published{subject: subject, data: data})
	return nil
}

func (e *recordingEvents) Close() {}

func (e *recordingEvents) subjects() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.events))
	for i, p := range e.events {
		out[i] = p.subject
	}
	return out
}

type fakeEvaluator struct {
	result evaluator.Result
	env    *evaluator.Environment
	err    error
	got    ahp.PriorityRanking
}

func (f *fakeEvaluator) Evaluate(_ context.Context, p ahp.PriorityRanking) (evaluator.Result, error) {
	f.got = p
	return f.result, f.err
}

func (f *fakeEvaluator) Environment(context.Context) (*evaluator.Environment, error) {
	return f.env, f.err
}

type testEnv struct {
	router http.Handler
	store  *MockStore
	events *recordingEvents
	eval   *fakeEvaluator
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestRouter() *testEnv {
	ms := &MockStore{}
	ev := &recordingEvents{}
	fe := &fakeEvaluator{}
	cfg := &config.Config{
		Server:  config.ServerConfig{AdminToken: "test-token"},
		Scoring: config.ScoringConfig{Weights: scoring.DefaultCompositeWeights(), Workers: 2},
	}
	scorer, err := scoring.NewCompositeScorer(cfg.Scoring.Weights, cfg.Scoring.Workers, testLogger())
	if err != nil {
		panic(err)
	}
	return &testEnv{
		router: NewRouter(ms, ev, fe, scorer, cfg, testLogger()),
		store:  ms,
		events: ev,
		eval:   fe,
	}
}

func f64(v float64) *float64 { return &v }
