package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/events"
	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/store"
)

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) (string, int) {
	t.Helper()
	var body struct {
		Error string `json:"error"`
		Code  int    `json:"code"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body.Error, body.Code
}

func TestHealthEndpoint(t *testing.T) {
	w := doRequest(t, NewMetricsRouter(), "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	w := doRequest(t, NewMetricsRouter(), "GET", "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "commeval_measurements_ingested_total")
}

func TestListEvaluations(t *testing.T) {
	env := setupTestRouter()
	scenario := 3
	env.store.On("ListMeasurements", mock.Anything, store.MeasurementFilter{ScenarioID: &scenario, Limit: 10}).
		Return([]*store.Measurement{{TestID: "T-001", ScenarioID: 3}}, nil)

	w := doRequest(t, env.router, "GET", "/api/v1/evaluations?scenario_id=3&limit=10", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got []store.Measurement
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "T-001", got[0].TestID)
	env.store.AssertExpectations(t)
}

func TestListEvaluationsEmptyIsArray(t *testing.T) {
	env := setupTestRouter()
	env.store.On("ListMeasurements", mock.Anything, store.MeasurementFilter{}).Return(nil, nil)

	w := doRequest(t, env.router, "GET", "/api/v1/evaluations", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestListEvaluationsBadQuery(t *testing.T) {
	env := setupTestRouter()

	w := doRequest(t, env.router, "GET", "/api/v1/evaluations?limit=ten", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	msg, code := decodeError(t, w)
	assert.Equal(t, "invalid limit", msg)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestCountEvaluations(t *testing.T) {
	env := setupTestRouter()
	env.store.On("CountMeasurements", mock.Anything).Return(int64(42), nil)

	w := doRequest(t, env.router, "GET", "/api/v1/evaluations/count", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":42}`, w.Body.String())
}

func TestGetEvaluationByTest(t *testing.T) {
	env := setupTestRouter()
	env.store.On("GetMeasurement", mock.Anything, "T-001").
		Return(&store.Measurement{TestID: "T-001", TaskSuccessRate: f64(0.95)}, nil)
	env.store.On("GetMeasurement", mock.Anything, "T-404").Return(nil, nil)

	w := doRequest(t, env.router, "GET", "/api/v1/evaluations/test/T-001", "")
	require.Equal(t, http.StatusOK, w.Code)
	var m store.Measurement
	require.NoError(t, json.NewDecoder(w.Body).Decode(&m))
	assert.Equal(t, 0.95, *m.TaskSuccessRate)

	w = doRequest(t, env.router, "GET", "/api/v1/evaluations/test/T-404", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListByScenario(t *testing.T) {
	env := setupTestRouter()
	scenario := 7
	env.store.On("ListMeasurements", mock.Anything, store.MeasurementFilter{ScenarioID: &scenario}).
		Return([]*store.Measurement{}, nil)

	w := doRequest(t, env.router, "GET", "/api/v1/evaluations/scenario/7", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, env.router, "GET", "/api/v1/evaluations/scenario/seven", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCrashesAndLowSuccessRate(t *testing.T) {
	env := setupTestRouter()
	def := 0.9
	custom := 0.5
	env.store.On("ListMeasurements", mock.Anything, store.MeasurementFilter{CrashesOnly: true}).Return([]*store.Measurement{}, nil)
	env.store.On("ListMeasurements", mock.Anything, store.MeasurementFilter{SuccessRateBelow: &def}).Return([]*store.Measurement{}, nil)
	env.store.On("ListMeasurements", mock.Anything, store.MeasurementFilter{SuccessRateBelow: &custom}).Return([]*store.Measurement{}, nil)

	assert.Equal(t, http.StatusOK, doRequest(t, env.router, "GET", "/api/v1/evaluations/crashes", "").Code)
	assert.Equal(t, http.StatusOK, doRequest(t, env.router, "GET", "/api/v1/evaluations/low-success-rate", "").Code)
	assert.Equal(t, http.StatusOK, doRequest(t, env.router, "GET", "/api/v1/evaluations/low-success-rate?threshold=0.5", "").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(t, env.router, "GET", "/api/v1/evaluations/low-success-rate?threshold=x", "").Code)
	env.store.AssertExpectations(t)
}

func TestCreateEvaluation(t *testing.T) {
	env := setupTestRouter()
	env.store.On("CreateMeasurement", mock.Anything, mock.MatchedBy(func(m *store.Measurement) bool {
		return m.TestID == "T-100" && m.ScenarioID == 4 && m.AvgBER != nil && *m.AvgBER == 0.0001
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*store.Measurement).EvaluationID = 9
	}).Return(nil)

	w := doRequest(t, env.router, "POST", "/api/v1/evaluations", `{"test_id":" T-100 ","scenario_id":4,"avg_ber":0.0001}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var m store.Measurement
	require.NoError(t, json.NewDecoder(w.Body).Decode(&m))
	assert.Equal(t, int64(9), m.EvaluationID)
	assert.Equal(t, []string{events.SubjectMeasurementIngested}, env.events.subjects())
}

func TestCreateEvaluationValidation(t *testing.T) {
	env := setupTestRouter()

	w := doRequest(t, env.router, "POST", "/api/v1/evaluations", `{"scenario_id":4}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, env.router, "POST", "/api/v1/evaluations", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env.store.AssertNotCalled(t, "CreateMeasurement", mock.Anything, mock.Anything)
}

func TestStoreErrorIsInternal(t *testing.T) {
	env := setupTestRouter()
	env.store.On("CountMeasurements", mock.Anything).Return(int64(0), errors.New("connection refused"))

	w := doRequest(t, env.router, "GET", "/api/v1/evaluations/count", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	msg, code := decodeError(t, w)
	assert.Equal(t, "connection refused", msg)
	assert.Equal(t, http.StatusInternalServerError, code)
}

func TestCommunications(t *testing.T) {
	env := setupTestRouter()
	scenario := 2
	env.store.On("ListCommunications", mock.Anything, store.CommunicationFilter{
		TestID: "T-001", ScenarioID: &scenario, FailedOnly: true, Limit: 50,
	}).Return([]*store.Communication{{CommunicationID: 1, TestID: "T-001"}}, nil)
	env.store.On("GetCommunicationStats", mock.Anything, "T-001").
		Return(&store.CommunicationStats{TestID: "T-001", Total: 4, Successful: 3, SuccessRate: 75}, nil)

	w := doRequest(t, env.router, "GET", "/api/v1/communications?test_id=T-001&scenario_id=2&failed_only=true&limit=50", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var comms []store.Communication
	require.NoError(t, json.NewDecoder(w.Body).Decode(&comms))
	assert.Len(t, comms, 1)

	w = doRequest(t, env.router, "GET", "/api/v1/communications/test/T-001/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	var stats store.CommunicationStats
	require.NoError(t, json.NewDecoder(w.Body).Decode(&stats))
	assert.Equal(t, 75.0, stats.SuccessRate)
	env.store.AssertExpectations(t)
}

func TestTablesRequireAdminToken(t *testing.T) {
	env := setupTestRouter()

	w := doRequest(t, env.router, "GET", "/api/v1/tables/during_battle_communications/structure", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTablesWithToken(t *testing.T) {
	env := setupTestRouter()
	env.store.On("DescribeTable", mock.Anything, "during_battle_communications").
		Return([]store.ColumnInfo{{Name: "test_id", DataType: "character varying"}}, nil)
	env.store.On("GetTablePage", mock.Anything, "during_battle_communications", 2, 5).
		Return(&store.TablePage{Page: 2, Size: 5, Total: 11, TotalPages: 3}, nil)
	env.store.On("DescribeTable", mock.Anything, "pg_authid").Return(nil, store.ErrTableNotAllowed)

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", path, nil)
		req.Header.Set("Authorization", "Bearer test-token")
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		return w
	}

	w := get("/api/v1/tables/during_battle_communications/structure")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"column_name":"test_id"`)

	w = get("/api/v1/tables/during_battle_communications/data?page=2&size=5")
	require.Equal(t, http.StatusOK, w.Code)
	var page store.TablePage
	require.NoError(t, json.NewDecoder(w.Body).Decode(&page))
	assert.Equal(t, 3, page.TotalPages)

	w = get("/api/v1/tables/pg_authid/structure")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
