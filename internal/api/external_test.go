package api

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/ahp"
	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/evaluator"
)

func TestExternalCalculate(t *testing.T) {
	env := setupTestRouter()
	env.eval.result = evaluator.Result{"success": true, "best_test_id": "T-003"}

	w := doRequest(t, env.router, "POST", "/api/v1/external-evaluation/calculate", naturalPriorities)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"success":true,"best_test_id":"T-003"}`, w.Body.String())
	assert.Equal(t, 1, env.eval.got[ahp.Reliability])
	assert.Equal(t, 8, env.eval.got[ahp.Response])
}

func TestExternalCalculateRequiresAllDimensions(t *testing.T) {
	env := setupTestRouter()

	w := doRequest(t, env.router, "POST", "/api/v1/external-evaluation/calculate", `{"priorities":{"RL":1,"SC":2}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, env.eval.got)
}

func TestExternalErrorsMapToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"disabled", evaluator.ErrDisabled, http.StatusServiceUnavailable},
		{"timeout", fmt.Errorf("evaluator timed out: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"reported failure", &evaluator.FailedError{Message: "no data"}, http.StatusBadGateway},
		{"other", fmt.Errorf("exit status 1"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestRouter()
			env.eval.err = tt.err

			w := doRequest(t, env.router, "POST", "/api/v1/external-evaluation/calculate", naturalPriorities)
			assert.Equal(t, tt.want, w.Code)
			_, code := decodeError(t, w)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestExternalEnvironment(t *testing.T) {
	env := setupTestRouter()
	env.eval.env = &evaluator.Environment{Mode: "process", Version: "Python 3.11.4", Executable: "python"}

	w := doRequest(t, env.router, "GET", "/api/v1/external-evaluation/environment", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version":"Python 3.11.4"`)
}
