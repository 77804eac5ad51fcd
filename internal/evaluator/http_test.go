package evaluator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/ahp"
)

func TestHTTPClientEvaluate(t *testing.T) {
	var got request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"success": true, "count": 3}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second)
	res, err := c.Evaluate(context.Background(), ahp.NaturalRanking())
	require.NoError(t, err)
	assert.Equal(t, float64(3), res["count"])
	assert.Equal(t, 1, got.Priorities["RL"])
	assert.Equal(t, 8, got.Priorities["RS"])
}

func TestHTTPClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("fail") == "status" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"success": false, "message": "script crashed"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL+"?fail=status", time.Second).Evaluate(context.Background(), ahp.NaturalRanking())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")

	_, err = NewHTTPClient(srv.URL, time.Second).Evaluate(context.Background(), ahp.NaturalRanking())
	var failed *FailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, "script crashed", failed.Message)
}

func TestHTTPClientEnvironment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", "evaluator/1.2")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}))
	defer srv.Close()

	env, err := NewHTTPClient(srv.URL, time.Second).Environment(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "http", env.Mode)
	assert.Equal(t, "evaluator/1.2", env.Version)
	assert.Equal(t, srv.URL, env.URL)
}
