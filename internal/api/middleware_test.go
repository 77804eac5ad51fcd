package api

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitMiddleware_AllowsBurst(t *testing.T) {
	handler := RateLimitMiddleware(0.001, 5)(okHandler())

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}
}

func TestRateLimitMiddleware_BlocksOverBurst(t *testing.T) {
	handler := RateLimitMiddleware(0.001, 3)(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:5001"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code, "port does not change the client key")
}

func TestRateLimitMiddleware_SeparateClients(t *testing.T) {
	handler := RateLimitMiddleware(0.001, 1)(okHandler())

	for _, addr := range []string{"10.0.0.1:1", "10.0.0.2:1"} {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, addr)
	}
}

func TestRateLimitMiddleware_DisabledWhenRateIsZero(t *testing.T) {
	handler := RateLimitMiddleware(0, 1)(okHandler())

	for i := 0; i < 50; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	rl := &rateLimiter{clients: map[string]*clientLimiter{}, limit: 1, burst: 1, sweptAt: time.Now()}
	start := time.Now()
	rl.allow("a", start)
	rl.allow("b", start.Add(limiterIdleTTL+time.Second))
	rl.allow("b", start.Add(2*limiterIdleTTL+2*time.Second))

	_, ok := rl.clients["a"]
	assert.False(t, ok)
}

func TestAdminAuthMiddleware_NoTokenConfigured(t *testing.T) {
	handler := AdminAuthMiddleware("")(okHandler())
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminAuthMiddleware_WrongToken(t *testing.T) {
	handler := AdminAuthMiddleware("secret")(okHandler())
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer nope")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"unauthorized","code":401}`, w.Body.String())
}

func TestRequestLogger_LogsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/v1/evaluations", nil))

	assert.Contains(t, buf.String(), "path=/api/v1/evaluations")
	assert.Contains(t, buf.String(), "status=418")
}
