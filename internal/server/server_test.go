package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type pingRoutes struct{}

func (pingRoutes) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func serve(h http.Handler, method, path string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServer_Health(t *testing.T) {
	srv := New(":0", zap.NewNop(), Options{})

	w := serve(srv.Handler(), "GET", "/api/v1/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "spacematch", body["service"])
	assert.NotEmpty(t, w.Header().Get("X-Spacematch-Version"))
}

func TestServer_MountsRegistrars(t *testing.T) {
	srv := New(":0", zap.NewNop(), Options{}, pingRoutes{})
	w := serve(srv.Handler(), "GET", "/api/v1/ping")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestServer_UnknownAPIRoute(t *testing.T) {
	srv := New(":0", zap.NewNop(), Options{})
	w := serve(srv.Handler(), "GET", "/api/v1/nothing")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}

func TestServer_RequestID(t *testing.T) {
	srv := New(":0", zap.NewNop(), Options{})

	w := serve(srv.Handler(), "GET", "/api/v1/health")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	w = serve(srv.Handler(), "GET", "/api/v1/health", RequestIDHeader, "abc-123")
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestServer_RateLimit(t *testing.T) {
	srv := New(":0", zap.NewNop(), Options{RateLimit: 0.001, RateBurst: 2}, pingRoutes{})
	h := srv.Handler()

	assert.Equal(t, http.StatusNoContent, serve(h, "GET", "/api/v1/ping").Code)
	assert.Equal(t, http.StatusNoContent, serve(h, "GET", "/api/v1/ping").Code)

	w := serve(h, "GET", "/api/v1/ping")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, serve(h, "GET", "/api/v1/health").Code, "health is never throttled")
}

func TestServer_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "spacematch_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	srv := New(":0", zap.NewNop(), Options{Metrics: reg})
	w := serve(srv.Handler(), "GET", "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "spacematch_test_total 1")

	noMetrics := New(":0", zap.NewNop(), Options{})
	assert.Equal(t, http.StatusNotFound, serve(noMetrics.Handler(), "GET", "/metrics").Code)
}
