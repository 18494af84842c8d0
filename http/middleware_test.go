package http

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"heartrisk/render"
)

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, &stubModel{})

	req := httptest.NewRequest(http.MethodOptions, "/api/predict", nil)
	req.Header.Set("Origin", "https://clinic.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := env.do(t, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://clinic.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
}

func TestCORSRestrictedOrigins(t *testing.T) {
	config := DefaultServerConfig()
	config.AllowedOrigins = []string{"https://clinic.example"}
	env := newTestEnvWithConfig(t, &stubModel{}, config)

	req := httptest.NewRequest(http.MethodGet, "/api/form", nil)
	req.Header.Set("Origin", "https://clinic.example")
	rec := env.do(t, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://clinic.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/form", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	rec = env.do(t, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/predict", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = env.do(t, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGzipResponse(t *testing.T) {
	env := newTestEnv(t, &stubProbaModel{stubModel: stubModel{label: 1}, positive: 0.82})

	req := jsonRequest(t, "/api/predict", scenarioInput())
	req.Header.Set("Accept-Encoding", "gzip")
	rec := env.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	reader, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	payload, err := io.ReadAll(reader)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &body))
	assert.Equal(t, "82.00%", body["probability_text"])
}

func TestGzipSkippedWithoutAcceptEncoding(t *testing.T) {
	env := newTestEnv(t, &stubModel{})

	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func TestRecoveryUnderGzip(t *testing.T) {
	env := newTestEnv(t, &stubModel{panics: true})

	req := jsonRequest(t, "/api/predict", scenarioInput())
	req.Header.Set("Accept-Encoding", "gzip")
	rec := env.do(t, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.Equal(t, "internal server error", decodeBody(t, rec)["error"])
}

func TestRequestTimeout(t *testing.T) {
	config := DefaultServerConfig()
	config.RequestTimeout = 50 * time.Millisecond
	env := newTestEnvWithConfig(t, &stubModel{delay: 300 * time.Millisecond}, config)

	rec := env.do(t, jsonRequest(t, "/api/predict", scenarioInput()))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "request timeout", decodeBody(t, rec)["error"])
}

func TestInvalidProbabilityIsModelFailure(t *testing.T) {
	env := newTestEnv(t, &stubProbaModel{stubModel: stubModel{label: 1}, positive: math.NaN()})

	rec := env.do(t, jsonRequest(t, "/api/predict", scenarioInput()))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, render.MsgPredictionFailed, decodeBody(t, rec)["error"])

	failures, _ := env.metrics.Value("prediction_failures_total")
	assert.Equal(t, float64(1), failures)
}

func TestWriteJSONEncodeFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	err := writeJSON(rec, http.StatusOK, map[string]float64{"probability": math.NaN()})

	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decodeBody(t, rec)["error"])
}

func TestLoggerMiddlewareStoresStartTime(t *testing.T) {
	var started time.Time
	var requestID string
	handler := LoggerMiddleware(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started = GetStartTime(r.Context())
		requestID = GetRequestID(r.Context())
	}))

	before := time.Now()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.False(t, started.Before(before))
	assert.NotEmpty(t, requestID)
	assert.Equal(t, requestID, rec.Header().Get("X-Request-ID"))
	assert.True(t, GetStartTime(httptest.NewRequest(http.MethodGet, "/", nil).Context()).IsZero())
}
