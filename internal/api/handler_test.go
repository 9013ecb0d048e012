package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/itfcal/internal/api"
	"github.com/jmylchreest/itfcal/internal/metrics"
	"github.com/jmylchreest/itfcal/pkg/tournament"
)

const baseURL = "https://calendar.test/juniors/"

type mockRunner struct {
	calls     int
	lastURL   string
	lastLimit int
	runFunc   func(url string) tournament.Envelope
}

func (m *mockRunner) Run(_ context.Context, startURL string, pageLimit int) tournament.Envelope {
	m.calls++
	m.lastURL = startURL
	m.lastLimit = pageLimit
	if m.runFunc != nil {
		return m.runFunc(startURL)
	}
	return tournament.Success(startURL, []tournament.Entry{
		{Name: "ITF J60 Rome", City: "Rome", Country: "ITA", StartISO: "2025-01-12", Level: "J60"},
	})
}

func setupRouter(t *testing.T, runner api.Runner) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	return api.NewRouter(api.NewHandler(runner, baseURL, "2025", 7))
}

func get(t *testing.T, router http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, target, http.NoBody)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) tournament.Envelope {
	t.Helper()

	var env tournament.Envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env), w.Body.String())
	return env
}

func TestCalendar_DefaultYear(t *testing.T) {
	runner := &mockRunner{}
	w := get(t, setupRouter(t, runner), "/api/itf")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, api.CacheControl, w.Header().Get("Cache-Control"))

	env := decodeEnvelope(t, w)
	assert.True(t, env.OK)
	assert.Equal(t, 1, env.Count)
	assert.Equal(t, baseURL+"?categories=All&startdate=2025", runner.lastURL)
	assert.Equal(t, 7, runner.lastLimit)
	assert.Equal(t, env.Source, runner.lastURL)
}

func TestCalendar_YearAndNation(t *testing.T) {
	runner := &mockRunner{}
	w := get(t, setupRouter(t, runner), "/api/itf?year=2026&nation=GBR")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, baseURL+"?categories=All&startdate=2026&nation=GBR", runner.lastURL)
}

func TestCalendar_InvalidQueryDoesNotScrape(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr string
	}{
		{"short year", "?year=25", "year must be four digits"},
		{"alpha year", "?year=20ab", "year must be four digits"},
		{"long nation", "?nation=GBRX", "nation must be a three-letter code"},
		{"numeric nation", "?nation=123", "nation must be a three-letter code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &mockRunner{}
			w := get(t, setupRouter(t, runner), "/api/itf"+tt.query)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, api.CacheControl, w.Header().Get("Cache-Control"))

			env := decodeEnvelope(t, w)
			assert.False(t, env.OK)
			assert.False(t, env.Success)
			assert.Equal(t, 0, env.Count)
			assert.NotNil(t, env.Items)
			assert.Contains(t, env.Error, tt.wantErr)
			assert.Zero(t, runner.calls)
		})
	}
}

func TestCalendar_FailureEnvelopeIsStill200(t *testing.T) {
	runner := &mockRunner{
		runFunc: func(url string) tournament.Envelope {
			return tournament.Failure(url, errors.New("navigation timeout: deadline exceeded"))
		},
	}
	w := get(t, setupRouter(t, runner), "/api/itf")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, api.CacheControl, w.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{
		"ok": false,
		"success": false,
		"source": "https://calendar.test/juniors/?categories=All&startdate=2025",
		"count": 0,
		"items": [],
		"data": [],
		"error": "navigation timeout: deadline exceeded"
	}`, w.Body.String())
}

func TestHealthCheck(t *testing.T) {
	w := get(t, setupRouter(t, &mockRunner{}), "/healthz")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestVersion(t *testing.T) {
	w := get(t, setupRouter(t, &mockRunner{}), "/version")

	assert.Equal(t, http.StatusOK, w.Code)

	var info map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Contains(t, info, "version")
	assert.Contains(t, info, "go_version")
}

func TestRecovery(t *testing.T) {
	runner := &mockRunner{
		runFunc: func(string) tournament.Envelope { panic("boom") },
	}
	w := get(t, setupRouter(t, runner), "/api/itf")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCheckQuery(t *testing.T) {
	assert.NoError(t, api.CheckQuery("2025", ""))
	assert.NoError(t, api.CheckQuery("2025", "gbr"))
	assert.Error(t, api.CheckQuery("", ""))
	assert.Error(t, api.CheckQuery("2025", "G1R"))
}

func TestRequestID(t *testing.T) {
	router := setupRouter(t, &mockRunner{})

	w := get(t, router, "/healthz")
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, "/healthz", http.NoBody)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := api.NewHandler(&mockRunner{}, baseURL, "2025", 5).WithMetrics(metrics.New())
	router := api.NewRouter(h)

	get(t, router, "/api/itf")
	get(t, router, "/api/itf?year=99")

	w := get(t, router, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `itfcal_scrapes_total{outcome="ok"} 1`)
	assert.Contains(t, w.Body.String(), `itfcal_scrapes_total{outcome="rejected"} 1`)
}

func TestMetricsEndpoint_AbsentWithoutMetrics(t *testing.T) {
	w := get(t, setupRouter(t, &mockRunner{}), "/metrics")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_RouterServesRoutes(t *testing.T) {
	srv := api.NewServer("127.0.0.1:0", api.NewHandler(&mockRunner{}, baseURL, "2025", 5), false)
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	srv := api.NewServer("127.0.0.1:0", api.NewHandler(&mockRunner{}, baseURL, "2025", 5), false)
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	assert.NoError(t, srv.Run(ctx))
}
