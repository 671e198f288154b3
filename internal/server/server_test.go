package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gosolver"
	"github.com/njchilds90/gosolver/internal/config"
	"github.com/njchilds90/gosolver/internal/metrics"
	"github.com/njchilds90/gosolver/internal/speech"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type recordingSpeaker struct {
	texts []string
	err   error
}

func (r *recordingSpeaker) Speak(_ context.Context, text string) error {
	r.texts = append(r.texts, text)
	return r.err
}

func newTestServer(t *testing.T, next speech.Speaker) (*Server, *metrics.Metrics) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New()
	cfg := config.Default().Server
	cfg.RateLimit = 0
	return New(cfg, logger, m, speech.NewGuard(next, logger, m)), m
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, nil)
	w := doJSON(t, s, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, Version, resp.Version)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestRequestID_Propagated(t *testing.T) {
	s, _ := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestSolveLinear(t *testing.T) {
	s, m := newTestServer(t, nil)
	w := doJSON(t, s, http.MethodPost, "/v1/solve/linear", map[string]any{"a": -2, "b": 4, "op": "gt"})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp SolveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "x < 2.00", resp.Result.SolutionText)
	assert.Equal(t, gosolver.ShapeHalfLine, resp.Result.Shape)
	assert.Len(t, resp.Result.Samples, 41)
	require.NotEmpty(t, resp.Chart.Data.Datasets)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Solves.WithLabelValues("linear", metrics.OutcomeOK)))
}

func TestSolveLinear_DefaultOp(t *testing.T) {
	s, _ := newTestServer(t, nil)
	w := doJSON(t, s, http.MethodPost, "/v1/solve/linear", map[string]any{"a": 2, "b": -4})
	require.Equal(t, http.StatusOK, w.Code)
	var resp SolveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "x = 2.00", resp.Result.SolutionText)
}

func TestSolveLinear_MissingField(t *testing.T) {
	s, _ := newTestServer(t, nil)
	w := doJSON(t, s, http.MethodPost, "/v1/solve/linear", map[string]any{"a": 2})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, gosolver.CodeInvalidInput, resp.Code)
	assert.Equal(t, "Error: "+gosolver.TextInvalidLinear, resp.Message)
}

func TestSolveLinear_BadOperator(t *testing.T) {
	s, _ := newTestServer(t, nil)
	w := doJSON(t, s, http.MethodPost, "/v1/solve/linear", map[string]any{"a": 2, "b": 1, "op": "ne"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSolveQuadratic(t *testing.T) {
	s, _ := newTestServer(t, nil)
	w := doJSON(t, s, http.MethodPost, "/v1/solve/quadratic", map[string]any{"a": 1, "b": 0, "c": -4, "op": "lt"})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp SolveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "-2.00 < x < 2.00", resp.Result.SolutionText)
	assert.Equal(t, "(0.00, -4.00)", resp.Result.Vertex)
}

func TestSolveQuadratic_Degenerate(t *testing.T) {
	s, m := newTestServer(t, nil)
	w := doJSON(t, s, http.MethodPost, "/v1/solve/quadratic", map[string]any{"a": 0, "b": 2, "c": 1})

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, gosolver.CodeDegenerateInput, resp.Code)
	assert.Equal(t, "Error: "+gosolver.TextDegenerate, resp.Message)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Solves.WithLabelValues("quadratic", metrics.OutcomeDegenerate)))
}

func TestSolve_OverflowIsRejected(t *testing.T) {
	s, m := newTestServer(t, nil)
	for _, c := range []struct {
		path string
		kind gosolver.Kind
		body map[string]any
	}{
		{"/v1/solve/linear", gosolver.KindLinear, map[string]any{"a": 1e308, "b": 0}},
		{"/v1/solve/quadratic", gosolver.KindQuadratic, map[string]any{"a": 1e200, "b": 1e200, "c": 1}},
	} {
		w := doJSON(t, s, http.MethodPost, c.path, c.body)

		require.Equal(t, http.StatusBadRequest, w.Code, c.path)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), c.path)
		assert.Equal(t, gosolver.CodeInvalidInput, resp.Code)
		assert.Equal(t, "Error: "+gosolver.TextOverflow, resp.Message)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.Solves.WithLabelValues(string(c.kind), metrics.OutcomeInvalid)))
	}
}

func TestTool_Overflow(t *testing.T) {
	s, _ := newTestServer(t, nil)
	w := doJSON(t, s, http.MethodPost, "/tool", gosolver.ToolRequest{
		Tool:   "solve_linear",
		Params: map[string]interface{}{"a": 1e308, "b": 0},
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotZero(t, w.Body.Len())
	var resp gosolver.ToolResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, gosolver.CodeInvalidInput, resp.Code)
	assert.Contains(t, resp.Error, "out of range")
}

func TestSpeak(t *testing.T) {
	rec := &recordingSpeaker{}
	s, _ := newTestServer(t, rec)

	w := doJSON(t, s, http.MethodPost, "/v1/speak", SpeakRequest{Text: "  x = 2.00 "})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"x = 2.00"}, rec.texts)

	w = doJSON(t, s, http.MethodPost, "/v1/speak", SpeakRequest{Text: "Error: algo"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp SpeakResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, gosolver.TextNothingToSpeak, resp.Warning)
	assert.Len(t, rec.texts, 1)
}

func TestSpeak_Unsupported(t *testing.T) {
	s, _ := newTestServer(t, nil)
	w := doJSON(t, s, http.MethodPost, "/v1/speak", SpeakRequest{Text: "x = 2.00"})
	assert.Equal(t, http.StatusNotImplemented, w.Code)
	assert.Contains(t, w.Body.String(), "unsupported")
}

func TestSpeak_Failure(t *testing.T) {
	s, _ := newTestServer(t, &recordingSpeaker{err: errors.New("audio device busy")})
	w := doJSON(t, s, http.MethodPost, "/v1/speak", SpeakRequest{Text: "x = 2.00"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "audio device busy")
}

func TestTool(t *testing.T) {
	s, _ := newTestServer(t, nil)
	w := doJSON(t, s, http.MethodPost, "/tool", gosolver.ToolRequest{
		Tool:   "solve_quadratic",
		Params: map[string]interface{}{"a": 1, "b": 0, "c": 4},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp gosolver.ToolResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Error)
	assert.Contains(t, resp.String, "2.00i")
}

func TestTool_UnknownField(t *testing.T) {
	s, _ := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/tool", strings.NewReader(`{"tool":"tool_spec","extra":1}`))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSchema(t *testing.T) {
	s, _ := newTestServer(t, nil)
	w := doJSON(t, s, http.MethodGet, "/schema", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, json.Valid(w.Body.Bytes()))
	assert.Contains(t, w.Body.String(), "solve_linear")
}

func TestPage_Startup(t *testing.T) {
	s, m := newTestServer(t, nil)
	w := doJSON(t, s, http.MethodGet, "/", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "x = 2.00")
	assert.Contains(t, body, "x₁ = -2.00, x₂ = 2.00")
	assert.Contains(t, body, "chart-linear")
	// Both charts are released once the page is written.
	assert.Equal(t, 0.0, testutil.ToFloat64(m.LiveCharts.WithLabelValues("linear")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.LiveCharts.WithLabelValues("quadratic")))
}

func TestPage_IndependentPipelines(t *testing.T) {
	s, _ := newTestServer(t, nil)
	form := url.Values{
		"linear_a": {"abc"}, "linear_b": {"1"}, "linear_op": {"eq"},
		"quadratic_a": {"1"}, "quadratic_b": {"-3"}, "quadratic_c": {"2"}, "quadratic_op": {"ge"},
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Error: "+gosolver.TextInvalidLinear)
	assert.Contains(t, body, "x ≤ 1.00 o x ≥ 2.00")
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, nil)
	doJSON(t, s, http.MethodGet, "/health", nil)
	w := doJSON(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "gosolver_http_requests_total")
}

func TestRateLimit(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Default().Server
	cfg.RateLimit = 0.001
	cfg.Burst = 1
	s := New(cfg, logger, metrics.New(), nil)

	first := doJSON(t, s, http.MethodGet, "/schema", nil)
	second := doJSON(t, s, http.MethodGet, "/schema", nil)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// Health is never limited.
	assert.Equal(t, http.StatusOK, doJSON(t, s, http.MethodGet, "/health", nil).Code)
}

func TestSetRateLimit(t *testing.T) {
	s, _ := newTestServer(t, nil)
	for range 5 {
		require.Equal(t, http.StatusOK, doJSON(t, s, http.MethodGet, "/schema", nil).Code)
	}

	s.SetRateLimit(0.001, 1)
	var codes []int
	for range 3 {
		codes = append(codes, doJSON(t, s, http.MethodGet, "/schema", nil).Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, codes[2])

	s.SetRateLimit(0, 0)
	assert.Equal(t, http.StatusOK, doJSON(t, s, http.MethodGet, "/schema", nil).Code)
}

func TestRun_StopsOnCancel(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Default().Server
	cfg.Addr = "127.0.0.1:0"
	s := New(cfg, logger, metrics.New(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
