// Package metrics defines the Prometheus collectors shared by the solver
// pipelines, the HTTP server and the speech collaborator.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeOK         = "ok"
	OutcomeInvalid    = "invalid"
	OutcomeDegenerate = "degenerate"
)

// Metrics groups every collector. Each instance owns its own registry so
// tests can build independent copies.
type Metrics struct {
	Registry *prometheus.Registry

	Solves        *prometheus.CounterVec
	SolveDuration *prometheus.HistogramVec
	ChartReleases *prometheus.CounterVec
	LiveCharts    *prometheus.GaugeVec
	Speech        *prometheus.CounterVec
	HTTPRequests  *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gosolver_solves_total",
			Help: "Solve calls by pipeline and outcome",
		}, []string{"pipeline", "outcome"}),
		SolveDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gosolver_solve_duration_seconds",
			Help:    "Solve latency including sampling and chart rendering",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}, []string{"pipeline"}),
		ChartReleases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gosolver_chart_releases_total",
			Help: "Chart handles released before replacement or after a failed solve",
		}, []string{"pipeline"}),
		LiveCharts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gosolver_live_charts",
			Help: "Chart handles currently held across all controllers of a pipeline kind",
		}, []string{"pipeline"}),
		Speech: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gosolver_speech_requests_total",
			Help: "Speech requests by outcome",
		}, []string{"outcome"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gosolver_http_requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"route", "code"}),
	}
	m.Registry.MustRegister(
		m.Solves, m.SolveDuration, m.ChartReleases, m.LiveCharts, m.Speech, m.HTTPRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
