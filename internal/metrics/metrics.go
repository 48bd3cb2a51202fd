// Package metrics defines the Prometheus collectors exported by the service.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/chihoangvnn/postpreview/internal/preview"
)

// Metrics holds all collectors. Each server owns its own registry so tests
// can build several servers in one process.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	PreviewsGenerated *prometheus.CounterVec
	PreviewIssues     *prometheus.CounterVec

	CacheLookups *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "route", "status"},
		),
		PreviewsGenerated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "previews_generated_total",
				Help: "Previews generated, by platform and validity",
			},
			[]string{"platform", "valid"},
		),
		PreviewIssues: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "preview_issues_total",
				Help: "Validation errors and warnings reported in previews",
			},
			[]string{"platform", "severity"},
		),
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "preview_cache_lookups_total",
				Help: "Preview cache lookups by outcome (hit, miss, error)",
			},
			[]string{"outcome"},
		),
	}
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, seconds float64) {
	code := strconv.Itoa(status)
	m.HTTPRequestsTotal.WithLabelValues(method, route, code).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route, code).Observe(seconds)
}

// ObservePreview records the outcome of one generated preview.
func (m *Metrics) ObservePreview(res preview.Result) {
	platform := string(res.Platform)
	m.PreviewsGenerated.WithLabelValues(platform, strconv.FormatBool(res.Validation.IsValid)).Inc()
	if n := len(res.Validation.Errors); n > 0 {
		m.PreviewIssues.WithLabelValues(platform, "error").Add(float64(n))
	}
	if n := len(res.Validation.Warnings); n > 0 {
		m.PreviewIssues.WithLabelValues(platform, "warning").Add(float64(n))
	}
}

// ObserveCache records a cache lookup outcome.
func (m *Metrics) ObserveCache(outcome string) {
	m.CacheLookups.WithLabelValues(outcome).Inc()
}
