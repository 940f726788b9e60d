// Package telemetry provides the prometheus metrics and opentelemetry tracing
// used by the server.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors for tool calls and upstream requests. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	ToolCalls        *prometheus.CounterVec
	ToolDuration     *prometheus.HistogramVec
	ToolErrors       *prometheus.CounterVec
	UpstreamRequests *prometheus.CounterVec
	UpstreamDuration prometheus.Histogram
	UpstreamRetries  prometheus.Counter
}

// NewMetrics creates the collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ToolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "canvas_mcp_tool_calls_total",
			Help: "Total number of tool calls by tool and outcome",
		}, []string{"tool", "ok"}),
		ToolDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "canvas_mcp_tool_duration_seconds",
			Help:    "Duration of tool calls",
			Buckets: prometheus.DefBuckets,
		}, []string{"tool"}),
		ToolErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "canvas_mcp_tool_error_entries_total",
			Help: "Total number of error entries reported in tool envelopes",
		}, []string{"tool"}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "canvas_mcp_upstream_requests_total",
			Help: "Total number of HTTP requests sent to Canvas by status code",
		}, []string{"code"}),
		UpstreamDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "canvas_mcp_upstream_request_duration_seconds",
			Help:    "Duration of HTTP requests sent to Canvas",
			Buckets: prometheus.DefBuckets,
		}),
		UpstreamRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "canvas_mcp_upstream_retries_total",
			Help: "Total number of retried Canvas requests",
		}),
	}
	m.registry.MustRegister(
		m.ToolCalls,
		m.ToolDuration,
		m.ToolErrors,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.UpstreamRetries,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ToolCall records a finished tool call.
func (m *Metrics) ToolCall(tool string, ok bool, errorEntries int, d time.Duration) {
	if m == nil {
		return
	}
	m.ToolCalls.WithLabelValues(tool, strconv.FormatBool(ok)).Inc()
	m.ToolDuration.WithLabelValues(tool).Observe(d.Seconds())
	if errorEntries > 0 {
		m.ToolErrors.WithLabelValues(tool).Add(float64(errorEntries))
	}
}

// UpstreamRequest records one HTTP exchange with Canvas. code is the status
// code, or "error" when no response arrived.
func (m *Metrics) UpstreamRequest(code string, d time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamRequests.WithLabelValues(code).Inc()
	m.UpstreamDuration.Observe(d.Seconds())
}

// UpstreamRetry records a retried request.
func (m *Metrics) UpstreamRetry() {
	if m == nil {
		return
	}
	m.UpstreamRetries.Inc()
}
