// ABOUTME: Prometheus metrics for the blog API: gate decisions, logins and HTTP traffic
// ABOUTME: Uses a private registry so tests and multiple servers never collide

// Package metrics defines Prometheus metrics for blogpessoal.
//
// Metric naming follows Prometheus conventions:
//   - blogpessoal_ prefix for all custom metrics
//   - _total suffix for counters
//   - _seconds suffix for duration histograms
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login results.
const (
	LoginSuccess = "success"
	LoginFailure = "failure"
	LoginError   = "error"
)

// Metrics holds every collector and the registry they are registered with.
type Metrics struct {
	registry *prometheus.Registry

	// GateDecisions counts authentication gate decisions by outcome.
	GateDecisions *prometheus.CounterVec

	// LoginAttempts counts login attempts by result.
	LoginAttempts *prometheus.CounterVec

	// HTTPRequests counts handled requests by method, route pattern and status code.
	HTTPRequests *prometheus.CounterVec

	// HTTPDuration is a histogram of request latency by method and route pattern.
	HTTPDuration *prometheus.HistogramVec
}

// New creates and registers all metrics, including Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		GateDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blogpessoal_auth_gate_decisions_total",
				Help: "Total authentication gate decisions by outcome.",
			},
			[]string{"outcome"},
		),
		LoginAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blogpessoal_login_attempts_total",
				Help: "Total login attempts by result.",
			},
			[]string{"result"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blogpessoal_http_requests_total",
				Help: "Total HTTP requests by method, route and status.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "blogpessoal_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	m.registry.MustRegister(
		m.GateDecisions,
		m.LoginAttempts,
		m.HTTPRequests,
		m.HTTPDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RecordGateDecision records a single authentication gate decision.
func (m *Metrics) RecordGateDecision(outcome string) {
	m.GateDecisions.WithLabelValues(outcome).Inc()
}

// RecordLogin records a login attempt.
func (m *Metrics) RecordLogin(result string) {
	m.LoginAttempts.WithLabelValues(result).Inc()
}

// ObserveRequest records a completed HTTP request. route is the mux pattern,
// not the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
