// ABOUTME: Tests for the Prometheus collectors and exposition handler
// ABOUTME: Reads counter values back through client_model dto types

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func getCounterValue(cv *prometheus.CounterVec, labels ...string) float64 {
	m := &dto.Metric{}
	if err := cv.WithLabelValues(labels...).Write(m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func getHistogramCount(hv *prometheus.HistogramVec, labels ...string) uint64 {
	m := &dto.Metric{}
	if c, ok := hv.WithLabelValues(labels...).(prometheus.Metric); ok {
		if err := c.Write(m); err != nil {
			return 0
		}
		return m.GetHistogram().GetSampleCount()
	}
	return 0
}

func TestRecordGateDecision(t *testing.T) {
	m := New()

	m.RecordGateDecision("verified")
	m.RecordGateDecision("verified")
	m.RecordGateDecision("expired")

	if got := getCounterValue(m.GateDecisions, "verified"); got != 2 {
		t.Errorf("GateDecisions{verified} = %v, want 2", got)
	}
	if got := getCounterValue(m.GateDecisions, "expired"); got != 1 {
		t.Errorf("GateDecisions{expired} = %v, want 1", got)
	}
}

func TestRecordLogin(t *testing.T) {
	m := New()
	m.RecordLogin(LoginFailure)

	if got := getCounterValue(m.LoginAttempts, LoginFailure); got != 1 {
		t.Errorf("LoginAttempts{failure} = %v, want 1", got)
	}
	if got := getCounterValue(m.LoginAttempts, LoginSuccess); got != 0 {
		t.Errorf("LoginAttempts{success} = %v, want 0", got)
	}
}

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodGet, "GET /temas", 200, 15*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "", 404, time.Millisecond)

	if got := getCounterValue(m.HTTPRequests, "GET", "GET /temas", "200"); got != 1 {
		t.Errorf("HTTPRequests = %v, want 1", got)
	}
	if got := getCounterValue(m.HTTPRequests, "GET", "unmatched", "404"); got != 1 {
		t.Errorf("HTTPRequests{unmatched} = %v, want 1", got)
	}
	if got := getHistogramCount(m.HTTPDuration, "GET", "GET /temas"); got != 1 {
		t.Errorf("HTTPDuration count = %d, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.RecordGateDecision("malformed")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`blogpessoal_auth_gate_decisions_total{outcome="malformed"} 1`,
		`go_goroutines`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("missing metric: %s", want)
		}
	}
}

func TestNew_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.RecordGateDecision("verified")

	if got := getCounterValue(b.GateDecisions, "verified"); got != 0 {
		t.Errorf("second Metrics saw %v decisions, want 0", got)
	}
}
