// Package metrics provides Prometheus metrics for the front end's sign-in and gate activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Gate outcomes
const (
	GateAllow        = "allow"
	GateNoSession    = "no_session"
	GateRoleMismatch = "role_mismatch"
)

// Login results
const (
	LoginSuccess            = "success"
	LoginInvalidCredentials = "invalid_credentials"
	LoginNoAccess           = "no_access"
	LoginExpiredForm        = "expired_form"
	LoginMissingFields      = "missing_fields"
	LoginError              = "error"
)

// Metrics holds the collectors. Each instance owns its registry so several servers
// can live in one process.
type Metrics struct {
	enabled  bool
	registry *prometheus.Registry

	gateDecisionsTotal  *prometheus.CounterVec
	loginsTotal         *prometheus.CounterVec
	logoutsTotal        prometheus.Counter
	backendErrorsTotal  *prometheus.CounterVec
	backendCallDuration *prometheus.HistogramVec
}

// New creates and registers the collectors.
// If enabled is false, returns a no-op Metrics instance.
func New(enabled bool) *Metrics {
	m := &Metrics{enabled: enabled}
	if !enabled {
		return m
	}

	m.registry = prometheus.NewRegistry()
	factory := promauto.With(m.registry)

	m.gateDecisionsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "ums_gate_decisions_total",
		Help: "Authorization gate decisions on protected paths",
	}, []string{"outcome"})

	m.loginsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "ums_logins_total",
		Help: "Sign-in attempts by result",
	}, []string{"result"})

	m.logoutsTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "ums_logouts_total",
		Help: "Sign-outs",
	})

	m.backendErrorsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "ums_identity_errors_total",
		Help: "Identity service errors surfaced to pages",
	}, []string{"kind"})

	m.backendCallDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ums_identity_call_duration_seconds",
		Help:    "Identity service call duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	return m
}

// Enabled reports whether the collectors are registered
func (m *Metrics) Enabled() bool {
	return m.enabled
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if !m.enabled {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordGateDecision(outcome string) {
	if !m.enabled {
		return
	}
	m.gateDecisionsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordLogin(result string) {
	if !m.enabled {
		return
	}
	m.loginsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordLogout() {
	if !m.enabled {
		return
	}
	m.logoutsTotal.Inc()
}

func (m *Metrics) RecordBackendError(kind string) {
	if !m.enabled {
		return
	}
	m.backendErrorsTotal.WithLabelValues(kind).Inc()
}

// ObserveBackendCall records how long an identity service operation took
func (m *Metrics) ObserveBackendCall(operation string, seconds float64) {
	if !m.enabled {
		return
	}
	m.backendCallDuration.WithLabelValues(operation).Observe(seconds)
}
