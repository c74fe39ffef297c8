package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeAllowed = "allowed"
	OutcomeDenied  = "denied"
)

// Metrics holds the Prometheus collectors of a service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	AuthOperationsTotal    *prometheus.CounterVec
	TokenValidationsTotal  *prometheus.CounterVec
	AuthorizationDecisions *prometheus.CounterVec
	IssuerUp               prometheus.Gauge
}

// New creates and registers all collectors on registry
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: registry,
		AuthOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "unicampus_auth_operations_total",
				Help: "Register, login, refresh and validate calls by outcome",
			},
			[]string{"operation", "outcome"},
		),
		TokenValidationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "unicampus_token_validations_total",
				Help: "Token resolutions performed by a validator strategy",
			},
			[]string{"strategy", "outcome"},
		),
		AuthorizationDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "unicampus_authorization_decisions_total",
				Help: "Authorization gate decisions by permission",
			},
			[]string{"permission", "outcome"},
		),
		IssuerUp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "unicampus_issuer_up",
				Help: "1 when the last probe of the issuing service succeeded",
			},
		),
	}

	registry.MustRegister(
		m.AuthOperationsTotal,
		m.TokenValidationsTotal,
		m.AuthorizationDecisions,
		m.IssuerUp,
	)
	return m
}

// AuthOperation records an orchestrator call
func (m *Metrics) AuthOperation(operation string, err error) {
	if m == nil {
		return
	}
	m.AuthOperationsTotal.WithLabelValues(operation, outcome(err)).Inc()
}

// TokenValidation records a validator resolution
func (m *Metrics) TokenValidation(strategy string, err error) {
	if m == nil {
		return
	}
	m.TokenValidationsTotal.WithLabelValues(strategy, outcome(err)).Inc()
}

// Authorization records a gate decision
func (m *Metrics) Authorization(permission string, allowed bool) {
	if m == nil {
		return
	}
	result := OutcomeDenied
	if allowed {
		result = OutcomeAllowed
	}
	m.AuthorizationDecisions.WithLabelValues(permission, result).Inc()
}

// SetIssuerUp records the result of an issuer availability probe
func (m *Metrics) SetIssuerUp(up bool) {
	if m == nil {
		return
	}
	if up {
		m.IssuerUp.Set(1)
		return
	}
	m.IssuerUp.Set(0)
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
