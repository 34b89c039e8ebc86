package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the visitor identity module.
type Metrics struct {
	// Registrations split from logins by the is_new_user outcome.
	Resolutions *prometheus.CounterVec

	// Token bindings by kind and outcome ("bound", "conflict", "taken").
	Bindings *prometheus.CounterVec

	// Latency of the login-or-register critical path.
	ResolveLatency prometheus.Histogram
}

// New creates a Metrics instance with all visitor module metrics registered.
func New() *Metrics {
	return &Metrics{
		Resolutions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "gatekeeper_visitor_resolutions_total",
			Help: "Total login-or-register resolutions by outcome",
		}, []string{"outcome"}), // outcome: "registered", "logged_in"

		Bindings: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "gatekeeper_token_bindings_total",
			Help: "Total token binding attempts by kind and outcome",
		}, []string{"kind", "outcome"}),

		ResolveLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "gatekeeper_visitor_resolve_duration_seconds",
			Help:    "Duration of login-or-register resolution",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementResolution records a login-or-register outcome.
func (m *Metrics) IncrementResolution(isNewUser bool) {
	if m != nil {
		outcome := "logged_in"
		if isNewUser {
			outcome = "registered"
		}
		m.Resolutions.WithLabelValues(outcome).Inc()
	}
}

// IncrementBinding records a token binding attempt.
func (m *Metrics) IncrementBinding(kind, outcome string) {
	if m != nil {
		m.Bindings.WithLabelValues(kind, outcome).Inc()
	}
}

// ObserveResolveLatency records the duration of a resolution.
// Call with time.Now() captured at the start of the operation.
func (m *Metrics) ObserveResolveLatency(start time.Time) {
	if m != nil {
		m.ResolveLatency.Observe(time.Since(start).Seconds())
	}
}
