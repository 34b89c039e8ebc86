package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the photo competition module.
type Metrics struct {
	Submissions prometheus.Counter

	// Dashboard reads by cache outcome ("hit", "miss").
	DashboardReads *prometheus.CounterVec
}

// New creates a Metrics instance with all photo module metrics registered.
func New() *Metrics {
	return &Metrics{
		Submissions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gatekeeper_photo_submissions_total",
			Help: "Total photo submissions accepted",
		}),

		DashboardReads: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "gatekeeper_photo_dashboard_reads_total",
			Help: "Total dashboard reads by cache outcome",
		}, []string{"cache"}),
	}
}

// IncrementSubmission records an accepted submission.
func (m *Metrics) IncrementSubmission() {
	if m != nil {
		m.Submissions.Inc()
	}
}

// IncrementDashboardRead records a dashboard read.
func (m *Metrics) IncrementDashboardRead(cacheHit bool) {
	if m != nil {
		cache := "miss"
		if cacheHit {
			cache = "hit"
		}
		m.DashboardReads.WithLabelValues(cache).Inc()
	}
}
