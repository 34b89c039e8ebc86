package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the gate module.
type Metrics struct {
	// Scan decisions, with a cache dimension on grants.
	Scans *prometheus.CounterVec

	// Scan latency, the latency budget the turnstile cares about.
	ScanLatency prometheus.Histogram
}

// New creates a Metrics instance with all gate module metrics registered.
func New() *Metrics {
	return &Metrics{
		Scans: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "gatekeeper_gate_scans_total",
			Help: "Total gate scans by decision and cache outcome",
		}, []string{"decision", "cache"}), // cache: "hit", "miss"

		ScanLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "gatekeeper_gate_scan_duration_seconds",
			Help:    "Duration of gate scan resolution",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
	}
}

// IncrementScan records a scan decision.
func (m *Metrics) IncrementScan(decision string, cacheHit bool) {
	if m != nil {
		cache := "miss"
		if cacheHit {
			cache = "hit"
		}
		m.Scans.WithLabelValues(decision, cache).Inc()
	}
}

// ObserveScanLatency records the duration of a scan.
// Call with time.Now() captured at the start of the operation.
func (m *Metrics) ObserveScanLatency(start time.Time) {
	if m != nil {
		m.ScanLatency.Observe(time.Since(start).Seconds())
	}
}
