package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for case enrichment.
type Metrics struct {
	// Full batch latency, session open to sort
	BatchLatency prometheus.Histogram

	// Failed sub-resource fetches by resource kind
	FetchFailures *prometheus.CounterVec

	// Cases removed from a batch by reason
	CasesDropped *prometheus.CounterVec
}

// New creates the enrichment metrics and registers them on reg. A nil reg
// leaves the collectors unregistered.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BatchLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "caseflow_cases_preprocess_duration_seconds",
			Help:    "Duration of case list enrichment batches",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),

		FetchFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "caseflow_cases_fetch_failures_total",
			Help: "Sub-resource fetches that failed during enrichment",
		}, []string{"resource"}), // resource: "case_type", "status", "status_type", "result", "result_type", "config"

		CasesDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "caseflow_cases_dropped_total",
			Help: "Cases removed from an enrichment batch by reason",
		}, []string{"reason"}),
	}
}

// ObserveBatchLatency records the duration of one batch.
func (m *Metrics) ObserveBatchLatency(d time.Duration) {
	if m != nil {
		m.BatchLatency.Observe(d.Seconds())
	}
}

// IncrementFetchFailure records one failed sub-resource fetch.
func (m *Metrics) IncrementFetchFailure(resource string) {
	if m != nil {
		m.FetchFailures.WithLabelValues(resource).Inc()
	}
}

// AddDropped records n cases removed for reason.
func (m *Metrics) AddDropped(reason string, n int) {
	if m != nil && n > 0 {
		m.CasesDropped.WithLabelValues(reason).Add(float64(n))
	}
}
