package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the ZGW resource clients.
type Metrics struct {
	// Remote requests by api and outcome
	Requests *prometheus.CounterVec

	// Remote request latency by api
	RequestLatency *prometheus.HistogramVec

	// Cache lookups by api and result (hit, miss)
	CacheLookups *prometheus.CounterVec

	// Circuit breaker transitions by api and state
	BreakerTransitions *prometheus.CounterVec
}

// New creates the client metrics and registers them on reg. A nil reg leaves
// the collectors unregistered.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "caseflow_zgw_requests_total",
			Help: "Total ZGW API requests by api and outcome",
		}, []string{"api", "outcome"}), // outcome: "ok", "not_found", "error", "circuit_open"

		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "caseflow_zgw_request_duration_seconds",
			Help:    "Duration of ZGW API requests by api",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"api"}),

		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "caseflow_zgw_cache_lookups_total",
			Help: "ZGW response cache lookups by api and result",
		}, []string{"api", "result"}),

		BreakerTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "caseflow_zgw_breaker_transitions_total",
			Help: "Circuit breaker state transitions by api",
		}, []string{"api", "state"}),
	}
}

// IncrementRequest records one remote request outcome.
func (m *Metrics) IncrementRequest(api, outcome string) {
	if m != nil {
		m.Requests.WithLabelValues(api, outcome).Inc()
	}
}

// ObserveRequestLatency records how long a remote request took.
func (m *Metrics) ObserveRequestLatency(api string, d time.Duration) {
	if m != nil {
		m.RequestLatency.WithLabelValues(api).Observe(d.Seconds())
	}
}

// IncrementCacheHit records a cache hit.
func (m *Metrics) IncrementCacheHit(api string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(api, "hit").Inc()
	}
}

// IncrementCacheMiss records a cache miss.
func (m *Metrics) IncrementCacheMiss(api string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(api, "miss").Inc()
	}
}

// IncrementBreakerTransition records the circuit opening or closing.
func (m *Metrics) IncrementBreakerTransition(api, state string) {
	if m != nil {
		m.BreakerTransitions.WithLabelValues(api, state).Inc()
	}
}
