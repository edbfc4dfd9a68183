package publisher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts what happens to emitted audit events.
type Metrics struct {
	Written        *prometheus.CounterVec
	Sampled        prometheus.Counter
	BufferDropped  prometheus.Counter
	AppendFailures prometheus.Counter
}

// NewMetrics registers on reg; a nil reg leaves the metrics unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Written: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "caseflow_audit_events_written_total",
			Help: "Audit events handed to the store, by category",
		}, []string{"category"}),
		Sampled: factory.NewCounter(prometheus.CounterOpts{
			Name: "caseflow_audit_events_sampled_total",
			Help: "Operations audit events dropped by sampling",
		}),
		BufferDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "caseflow_audit_events_buffer_dropped_total",
			Help: "Audit events rejected because the async buffer was full",
		}),
		AppendFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "caseflow_audit_append_failures_total",
			Help: "Audit events the store failed to persist",
		}),
	}
}

func (m *Metrics) incWritten(category string) {
	if m == nil {
		return
	}
	m.Written.WithLabelValues(category).Inc()
}

func (m *Metrics) incSampled() {
	if m == nil {
		return
	}
	m.Sampled.Inc()
}

func (m *Metrics) incBufferDropped() {
	if m == nil {
		return
	}
	m.BufferDropped.Inc()
}

func (m *Metrics) incAppendFailure() {
	if m == nil {
		return
	}
	m.AppendFailures.Inc()
}
