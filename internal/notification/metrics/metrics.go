package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for notification handling.
type Metrics struct {
	// Terminal outcomes of inbound notifications
	Outcomes *prometheus.CounterVec

	// Emails handed to the sender
	Deliveries prometheus.Counter

	// Recipients skipped because the ledger already held their key
	Duplicates prometheus.Counter

	// Recipients that could not be served, by stage
	Failures *prometheus.CounterVec

	// Time spent on one notification, first gate to last email
	HandleLatency prometheus.Histogram
}

// New creates the notification metrics and registers them on reg. A nil reg
// leaves the collectors unregistered.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "caseflow_notifications_total",
			Help: "Inbound notifications by outcome and decline reason",
		}, []string{"outcome", "reason"}), // outcome: "delivered", "ignored"

		Deliveries: factory.NewCounter(prometheus.CounterOpts{
			Name: "caseflow_notification_emails_sent_total",
			Help: "Status update emails handed to the mail sender",
		}),

		Duplicates: factory.NewCounter(prometheus.CounterOpts{
			Name: "caseflow_notification_duplicates_total",
			Help: "Recipients skipped because the notification was delivered before",
		}),

		Failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "caseflow_notification_failures_total",
			Help: "Recipients that could not be notified",
		}, []string{"stage"}), // stage: "ledger", "email"

		HandleLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "caseflow_notification_handle_duration_seconds",
			Help:    "Duration of handling one inbound notification",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

func (m *Metrics) IncrementOutcome(outcome, reason string) {
	if m != nil {
		m.Outcomes.WithLabelValues(outcome, reason).Inc()
	}
}

func (m *Metrics) IncrementDelivery() {
	if m != nil {
		m.Deliveries.Inc()
	}
}

func (m *Metrics) IncrementDuplicate() {
	if m != nil {
		m.Duplicates.Inc()
	}
}

func (m *Metrics) IncrementFailure(stage string) {
	if m != nil {
		m.Failures.WithLabelValues(stage).Inc()
	}
}

func (m *Metrics) ObserveHandleLatency(d time.Duration) {
	if m != nil {
		m.HandleLatency.Observe(d.Seconds())
	}
}
