package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var latencyBuckets = []float64{
	0.001, // 1ms
	0.005, // 5ms
	0.01,  // 10ms
	0.025, // 25ms
	0.05,  // 50ms
	0.1,   // 100ms
	0.25,  // 250ms
	0.5,   // 500ms
	1.0,   // 1s
	2.5,   // 2.5s
	5.0,   // 5s
	10.0,  // 10s
}

var (
	// CreateInvestmentDuration tracks the latency of investment creation, including the gateway call
	CreateInvestmentDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hebed_create_investment_duration_seconds",
			Help:    "Duration of investment creation requests in seconds",
			Buckets: latencyBuckets,
		},
		[]string{"status"}, // success or failed
	)

	// DecisionDuration tracks the latency of startup decisions
	DecisionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hebed_investment_decision_duration_seconds",
			Help:    "Duration of accept/reject decisions in seconds",
			Buckets: latencyBuckets,
		},
		[]string{"decision", "status"},
	)

	// WebhookEventsTotal counts payment webhook events by type and outcome
	WebhookEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hebed_webhook_events_total",
			Help: "Payment provider webhook events by type and outcome",
		},
		[]string{"type", "outcome"}, // applied, ignored, duplicate, failed
	)

	// RefundFailuresTotal counts refunds that could not be requested for rejected investments
	RefundFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hebed_refund_failures_total",
			Help: "Refund requests for rejected investments that failed",
		},
	)

	// EmailsTotal counts transactional emails by outcome
	EmailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hebed_emails_total",
			Help: "Transactional emails by outcome",
		},
		[]string{"outcome"}, // sent, failed, dropped
	)
)

// RecordCreateInvestmentDuration records the duration of an investment creation request
func RecordCreateInvestmentDuration(status string, duration float64) {
	CreateInvestmentDuration.WithLabelValues(status).Observe(duration)
}

// RecordDecisionDuration records the duration of a decision request
func RecordDecisionDuration(decision, status string, duration float64) {
	DecisionDuration.WithLabelValues(decision, status).Observe(duration)
}

// RecordWebhookEvent counts a processed webhook event
func RecordWebhookEvent(eventType, outcome string) {
	WebhookEventsTotal.WithLabelValues(eventType, outcome).Inc()
}

// RecordRefundFailure counts a failed refund request
func RecordRefundFailure() {
	RefundFailuresTotal.Inc()
}

// RecordEmail counts an email outcome
func RecordEmail(outcome string) {
	EmailsTotal.WithLabelValues(outcome).Inc()
}
