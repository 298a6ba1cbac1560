package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MessagesProcessed The total number of processed messages (counter)
	MessagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "messages",
			Name:      "processed_total",
			Help:      "The total number of processed messages",
		},
		[]string{"topic", "handler"},
	)

	// MessagesProcessingFailed total number of message processing failures (counter)
	MessagesProcessingFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "messages",
			Name:      "processing_failed_total",
			Help:      "The total number of message processing failures",
		},
		[]string{"topic", "handler"},
	)

	// MessagesProcessingDuration The total time spent processing messages (summary with quantiles 0.5, 0.9, and 0.99)
	MessagesProcessingDuration = promauto.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace:  "messages",
			Name:       "processing_duration_seconds",
			Help:       "The total time spent processing messages",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"topic", "handler"},
	)

	// PaymentCaptures counts capture attempts by payment method and result
	PaymentCaptures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "checkout",
			Name:      "payment_captures_total",
			Help:      "The total number of payment capture attempts",
		},
		[]string{"method", "result"},
	)

	// CheckoutsFinished counts finished checkouts by outcome (completed or reservation_pending)
	CheckoutsFinished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "checkout",
			Name:      "finished_total",
			Help:      "The total number of finished checkouts",
		},
		[]string{"outcome"},
	)

	// BookingCreationFailures counts paid cart items that could not become bookings
	BookingCreationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "checkout",
			Name:      "booking_creation_failures_total",
			Help:      "The total number of booking creation failures during reconciliation",
		},
	)

	// ReconciliationFollowUpFailures counts failed best-effort follow-ups by step
	ReconciliationFollowUpFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "checkout",
			Name:      "reconciliation_follow_up_failures_total",
			Help:      "The total number of failed reconciliation follow-up calls",
		},
		[]string{"step"},
	)
)
