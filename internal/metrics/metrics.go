package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	NotificationEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "market",
		Subsystem: "notifications",
		Name:      "events_total",
		Help:      "Notification events processed, by source type and result.",
	}, []string{"source_type", "result"})

	NotificationsWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "market",
		Subsystem: "notifications",
		Name:      "written_total",
		Help:      "Notification documents written, by reason.",
	}, []string{"reason"})

	RecipientsPerEvent = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "market",
		Subsystem: "notifications",
		Name:      "recipients_per_event",
		Help:      "Number of recipients selected for one event.",
		Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 250, 1000},
	})

	PushFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "market",
		Subsystem: "notifications",
		Name:      "push_failures_total",
		Help:      "Push deliveries that failed.",
	})

	QueueMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "market",
		Subsystem: "queue",
		Name:      "messages_total",
		Help:      "Queue deliveries, by outcome (acked, requeued, dead_lettered, rejected).",
	}, []string{"outcome"})

	MarketsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "market",
		Subsystem: "contracts",
		Name:      "created_total",
		Help:      "Markets created, by outcome type.",
	}, []string{"outcome_type"})
)
