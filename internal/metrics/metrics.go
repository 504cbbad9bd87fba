package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "carwash"

// Outcomes of ledger operations
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeNotFound = "not_found"
	OutcomeFailed   = "failed"
)

var (
	// WashesRecorded counts recorded washes by car size and whether wash was free
	WashesRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "washes_recorded_total",
		Help:      "Number of recorded washes.",
	}, []string{"car_type", "free"})

	// LedgerOperations counts wash count adjustments by operation and outcome
	LedgerOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_operations_total",
		Help:      "Number of wash count adjustments.",
	}, []string{"operation", "outcome"})

	// FreeWashesEarned counts customers which reached free wash threshold
	FreeWashesEarned = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "free_washes_earned_total",
		Help:      "Number of times a customer unlocked a free wash.",
	})

	// RealtimeEvents counts row changes received from database
	RealtimeEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "realtime_events_total",
		Help:      "Number of row change notifications received from database.",
	}, []string{"table", "type"})

	// RealtimeSubscribers is number of active change feed subscriptions
	RealtimeSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "realtime_subscribers",
		Help:      "Number of active change feed subscriptions.",
	})

	// RealtimeDropped counts subscriptions dropped for falling behind
	RealtimeDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "realtime_dropped_subscribers_total",
		Help:      "Number of subscriptions closed because subscriber could not keep up.",
	})

	// NotificationsSent counts customer notifications by outcome
	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Number of customer notifications.",
	}, []string{"outcome"})
)
