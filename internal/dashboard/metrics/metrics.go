package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Poller metrics
	PollCycles = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aisiem_dashboard_poll_cycles_total",
			Help: "Total number of completed poll cycles",
		},
	)

	EventsObserved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aisiem_dashboard_events_observed_total",
			Help: "Total number of NEW events observed by the poller",
		},
	)

	EventsClaimed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aisiem_dashboard_events_claimed_total",
			Help: "Total number of events claimed for alerting",
		},
	)

	// Dispatch metrics
	DispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aisiem_dashboard_dispatch_total",
			Help: "Total number of notification dispatch attempts by channel and outcome",
		},
		[]string{"channel", "status"},
	)

	PollDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aisiem_dashboard_poll_duration_seconds",
			Help:    "Duration of one poll cycle in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
