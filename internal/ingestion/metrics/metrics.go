package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Log ingestion metrics
	LogsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aisiem_ingestion_logs_total",
			Help: "Total number of log records received",
		},
		[]string{"status"},
	)

	// Storage metrics
	StorageDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aisiem_ingestion_storage_duration_seconds",
			Help:    "Duration of log store writes in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	StorageErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aisiem_ingestion_storage_errors_total",
			Help: "Total number of log store write errors",
		},
	)

	// Stream handoff metrics
	StreamPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aisiem_ingestion_stream_published_total",
			Help: "Total number of records published to the detection stream",
		},
	)

	StreamErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aisiem_ingestion_stream_errors_total",
			Help: "Total number of stream publish failures",
		},
	)
)
