package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sena980909/AI-SIEM/internal/common/middleware"
	"github.com/sena980909/AI-SIEM/internal/ingestion/handlers"
)

// NewRouter constructs a ServeMux with ingestion API routes registered.
func NewRouter(h *handlers.LogHandler) http.Handler {
	mux := http.NewServeMux()

	// Ingestion endpoints
	mux.HandleFunc("/api/logs", h.IngestLog)
	mux.HandleFunc("/api/logs/batch", h.IngestBatch)

	// Search endpoints
	mux.HandleFunc("/api/logs/search/source/", h.SearchBySource)
	mux.HandleFunc("/api/logs/search/ip/", h.SearchByIP)
	mux.HandleFunc("/api/logs/search/level/", h.SearchByLevel)

	// Health endpoints
	mux.HandleFunc("/healthz", h.Health)
	mux.HandleFunc("/readyz", h.Ready)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	return middleware.RequestID(mux)
}
