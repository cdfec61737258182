package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sena980909/AI-SIEM/internal/common/middleware"
	"github.com/sena980909/AI-SIEM/internal/dashboard/handlers"
)

// NewRouter constructs a ServeMux with dashboard API routes registered.
func NewRouter(h *handlers.Handler) http.Handler {
	mux := http.NewServeMux()

	// Alert ledger endpoints
	mux.HandleFunc("/api/alerts", h.ListAlerts)
	mux.HandleFunc("/api/alerts/event/", h.AlertsByEvent)

	// Dashboard endpoints
	mux.HandleFunc("/api/dashboard/summary", h.Summary)
	mux.HandleFunc("/api/dashboard/events", h.ListEvents)
	mux.HandleFunc("/api/dashboard/events/", h.GetEvent)

	// Health endpoints
	mux.HandleFunc("/healthz", h.Health)
	mux.HandleFunc("/readyz", h.Ready)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	return middleware.RequestID(mux)
}
