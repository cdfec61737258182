package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sena980909/AI-SIEM/internal/common/httputil"
	"github.com/sena980909/AI-SIEM/internal/common/logging"
	"github.com/sena980909/AI-SIEM/internal/dashboard/models"
	"github.com/sena980909/AI-SIEM/internal/dashboard/repository"
)

type Handler struct {
	repo   repository.Repository
	logger *logging.Logger
}

func NewHandler(repo repository.Repository, logger *logging.Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

// ListAlerts handles GET /api/alerts?status=
func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	alerts, err := h.repo.ListAlerts(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list alerts", logging.Error(err))
		httputil.WriteInternalError(w)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, alerts)
}

// AlertsByEvent handles GET /api/alerts/event/{eventId}
func (h *Handler) AlertsByEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	eventID, err := strconv.ParseInt(r.URL.Path[len("/api/alerts/event/"):], 10, 64)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	alerts, err := h.repo.ListAlertsByEvent(r.Context(), eventID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list alerts for event", logging.Error(err))
		httputil.WriteInternalError(w)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, alerts)
}

// Summary handles GET /api/dashboard/summary?hours=24
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	hours := 24
	if raw := r.URL.Query().Get("hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			httputil.WriteError(w, http.StatusBadRequest, "hours: must be a positive integer")
			return
		}
		hours = parsed
	}

	since := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)
	ctx := r.Context()

	total, err := h.repo.CountEvents(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to count events", logging.Error(err))
		httputil.WriteInternalError(w)
		return
	}

	byType, err := h.repo.CountByEventTypeSince(ctx, since)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to count events by type", logging.Error(err))
		httputil.WriteInternalError(w)
		return
	}

	bySeverity, err := h.repo.CountBySeveritySince(ctx, since)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to count events by severity", logging.Error(err))
		httputil.WriteInternalError(w)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.Summary{
		PeriodHours:      hours,
		TotalEvents:      total,
		EventsByType:     byType,
		EventsBySeverity: bySeverity,
	})
}

// ListEvents handles GET /api/dashboard/events?status=|eventType=|severity=
// Filters are mutually exclusive; the first matching one wins.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	events, err := h.repo.ListEvents(r.Context(), models.EventFilter{
		Status:    q.Get("status"),
		EventType: q.Get("eventType"),
		Severity:  q.Get("severity"),
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list events", logging.Error(err))
		httputil.WriteInternalError(w)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, events)
}

// GetEvent handles GET /api/dashboard/events/{id}
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	raw := strings.TrimPrefix(r.URL.Path, "/api/dashboard/events/")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	event, err := h.repo.GetEventByID(r.Context(), id)
	if errors.Is(err, repository.ErrEventNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "event not found")
		return
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to get event", logging.Error(err))
		httputil.WriteInternalError(w)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, event)
}

// Health handles liveness checks.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Ready handles readiness checks by pinging the database.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.Ping(ctx); err != nil {
		httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "database unavailable",
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
