package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sena980909/AI-SIEM/internal/common/httputil"
	"github.com/sena980909/AI-SIEM/internal/common/logging"
	"github.com/sena980909/AI-SIEM/internal/ingestion/models"
	"github.com/sena980909/AI-SIEM/internal/ingestion/normalizer"
)

// IngestionService defines the service surface the HTTP layer depends on.
type IngestionService interface {
	Ingest(ctx context.Context, req *models.IngestRequest) (models.IngestResponse, error)
	IngestBatch(ctx context.Context, reqs []models.IngestRequest) []models.IngestResponse
	SearchBySource(ctx context.Context, source string) ([]models.LogRecord, error)
	SearchByIP(ctx context.Context, ip string, from, to time.Time) ([]models.LogRecord, error)
	SearchByLevel(ctx context.Context, level string) ([]models.LogRecord, error)
}

// Pinger reports backend reachability for readiness checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

type LogHandler struct {
	service IngestionService
	store   Pinger
	logger  *logging.Logger
}

func NewLogHandler(service IngestionService, store Pinger, logger *logging.Logger) *LogHandler {
	return &LogHandler{
		service: service,
		store:   store,
		logger:  logger,
	}
}

// IngestLog handles POST /api/logs.
func (h *LogHandler) IngestLog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteValidationError(w, "invalid request body")
		return
	}

	resp, err := h.service.Ingest(r.Context(), &req)
	if err != nil {
		var verr *normalizer.ValidationError
		if errors.As(err, &verr) {
			httputil.WriteValidationError(w, verr.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "ingest failed", logging.Error(err))
		httputil.WriteInternalError(w)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, resp)
}

// IngestBatch handles POST /api/logs/batch.
func (h *LogHandler) IngestBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteValidationError(w, "invalid request body")
		return
	}

	if len(req.Logs) == 0 {
		httputil.WriteValidationError(w, "logs: must not be empty")
		return
	}

	responses := h.service.IngestBatch(r.Context(), req.Logs)
	httputil.WriteJSON(w, http.StatusCreated, responses)
}

// SearchBySource handles GET /api/logs/search/source/{source}.
func (h *LogHandler) SearchBySource(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	source := r.URL.Path[len("/api/logs/search/source/"):]
	if source == "" {
		httputil.WriteError(w, http.StatusBadRequest, "source is required")
		return
	}

	records, err := h.service.SearchBySource(r.Context(), source)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "search by source failed", logging.Error(err))
		httputil.WriteInternalError(w)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, records)
}

// SearchByIP handles GET /api/logs/search/ip/{ip}?from=&to=.
// from and to are RFC3339 instants.
func (h *LogHandler) SearchByIP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ip := r.URL.Path[len("/api/logs/search/ip/"):]
	if ip == "" {
		httputil.WriteError(w, http.StatusBadRequest, "ip is required")
		return
	}

	from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "from: must be an RFC3339 timestamp")
		return
	}
	to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "to: must be an RFC3339 timestamp")
		return
	}

	records, err := h.service.SearchByIP(r.Context(), ip, from, to)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "search by ip failed", logging.Error(err))
		httputil.WriteInternalError(w)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, records)
}

// SearchByLevel handles GET /api/logs/search/level/{level}.
func (h *LogHandler) SearchByLevel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	level := r.URL.Path[len("/api/logs/search/level/"):]
	if level == "" {
		httputil.WriteError(w, http.StatusBadRequest, "level is required")
		return
	}

	records, err := h.service.SearchByLevel(r.Context(), level)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "search by level failed", logging.Error(err))
		httputil.WriteInternalError(w)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, records)
}

// Health handles liveness checks.
func (h *LogHandler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Ready handles readiness checks by pinging the log store.
func (h *LogHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "log store unavailable",
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
