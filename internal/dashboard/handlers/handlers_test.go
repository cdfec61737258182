package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sena980909/AI-SIEM/internal/common/logging"
	"github.com/sena980909/AI-SIEM/internal/dashboard/models"
	"github.com/sena980909/AI-SIEM/internal/dashboard/repository"
)

// mockRepository is a mock implementation of repository.Repository.
type mockRepository struct {
	findNewEventsFunc         func(ctx context.Context) ([]*models.SecurityEvent, error)
	claimEventFunc            func(ctx context.Context, id int64) (bool, error)
	getEventByIDFunc          func(ctx context.Context, id int64) (*models.SecurityEvent, error)
	listEventsFunc            func(ctx context.Context, filter models.EventFilter) ([]*models.SecurityEvent, error)
	countEventsFunc           func(ctx context.Context) (int64, error)
	countByEventTypeSinceFunc func(ctx context.Context, since time.Time) (map[string]int64, error)
	countBySeveritySinceFunc  func(ctx context.Context, since time.Time) (map[string]int64, error)
	createAlertFunc           func(ctx context.Context, alert *models.Alert) error
	listAlertsFunc            func(ctx context.Context, status string) ([]*models.Alert, error)
	listAlertsByEventFunc     func(ctx context.Context, eventID int64) ([]*models.Alert, error)
	pingFunc                  func(ctx context.Context) error
}

func (m *mockRepository) FindNewEvents(ctx context.Context) ([]*models.SecurityEvent, error) {
	if m.findNewEventsFunc != nil {
		return m.findNewEventsFunc(ctx)
	}
	return nil, nil
}

func (m *mockRepository) ClaimEvent(ctx context.Context, id int64) (bool, error) {
	if m.claimEventFunc != nil {
		return m.claimEventFunc(ctx, id)
	}
	return true, nil
}

func (m *mockRepository) GetEventByID(ctx context.Context, id int64) (*models.SecurityEvent, error) {
	if m.getEventByIDFunc != nil {
		return m.getEventByIDFunc(ctx, id)
	}
	return nil, repository.ErrEventNotFound
}

func (m *mockRepository) ListEvents(ctx context.Context, filter models.EventFilter) ([]*models.SecurityEvent, error) {
	if m.listEventsFunc != nil {
		return m.listEventsFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockRepository) CountEvents(ctx context.Context) (int64, error) {
	if m.countEventsFunc != nil {
		return m.countEventsFunc(ctx)
	}
	return 0, nil
}

func (m *mockRepository) CountByEventTypeSince(ctx context.Context, since time.Time) (map[string]int64, error) {
	if m.countByEventTypeSinceFunc != nil {
		return m.countByEventTypeSinceFunc(ctx, since)
	}
	return nil, nil
}

func (m *mockRepository) CountBySeveritySince(ctx context.Context, since time.Time) (map[string]int64, error) {
	if m.countBySeveritySinceFunc != nil {
		return m.countBySeveritySinceFunc(ctx, since)
	}
	return nil, nil
}

func (m *mockRepository) CreateAlert(ctx context.Context, alert *models.Alert) error {
	if m.createAlertFunc != nil {
		return m.createAlertFunc(ctx, alert)
	}
	return nil
}

func (m *mockRepository) ListAlerts(ctx context.Context, status string) ([]*models.Alert, error) {
	if m.listAlertsFunc != nil {
		return m.listAlertsFunc(ctx, status)
	}
	return nil, nil
}

func (m *mockRepository) ListAlertsByEvent(ctx context.Context, eventID int64) ([]*models.Alert, error) {
	if m.listAlertsByEventFunc != nil {
		return m.listAlertsByEventFunc(ctx, eventID)
	}
	return nil, nil
}

func (m *mockRepository) Ping(ctx context.Context) error {
	if m.pingFunc != nil {
		return m.pingFunc(ctx)
	}
	return nil
}

func (m *mockRepository) Close() error {
	return nil
}

func newTestHandler(repo *mockRepository) *Handler {
	return NewHandler(repo, logging.Default())
}

func TestListAlerts(t *testing.T) {
	repo := &mockRepository{
		listAlertsFunc: func(ctx context.Context, status string) ([]*models.Alert, error) {
			assert.Equal(t, "SENT", status)
			return []*models.Alert{
				{ID: 1, SecurityEventID: 10, Channel: models.ChannelWebhook, Status: models.AlertStatusSent},
			}, nil
		},
	}
	h := newTestHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/alerts?status=SENT", nil)
	w := httptest.NewRecorder()

	h.ListAlerts(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var alerts []*models.Alert
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &alerts))
	require.Len(t, alerts, 1)
	assert.Equal(t, int64(1), alerts[0].ID)
	assert.Equal(t, models.ChannelWebhook, alerts[0].Channel)
}

func TestAlertsByEvent(t *testing.T) {
	repo := &mockRepository{
		listAlertsByEventFunc: func(ctx context.Context, eventID int64) ([]*models.Alert, error) {
			assert.Equal(t, int64(42), eventID)
			return []*models.Alert{
				{ID: 1, SecurityEventID: 42, Channel: models.ChannelWebhook, Status: models.AlertStatusSent},
				{ID: 2, SecurityEventID: 42, Channel: models.ChannelEmail, Status: models.AlertStatusSkipped},
			}, nil
		},
	}
	h := newTestHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/alerts/event/42", nil)
	w := httptest.NewRecorder()

	h.AlertsByEvent(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var alerts []*models.Alert
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &alerts))
	assert.Len(t, alerts, 2)
}

func TestAlertsByEventInvalidID(t *testing.T) {
	h := newTestHandler(&mockRepository{})

	req := httptest.NewRequest(http.MethodGet, "/api/alerts/event/abc", nil)
	w := httptest.NewRecorder()

	h.AlertsByEvent(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSummary(t *testing.T) {
	repo := &mockRepository{
		countEventsFunc: func(ctx context.Context) (int64, error) {
			return 120, nil
		},
		countByEventTypeSinceFunc: func(ctx context.Context, since time.Time) (map[string]int64, error) {
			assert.WithinDuration(t, time.Now().UTC().Add(-24*time.Hour), since, time.Minute)
			return map[string]int64{"BRUTE_FORCE": 7, "SQL_INJECTION": 2}, nil
		},
		countBySeveritySinceFunc: func(ctx context.Context, since time.Time) (map[string]int64, error) {
			return map[string]int64{"HIGH": 6, "CRITICAL": 3}, nil
		},
	}
	h := newTestHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/summary", nil)
	w := httptest.NewRecorder()

	h.Summary(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var summary models.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 24, summary.PeriodHours)
	assert.Equal(t, int64(120), summary.TotalEvents)
	assert.Equal(t, int64(7), summary.EventsByType["BRUTE_FORCE"])
	assert.Equal(t, int64(3), summary.EventsBySeverity["CRITICAL"])
}

func TestSummaryCustomWindow(t *testing.T) {
	repo := &mockRepository{
		countByEventTypeSinceFunc: func(ctx context.Context, since time.Time) (map[string]int64, error) {
			assert.WithinDuration(t, time.Now().UTC().Add(-48*time.Hour), since, time.Minute)
			return nil, nil
		},
	}
	h := newTestHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/summary?hours=48", nil)
	w := httptest.NewRecorder()

	h.Summary(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var summary models.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 48, summary.PeriodHours)
}

func TestSummaryInvalidHours(t *testing.T) {
	h := newTestHandler(&mockRepository{})

	for _, raw := range []string{"abc", "0", "-5"} {
		req := httptest.NewRequest(http.MethodGet, "/api/dashboard/summary?hours="+raw, nil)
		w := httptest.NewRecorder()

		h.Summary(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "hours=%s", raw)
	}
}

func TestListEventsFilterPassthrough(t *testing.T) {
	var gotFilter models.EventFilter
	repo := &mockRepository{
		listEventsFunc: func(ctx context.Context, filter models.EventFilter) ([]*models.SecurityEvent, error) {
			gotFilter = filter
			return []*models.SecurityEvent{{ID: 1, EventType: "BRUTE_FORCE"}}, nil
		},
	}
	h := newTestHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/events?status=NEW&eventType=BRUTE_FORCE&severity=HIGH", nil)
	w := httptest.NewRecorder()

	h.ListEvents(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "NEW", gotFilter.Status)
	assert.Equal(t, "BRUTE_FORCE", gotFilter.EventType)
	assert.Equal(t, "HIGH", gotFilter.Severity)
}

func TestGetEvent(t *testing.T) {
	repo := &mockRepository{
		getEventByIDFunc: func(ctx context.Context, id int64) (*models.SecurityEvent, error) {
			assert.Equal(t, int64(42), id)
			return &models.SecurityEvent{ID: 42, EventType: "BRUTE_FORCE", Severity: models.SeverityHigh}, nil
		},
	}
	h := newTestHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/events/42", nil)
	w := httptest.NewRecorder()

	h.GetEvent(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var event models.SecurityEvent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &event))
	assert.Equal(t, int64(42), event.ID)
}

func TestGetEventNotFound(t *testing.T) {
	h := newTestHandler(&mockRepository{})

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/events/99", nil)
	w := httptest.NewRecorder()

	h.GetEvent(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetEventInvalidID(t *testing.T) {
	h := newTestHandler(&mockRepository{})

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/events/not-a-number", nil)
	w := httptest.NewRecorder()

	h.GetEvent(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetEventRepositoryError(t *testing.T) {
	repo := &mockRepository{
		getEventByIDFunc: func(ctx context.Context, id int64) (*models.SecurityEvent, error) {
			return nil, errors.New("connection reset")
		},
	}
	h := newTestHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/events/1", nil)
	w := httptest.NewRecorder()

	h.GetEvent(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHealth(t *testing.T) {
	h := newTestHandler(&mockRepository{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	h.Health(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
}

func TestReadyDatabaseDown(t *testing.T) {
	repo := &mockRepository{
		pingFunc: func(ctx context.Context) error {
			return errors.New("connection refused")
		},
	}
	h := newTestHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	w := httptest.NewRecorder()

	h.Ready(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
