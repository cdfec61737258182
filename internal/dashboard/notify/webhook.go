package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sena980909/AI-SIEM/internal/common/logging"
	"github.com/sena980909/AI-SIEM/internal/dashboard/models"
)

// webhookTimeout bounds each delivery attempt so a stalled endpoint cannot
// block the poll loop.
const webhookTimeout = 10 * time.Second

// WebhookSender delivers alert messages via HTTP POST.
// With no endpoint configured it operates in local mode: every send is
// treated as an immediate success without a network call, so the pipeline
// stays exercisable without external dependencies.
type WebhookSender struct {
	url        string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewWebhookSender creates a webhook sender. An empty url enables local mode.
func NewWebhookSender(url string, logger *logging.Logger) *WebhookSender {
	return &WebhookSender{
		url: url,
		httpClient: &http.Client{
			Timeout: webhookTimeout,
		},
		logger: logger,
	}
}

// Send posts the alert message as JSON and records the outcome on the alert:
// SENT on success (or local mode), FAILED on any transport error or non-2xx
// response. Errors are terminal ledger state, never propagated.
func (s *WebhookSender) Send(ctx context.Context, alert *models.Alert) {
	if s.url == "" {
		s.logger.DebugContext(ctx, "webhook url not configured, marking as sent (local mode)")
		alert.Status = models.AlertStatusSent
		now := time.Now().UTC()
		alert.SentAt = &now
		return
	}

	if err := s.post(ctx, alert.Message); err != nil {
		alert.Status = models.AlertStatusFailed
		s.logger.ErrorContext(ctx, "webhook failed",
			logging.Error(err),
			logging.EventID(alert.SecurityEventID),
		)
		return
	}

	alert.Status = models.AlertStatusSent
	now := time.Now().UTC()
	alert.SentAt = &now
	s.logger.InfoContext(ctx, "webhook sent", logging.EventID(alert.SecurityEventID))
}

func (s *WebhookSender) post(ctx context.Context, message string) error {
	body, err := json.Marshal(map[string]string{"text": message})
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
