// Package notify fans a decided alert out to the configured delivery
// channels and records every attempt in the alert ledger.
package notify

import (
	"context"
	"strings"

	"github.com/sena980909/AI-SIEM/internal/common/logging"
	"github.com/sena980909/AI-SIEM/internal/dashboard/metrics"
	"github.com/sena980909/AI-SIEM/internal/dashboard/models"
)

// Ledger is the persistence surface the dispatcher needs: claiming events
// and appending dispatch attempts.
type Ledger interface {
	ClaimEvent(ctx context.Context, id int64) (bool, error)
	CreateAlert(ctx context.Context, alert *models.Alert) error
}

// Dispatcher delivers a rendered alert through the configured channels.
// Channels are independent: one channel failing never blocks another, and
// no channel outcome rolls back the event claim.
type Dispatcher struct {
	ledger      Ledger
	webhook     *WebhookSender
	broadcaster *Broadcaster
	email       *EmailSender
	recipient   string
	logger      *logging.Logger
}

// NewDispatcher wires the delivery channels. recipient is the default email
// recipient; when empty, the email channel is not attempted per event.
func NewDispatcher(ledger Ledger, webhook *WebhookSender, broadcaster *Broadcaster, email *EmailSender, recipient string, logger *logging.Logger) *Dispatcher {
	return &Dispatcher{
		ledger:      ledger,
		webhook:     webhook,
		broadcaster: broadcaster,
		email:       email,
		recipient:   recipient,
		logger:      logger,
	}
}

// Dispatch claims the event and, if this caller won the claim, delivers the
// alert: webhook first, then the live broadcast, then email when a recipient
// is configured. Returns whether the event was dispatched by this call.
//
// The claim happens before any delivery so that overlapping poll ticks or
// concurrent pollers alert on a given event at most once.
func (d *Dispatcher) Dispatch(ctx context.Context, event *models.SecurityEvent, message string) (bool, error) {
	claimed, err := d.ledger.ClaimEvent(ctx, event.ID)
	if err != nil {
		return false, err
	}
	if !claimed {
		d.logger.DebugContext(ctx, "event already claimed", logging.EventID(event.ID))
		return false, nil
	}
	metrics.EventsClaimed.Inc()

	// 1. Webhook
	webhookAlert := &models.Alert{
		SecurityEventID: event.ID,
		Channel:         models.ChannelWebhook,
		Message:         message,
		Status:          models.AlertStatusPending,
	}
	d.webhook.Send(ctx, webhookAlert)
	d.record(ctx, webhookAlert)

	// 2. Live broadcast to connected dashboards (no ledger row)
	d.broadcaster.Broadcast(ctx, event, message)
	metrics.DispatchTotal.WithLabelValues(strings.ToLower(models.ChannelBroadcast), "published").Inc()

	// 3. Email, only when a recipient is configured
	if d.recipient != "" {
		recipient := d.recipient
		emailAlert := &models.Alert{
			SecurityEventID: event.ID,
			Channel:         models.ChannelEmail,
			Recipient:       &recipient,
			Message:         message,
			Status:          models.AlertStatusPending,
		}
		d.email.Send(ctx, emailAlert)
		d.record(ctx, emailAlert)
	}

	d.logger.InfoContext(ctx, "alert dispatched",
		logging.EventID(event.ID),
		"event_type", event.EventType,
		logging.Severity(event.Severity),
	)

	return true, nil
}

func (d *Dispatcher) record(ctx context.Context, alert *models.Alert) {
	metrics.DispatchTotal.WithLabelValues(strings.ToLower(alert.Channel), strings.ToLower(alert.Status)).Inc()
	if err := d.ledger.CreateAlert(ctx, alert); err != nil {
		d.logger.ErrorContext(ctx, "failed to record alert",
			logging.Error(err),
			logging.EventID(alert.SecurityEventID),
			logging.Channel(alert.Channel),
		)
	}
}
