package notify

import (
	"context"
	"time"

	"github.com/resend/resend-go/v2"

	"github.com/sena980909/AI-SIEM/internal/common/logging"
	"github.com/sena980909/AI-SIEM/internal/dashboard/models"
)

const emailSubject = "[AI SIEM] Security Alert"

// emailAPI is the slice of the Resend client the sender uses. Mocked in tests.
type emailAPI interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// EmailSender delivers alert messages by email through Resend.
// Unlike the webhook channel, a missing transport yields SKIPPED rather than
// a local-mode success: email needs a concrete recipient, so transport
// presence is the signal.
type EmailSender struct {
	emails emailAPI
	from   string
	logger *logging.Logger
}

// NewEmailSender creates an email sender. An empty apiKey leaves the sender
// unconfigured; every send is then marked SKIPPED.
func NewEmailSender(apiKey, from string, logger *logging.Logger) *EmailSender {
	s := &EmailSender{from: from, logger: logger}
	if apiKey != "" {
		s.emails = resend.NewClient(apiKey).Emails
	}
	return s
}

// newEmailSenderWithAPI wires a custom transport. Used in tests.
func newEmailSenderWithAPI(api emailAPI, from string, logger *logging.Logger) *EmailSender {
	return &EmailSender{emails: api, from: from, logger: logger}
}

// Configured reports whether a mail transport is available.
func (s *EmailSender) Configured() bool {
	return s.emails != nil
}

// Send delivers the alert message to alert.Recipient and records the outcome:
// SKIPPED when no transport is configured, FAILED on transport error,
// SENT otherwise.
func (s *EmailSender) Send(ctx context.Context, alert *models.Alert) {
	if s.emails == nil {
		s.logger.DebugContext(ctx, "mail transport not configured, skipping email")
		alert.Status = models.AlertStatusSkipped
		return
	}

	recipient := ""
	if alert.Recipient != nil {
		recipient = *alert.Recipient
	}

	_, err := s.emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{recipient},
		Subject: emailSubject,
		Text:    alert.Message,
	})
	if err != nil {
		alert.Status = models.AlertStatusFailed
		s.logger.ErrorContext(ctx, "email failed",
			logging.Error(err),
			logging.EventID(alert.SecurityEventID),
		)
		return
	}

	alert.Status = models.AlertStatusSent
	now := time.Now().UTC()
	alert.SentAt = &now
	s.logger.InfoContext(ctx, "email sent", "recipient", recipient)
}
