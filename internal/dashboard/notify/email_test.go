package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sena980909/AI-SIEM/internal/common/logging"
	"github.com/sena980909/AI-SIEM/internal/dashboard/models"
)

// mockEmailAPI is a mock implementation of emailAPI.
type mockEmailAPI struct {
	sendFunc func(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
	sent     []*resend.SendEmailRequest
}

func (m *mockEmailAPI) SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	m.sent = append(m.sent, params)
	if m.sendFunc != nil {
		return m.sendFunc(ctx, params)
	}
	return &resend.SendEmailResponse{Id: "email-1"}, nil
}

func TestEmailSend(t *testing.T) {
	api := &mockEmailAPI{}
	sender := newEmailSenderWithAPI(api, "alerts@aisiem.local", logging.Default())

	recipient := "soc@example.com"
	alert := &models.Alert{
		SecurityEventID: 1,
		Channel:         models.ChannelEmail,
		Recipient:       &recipient,
		Message:         "[AI SIEM ALERT] BRUTE_FORCE - HIGH",
		Status:          models.AlertStatusPending,
	}

	sender.Send(context.Background(), alert)

	assert.Equal(t, models.AlertStatusSent, alert.Status)
	assert.NotNil(t, alert.SentAt)
	require.Len(t, api.sent, 1)
	assert.Equal(t, "alerts@aisiem.local", api.sent[0].From)
	assert.Equal(t, []string{"soc@example.com"}, api.sent[0].To)
	assert.Equal(t, "[AI SIEM] Security Alert", api.sent[0].Subject)
	assert.Equal(t, "[AI SIEM ALERT] BRUTE_FORCE - HIGH", api.sent[0].Text)
}

func TestEmailUnconfigured(t *testing.T) {
	sender := NewEmailSender("", "alerts@aisiem.local", logging.Default())
	assert.False(t, sender.Configured())

	alert := &models.Alert{
		SecurityEventID: 2,
		Channel:         models.ChannelEmail,
		Message:         "no transport",
		Status:          models.AlertStatusPending,
	}

	sender.Send(context.Background(), alert)

	// No transport means SKIPPED, not a local-mode success.
	assert.Equal(t, models.AlertStatusSkipped, alert.Status)
	assert.Nil(t, alert.SentAt)
}

func TestEmailTransportFailure(t *testing.T) {
	api := &mockEmailAPI{
		sendFunc: func(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
			return nil, errors.New("rate limited")
		},
	}
	sender := newEmailSenderWithAPI(api, "alerts@aisiem.local", logging.Default())

	recipient := "soc@example.com"
	alert := &models.Alert{
		SecurityEventID: 3,
		Channel:         models.ChannelEmail,
		Recipient:       &recipient,
		Message:         "transport failure",
		Status:          models.AlertStatusPending,
	}

	sender.Send(context.Background(), alert)

	assert.Equal(t, models.AlertStatusFailed, alert.Status)
	assert.Nil(t, alert.SentAt)
}

func TestEmailConfigured(t *testing.T) {
	sender := NewEmailSender("re_test_key", "alerts@aisiem.local", logging.Default())
	assert.True(t, sender.Configured())
}
