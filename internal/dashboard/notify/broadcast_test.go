package notify

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sena980909/AI-SIEM/internal/common/logging"
	"github.com/sena980909/AI-SIEM/internal/dashboard/models"
)

func TestNewBroadcastPayload(t *testing.T) {
	sourceIP := "192.168.1.100"
	event := &models.SecurityEvent{
		ID:          7,
		EventType:   "BRUTE_FORCE",
		Severity:    models.SeverityCritical,
		Description: "5 failed logins within 60 seconds",
		SourceIP:    &sourceIP,
		DetectedBy:  "AI",
	}

	payload := newBroadcastPayload(event, "rendered message")

	assert.Equal(t, int64(7), payload.EventID)
	assert.Equal(t, "BRUTE_FORCE", payload.EventType)
	assert.Equal(t, models.SeverityCritical, payload.Severity)
	assert.Equal(t, "192.168.1.100", payload.SourceIP)
	assert.Equal(t, "5 failed logins within 60 seconds", payload.Description)
	assert.Equal(t, "AI", payload.DetectedBy)
	assert.Equal(t, "rendered message", payload.Message)
}

func TestNewBroadcastPayloadAbsentOptionals(t *testing.T) {
	event := &models.SecurityEvent{
		ID:         8,
		EventType:  "ANOMALY",
		Severity:   models.SeverityHigh,
		DetectedBy: "RULE",
	}

	payload := newBroadcastPayload(event, "msg")

	// Wire shape keeps every field present with empty strings, never nulls.
	data, err := json.Marshal(payload)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "", raw["sourceIp"])
	assert.Equal(t, "", raw["description"])
}

func TestBroadcastDisabled(t *testing.T) {
	b, err := NewBroadcaster("", "", logging.Default())
	require.NoError(t, err)
	defer b.Close()

	// A disabled broadcaster is a no-op; this must not panic.
	b.Broadcast(context.Background(), &models.SecurityEvent{ID: 1}, "msg")
}

func TestNewBroadcasterDefaultSubject(t *testing.T) {
	b, err := NewBroadcaster("", "", logging.Default())
	require.NoError(t, err)
	assert.Equal(t, DefaultBroadcastSubject, b.subject)
}
