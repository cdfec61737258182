package notify

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"

	"github.com/sena980909/AI-SIEM/internal/common/logging"
	"github.com/sena980909/AI-SIEM/internal/dashboard/models"
)

// DefaultBroadcastSubject is the live-subscriber topic for dashboards.
const DefaultBroadcastSubject = "alerts.live"

// BroadcastPayload is the message pushed to live subscribers for each
// dispatched alert. Optional event fields are serialized as empty strings.
type BroadcastPayload struct {
	EventID     int64  `json:"eventId"`
	EventType   string `json:"eventType"`
	Severity    string `json:"severity"`
	SourceIP    string `json:"sourceIp"`
	Description string `json:"description"`
	DetectedBy  string `json:"detectedBy"`
	Message     string `json:"message"`
}

// Broadcaster publishes alert summaries to a NATS subject.
// Delivery is fire-and-forget: there is no ledger row for this channel and
// failures are only logged. A nil connection disables broadcasting.
type Broadcaster struct {
	conn    *nats.Conn
	subject string
	logger  *logging.Logger
}

// NewBroadcaster connects to NATS. An empty url disables the channel.
func NewBroadcaster(url, subject string, logger *logging.Logger) (*Broadcaster, error) {
	if subject == "" {
		subject = DefaultBroadcastSubject
	}
	b := &Broadcaster{subject: subject, logger: logger}

	if url == "" {
		return b, nil
	}

	conn, err := nats.Connect(url,
		nats.Name("aisiem-dashboard"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, err
	}
	b.conn = conn
	return b, nil
}

// newBroadcastPayload builds the wire payload for one event, substituting
// empty strings for absent optional fields.
func newBroadcastPayload(event *models.SecurityEvent, message string) BroadcastPayload {
	sourceIP := ""
	if event.SourceIP != nil {
		sourceIP = *event.SourceIP
	}

	return BroadcastPayload{
		EventID:     event.ID,
		EventType:   event.EventType,
		Severity:    event.Severity,
		SourceIP:    sourceIP,
		Description: event.Description,
		DetectedBy:  event.DetectedBy,
		Message:     message,
	}
}

// Broadcast publishes the event summary for one dispatched alert.
func (b *Broadcaster) Broadcast(ctx context.Context, event *models.SecurityEvent, message string) {
	if b.conn == nil {
		return
	}

	data, err := json.Marshal(newBroadcastPayload(event, message))
	if err != nil {
		b.logger.ErrorContext(ctx, "failed to marshal broadcast payload", logging.Error(err))
		return
	}

	if err := b.conn.Publish(b.subject, data); err != nil {
		b.logger.ErrorContext(ctx, "broadcast publish failed",
			logging.Error(err),
			logging.EventID(event.ID),
		)
	}
}

// Close drains the NATS connection.
func (b *Broadcaster) Close() {
	if b.conn != nil {
		b.conn.Close()
	}
}
