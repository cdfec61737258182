package models

import "time"

// Event severities, ordered by urgency.
const (
	SeverityLow      = "LOW"
	SeverityMedium   = "MEDIUM"
	SeverityHigh     = "HIGH"
	SeverityCritical = "CRITICAL"
)

// Event statuses. Events are created as NEW by the detection subsystem;
// the dispatcher claims them into INVESTIGATING; later transitions belong
// to the external triage workflow.
const (
	EventStatusNew           = "NEW"
	EventStatusInvestigating = "INVESTIGATING"
	EventStatusResolved      = "RESOLVED"
	EventStatusClosed        = "CLOSED"
)

// Notification channels.
const (
	ChannelWebhook   = "WEBHOOK"
	ChannelEmail     = "EMAIL"
	ChannelBroadcast = "BROADCAST"
)

// Alert statuses. PENDING is the only valid start state; the rest are terminal.
const (
	AlertStatusPending = "PENDING"
	AlertStatusSent    = "SENT"
	AlertStatusFailed  = "FAILED"
	AlertStatusSkipped = "SKIPPED"
)

// SecurityEvent is a detected anomalous condition produced by the external
// detection subsystem from ingested log data.
type SecurityEvent struct {
	ID          int64     `json:"id"`
	LogEntryID  *string   `json:"logEntryId,omitempty"`
	EventType   string    `json:"eventType"`
	Severity    string    `json:"severity"`
	Description string    `json:"description"`
	SourceIP    *string   `json:"sourceIp,omitempty"`
	DetectedBy  string    `json:"detectedBy"`
	RuleID      *int64    `json:"ruleId,omitempty"`
	Confidence  *float64  `json:"confidence,omitempty"`
	Status      string    `json:"status"`
	RawLog      *string   `json:"rawLog,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Alert is one attempted notification delivery on one channel for one
// security event. Alert rows are append-only; a terminal status is never
// rewritten.
type Alert struct {
	ID              int64      `json:"id"`
	SecurityEventID int64      `json:"securityEventId"`
	Channel         string     `json:"channel"`
	Recipient       *string    `json:"recipient,omitempty"`
	Message         string     `json:"message"`
	Status          string     `json:"status"`
	SentAt          *time.Time `json:"sentAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// EventFilter selects events for the dashboard list endpoint.
// Filters are mutually exclusive; the first non-empty one wins.
type EventFilter struct {
	Status    string
	EventType string
	Severity  string
}

// Summary aggregates event counts for the dashboard.
type Summary struct {
	PeriodHours      int              `json:"period_hours"`
	TotalEvents      int64            `json:"total_events"`
	EventsByType     map[string]int64 `json:"events_by_type"`
	EventsBySeverity map[string]int64 `json:"events_by_severity"`
}

// ValidSeverity reports whether s is a known severity.
func ValidSeverity(s string) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// ValidEventStatus reports whether s is a known event status.
func ValidEventStatus(s string) bool {
	switch s {
	case EventStatusNew, EventStatusInvestigating, EventStatusResolved, EventStatusClosed:
		return true
	}
	return false
}
