package logging

import "log/slog"

// Common field names for consistent logging across services.
const (
	FieldService  = "service"
	FieldSource   = "source"
	FieldIP       = "ip"
	FieldStatus   = "status"
	FieldError    = "error"
	FieldEventID  = "event_id"
	FieldAlertID  = "alert_id"
	FieldChannel  = "channel"
	FieldSeverity = "severity"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// Source returns a slog attribute for a log source.
func Source(source string) slog.Attr {
	return slog.String(FieldSource, source)
}

// IP returns a slog attribute for the IP address.
func IP(ip string) slog.Attr {
	return slog.String(FieldIP, ip)
}

// Status returns a slog attribute for a status value.
func Status(status string) slog.Attr {
	return slog.String(FieldStatus, status)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}

// EventID returns a slog attribute for a security event ID.
func EventID(id int64) slog.Attr {
	return slog.Int64(FieldEventID, id)
}

// Channel returns a slog attribute for a notification channel.
func Channel(channel string) slog.Attr {
	return slog.String(FieldChannel, channel)
}

// Severity returns a slog attribute for an event severity.
func Severity(severity string) slog.Attr {
	return slog.String(FieldSeverity, severity)
}
