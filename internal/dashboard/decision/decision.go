// Package decision maps a security event to an alert/no-alert decision.
package decision

import (
	"fmt"

	"github.com/sena980909/AI-SIEM/internal/dashboard/models"
)

// Decision is the outcome of evaluating one security event.
type Decision struct {
	ShouldAlert bool
	Message     string
}

// messageTemplate is the wire format downstream webhook consumers parse.
// The severity appears twice (inline and as a labeled line); that duplication
// is part of the established format and must not be removed.
const messageTemplate = "[AI SIEM ALERT] %s - %s\nSeverity: %s\nSource IP: %s\nDescription: %s\nDetected by: %s (confidence: %.1f%%)"

// Decide evaluates an event. Only HIGH and CRITICAL severities alert.
// Pure function: no I/O, fully deterministic given the event.
func Decide(event *models.SecurityEvent) Decision {
	if event.Severity != models.SeverityHigh && event.Severity != models.SeverityCritical {
		return Decision{}
	}

	sourceIP := ""
	if event.SourceIP != nil {
		sourceIP = *event.SourceIP
	}

	confidence := 0.0
	if event.Confidence != nil {
		confidence = *event.Confidence * 100
	}

	return Decision{
		ShouldAlert: true,
		Message: fmt.Sprintf(messageTemplate,
			event.EventType,
			event.Severity,
			event.Severity,
			sourceIP,
			event.Description,
			event.DetectedBy,
			confidence,
		),
	}
}
