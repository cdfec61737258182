// Package normalizer converts inbound ingest requests into canonical log records.
package normalizer

import (
	"fmt"
	"strings"
	"time"

	"github.com/sena980909/AI-SIEM/internal/ingestion/models"
)

// DefaultLogLevel is applied when a request carries no level.
const DefaultLogLevel = "INFO"

// ValidationError reports a malformed or missing required field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Normalize validates req and produces a canonical LogRecord.
// The record carries no identity; the log store assigns one at write time.
// Normalize is a pure transform apart from reading the clock.
func Normalize(req *models.IngestRequest) (*models.LogRecord, error) {
	if strings.TrimSpace(req.Source) == "" {
		return nil, &ValidationError{Field: "source", Reason: "is required"}
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, &ValidationError{Field: "message", Reason: "is required"}
	}

	level := req.LogLevel
	if level == "" {
		level = DefaultLogLevel
	}

	return &models.LogRecord{
		Timestamp:  time.Now().UTC(),
		Source:     req.Source,
		LogLevel:   level,
		Message:    req.Message,
		SourceIP:   req.SourceIP,
		UserID:     req.UserID,
		Endpoint:   req.Endpoint,
		Method:     req.Method,
		StatusCode: req.StatusCode,
		RawData:    req.RawData,
	}, nil
}
