package models

import "time"

// LogRecord is the canonical shape of an ingested log entry.
// Records are immutable once written to the log store.
type LogRecord struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Source     string    `json:"source"`
	LogLevel   string    `json:"logLevel"`
	Message    string    `json:"message"`
	SourceIP   string    `json:"sourceIp,omitempty"`
	UserID     string    `json:"userId,omitempty"`
	Endpoint   string    `json:"endpoint,omitempty"`
	Method     string    `json:"method,omitempty"`
	StatusCode *int      `json:"statusCode,omitempty"`
	RawData    string    `json:"rawData,omitempty"`
}

// IngestRequest is the inbound payload for a single log entry.
type IngestRequest struct {
	Source     string `json:"source"`
	LogLevel   string `json:"logLevel,omitempty"`
	Message    string `json:"message"`
	SourceIP   string `json:"sourceIp,omitempty"`
	UserID     string `json:"userId,omitempty"`
	Endpoint   string `json:"endpoint,omitempty"`
	Method     string `json:"method,omitempty"`
	StatusCode *int   `json:"statusCode,omitempty"`
	RawData    string `json:"rawData,omitempty"`
}

// BatchRequest wraps multiple ingest requests.
type BatchRequest struct {
	Logs []IngestRequest `json:"logs"`
}

// IngestResponse is returned for each ingested log entry.
type IngestResponse struct {
	ID        string    `json:"id,omitempty"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp,omitempty"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
}

// Ingest statuses.
const (
	StatusIngested = "INGESTED"
	StatusRejected = "REJECTED"
)

// Ingested builds a success response for a stored record.
func Ingested(id, source string, ts time.Time) IngestResponse {
	return IngestResponse{
		ID:        id,
		Source:    source,
		Timestamp: ts,
		Status:    StatusIngested,
	}
}

// Rejected builds a per-item failure response for batch ingestion.
func Rejected(source string, err error) IngestResponse {
	return IngestResponse{
		Source: source,
		Status: StatusRejected,
		Error:  err.Error(),
	}
}
