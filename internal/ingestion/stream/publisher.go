// Package stream publishes stored log records onto a Redis Stream for
// consumption by the external detection subsystem.
package stream

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sena980909/AI-SIEM/internal/ingestion/models"
)

// DefaultStreamKey is the handoff stream consumed by the detection service.
const DefaultStreamKey = "aisiem:logs"

// Publisher appends log records to a named Redis Stream.
// Consumers rely on a fixed schema: every field is always present, with
// absent optional values serialized as empty strings.
type Publisher struct {
	client *redis.Client
	stream string
}

// NewPublisher creates a Publisher from a Redis URL.
func NewPublisher(redisURL, streamKey string) (*Publisher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	if streamKey == "" {
		streamKey = DefaultStreamKey
	}
	return &Publisher{
		client: redis.NewClient(opts),
		stream: streamKey,
	}, nil
}

// NewPublisherWithClient wraps an existing Redis client. Used in tests.
func NewPublisherWithClient(client *redis.Client, streamKey string) *Publisher {
	if streamKey == "" {
		streamKey = DefaultStreamKey
	}
	return &Publisher{client: client, stream: streamKey}
}

// Publish appends one record to the stream. The raw payload is not put on
// the wire; detectors fetch it from the log store by record ID when needed.
func (p *Publisher) Publish(ctx context.Context, record *models.LogRecord) error {
	statusCode := ""
	if record.StatusCode != nil {
		statusCode = strconv.Itoa(*record.StatusCode)
	}

	values := map[string]interface{}{
		"id":         record.ID,
		"timestamp":  record.Timestamp.UTC().Format(time.RFC3339Nano),
		"source":     record.Source,
		"logLevel":   record.LogLevel,
		"message":    record.Message,
		"sourceIp":   record.SourceIP,
		"userId":     record.UserID,
		"endpoint":   record.Endpoint,
		"method":     record.Method,
		"statusCode": statusCode,
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: values,
	}).Err(); err != nil {
		return fmt.Errorf("failed to publish to stream %s: %w", p.stream, err)
	}

	return nil
}

// Ping reports whether Redis is reachable.
func (p *Publisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close releases the underlying Redis connection.
func (p *Publisher) Close() error {
	return p.client.Close()
}
