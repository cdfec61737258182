package stream

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sena980909/AI-SIEM/internal/ingestion/models"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return mr, client
}

func readStream(t *testing.T, client *redis.Client, key string) []redis.XMessage {
	t.Helper()

	messages, err := client.XRange(context.Background(), key, "-", "+").Result()
	require.NoError(t, err)
	return messages
}

func TestPublish(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()

	publisher := NewPublisherWithClient(client, "")

	statusCode := 401
	ts := time.Date(2026, 3, 14, 12, 0, 0, 123456789, time.UTC)
	record := &models.LogRecord{
		ID:         "doc-1",
		Timestamp:  ts,
		Source:     "auth-service",
		LogLevel:   "WARN",
		Message:    "failed login attempt",
		SourceIP:   "192.168.1.100",
		UserID:     "admin",
		Endpoint:   "/api/login",
		Method:     "POST",
		StatusCode: &statusCode,
		RawData:    `{"attempt":3}`,
	}

	require.NoError(t, publisher.Publish(context.Background(), record))

	messages := readStream(t, client, DefaultStreamKey)
	require.Len(t, messages, 1)

	fields := messages[0].Values
	assert.Equal(t, "doc-1", fields["id"])
	assert.Equal(t, ts.Format(time.RFC3339Nano), fields["timestamp"])
	assert.Equal(t, "auth-service", fields["source"])
	assert.Equal(t, "WARN", fields["logLevel"])
	assert.Equal(t, "failed login attempt", fields["message"])
	assert.Equal(t, "192.168.1.100", fields["sourceIp"])
	assert.Equal(t, "admin", fields["userId"])
	assert.Equal(t, "/api/login", fields["endpoint"])
	assert.Equal(t, "POST", fields["method"])
	assert.Equal(t, "401", fields["statusCode"])

	// Raw payloads stay in the log store; they never go on the wire.
	_, hasRaw := fields["rawData"]
	assert.False(t, hasRaw)
}

func TestPublishAbsentFieldsAsEmptyStrings(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()

	publisher := NewPublisherWithClient(client, "")

	record := &models.LogRecord{
		ID:        "doc-2",
		Timestamp: time.Now().UTC(),
		Source:    "nginx",
		LogLevel:  "INFO",
		Message:   "request completed",
	}

	require.NoError(t, publisher.Publish(context.Background(), record))

	messages := readStream(t, client, DefaultStreamKey)
	require.Len(t, messages, 1)

	for _, key := range []string{"sourceIp", "userId", "endpoint", "method", "statusCode"} {
		value, ok := messages[0].Values[key]
		assert.True(t, ok, "field %s must always be present", key)
		assert.Equal(t, "", value, "field %s must be empty when absent", key)
	}
}

func TestPublishCustomStreamKey(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()

	publisher := NewPublisherWithClient(client, "custom:stream")

	record := &models.LogRecord{
		ID:        "doc-3",
		Timestamp: time.Now().UTC(),
		Source:    "nginx",
		LogLevel:  "INFO",
		Message:   "request completed",
	}
	require.NoError(t, publisher.Publish(context.Background(), record))

	messages := readStream(t, client, "custom:stream")
	assert.Len(t, messages, 1)
}

func TestPublishConnectionFailure(t *testing.T) {
	mr, client := setupTestRedis(t)
	publisher := NewPublisherWithClient(client, "")
	mr.Close()

	record := &models.LogRecord{
		ID:        "doc-4",
		Timestamp: time.Now().UTC(),
		Source:    "nginx",
		LogLevel:  "INFO",
		Message:   "request completed",
	}

	err := publisher.Publish(context.Background(), record)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish to stream")
}

func TestNewPublisherBadURL(t *testing.T) {
	_, err := NewPublisher("not-a-url", "")
	require.Error(t, err)
}

func TestPing(t *testing.T) {
	mr, client := setupTestRedis(t)
	publisher := NewPublisherWithClient(client, "")

	require.NoError(t, publisher.Ping(context.Background()))

	mr.Close()
	assert.Error(t, publisher.Ping(context.Background()))
}
