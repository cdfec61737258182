package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sena980909/AI-SIEM/internal/common/logging"
	"github.com/sena980909/AI-SIEM/internal/ingestion/metrics"
	"github.com/sena980909/AI-SIEM/internal/ingestion/models"
	"github.com/sena980909/AI-SIEM/internal/ingestion/normalizer"
)

// LogStore is the durable, queryable store of normalized log records.
type LogStore interface {
	Write(ctx context.Context, record *models.LogRecord) (string, error)
	FindBySource(ctx context.Context, source string) ([]models.LogRecord, error)
	FindByIPAndRange(ctx context.Context, ip string, from, to time.Time) ([]models.LogRecord, error)
	FindByLevel(ctx context.Context, level string) ([]models.LogRecord, error)
}

// StreamPublisher hands stored records off to the detection subsystem.
type StreamPublisher interface {
	Publish(ctx context.Context, record *models.LogRecord) error
}

// Service implements log ingestion: normalize, persist, then hand off.
type Service struct {
	store     LogStore
	publisher StreamPublisher
	logger    *logging.Logger
}

// New creates an ingestion service.
func New(store LogStore, publisher StreamPublisher, logger *logging.Logger) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// Ingest validates, persists and publishes a single log entry.
// A stream publish failure does not fail the request: the record is durable
// once written to the store, and stream delivery is best-effort fan-out.
func (s *Service) Ingest(ctx context.Context, req *models.IngestRequest) (models.IngestResponse, error) {
	record, err := normalizer.Normalize(req)
	if err != nil {
		metrics.LogsTotal.WithLabelValues("rejected").Inc()
		return models.IngestResponse{}, err
	}

	start := time.Now()
	id, err := s.store.Write(ctx, record)
	metrics.StorageDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.StorageErrors.Inc()
		metrics.LogsTotal.WithLabelValues("error").Inc()
		return models.IngestResponse{}, fmt.Errorf("failed to store log record: %w", err)
	}

	s.logger.InfoContext(ctx, "log ingested",
		"id", id,
		logging.Source(record.Source),
	)

	if err := s.publisher.Publish(ctx, record); err != nil {
		metrics.StreamErrors.Inc()
		s.logger.ErrorContext(ctx, "stream publish failed", logging.Error(err), "id", id)
	} else {
		metrics.StreamPublished.Inc()
	}

	metrics.LogsTotal.WithLabelValues("ingested").Inc()
	return models.Ingested(id, record.Source, record.Timestamp), nil
}

// IngestBatch processes each item independently (best-effort): a rejected or
// failed item is reported in place and never aborts the rest of the batch.
func (s *Service) IngestBatch(ctx context.Context, reqs []models.IngestRequest) []models.IngestResponse {
	responses := make([]models.IngestResponse, 0, len(reqs))
	for i := range reqs {
		resp, err := s.Ingest(ctx, &reqs[i])
		if err != nil {
			responses = append(responses, models.Rejected(reqs[i].Source, err))
			continue
		}
		responses = append(responses, resp)
	}
	return responses
}

// SearchBySource returns stored records for a source.
func (s *Service) SearchBySource(ctx context.Context, source string) ([]models.LogRecord, error) {
	return s.store.FindBySource(ctx, source)
}

// SearchByIP returns stored records for a source IP within a time range.
func (s *Service) SearchByIP(ctx context.Context, ip string, from, to time.Time) ([]models.LogRecord, error) {
	return s.store.FindByIPAndRange(ctx, ip, from, to)
}

// SearchByLevel returns stored records for a log level.
func (s *Service) SearchByLevel(ctx context.Context, level string) ([]models.LogRecord, error) {
	return s.store.FindByLevel(ctx, level)
}
