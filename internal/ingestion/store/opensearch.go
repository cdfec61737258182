// Package store persists log records in OpenSearch.
//
// The index is search-backed and eventually consistent: a Write followed
// immediately by a Find is not guaranteed to observe the record until the
// index refresh interval has elapsed. Callers must not treat that as an error.
package store

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/opensearch-project/opensearch-go/v2"

	"github.com/sena980909/AI-SIEM/internal/ingestion/models"
)

// searchSize caps the number of hits returned per query.
const searchSize = 1000

// Config holds OpenSearch connection settings.
type Config struct {
	URL      string
	Username string
	Password string
	Insecure bool
	Index    string
}

// Store is an append-only, queryable log store backed by OpenSearch.
type Store struct {
	client *opensearch.Client
	index  string
}

// document is the indexed shape of a log record. Timestamps are stored as
// epoch millis to match the index date mapping.
type document struct {
	Timestamp  int64  `json:"timestamp"`
	Source     string `json:"source"`
	LogLevel   string `json:"logLevel"`
	Message    string `json:"message"`
	SourceIP   string `json:"sourceIp,omitempty"`
	UserID     string `json:"userId,omitempty"`
	Endpoint   string `json:"endpoint,omitempty"`
	Method     string `json:"method,omitempty"`
	StatusCode *int   `json:"statusCode,omitempty"`
	RawData    string `json:"rawData,omitempty"`
}

// New creates a Store and verifies connectivity.
func New(cfg Config) (*Store, error) {
	httpClient := &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: cfg.Insecure,
			},
		},
	}

	osCfg := opensearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: httpClient.Transport,
	}

	client, err := opensearch.NewClient(osCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create opensearch client: %w", err)
	}

	info, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to ping opensearch: %w", err)
	}
	defer info.Body.Close()

	if info.IsError() {
		return nil, fmt.Errorf("opensearch returned error: %s", info.Status())
	}

	return &Store{client: client, index: cfg.Index}, nil
}

// EnsureIndex creates the log index with its mappings if it does not exist.
func (s *Store) EnsureIndex(ctx context.Context) error {
	exists, err := s.client.Indices.Exists(
		[]string{s.index},
		s.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to check index: %w", err)
	}
	defer exists.Body.Close()

	if exists.StatusCode == http.StatusOK {
		return nil
	}

	body, err := json.Marshal(map[string]interface{}{
		"settings": map[string]interface{}{
			"number_of_shards":   1,
			"number_of_replicas": 0,
		},
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"timestamp":  map[string]string{"type": "date", "format": "epoch_millis"},
				"source":     map[string]string{"type": "keyword"},
				"logLevel":   map[string]string{"type": "keyword"},
				"message":    map[string]string{"type": "text"},
				"sourceIp":   map[string]string{"type": "keyword"},
				"userId":     map[string]string{"type": "keyword"},
				"endpoint":   map[string]string{"type": "keyword"},
				"method":     map[string]string{"type": "keyword"},
				"statusCode": map[string]string{"type": "integer"},
				"rawData":    map[string]string{"type": "text"},
			},
		},
	})
	if err != nil {
		return err
	}

	res, err := s.client.Indices.Create(
		s.index,
		s.client.Indices.Create.WithBody(bytes.NewReader(body)),
		s.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		resBody, _ := io.ReadAll(res.Body)
		return fmt.Errorf("failed to create index: %s - %s", res.Status(), string(resBody))
	}

	return nil
}

// Write indexes a record and returns its assigned identity.
func (s *Store) Write(ctx context.Context, record *models.LogRecord) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate record id: %w", err)
	}

	doc := document{
		Timestamp:  record.Timestamp.UnixMilli(),
		Source:     record.Source,
		LogLevel:   record.LogLevel,
		Message:    record.Message,
		SourceIP:   record.SourceIP,
		UserID:     record.UserID,
		Endpoint:   record.Endpoint,
		Method:     record.Method,
		StatusCode: record.StatusCode,
		RawData:    record.RawData,
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal document: %w", err)
	}

	res, err := s.client.Index(
		s.index,
		bytes.NewReader(body),
		s.client.Index.WithDocumentID(id.String()),
		s.client.Index.WithContext(ctx),
	)
	if err != nil {
		return "", fmt.Errorf("failed to index document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		resBody, _ := io.ReadAll(res.Body)
		return "", fmt.Errorf("index request failed: %s - %s", res.Status(), string(resBody))
	}

	record.ID = id.String()
	return id.String(), nil
}

// FindBySource returns records matching the given source.
func (s *Store) FindBySource(ctx context.Context, source string) ([]models.LogRecord, error) {
	return s.search(ctx, map[string]interface{}{
		"term": map[string]interface{}{"source": source},
	})
}

// FindByIPAndRange returns records for a source IP within [from, to].
func (s *Store) FindByIPAndRange(ctx context.Context, ip string, from, to time.Time) ([]models.LogRecord, error) {
	return s.search(ctx, map[string]interface{}{
		"bool": map[string]interface{}{
			"filter": []map[string]interface{}{
				{"term": map[string]interface{}{"sourceIp": ip}},
				{"range": map[string]interface{}{
					"timestamp": map[string]interface{}{
						"gte": from.UnixMilli(),
						"lte": to.UnixMilli(),
					},
				}},
			},
		},
	})
}

// FindByLevel returns records matching the given log level.
func (s *Store) FindByLevel(ctx context.Context, level string) ([]models.LogRecord, error) {
	return s.search(ctx, map[string]interface{}{
		"term": map[string]interface{}{"logLevel": level},
	})
}

// Ping reports whether the cluster is reachable.
func (s *Store) Ping(ctx context.Context) error {
	info, err := s.client.Info(s.client.Info.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to ping opensearch: %w", err)
	}
	defer info.Body.Close()

	if info.IsError() {
		return fmt.Errorf("opensearch returned error: %s", info.Status())
	}
	return nil
}

func (s *Store) search(ctx context.Context, query map[string]interface{}) ([]models.LogRecord, error) {
	body, err := json.Marshal(map[string]interface{}{
		"query": query,
		"sort": []map[string]interface{}{
			{"timestamp": map[string]string{"order": "desc"}},
		},
		"size": searchSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		resBody, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("search failed: %s - %s", res.Status(), string(resBody))
	}

	var searchResp struct {
		Hits struct {
			Hits []struct {
				ID     string   `json:"_id"`
				Source document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	records := make([]models.LogRecord, 0, len(searchResp.Hits.Hits))
	for _, hit := range searchResp.Hits.Hits {
		doc := hit.Source
		records = append(records, models.LogRecord{
			ID:         hit.ID,
			Timestamp:  time.UnixMilli(doc.Timestamp).UTC(),
			Source:     doc.Source,
			LogLevel:   doc.LogLevel,
			Message:    doc.Message,
			SourceIP:   doc.SourceIP,
			UserID:     doc.UserID,
			Endpoint:   doc.Endpoint,
			Method:     doc.Method,
			StatusCode: doc.StatusCode,
			RawData:    doc.RawData,
		})
	}

	return records, nil
}
