package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sena980909/AI-SIEM/internal/dashboard/models"
)

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(ctx context.Context, connString string) (*PostgresRepository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

const eventColumns = `
	id, log_entry_id, event_type, severity, description, source_ip,
	detected_by, rule_id, confidence, status, raw_log, created_at, updated_at
`

// FindNewEvents returns all events still in NEW status, newest first.
func (r *PostgresRepository) FindNewEvents(ctx context.Context) ([]*models.SecurityEvent, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM security_event
		WHERE status = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, models.EventStatusNew)
	if err != nil {
		return nil, fmt.Errorf("failed to query new events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ClaimEvent performs the atomic NEW -> INVESTIGATING transition.
// Returns false when another poller already claimed the event.
func (r *PostgresRepository) ClaimEvent(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE security_event
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
	`

	tag, err := r.pool.Exec(ctx, query, models.EventStatusInvestigating, id, models.EventStatusNew)
	if err != nil {
		return false, fmt.Errorf("failed to claim event %d: %w", id, err)
	}

	return tag.RowsAffected() == 1, nil
}

// GetEventByID retrieves a single event.
func (r *PostgresRepository) GetEventByID(ctx context.Context, id int64) (*models.SecurityEvent, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM security_event
		WHERE id = $1
	`

	e := &models.SecurityEvent{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.LogEntryID, &e.EventType, &e.Severity, &e.Description,
		&e.SourceIP, &e.DetectedBy, &e.RuleID, &e.Confidence, &e.Status,
		&e.RawLog, &e.CreatedAt, &e.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event %d: %w", id, err)
	}

	return e, nil
}

// ListEvents returns events matching the filter; the first non-empty filter
// field wins and the rest are ignored.
func (r *PostgresRepository) ListEvents(ctx context.Context, filter models.EventFilter) ([]*models.SecurityEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM security_event`
	args := []interface{}{}

	switch {
	case filter.Status != "":
		query += ` WHERE status = $1`
		args = append(args, filter.Status)
	case filter.EventType != "":
		query += ` WHERE event_type = $1`
		args = append(args, filter.EventType)
	case filter.Severity != "":
		query += ` WHERE severity = $1`
		args = append(args, filter.Severity)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// CountEvents returns the total number of stored events.
func (r *PostgresRepository) CountEvents(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM security_event`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

// CountByEventTypeSince groups event counts by type within the trailing window.
func (r *PostgresRepository) CountByEventTypeSince(ctx context.Context, since time.Time) (map[string]int64, error) {
	return r.countGroupedSince(ctx, "event_type", since)
}

// CountBySeveritySince groups event counts by severity within the trailing window.
func (r *PostgresRepository) CountBySeveritySince(ctx context.Context, since time.Time) (map[string]int64, error) {
	return r.countGroupedSince(ctx, "severity", since)
}

func (r *PostgresRepository) countGroupedSince(ctx context.Context, column string, since time.Time) (map[string]int64, error) {
	// column is one of the two fixed callers above, never user input
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*)
		FROM security_event
		WHERE created_at >= $1
		GROUP BY %s
	`, column, column)

	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count events by %s: %w", column, err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		counts[key] = count
	}

	return counts, rows.Err()
}

// CreateAlert appends one dispatch attempt to the alert ledger.
func (r *PostgresRepository) CreateAlert(ctx context.Context, alert *models.Alert) error {
	query := `
		INSERT INTO alert (security_event_id, channel, recipient, message, status, sent_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		alert.SecurityEventID, alert.Channel, alert.Recipient,
		alert.Message, alert.Status, alert.SentAt,
	).Scan(&alert.ID, &alert.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}

	return nil
}

const alertColumns = `id, security_event_id, channel, recipient, message, status, sent_at, created_at`

// ListAlerts returns alerts, optionally filtered by status.
func (r *PostgresRepository) ListAlerts(ctx context.Context, status string) ([]*models.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alert`
	args := []interface{}{}

	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	return scanAlerts(rows)
}

// ListAlertsByEvent returns all alerts recorded for one security event.
func (r *PostgresRepository) ListAlertsByEvent(ctx context.Context, eventID int64) ([]*models.Alert, error) {
	query := `
		SELECT ` + alertColumns + `
		FROM alert
		WHERE security_event_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts for event %d: %w", eventID, err)
	}
	defer rows.Close()

	return scanAlerts(rows)
}

// Ping verifies database connectivity.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close releases the connection pool.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

func scanEvents(rows pgx.Rows) ([]*models.SecurityEvent, error) {
	events := []*models.SecurityEvent{}
	for rows.Next() {
		e := &models.SecurityEvent{}
		if err := rows.Scan(
			&e.ID, &e.LogEntryID, &e.EventType, &e.Severity, &e.Description,
			&e.SourceIP, &e.DetectedBy, &e.RuleID, &e.Confidence, &e.Status,
			&e.RawLog, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func scanAlerts(rows pgx.Rows) ([]*models.Alert, error) {
	alerts := []*models.Alert{}
	for rows.Next() {
		a := &models.Alert{}
		if err := rows.Scan(
			&a.ID, &a.SecurityEventID, &a.Channel, &a.Recipient,
			&a.Message, &a.Status, &a.SentAt, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan alert row: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}
