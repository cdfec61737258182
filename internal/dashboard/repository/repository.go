package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sena980909/AI-SIEM/internal/dashboard/models"
)

var (
	ErrEventNotFound = errors.New("security event not found")
)

// Repository defines the interface for security event and alert persistence
type Repository interface {
	// Security event operations
	FindNewEvents(ctx context.Context) ([]*models.SecurityEvent, error)
	// ClaimEvent atomically flips an event from NEW to INVESTIGATING and
	// reports whether this caller won the claim. Dispatch must only happen
	// after a successful claim so that concurrent pollers alert at most once.
	ClaimEvent(ctx context.Context, id int64) (bool, error)
	GetEventByID(ctx context.Context, id int64) (*models.SecurityEvent, error)
	ListEvents(ctx context.Context, filter models.EventFilter) ([]*models.SecurityEvent, error)
	CountEvents(ctx context.Context) (int64, error)
	CountByEventTypeSince(ctx context.Context, since time.Time) (map[string]int64, error)
	CountBySeveritySince(ctx context.Context, since time.Time) (map[string]int64, error)

	// Alert ledger operations
	CreateAlert(ctx context.Context, alert *models.Alert) error
	ListAlerts(ctx context.Context, status string) ([]*models.Alert, error)
	ListAlertsByEvent(ctx context.Context, eventID int64) ([]*models.Alert, error)

	// Utility
	Ping(ctx context.Context) error
	Close() error
}
