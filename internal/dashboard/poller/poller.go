// Package poller drives the periodic scan for newly detected security events.
package poller

import (
	"context"
	"time"

	"github.com/sena980909/AI-SIEM/internal/common/logging"
	"github.com/sena980909/AI-SIEM/internal/dashboard/decision"
	"github.com/sena980909/AI-SIEM/internal/dashboard/metrics"
	"github.com/sena980909/AI-SIEM/internal/dashboard/models"
)

// EventSource lists events awaiting triage.
type EventSource interface {
	FindNewEvents(ctx context.Context) ([]*models.SecurityEvent, error)
}

// Dispatcher delivers a decided alert for one event.
type Dispatcher interface {
	Dispatch(ctx context.Context, event *models.SecurityEvent, message string) (bool, error)
}

// Poller periodically scans for NEW security events and hands alertable ones
// to the dispatcher. There is no poller-local cursor: correctness depends
// entirely on the store's status field and the dispatcher's atomic claim.
type Poller struct {
	source     EventSource
	dispatcher Dispatcher
	logger     *logging.Logger
}

// New creates a poller.
func New(source EventSource, dispatcher Dispatcher, logger *logging.Logger) *Poller {
	return &Poller{
		source:     source,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Run starts the polling loop. It ticks on the given interval, running once
// immediately, and stops when ctx is cancelled.
func (p *Poller) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.logger.Info("event poller started", "interval", interval.String())

	p.Poll(ctx)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("event poller stopped")
			return
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Poll performs a single cycle: fetch NEW events (newest first) and process
// them sequentially. One failing event never aborts the rest of the cycle.
func (p *Poller) Poll(ctx context.Context) {
	start := time.Now()
	defer func() {
		metrics.PollCycles.Inc()
		metrics.PollDuration.Observe(time.Since(start).Seconds())
	}()

	events, err := p.source.FindNewEvents(ctx)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to query new events", logging.Error(err))
		return
	}

	if len(events) > 0 {
		p.logger.InfoContext(ctx, "processing new security events", "count", len(events))
	}

	for _, event := range events {
		metrics.EventsObserved.Inc()

		dec := decision.Decide(event)
		if !dec.ShouldAlert {
			continue
		}

		if _, err := p.dispatcher.Dispatch(ctx, event, dec.Message); err != nil {
			p.logger.ErrorContext(ctx, "dispatch failed",
				logging.Error(err),
				logging.EventID(event.ID),
			)
		}
	}
}
