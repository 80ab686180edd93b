package worker

import (
	"context"
	"time"

	"github.com/LOAD-13/boc-forms-backend/internal/service"
	"github.com/rs/zerolog"
)

// ExpiryWorker periodically flips overdue assignments to EXPIRED.
type ExpiryWorker struct {
	assignmentService *service.AssignmentService
	interval          time.Duration
	log               zerolog.Logger
}

// NewExpiryWorker creates a new ExpiryWorker.
func NewExpiryWorker(assignmentService *service.AssignmentService, interval time.Duration, log zerolog.Logger) *ExpiryWorker {
	return &ExpiryWorker{
		assignmentService: assignmentService,
		interval:          interval,
		log:               log.With().Str("component", "expiry_worker").Logger(),
	}
}

// Start begins the ticker loop. Call in a goroutine.
func (w *ExpiryWorker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("Worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Run one pass immediately so stale rows from downtime are caught.
	w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *ExpiryWorker) runOnce(ctx context.Context) {
	expired, err := w.assignmentService.ExpireDue(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("Expiry pass failed")
		return
	}

	if expired > 0 {
		w.log.Info().Int("count", expired).Msg("Assignments expired")
	}
}
