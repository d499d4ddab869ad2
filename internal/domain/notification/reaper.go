package notification

import (
	"context"
	"log/slog"
	"time"
)

// ReaperConfig holds configuration for the scheduled-dispatch reaper.
type ReaperConfig struct {
	// Interval is how often the reaper scans for overdue records.
	Interval time.Duration

	// Grace is how far past its scheduled time a record must be before the
	// reaper picks it up, leaving the queue room to deliver it first.
	Grace time.Duration

	// BatchSize is the maximum number of overdue records recovered per cycle.
	BatchSize int
}

// Reaper periodically scans the store for records whose scheduled dispatch
// time has passed without a dispatch and re-enqueues them. The store is the
// source of truth; the reaper reconciles it with the queue so a deferred
// notification survives queue data loss or a worker crash.
type Reaper struct {
	store    NotificationStore
	enqueuer Enqueuer
	config   ReaperConfig
}

// NewReaper creates a new scheduled-dispatch reaper.
func NewReaper(store NotificationStore, enqueuer Enqueuer, cfg ReaperConfig) *Reaper {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.Grace <= 0 {
		cfg.Grace = time.Minute
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}

	return &Reaper{
		store:    store,
		enqueuer: enqueuer,
		config:   cfg,
	}
}

// Run starts the reaper loop. It blocks until the context is cancelled.
// Should be called in a goroutine.
func (r *Reaper) Run(ctx context.Context) {
	slog.Info("reaper started",
		"interval", r.config.Interval,
		"grace", r.config.Grace,
		"batch_size", r.config.BatchSize,
	)

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("reaper stopped")
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

// sweep performs one reaper cycle: find overdue records and re-enqueue them
// for immediate dispatch.
func (r *Reaper) sweep(ctx context.Context) {
	dueBefore := time.Now().Add(-r.config.Grace)

	overdue, err := r.store.ListDue(ctx, dueBefore, r.config.BatchSize)
	if err != nil {
		slog.Error("reaper: failed to list overdue notifications", "error", err)
		return
	}

	if len(overdue) == 0 {
		return // nothing overdue, the common case
	}

	slog.Warn("reaper: found overdue notifications", "count", len(overdue))

	recovered := 0
	for _, rec := range overdue {
		if err := r.enqueuer.EnqueueDispatch(rec.ID, time.Now()); err != nil {
			slog.Error("reaper: failed to re-enqueue notification",
				"notification_id", rec.ID,
				"error", err,
			)
			continue
		}

		recovered++
		slog.Info("reaper: recovered overdue notification",
			"notification_id", rec.ID,
			"schedule_for", rec.ScheduleFor,
		)
	}

	if recovered > 0 {
		slog.Info("reaper: sweep complete", "recovered", recovered, "total_overdue", len(overdue))
	}
}
