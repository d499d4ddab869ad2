package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"seatswap/internal/common"
)

// Worker performs deferred dispatch: it picks a task up at its scheduled
// time, re-loads the record and the user's current preferences, and runs
// the same channel fan-out as an immediate send.
type Worker struct {
	store      NotificationStore
	prefs      PreferenceStore
	dispatcher *Dispatcher
}

// NewWorker creates a new deferred-dispatch worker.
func NewWorker(store NotificationStore, prefs PreferenceStore, dispatcher *Dispatcher) *Worker {
	return &Worker{
		store:      store,
		prefs:      prefs,
		dispatcher: dispatcher,
	}
}

// ProcessDispatch handles a dispatch task from the queue. Returning an
// error lets asynq retry with backoff.
func (w *Worker) ProcessDispatch(ctx context.Context, notificationID string) error {
	start := time.Now()

	rec, err := w.store.GetByID(ctx, notificationID)
	if err != nil {
		return fmt.Errorf("fetching notification %s: %w", notificationID, err)
	}
	if rec == nil {
		return common.NewNotFoundError("notification", notificationID)
	}

	// Queue retries and the reaper can both hand us the same record; only
	// the first dispatch goes through.
	if rec.DispatchedAt != nil {
		slog.Info("notification already dispatched, skipping",
			"notification_id", rec.ID,
			"dispatched_at", rec.DispatchedAt,
		)
		return nil
	}

	if rec.ExpiresAt != nil && time.Now().After(*rec.ExpiresAt) {
		slog.Info("notification expired before dispatch, dropping",
			"notification_id", rec.ID,
			"expires_at", rec.ExpiresAt,
		)
		return w.store.StampDispatched(ctx, rec.ID, time.Now())
	}

	tmpl, ok := ResolveTemplate(rec.Type)
	if !ok {
		// A type that resolved at creation time no longer does: the record
		// predates a template removal. Nothing to deliver.
		slog.Error("no template for stored notification", "notification_id", rec.ID, "type", rec.Type)
		return w.store.StampDispatched(ctx, rec.ID, time.Now())
	}

	prefs, err := w.prefs.Get(ctx, rec.UserID)
	if err != nil {
		if rec.Priority == PriorityUrgent || rec.Type == TypeSecurityAlert {
			prefs = DefaultPreferences(rec.UserID)
		} else {
			return fmt.Errorf("loading preferences for user %s: %w", rec.UserID, err)
		}
	}
	if prefs == nil {
		prefs = DefaultPreferences(rec.UserID)
	}

	// Preferences may have changed since the record was created; a user who
	// muted the category in the meantime gets no delivery.
	if !prefs.Allows(rec.Type) {
		slog.Info("deferred notification now blocked by preferences",
			"notification_id", rec.ID,
			"user_id", rec.UserID,
			"type", rec.Type,
		)
		return w.store.StampDispatched(ctx, rec.ID, time.Now())
	}

	w.dispatcher.Dispatch(ctx, rec, tmpl, prefs)

	if err := w.store.StampDispatched(ctx, rec.ID, time.Now()); err != nil {
		slog.Error("failed to stamp dispatch", "notification_id", rec.ID, "error", err)
	}

	slog.Info("deferred notification dispatched",
		"notification_id", rec.ID,
		"user_id", rec.UserID,
		"type", rec.Type,
		"duration", time.Since(start),
	)
	return nil
}
