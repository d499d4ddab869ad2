package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"seatswap/internal/common"
)

// Service orchestrates notification creation and read-state management.
// Flow for a single request: resolve the template, load preferences, apply
// the category gate and rate limit, schedule around quiet hours, persist
// the record, then dispatch (inline, or deferred through the queue).
type Service struct {
	store      NotificationStore
	prefs      PreferenceStore
	dispatcher *Dispatcher
	enqueuer   Enqueuer             // may be nil: deferral degrades to reaper-only
	limiter    RecipientRateLimiter // may be nil: no per-user cap
	now        func() time.Time
}

// NewService creates a new notification service.
func NewService(store NotificationStore, prefs PreferenceStore, dispatcher *Dispatcher, enqueuer Enqueuer, limiter RecipientRateLimiter) *Service {
	return &Service{
		store:      store,
		prefs:      prefs,
		dispatcher: dispatcher,
		enqueuer:   enqueuer,
		limiter:    limiter,
		now:        time.Now,
	}
}

// Create validates a notification request, applies preference and
// quiet-hours gating, persists the record, and dispatches it.
//
// The returned record may be nil with a nil error: the request was blocked
// by the user's preferences or by the per-user cap. That is a normal
// outcome, not a failure, and leaves no record behind. Errors are returned
// only for failures that prevent record creation; a delivery failure after
// the record exists is logged and swallowed.
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Record, error) {
	tmpl, ok := ResolveTemplate(req.Type)
	if !ok {
		return nil, common.NewUnknownTypeError(string(req.Type))
	}

	priority := req.Priority
	if priority == "" {
		priority = tmpl.Priority
	}

	prefs, err := s.loadPreferences(ctx, req.UserID, req.Type, priority)
	if err != nil {
		return nil, err
	}

	if !prefs.Allows(req.Type) {
		slog.Info("notification blocked by preferences",
			"user_id", req.UserID,
			"type", req.Type,
		)
		return nil, nil
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, req.UserID)
		if err != nil {
			// Fail open: a limiter outage must not drop notifications.
			slog.Error("rate limit check failed, proceeding without limit", "user_id", req.UserID, "error", err)
		} else if !allowed {
			slog.Warn("notification blocked by per-user cap", "user_id", req.UserID, "type", req.Type)
			return nil, nil
		}
	}

	now := s.now()
	scheduleFor := req.ScheduleFor
	if priority != PriorityUrgent && inQuietHours(prefs, now) {
		t := nextAllowedTime(prefs, now)
		scheduleFor = &t
	}

	channels := req.Channels
	if len(channels) == 0 {
		channels = tmpl.Channels
	}

	rec := &Record{
		UserID:      req.UserID,
		Type:        req.Type,
		Title:       tmpl.Title(req.Data),
		Message:     tmpl.Message(req.Data),
		Data:        req.Data,
		Priority:    priority,
		Channels:    channels,
		Actionable:  req.Actionable,
		ActionURL:   req.ActionURL,
		GroupID:     req.GroupID,
		ScheduleFor: scheduleFor,
		ExpiresAt:   req.ExpiresAt,
	}

	if err := s.store.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("creating notification: %w", err)
	}

	if scheduleFor != nil && scheduleFor.After(now) {
		s.deferDispatch(rec, *scheduleFor)
		return rec, nil
	}

	s.dispatcher.Dispatch(ctx, rec, tmpl, prefs)
	s.stampDispatched(ctx, rec)

	slog.Info("notification dispatched",
		"notification_id", rec.ID,
		"user_id", rec.UserID,
		"type", rec.Type,
		"priority", rec.Priority,
	)
	return rec, nil
}

// deferDispatch hands the record to the queue for dispatch at its scheduled time.
// An enqueue failure is logged but not surfaced: the record exists with a
// future ScheduleFor and the reaper will recover it.
func (s *Service) deferDispatch(rec *Record, at time.Time) {
	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueDispatch(rec.ID, at); err != nil {
			slog.Error("failed to enqueue deferred dispatch",
				"notification_id", rec.ID,
				"schedule_for", at,
				"error", err,
			)
		}
	}
	slog.Info("notification deferred",
		"notification_id", rec.ID,
		"user_id", rec.UserID,
		"type", rec.Type,
		"schedule_for", at,
	)
}

// stampDispatched marks the record as processed so the reaper leaves it
// alone. Failure to stamp is logged only; delivery already happened.
func (s *Service) stampDispatched(ctx context.Context, rec *Record) {
	at := s.now()
	if err := s.store.StampDispatched(ctx, rec.ID, at); err != nil {
		slog.Error("failed to stamp dispatch", "notification_id", rec.ID, "error", err)
		return
	}
	rec.DispatchedAt = &at
}

// loadPreferences fetches the user's preferences, synthesizing defaults
// when none are stored. Defaults are never written back. A store failure
// fails the request closed, except for urgent requests and security alerts,
// which proceed on defaults: safety-critical notifications must not be
// silenced by a preference-store outage.
func (s *Service) loadPreferences(ctx context.Context, userID string, t NotificationType, priority Priority) (*Preferences, error) {
	prefs, err := s.prefs.Get(ctx, userID)
	if err != nil {
		if priority == PriorityUrgent || t == TypeSecurityAlert {
			slog.Warn("preference lookup failed, using defaults for urgent notification",
				"user_id", userID,
				"type", t,
				"error", err,
			)
			return DefaultPreferences(userID), nil
		}
		return nil, common.NewPreferenceLookupError(userID, err)
	}
	if prefs == nil {
		return DefaultPreferences(userID), nil
	}
	return prefs, nil
}

// CreateBulk runs all requests concurrently and reports aggregate counts.
// Each request is fully isolated: one failure neither cancels nor fails the
// others. Requests blocked by preferences count as successful.
func (s *Service) CreateBulk(ctx context.Context, reqs []*CreateRequest) BulkResult {
	var (
		wg         sync.WaitGroup
		successful atomic.Int64
		failed     atomic.Int64
	)

	for _, req := range reqs {
		wg.Add(1)
		go func(req *CreateRequest) {
			defer wg.Done()
			if _, err := s.Create(ctx, req); err != nil {
				slog.Error("bulk notification failed",
					"user_id", req.UserID,
					"type", req.Type,
					"error", err,
				)
				failed.Add(1)
				return
			}
			successful.Add(1)
		}(req)
	}
	wg.Wait()

	return BulkResult{
		Successful: int(successful.Load()),
		Failed:     int(failed.Load()),
	}
}

// MarkRead marks a single notification read for its owning user. Idempotent:
// a second call on an already-read notification keeps the first timestamp.
func (s *Service) MarkRead(ctx context.Context, notificationID, userID string) error {
	if err := s.store.MarkRead(ctx, notificationID, userID, s.now()); err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}
	return nil
}

// MarkAllRead marks every unread notification owned by the user as read.
func (s *Service) MarkAllRead(ctx context.Context, userID string) (int, error) {
	n, err := s.store.MarkAllRead(ctx, userID, s.now())
	if err != nil {
		return 0, fmt.Errorf("marking all notifications read: %w", err)
	}
	return n, nil
}

// UnreadCount returns the number of unread notifications for the user.
func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	n, err := s.store.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}
	return n, nil
}

// List retrieves a user's notification feed with pagination.
func (s *Service) List(ctx context.Context, filter ListFilter) (*ListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	recs, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}

	return &ListResponse{
		Notifications: recs,
		Total:         total,
		Page:          filter.Page,
		PageSize:      filter.PageSize,
	}, nil
}
