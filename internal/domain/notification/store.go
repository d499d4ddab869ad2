package notification

import (
	"context"
	"time"
)

// NotificationStore defines the contract for persisting notification
// records. Implementations live in infra/store/ (e.g., Supabase). Every
// stamp is a single-record update keyed by id; no cross-record transactions
// are required.
type NotificationStore interface {
	// Create inserts a new notification record and fills in the
	// store-assigned ID and CreatedAt.
	Create(ctx context.Context, rec *Record) error

	// GetByID retrieves a notification record by its ID.
	// Returns nil, nil if no record is found.
	GetByID(ctx context.Context, id string) (*Record, error)

	// StampDispatched marks the record as having gone through dispatch.
	StampDispatched(ctx context.Context, id string, at time.Time) error

	// StampDelivered records an in-app delivery attempt.
	StampDelivered(ctx context.Context, id string, at time.Time) error

	// StampEmailSent records a successful email handoff.
	StampEmailSent(ctx context.Context, id string, at time.Time) error

	// MarkRead sets ReadAt on the record matching both id and owner, only
	// if it is not already read. Re-marking an already-read record is a
	// no-op, not an error.
	MarkRead(ctx context.Context, id, userID string, at time.Time) error

	// MarkAllRead sets ReadAt on every unread record owned by the user and
	// returns how many were updated.
	MarkAllRead(ctx context.Context, userID string, at time.Time) (int, error)

	// CountUnread returns the number of records owned by the user with
	// ReadAt unset.
	CountUnread(ctx context.Context, userID string) (int, error)

	// List retrieves a user's notifications with pagination and filtering.
	List(ctx context.Context, filter ListFilter) ([]*Record, int, error)

	// ListDue retrieves records whose ScheduleFor has passed without a
	// dispatch. Used by the reaper for reconciliation.
	ListDue(ctx context.Context, dueBefore time.Time, limit int) ([]*Record, error)
}

// PreferenceStore reads per-user notification preferences.
// Implementations live in infra/store/.
type PreferenceStore interface {
	// Get retrieves a user's stored preferences.
	// Returns nil, nil when the user has none.
	Get(ctx context.Context, userID string) (*Preferences, error)
}

// UserDirectory looks up delivery details for a user.
// Implementations live in infra/store/.
type UserDirectory interface {
	// FindUser retrieves the user's email and first name.
	// Returns nil, nil when the user does not exist.
	FindUser(ctx context.Context, userID string) (*User, error)
}
