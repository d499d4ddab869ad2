package notification

import (
	"context"
	"time"
)

// Mailer defines the contract for the email transport.
// Implementations live in infra/email/ (e.g., Resend).
type Mailer interface {
	// Send delivers an HTML email.
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// RealtimeEmitter pushes in-app events to a user's live connections.
// Best-effort: the user may have no connection, in which case the event is
// simply not seen. Implementations live in infra/realtime/.
type RealtimeEmitter interface {
	EmitToUser(ctx context.Context, userID, event string, payload any) error
}

// PushSender is the hook point for a mobile push transport. No transport is
// wired today; the dispatcher logs the intent when the sender is absent.
type PushSender interface {
	SendPush(ctx context.Context, userID, title, message string, data map[string]any) error
}

// SMSSender is the hook point for an SMS transport. No transport is wired
// today; the dispatcher logs the intent when the sender is absent.
type SMSSender interface {
	SendSMS(ctx context.Context, userID, message string) error
}

// Enqueuer defines the contract for scheduling a deferred dispatch.
// This keeps the service decoupled from the specific queue implementation.
type Enqueuer interface {
	EnqueueDispatch(notificationID string, processAt time.Time) error
}
