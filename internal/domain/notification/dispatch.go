package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// RealtimeEventName is the event name pushed to a user's live connections
// for in-app notifications.
const RealtimeEventName = "notification"

// defaultChannelTimeout bounds a single channel send so one hanging
// transport cannot stall the whole dispatch.
const defaultChannelTimeout = 10 * time.Second

// realtimePayload is the structured event pushed over the realtime channel.
type realtimePayload struct {
	ID         string           `json:"id"`
	Type       NotificationType `json:"type"`
	Title      string           `json:"title"`
	Message    string           `json:"message"`
	Data       map[string]any   `json:"data,omitempty"`
	Priority   Priority         `json:"priority"`
	CreatedAt  time.Time        `json:"created_at"`
	Actionable bool             `json:"actionable"`
	ActionURL  string           `json:"action_url,omitempty"`
}

// Dispatcher fans a rendered notification out to its enabled channels.
// Each channel send is isolated: a failure is logged and skipped, and never
// prevents the remaining channels or fails the overall dispatch.
type Dispatcher struct {
	store    NotificationStore
	users    UserDirectory
	mailer   Mailer
	realtime RealtimeEmitter // may be nil: no live connections available
	push     PushSender      // may be nil: transport not wired
	sms      SMSSender       // may be nil: transport not wired
	timeout  time.Duration
}

// NewDispatcher creates a channel dispatcher. realtime, push, and sms are
// optional; pass nil when the corresponding transport is not available.
func NewDispatcher(store NotificationStore, users UserDirectory, mailer Mailer, realtime RealtimeEmitter, push PushSender, sms SMSSender, channelTimeout time.Duration) *Dispatcher {
	if channelTimeout <= 0 {
		channelTimeout = defaultChannelTimeout
	}
	return &Dispatcher{
		store:    store,
		users:    users,
		mailer:   mailer,
		realtime: realtime,
		push:     push,
		sms:      sms,
		timeout:  channelTimeout,
	}
}

// Dispatch delivers the record through every channel that is both targeted
// and enabled by the user's preferences. It never returns an error: email,
// in-app, SMS, and push may complete in any order and partial completion is
// a valid end state.
func (d *Dispatcher) Dispatch(ctx context.Context, rec *Record, tmpl Template, prefs *Preferences) {
	channels := rec.Channels
	if len(channels) == 0 {
		channels = tmpl.Channels
	}

	for _, ch := range channels {
		if !prefs.ChannelEnabled(ch) {
			continue
		}

		if err := d.send(ctx, ch, rec, tmpl); err != nil {
			slog.Error("channel delivery failed",
				"notification_id", rec.ID,
				"channel", ch,
				"user_id", rec.UserID,
				"error", err,
			)
		}
	}
}

// send runs a single channel delivery under the bounded timeout. A panicking
// transport is recovered into a delivery error so the remaining channels and
// the caller's dispatch stamping still run.
func (d *Dispatcher) send(ctx context.Context, ch Channel, rec *Record, tmpl Template) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("transport panic: %v", r)
		}
	}()

	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	switch ch {
	case ChannelInApp:
		return d.sendInApp(sendCtx, rec)
	case ChannelEmail:
		return d.sendEmail(sendCtx, rec, tmpl)
	case ChannelPush:
		return d.sendPush(sendCtx, rec)
	case ChannelSMS:
		return d.sendSMS(sendCtx, rec)
	default:
		slog.Warn("unknown notification channel", "channel", ch, "notification_id", rec.ID)
		return nil
	}
}

// sendInApp pushes the notification over the realtime channel when one is
// available and stamps DeliveredAt either way. "Delivered" here means
// "attempted", not "received": a user with no live connection still sees the
// record in their feed on next load.
func (d *Dispatcher) sendInApp(ctx context.Context, rec *Record) error {
	if d.realtime != nil {
		payload := realtimePayload{
			ID:         rec.ID,
			Type:       rec.Type,
			Title:      rec.Title,
			Message:    rec.Message,
			Data:       rec.Data,
			Priority:   rec.Priority,
			CreatedAt:  rec.CreatedAt,
			Actionable: rec.Actionable,
			ActionURL:  rec.ActionURL,
		}
		if err := d.realtime.EmitToUser(ctx, rec.UserID, RealtimeEventName, payload); err != nil {
			slog.Error("realtime emit failed", "notification_id", rec.ID, "user_id", rec.UserID, "error", err)
		}
	}

	now := time.Now()
	if err := d.store.StampDelivered(ctx, rec.ID, now); err != nil {
		return err
	}
	rec.DeliveredAt = &now
	return nil
}

// sendEmail looks up the user's address, renders the email body, and hands
// it to the mail transport. A user with no email address is skipped
// silently.
func (d *Dispatcher) sendEmail(ctx context.Context, rec *Record, tmpl Template) error {
	user, err := d.users.FindUser(ctx, rec.UserID)
	if err != nil {
		return err
	}
	if user == nil || user.Email == "" {
		slog.Debug("no email address for user, skipping email channel", "user_id", rec.UserID)
		return nil
	}

	merged := make(map[string]any, len(rec.Data)+4)
	for k, v := range rec.Data {
		merged[k] = v
	}
	merged["user_name"] = user.FirstName
	merged["title"] = rec.Title
	merged["message"] = rec.Message
	merged["action_url"] = rec.ActionURL

	if err := d.mailer.Send(ctx, user.Email, rec.Title, tmpl.Email(merged)); err != nil {
		return err
	}

	now := time.Now()
	if err := d.store.StampEmailSent(ctx, rec.ID, now); err != nil {
		return err
	}
	rec.EmailSentAt = &now
	return nil
}

func (d *Dispatcher) sendPush(ctx context.Context, rec *Record) error {
	if d.push == nil {
		slog.Info("push transport not configured, skipping",
			"notification_id", rec.ID,
			"user_id", rec.UserID,
		)
		return nil
	}
	return d.push.SendPush(ctx, rec.UserID, rec.Title, rec.Message, rec.Data)
}

func (d *Dispatcher) sendSMS(ctx context.Context, rec *Record) error {
	if d.sms == nil {
		slog.Info("sms transport not configured, skipping",
			"notification_id", rec.ID,
			"user_id", rec.UserID,
		)
		return nil
	}
	return d.sms.SendSMS(ctx, rec.UserID, rec.Message)
}
