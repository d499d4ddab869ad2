package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"seatswap/internal/domain/notification"

	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"
)

const (
	notificationsTable = "notifications"
	preferencesTable   = "notification_preferences"
	usersTable         = "users"
)

var (
	_ notification.NotificationStore = (*SupabaseStore)(nil)
	_ notification.PreferenceStore   = (*SupabaseStore)(nil)
	_ notification.UserDirectory     = (*SupabaseStore)(nil)
)

// SupabaseStore implements the notification store, preference store, and
// user directory against Supabase via PostgREST.
type SupabaseStore struct {
	client *supa.Client
}

// NewSupabaseStore creates a new Supabase-backed store.
func NewSupabaseStore(supabaseURL, serviceKey string) (*SupabaseStore, error) {
	client, err := supa.NewClient(supabaseURL, serviceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating supabase client: %w", err)
	}
	return &SupabaseStore{client: client}, nil
}

// notificationRow is the internal representation for PostgREST insert/update.
type notificationRow struct {
	ID           string         `json:"id,omitempty"`
	UserID       string         `json:"user_id"`
	Type         string         `json:"type"`
	Title        string         `json:"title"`
	Message      string         `json:"message"`
	Data         map[string]any `json:"data,omitempty"`
	Priority     string         `json:"priority"`
	Channels     []string       `json:"channels"`
	Actionable   bool           `json:"actionable"`
	ActionURL    *string        `json:"action_url,omitempty"`
	GroupID      *string        `json:"group_id,omitempty"`
	ScheduleFor  *string        `json:"schedule_for,omitempty"`
	ExpiresAt    *string        `json:"expires_at,omitempty"`
	CreatedAt    string         `json:"created_at,omitempty"`
	DispatchedAt *string        `json:"dispatched_at,omitempty"`
	DeliveredAt  *string        `json:"delivered_at,omitempty"`
	EmailSentAt  *string        `json:"email_sent_at,omitempty"`
	ReadAt       *string        `json:"read_at,omitempty"`
}

// Create inserts a new notification record and backfills the assigned ID
// and CreatedAt.
func (s *SupabaseStore) Create(ctx context.Context, rec *notification.Record) error {
	row := notificationRow{
		UserID:     rec.UserID,
		Type:       string(rec.Type),
		Title:      rec.Title,
		Message:    rec.Message,
		Data:       rec.Data,
		Priority:   string(rec.Priority),
		Channels:   channelStrings(rec.Channels),
		Actionable: rec.Actionable,
	}
	if rec.ActionURL != "" {
		row.ActionURL = &rec.ActionURL
	}
	if rec.GroupID != "" {
		row.GroupID = &rec.GroupID
	}
	if rec.ScheduleFor != nil {
		row.ScheduleFor = timestampPtr(*rec.ScheduleFor)
	}
	if rec.ExpiresAt != nil {
		row.ExpiresAt = timestampPtr(*rec.ExpiresAt)
	}

	data, _, err := s.client.From(notificationsTable).Insert(row, false, "", "representation", "").Execute()
	if err != nil {
		return fmt.Errorf("inserting notification: %w", err)
	}

	var results []notificationRow
	if err := json.Unmarshal(data, &results); err != nil {
		return fmt.Errorf("parsing insert response: %w", err)
	}

	if len(results) > 0 {
		rec.ID = results[0].ID
		if t, ok := parseTimestamp(results[0].CreatedAt); ok {
			rec.CreatedAt = t
		}
	}

	return nil
}

// GetByID retrieves a notification record by its ID.
// Returns nil, nil when no record matches.
func (s *SupabaseStore) GetByID(ctx context.Context, id string) (*notification.Record, error) {
	data, _, err := s.client.From(notificationsTable).Select("*", "exact", false).Eq("id", id).Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching notification: %w", err)
	}

	var rows []notificationRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing notification: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return rowToRecord(&rows[0]), nil
}

// StampDispatched marks the record as having gone through dispatch.
func (s *SupabaseStore) StampDispatched(ctx context.Context, id string, at time.Time) error {
	return s.stamp(ctx, id, "dispatched_at", at)
}

// StampDelivered records an in-app delivery attempt.
func (s *SupabaseStore) StampDelivered(ctx context.Context, id string, at time.Time) error {
	return s.stamp(ctx, id, "delivered_at", at)
}

// StampEmailSent records a successful email handoff.
func (s *SupabaseStore) StampEmailSent(ctx context.Context, id string, at time.Time) error {
	return s.stamp(ctx, id, "email_sent_at", at)
}

// stamp performs a single-row timestamp update.
func (s *SupabaseStore) stamp(ctx context.Context, id, column string, at time.Time) error {
	update := map[string]any{
		column: at.UTC().Format(time.RFC3339Nano),
	}
	_, _, err := s.client.From(notificationsTable).Update(update, "", "").Eq("id", id).Execute()
	if err != nil {
		return fmt.Errorf("stamping %s: %w", column, err)
	}
	return nil
}

// MarkRead sets read_at on the record matching both id and owner, only when
// still unread. The is-null filter makes re-marking a no-op.
func (s *SupabaseStore) MarkRead(ctx context.Context, id, userID string, at time.Time) error {
	update := map[string]any{
		"read_at": at.UTC().Format(time.RFC3339Nano),
	}
	_, _, err := s.client.From(notificationsTable).
		Update(update, "", "").
		Eq("id", id).
		Eq("user_id", userID).
		Is("read_at", "null").
		Execute()
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}
	return nil
}

// MarkAllRead sets read_at on every unread record owned by the user.
func (s *SupabaseStore) MarkAllRead(ctx context.Context, userID string, at time.Time) (int, error) {
	update := map[string]any{
		"read_at": at.UTC().Format(time.RFC3339Nano),
	}
	data, _, err := s.client.From(notificationsTable).
		Update(update, "representation", "").
		Eq("user_id", userID).
		Is("read_at", "null").
		Execute()
	if err != nil {
		return 0, fmt.Errorf("marking all notifications read: %w", err)
	}

	var rows []notificationRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return 0, fmt.Errorf("parsing mark-all response: %w", err)
	}
	return len(rows), nil
}

// CountUnread returns the number of unread records owned by the user.
func (s *SupabaseStore) CountUnread(ctx context.Context, userID string) (int, error) {
	_, count, err := s.client.From(notificationsTable).
		Select("id", "exact", false).
		Eq("user_id", userID).
		Is("read_at", "null").
		Execute()
	if err != nil {
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}
	return int(count), nil
}

// List retrieves a user's notifications with pagination and filtering.
func (s *SupabaseStore) List(ctx context.Context, filter notification.ListFilter) ([]*notification.Record, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	offset := (filter.Page - 1) * filter.PageSize

	query := s.client.From(notificationsTable).Select("*", "exact", false).Eq("user_id", filter.UserID)
	if filter.UnreadOnly {
		query = query.Is("read_at", "null")
	}
	if filter.Type != "" {
		query = query.Eq("type", filter.Type)
	}

	query = query.Order("created_at", &postgrest.OrderOpts{Ascending: false})
	query = query.Range(offset, offset+filter.PageSize-1, "")

	data, count, err := query.Execute()
	if err != nil {
		return nil, 0, fmt.Errorf("listing notifications: %w", err)
	}

	var rows []notificationRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, 0, fmt.Errorf("parsing notification list: %w", err)
	}

	recs := make([]*notification.Record, len(rows))
	for i, row := range rows {
		recs[i] = rowToRecord(&row)
	}

	return recs, int(count), nil
}

// ListDue retrieves records whose scheduled dispatch time passed without a
// dispatch.
func (s *SupabaseStore) ListDue(ctx context.Context, dueBefore time.Time, limit int) ([]*notification.Record, error) {
	if limit <= 0 {
		limit = 50
	}

	threshold := dueBefore.UTC().Format(time.RFC3339Nano)

	query := s.client.From(notificationsTable).
		Select("*", "exact", false).
		Lt("schedule_for", threshold).
		Is("dispatched_at", "null").
		Order("schedule_for", &postgrest.OrderOpts{Ascending: true}).
		Range(0, limit-1, "")

	data, _, err := query.Execute()
	if err != nil {
		return nil, fmt.Errorf("listing due notifications: %w", err)
	}

	var rows []notificationRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing due notifications: %w", err)
	}

	recs := make([]*notification.Record, len(rows))
	for i, row := range rows {
		recs[i] = rowToRecord(&row)
	}
	return recs, nil
}

// preferenceRow is the stored shape of a user's notification preferences.
type preferenceRow struct {
	UserID                 string  `json:"user_id"`
	InAppEnabled           bool    `json:"in_app_enabled"`
	EmailEnabled           bool    `json:"email_enabled"`
	SMSEnabled             bool    `json:"sms_enabled"`
	PushEnabled            bool    `json:"push_enabled"`
	OfferNotifications     bool    `json:"offer_notifications"`
	PaymentNotifications   bool    `json:"payment_notifications"`
	MarketingNotifications bool    `json:"marketing_notifications"`
	AutoMatchNotifications bool    `json:"automatch_notifications"`
	PriceAlerts            bool    `json:"price_alerts"`
	EventReminders         bool    `json:"event_reminders"`
	WeeklyReports          bool    `json:"weekly_reports"`
	QuietHoursStart        *string `json:"quiet_hours_start"`
	QuietHoursEnd          *string `json:"quiet_hours_end"`
	Timezone               *string `json:"timezone"`
}

// Get retrieves a user's stored preferences. Returns nil, nil when the user
// has none; synthesizing defaults is the domain layer's job, and nothing is
// written back here.
func (s *SupabaseStore) Get(ctx context.Context, userID string) (*notification.Preferences, error) {
	data, _, err := s.client.From(preferencesTable).Select("*", "exact", false).Eq("user_id", userID).Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching preferences: %w", err)
	}

	var rows []preferenceRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing preferences: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	row := rows[0]
	prefs := &notification.Preferences{
		UserID:                 row.UserID,
		InAppEnabled:           row.InAppEnabled,
		EmailEnabled:           row.EmailEnabled,
		SMSEnabled:             row.SMSEnabled,
		PushEnabled:            row.PushEnabled,
		OfferNotifications:     row.OfferNotifications,
		PaymentNotifications:   row.PaymentNotifications,
		MarketingNotifications: row.MarketingNotifications,
		AutoMatchNotifications: row.AutoMatchNotifications,
		PriceAlerts:            row.PriceAlerts,
		EventReminders:         row.EventReminders,
		WeeklyReports:          row.WeeklyReports,
	}
	if row.QuietHoursStart != nil {
		prefs.QuietHoursStart = *row.QuietHoursStart
	}
	if row.QuietHoursEnd != nil {
		prefs.QuietHoursEnd = *row.QuietHoursEnd
	}
	if row.Timezone != nil {
		prefs.Timezone = *row.Timezone
	}
	return prefs, nil
}

// userRow is the slice of the users table this service reads.
type userRow struct {
	ID        string  `json:"id"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
}

// FindUser retrieves a user's delivery details. Returns nil, nil when the
// user does not exist.
func (s *SupabaseStore) FindUser(ctx context.Context, userID string) (*notification.User, error) {
	data, _, err := s.client.From(usersTable).Select("id,email,first_name", "exact", false).Eq("id", userID).Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching user: %w", err)
	}

	var rows []userRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing user: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	user := &notification.User{ID: rows[0].ID}
	if rows[0].Email != nil {
		user.Email = *rows[0].Email
	}
	if rows[0].FirstName != nil {
		user.FirstName = *rows[0].FirstName
	}
	return user, nil
}

func channelStrings(channels []notification.Channel) []string {
	out := make([]string, len(channels))
	for i, c := range channels {
		out[i] = string(c)
	}
	return out
}

func timestampPtr(t time.Time) *string {
	s := t.UTC().Format(time.RFC3339Nano)
	return &s
}

func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// rowToRecord converts a notificationRow to a domain Record.
func rowToRecord(row *notificationRow) *notification.Record {
	rec := &notification.Record{
		ID:         row.ID,
		UserID:     row.UserID,
		Type:       notification.NotificationType(row.Type),
		Title:      row.Title,
		Message:    row.Message,
		Data:       row.Data,
		Priority:   notification.Priority(row.Priority),
		Actionable: row.Actionable,
	}

	rec.Channels = make([]notification.Channel, len(row.Channels))
	for i, c := range row.Channels {
		rec.Channels[i] = notification.Channel(c)
	}

	if row.ActionURL != nil {
		rec.ActionURL = *row.ActionURL
	}
	if row.GroupID != nil {
		rec.GroupID = *row.GroupID
	}
	if t, ok := parseTimestamp(row.CreatedAt); ok {
		rec.CreatedAt = t
	}
	if row.ScheduleFor != nil {
		if t, ok := parseTimestamp(*row.ScheduleFor); ok {
			rec.ScheduleFor = &t
		}
	}
	if row.ExpiresAt != nil {
		if t, ok := parseTimestamp(*row.ExpiresAt); ok {
			rec.ExpiresAt = &t
		}
	}
	if row.DispatchedAt != nil {
		if t, ok := parseTimestamp(*row.DispatchedAt); ok {
			rec.DispatchedAt = &t
		}
	}
	if row.DeliveredAt != nil {
		if t, ok := parseTimestamp(*row.DeliveredAt); ok {
			rec.DeliveredAt = &t
		}
	}
	if row.EmailSentAt != nil {
		if t, ok := parseTimestamp(*row.EmailSentAt); ok {
			rec.EmailSentAt = &t
		}
	}
	if row.ReadAt != nil {
		if t, ok := parseTimestamp(*row.ReadAt); ok {
			rec.ReadAt = &t
		}
	}

	return rec
}
