package notification

import "time"

// Channel represents a notification delivery channel.
type Channel string

const (
	ChannelInApp Channel = "in_app"
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelPush  Channel = "push"
)

// Priority orders notifications from low to urgent. Urgent notifications
// bypass quiet-hours deferral.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// NotificationType enumerates all supported notification template types.
type NotificationType string

const (
	TypeOfferReceived   NotificationType = "offer_received"
	TypeOfferAccepted   NotificationType = "offer_accepted"
	TypeOfferRejected   NotificationType = "offer_rejected"
	TypeOfferCounter    NotificationType = "offer_counter"
	TypeOfferExpired    NotificationType = "offer_expired"
	TypePaymentReceived NotificationType = "payment_received"
	TypePaymentFailed   NotificationType = "payment_failed"
	TypePayoutSent      NotificationType = "payout_sent"
	TypeListingSold     NotificationType = "listing_sold"
	TypeListingExpired  NotificationType = "listing_expired"
	TypeAutoMatchFound  NotificationType = "automatch_found"
	TypePriceAlert      NotificationType = "price_alert"
	TypeEventReminder   NotificationType = "event_reminder"
	TypeSecurityAlert   NotificationType = "security_alert"
	TypeAccountUpdated  NotificationType = "account_updated"
	TypeWeeklyReport    NotificationType = "weekly_report"
	TypeMonthlyReport   NotificationType = "monthly_report"
	TypePromotion       NotificationType = "promotion"
)

// CreateRequest is the payload for creating a single notification.
// Priority and Channels override the template defaults when set. Data
// supplies template interpolation values; missing fields render blank.
type CreateRequest struct {
	UserID      string           `json:"user_id" binding:"required"`
	Type        NotificationType `json:"type" binding:"required"`
	Data        map[string]any   `json:"data"`
	Priority    Priority         `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Channels    []Channel        `json:"channels"`
	ScheduleFor *time.Time       `json:"schedule_for"`
	ExpiresAt   *time.Time       `json:"expires_at"`
	Actionable  bool             `json:"actionable"`
	ActionURL   string           `json:"action_url"`
	GroupID     string           `json:"group_id"`
}

// BulkResult aggregates the outcome of a bulk create. Per-item results are
// not reported; callers needing them should create notifications one by one.
type BulkResult struct {
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// Record is a persisted notification. It is created once per accepted
// request and mutated only to stamp dispatch, delivery, and read timestamps.
type Record struct {
	ID           string           `json:"id"`
	UserID       string           `json:"user_id"`
	Type         NotificationType `json:"type"`
	Title        string           `json:"title"`
	Message      string           `json:"message"`
	Data         map[string]any   `json:"data,omitempty"`
	Priority     Priority         `json:"priority"`
	Channels     []Channel        `json:"channels"`
	Actionable   bool             `json:"actionable"`
	ActionURL    string           `json:"action_url,omitempty"`
	GroupID      string           `json:"group_id,omitempty"`
	ScheduleFor  *time.Time       `json:"schedule_for,omitempty"`
	ExpiresAt    *time.Time       `json:"expires_at,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	DispatchedAt *time.Time       `json:"dispatched_at,omitempty"`
	DeliveredAt  *time.Time       `json:"delivered_at,omitempty"`
	EmailSentAt  *time.Time       `json:"email_sent_at,omitempty"`
	ReadAt       *time.Time       `json:"read_at,omitempty"`
}

// User is the slice of the user directory this service needs for delivery.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
}

// Preferences holds a user's per-channel and per-category notification
// toggles plus an optional quiet-hours window.
//
// Timezone is stored but not applied: quiet hours are compared against the
// server's wall clock, which is the behavior existing callers depend on.
// A user in another timezone gets the window shifted accordingly.
type Preferences struct {
	UserID                 string `json:"user_id"`
	InAppEnabled           bool   `json:"in_app_enabled"`
	EmailEnabled           bool   `json:"email_enabled"`
	SMSEnabled             bool   `json:"sms_enabled"`
	PushEnabled            bool   `json:"push_enabled"`
	OfferNotifications     bool   `json:"offer_notifications"`
	PaymentNotifications   bool   `json:"payment_notifications"`
	MarketingNotifications bool   `json:"marketing_notifications"`
	AutoMatchNotifications bool   `json:"automatch_notifications"`
	PriceAlerts            bool   `json:"price_alerts"`
	EventReminders         bool   `json:"event_reminders"`
	WeeklyReports          bool   `json:"weekly_reports"`
	QuietHoursStart        string `json:"quiet_hours_start,omitempty"` // "HH:MM", 24-hour
	QuietHoursEnd          string `json:"quiet_hours_end,omitempty"`   // "HH:MM", 24-hour
	Timezone               string `json:"timezone,omitempty"`
}

// ListFilter defines pagination and filtering options for a user's feed.
type ListFilter struct {
	UserID     string `form:"user_id" binding:"required"`
	UnreadOnly bool   `form:"unread_only"`
	Type       string `form:"type"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

// ListResponse wraps a paginated list of notification records.
type ListResponse struct {
	Notifications []*Record `json:"notifications"`
	Total         int       `json:"total"`
	Page          int       `json:"page"`
	PageSize      int       `json:"page_size"`
}
