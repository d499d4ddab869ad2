package notification

import (
	"fmt"
	"html"
)

// Template describes how a notification type is rendered and delivered by
// default. Renderers are pure functions of the payload data: no I/O, no
// side effects, and missing fields render as empty text rather than failing.
type Template struct {
	// Title renders the short headline shown in the in-app feed.
	Title func(data map[string]any) string

	// Message renders the one-line body.
	Message func(data map[string]any) string

	// Email renders the HTML email body. The dispatcher calls it with the
	// request data merged with user_name, title, message, and action_url.
	Email func(data map[string]any) string

	// Priority is the default priority when the request does not set one.
	Priority Priority

	// Channels are the default delivery channels when the request does not
	// override them.
	Channels []Channel
}

// templates is the registry mapping each notification type to its template.
// It is assembled once at init and never mutated afterwards.
var templates = map[NotificationType]Template{
	TypeOfferReceived: {
		Title:    func(d map[string]any) string { return "New offer received" },
		Message:  func(d map[string]any) string { return fmt.Sprintf("You received a %s offer for %s", money(d, "amount"), field(d, "event_name")) },
		Email:    standardEmail,
		Priority: PriorityMedium,
		Channels: []Channel{ChannelInApp, ChannelEmail, ChannelPush},
	},
	TypeOfferAccepted: {
		Title:    func(d map[string]any) string { return "Offer accepted" },
		Message:  func(d map[string]any) string { return fmt.Sprintf("Your %s offer for %s was accepted", money(d, "amount"), field(d, "event_name")) },
		Email:    standardEmail,
		Priority: PriorityHigh,
		Channels: []Channel{ChannelInApp, ChannelEmail, ChannelPush},
	},
	TypeOfferRejected: {
		Title:    func(d map[string]any) string { return "Offer declined" },
		Message:  func(d map[string]any) string { return fmt.Sprintf("Your offer for %s was declined", field(d, "event_name")) },
		Email:    standardEmail,
		Priority: PriorityMedium,
		Channels: []Channel{ChannelInApp, ChannelEmail},
	},
	TypeOfferCounter: {
		Title:    func(d map[string]any) string { return "Counter offer" },
		Message:  func(d map[string]any) string { return fmt.Sprintf("The seller countered with %s for %s", money(d, "amount"), field(d, "event_name")) },
		Email:    standardEmail,
		Priority: PriorityHigh,
		Channels: []Channel{ChannelInApp, ChannelEmail, ChannelPush},
	},
	TypeOfferExpired: {
		Title:    func(d map[string]any) string { return "Offer expired" },
		Message:  func(d map[string]any) string { return fmt.Sprintf("Your offer for %s has expired", field(d, "event_name")) },
		Email:    standardEmail,
		Priority: PriorityLow,
		Channels: []Channel{ChannelInApp},
	},
	TypePaymentReceived: {
		Title:    func(d map[string]any) string { return "Payment received" },
		Message:  func(d map[string]any) string { return fmt.Sprintf("Payment of %s received for %s", money(d, "amount"), field(d, "event_name")) },
		Email:    paymentEmail,
		Priority: PriorityHigh,
		Channels: []Channel{ChannelInApp, ChannelEmail},
	},
	TypePaymentFailed: {
		Title:    func(d map[string]any) string { return "Payment failed" },
		Message:  func(d map[string]any) string { return fmt.Sprintf("Your payment of %s for %s could not be processed", money(d, "amount"), field(d, "event_name")) },
		Email:    paymentEmail,
		Priority: PriorityUrgent,
		Channels: []Channel{ChannelInApp, ChannelEmail, ChannelPush},
	},
	TypePayoutSent: {
		Title:    func(d map[string]any) string { return "Payout on the way" },
		Message:  func(d map[string]any) string { return fmt.Sprintf("Your payout of %s has been sent", money(d, "amount")) },
		Email:    paymentEmail,
		Priority: PriorityMedium,
		Channels: []Channel{ChannelInApp, ChannelEmail},
	},
	TypeListingSold: {
		Title:    func(d map[string]any) string { return "Tickets sold" },
		Message:  func(d map[string]any) string { return fmt.Sprintf("Your listing for %s sold for %s", field(d, "event_name"), money(d, "amount")) },
		Email:    standardEmail,
		Priority: PriorityHigh,
		Channels: []Channel{ChannelInApp, ChannelEmail, ChannelPush},
	},
	TypeListingExpired: {
		Title:    func(d map[string]any) string { return "Listing expired" },
		Message:  func(d map[string]any) string { return fmt.Sprintf("Your listing for %s has expired", field(d, "event_name")) },
		Email:    standardEmail,
		Priority: PriorityLow,
		Channels: []Channel{ChannelInApp, ChannelEmail},
	},
	TypeAutoMatchFound: {
		Title:    func(d map[string]any) string { return "Match found" },
		Message:  func(d map[string]any) string { return fmt.Sprintf("We found %s tickets for %s at %s", field(d, "quantity"), field(d, "event_name"), money(d, "price")) },
		Email:    standardEmail,
		Priority: PriorityHigh,
		Channels: []Channel{ChannelInApp, ChannelEmail, ChannelPush},
	},
	TypePriceAlert: {
		Title:    func(d map[string]any) string { return "Price alert" },
		Message:  func(d map[string]any) string { return fmt.Sprintf("Tickets for %s dropped to %s", field(d, "event_name"), money(d, "price")) },
		Email:    standardEmail,
		Priority: PriorityMedium,
		Channels: []Channel{ChannelInApp, ChannelPush},
	},
	TypeEventReminder: {
		Title:    func(d map[string]any) string { return "Event reminder" },
		Message:  func(d map[string]any) string { return fmt.Sprintf("%s is coming up on %s", field(d, "event_name"), field(d, "event_date")) },
		Email:    standardEmail,
		Priority: PriorityMedium,
		Channels: []Channel{ChannelInApp, ChannelEmail, ChannelPush},
	},
	TypeSecurityAlert: {
		Title:    func(d map[string]any) string { return "Security alert" },
		Message:  func(d map[string]any) string { return fmt.Sprintf("Security alert: %s", field(d, "reason")) },
		Email:    securityEmail,
		Priority: PriorityUrgent,
		Channels: []Channel{ChannelInApp, ChannelEmail, ChannelSMS, ChannelPush},
	},
	TypeAccountUpdated: {
		Title:    func(d map[string]any) string { return "Account updated" },
		Message:  func(d map[string]any) string { return fmt.Sprintf("Your %s was changed", field(d, "what")) },
		Email:    standardEmail,
		Priority: PriorityMedium,
		Channels: []Channel{ChannelInApp, ChannelEmail},
	},
	TypeWeeklyReport: {
		Title:    func(d map[string]any) string { return "Your weekly summary" },
		Message:  func(d map[string]any) string { return fmt.Sprintf("%s sales, %s views this week", field(d, "sales_count"), field(d, "view_count")) },
		Email:    reportEmail,
		Priority: PriorityLow,
		Channels: []Channel{ChannelEmail},
	},
	TypeMonthlyReport: {
		Title:    func(d map[string]any) string { return "Your monthly summary" },
		Message:  func(d map[string]any) string { return fmt.Sprintf("%s sales totaling %s this month", field(d, "sales_count"), money(d, "total")) },
		Email:    reportEmail,
		Priority: PriorityLow,
		Channels: []Channel{ChannelEmail},
	},
	TypePromotion: {
		Title:    func(d map[string]any) string { return firstNonEmpty(field(d, "headline"), "A deal for you") },
		Message:  func(d map[string]any) string { return field(d, "body") },
		Email:    standardEmail,
		Priority: PriorityLow,
		Channels: []Channel{ChannelInApp, ChannelEmail},
	},
}

// ResolveTemplate looks up the template for a notification type. An
// unregistered type is a caller bug and is reported before any side effect.
func ResolveTemplate(t NotificationType) (Template, bool) {
	tmpl, ok := templates[t]
	return tmpl, ok
}

// field extracts a payload value as a string, rendering missing or nil
// fields as empty text.
func field(data map[string]any, key string) string {
	v, ok := data[key]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// money formats a numeric payload value as a dollar amount. Non-numeric
// values fall back to plain rendering.
func money(data map[string]any, key string) string {
	v, ok := data[key]
	if !ok || v == nil {
		return ""
	}
	switch n := v.(type) {
	case float64:
		return fmt.Sprintf("$%.2f", n)
	case float32:
		return fmt.Sprintf("$%.2f", n)
	case int:
		return fmt.Sprintf("$%d", n)
	case int64:
		return fmt.Sprintf("$%d", n)
	default:
		return fmt.Sprint(v)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// standardEmail is the shared email body: greeting, message, optional
// action button. The dispatcher merges user_name, title, message, and
// action_url into the data before rendering.
func standardEmail(data map[string]any) string {
	body := fmt.Sprintf(
		`<h2>%s</h2><p>Hi %s,</p><p>%s</p>`,
		html.EscapeString(field(data, "title")),
		html.EscapeString(firstNonEmpty(field(data, "user_name"), "there")),
		html.EscapeString(field(data, "message")),
	)
	if url := field(data, "action_url"); url != "" {
		body += fmt.Sprintf(`<p><a href="%s">View details</a></p>`, html.EscapeString(url))
	}
	return body
}

func paymentEmail(data map[string]any) string {
	body := standardEmail(data)
	if ref := field(data, "reference"); ref != "" {
		body += fmt.Sprintf(`<p>Reference: <strong>%s</strong></p>`, html.EscapeString(ref))
	}
	return body
}

func securityEmail(data map[string]any) string {
	return standardEmail(data) +
		`<p>If this wasn't you, please reset your password immediately.</p>`
}

func reportEmail(data map[string]any) string {
	body := standardEmail(data)
	if period := field(data, "period"); period != "" {
		body += fmt.Sprintf(`<p>Reporting period: %s</p>`, html.EscapeString(period))
	}
	return body
}
