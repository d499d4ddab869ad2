package notification

// DefaultPreferences synthesizes the preferences used for users with no
// stored record. SMS and marketing are opt-in; everything else is on.
// Defaults are never written back to the preference store.
func DefaultPreferences(userID string) *Preferences {
	return &Preferences{
		UserID:                 userID,
		InAppEnabled:           true,
		EmailEnabled:           true,
		SMSEnabled:             false,
		PushEnabled:            true,
		OfferNotifications:     true,
		PaymentNotifications:   true,
		MarketingNotifications: false,
		AutoMatchNotifications: true,
		PriceAlerts:            true,
		EventReminders:         true,
		WeeklyReports:          true,
	}
}

// categoryGate maps each notification type to the preference toggle that
// governs it. Security alerts are handled separately and types missing from
// the table are allowed; a new type must not silently vanish before its
// category rule is added.
var categoryGate = map[NotificationType]func(p *Preferences) bool{
	TypeOfferReceived:   func(p *Preferences) bool { return p.OfferNotifications },
	TypeOfferAccepted:   func(p *Preferences) bool { return p.OfferNotifications },
	TypeOfferRejected:   func(p *Preferences) bool { return p.OfferNotifications },
	TypeOfferCounter:    func(p *Preferences) bool { return p.OfferNotifications },
	TypeOfferExpired:    func(p *Preferences) bool { return p.OfferNotifications },
	TypePaymentReceived: func(p *Preferences) bool { return p.PaymentNotifications },
	TypePaymentFailed:   func(p *Preferences) bool { return p.PaymentNotifications },
	TypePayoutSent:      func(p *Preferences) bool { return p.PaymentNotifications },
	TypeAutoMatchFound:  func(p *Preferences) bool { return p.AutoMatchNotifications },
	TypePriceAlert:      func(p *Preferences) bool { return p.PriceAlerts },
	TypeEventReminder:   func(p *Preferences) bool { return p.EventReminders },
	TypeWeeklyReport:    func(p *Preferences) bool { return p.WeeklyReports },
	TypeMonthlyReport:   func(p *Preferences) bool { return p.WeeklyReports },
	TypePromotion:       func(p *Preferences) bool { return p.MarketingNotifications },
}

// Allows reports whether the user's category preferences permit a
// notification of the given type. Security alerts are always allowed.
func (p *Preferences) Allows(t NotificationType) bool {
	if t == TypeSecurityAlert {
		return true
	}
	gate, ok := categoryGate[t]
	if !ok {
		return true
	}
	return gate(p)
}

// ChannelEnabled reports whether the user has the given delivery channel
// switched on.
func (p *Preferences) ChannelEnabled(c Channel) bool {
	switch c {
	case ChannelInApp:
		return p.InAppEnabled
	case ChannelEmail:
		return p.EmailEnabled
	case ChannelSMS:
		return p.SMSEnabled
	case ChannelPush:
		return p.PushEnabled
	default:
		return false
	}
}
