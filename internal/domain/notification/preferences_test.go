package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPreferences(t *testing.T) {
	p := DefaultPreferences("u1")

	assert.Equal(t, "u1", p.UserID)

	// SMS and marketing are opt-in; everything else defaults on.
	assert.False(t, p.SMSEnabled)
	assert.False(t, p.MarketingNotifications)
	assert.True(t, p.InAppEnabled)
	assert.True(t, p.EmailEnabled)
	assert.True(t, p.PushEnabled)
	assert.True(t, p.OfferNotifications)
	assert.True(t, p.PaymentNotifications)
	assert.True(t, p.AutoMatchNotifications)
	assert.True(t, p.PriceAlerts)
	assert.True(t, p.EventReminders)
	assert.True(t, p.WeeklyReports)
	assert.Empty(t, p.QuietHoursStart)
	assert.Empty(t, p.QuietHoursEnd)
}

func TestPreferences_Allows(t *testing.T) {
	allOff := &Preferences{} // every toggle false

	tests := []struct {
		name  string
		typ   NotificationType
		prefs *Preferences
		want  bool
	}{
		{"offer blocked", TypeOfferAccepted, allOff, false},
		{"offer allowed", TypeOfferAccepted, &Preferences{OfferNotifications: true}, true},
		{"counter follows offer toggle", TypeOfferCounter, allOff, false},
		{"payment blocked", TypePaymentFailed, allOff, false},
		{"payment allowed", TypePaymentReceived, &Preferences{PaymentNotifications: true}, true},
		{"payout follows payment toggle", TypePayoutSent, allOff, false},
		{"automatch blocked", TypeAutoMatchFound, allOff, false},
		{"price alert blocked", TypePriceAlert, allOff, false},
		{"event reminder blocked", TypeEventReminder, allOff, false},
		{"weekly report blocked", TypeWeeklyReport, allOff, false},
		{"monthly follows weekly toggle", TypeMonthlyReport, allOff, false},
		{"promotion blocked", TypePromotion, &Preferences{MarketingNotifications: false}, false},
		{"promotion allowed", TypePromotion, &Preferences{MarketingNotifications: true}, true},
		{"security alert always allowed", TypeSecurityAlert, allOff, true},
		{"unmapped type allowed", TypeAccountUpdated, allOff, true},
		{"unknown type allowed", NotificationType("brand_new_type"), allOff, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.prefs.Allows(tt.typ))
		})
	}
}

func TestPreferences_ChannelEnabled(t *testing.T) {
	p := &Preferences{InAppEnabled: true, EmailEnabled: true}

	assert.True(t, p.ChannelEnabled(ChannelInApp))
	assert.True(t, p.ChannelEnabled(ChannelEmail))
	assert.False(t, p.ChannelEnabled(ChannelSMS))
	assert.False(t, p.ChannelEnabled(ChannelPush))
	assert.False(t, p.ChannelEnabled(Channel("carrier_pigeon")))
}
