package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTemplate_AllTypesRegistered(t *testing.T) {
	types := []NotificationType{
		TypeOfferReceived, TypeOfferAccepted, TypeOfferRejected,
		TypeOfferCounter, TypeOfferExpired,
		TypePaymentReceived, TypePaymentFailed, TypePayoutSent,
		TypeListingSold, TypeListingExpired,
		TypeAutoMatchFound, TypePriceAlert, TypeEventReminder,
		TypeSecurityAlert, TypeAccountUpdated,
		TypeWeeklyReport, TypeMonthlyReport, TypePromotion,
	}

	for _, typ := range types {
		tmpl, ok := ResolveTemplate(typ)
		require.True(t, ok, "no template for %s", typ)
		assert.NotNil(t, tmpl.Title, "%s: nil title renderer", typ)
		assert.NotNil(t, tmpl.Message, "%s: nil message renderer", typ)
		assert.NotNil(t, tmpl.Email, "%s: nil email renderer", typ)
		assert.NotEmpty(t, tmpl.Priority, "%s: no default priority", typ)
		assert.NotEmpty(t, tmpl.Channels, "%s: no default channels", typ)
	}
}

func TestResolveTemplate_UnknownType(t *testing.T) {
	_, ok := ResolveTemplate("definitely_not_a_type")
	assert.False(t, ok)
}

func TestTemplate_RenderWithData(t *testing.T) {
	tmpl, ok := ResolveTemplate(TypeOfferAccepted)
	require.True(t, ok)

	data := map[string]any{"amount": 125.5, "event_name": "Summer Fest"}
	assert.Equal(t, "Offer accepted", tmpl.Title(data))
	assert.Equal(t, "Your $125.50 offer for Summer Fest was accepted", tmpl.Message(data))
}

func TestTemplate_RenderMissingFields(t *testing.T) {
	// Renderers must be total: missing payload fields render as empty text,
	// never panic.
	for typ := range templates {
		tmpl := templates[typ]
		assert.NotPanics(t, func() {
			tmpl.Title(nil)
			tmpl.Message(nil)
			tmpl.Email(map[string]any{})
		}, "type %s", typ)
	}
}

func TestTemplate_EmailRendering(t *testing.T) {
	tmpl, ok := ResolveTemplate(TypeListingSold)
	require.True(t, ok)

	body := tmpl.Email(map[string]any{
		"user_name":  "Ada",
		"title":      "Tickets sold",
		"message":    "Your listing for Summer Fest sold for $90.00",
		"action_url": "https://seatswap.example/sales/42",
	})

	assert.Contains(t, body, "Hi Ada")
	assert.Contains(t, body, "Tickets sold")
	assert.Contains(t, body, "https://seatswap.example/sales/42")
}

func TestTemplate_EmailGreetingFallback(t *testing.T) {
	tmpl, ok := ResolveTemplate(TypePriceAlert)
	require.True(t, ok)

	body := tmpl.Email(map[string]any{"title": "Price alert", "message": "drop"})
	assert.Contains(t, body, "Hi there")
}

func TestMoneyFormatting(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
		want string
	}{
		{"float", map[string]any{"amount": 42.0}, "$42.00"},
		{"int", map[string]any{"amount": 42}, "$42"},
		{"string passthrough", map[string]any{"amount": "a lot"}, "a lot"},
		{"missing", map[string]any{}, ""},
		{"nil value", map[string]any{"amount": nil}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, money(tt.data, "amount"))
		})
	}
}
