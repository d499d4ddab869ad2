package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 14, hour, minute, 0, 0, time.UTC)
}

func TestInQuietHours(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		now        time.Time
		want       bool
	}{
		{"no window configured", "", "", at(23, 0), false},
		{"only start configured", "22:00", "", at(23, 0), false},
		{"only end configured", "", "06:00", at(2, 0), false},
		{"inside simple window", "09:00", "17:00", at(12, 0), true},
		{"before simple window", "09:00", "17:00", at(8, 59), false},
		{"at window start", "09:00", "17:00", at(9, 0), true},
		{"at window end is outside", "09:00", "17:00", at(17, 0), false},
		{"wraparound late evening", "22:00", "06:00", at(23, 0), true},
		{"wraparound early morning", "22:00", "06:00", at(2, 0), true},
		{"wraparound daytime", "22:00", "06:00", at(10, 0), false},
		{"minutes ignored in comparison", "22:30", "06:00", at(22, 0), true},
		{"unparseable start", "bogus", "06:00", at(2, 0), false},
		{"equal bounds is empty window", "08:00", "08:00", at(8, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Preferences{QuietHoursStart: tt.start, QuietHoursEnd: tt.end}
			assert.Equal(t, tt.want, inQuietHours(p, tt.now))
		})
	}
}

func TestNextAllowedTime(t *testing.T) {
	t.Run("end later today", func(t *testing.T) {
		p := &Preferences{QuietHoursStart: "01:00", QuietHoursEnd: "06:30"}
		got := nextAllowedTime(p, at(2, 0))
		assert.Equal(t, at(6, 30), got)
	})

	t.Run("end already passed rolls to tomorrow", func(t *testing.T) {
		p := &Preferences{QuietHoursStart: "22:00", QuietHoursEnd: "06:00"}
		got := nextAllowedTime(p, at(23, 0))
		assert.Equal(t, at(6, 0).AddDate(0, 0, 1), got)
	})

	t.Run("minutes are honored", func(t *testing.T) {
		p := &Preferences{QuietHoursEnd: "06:45"}
		got := nextAllowedTime(p, at(5, 0))
		assert.Equal(t, 45, got.Minute())
	})

	t.Run("missing end falls back to 08:00 next day", func(t *testing.T) {
		p := &Preferences{}
		got := nextAllowedTime(p, at(23, 0))
		assert.Equal(t, at(8, 0).AddDate(0, 0, 1), got)
	})
}

func TestParseClock(t *testing.T) {
	h, m, ok := parseClock("22:30")
	assert.True(t, ok)
	assert.Equal(t, 22, h)
	assert.Equal(t, 30, m)

	for _, bad := range []string{"", "25:00", "12:75", "noon", "-1:00"} {
		_, _, ok := parseClock(bad)
		assert.False(t, ok, "expected %q to fail", bad)
	}
}
