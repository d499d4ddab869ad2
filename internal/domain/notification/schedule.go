package notification

import (
	"fmt"
	"time"
)

// fallbackQuietEndHour is used by nextAllowedTime when the quiet-hours end
// is missing or unparseable: 08:00 the following day.
const fallbackQuietEndHour = 8

// parseClock parses an "HH:MM" 24-hour wall-clock string.
func parseClock(s string) (hour, minute int, ok bool) {
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return 0, 0, false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

// inQuietHours reports whether now falls inside the user's quiet-hours
// window. The comparison is hour-of-day only: the window is [startHour,
// endHour), wrapping midnight when start > end. Missing either bound means
// the user has no quiet hours.
func inQuietHours(p *Preferences, now time.Time) bool {
	if p.QuietHoursStart == "" || p.QuietHoursEnd == "" {
		return false
	}
	start, _, ok := parseClock(p.QuietHoursStart)
	if !ok {
		return false
	}
	end, _, ok := parseClock(p.QuietHoursEnd)
	if !ok {
		return false
	}

	h := now.Hour()
	if start <= end {
		return h >= start && h < end
	}
	// Window wraps midnight, e.g. 22:00-06:00.
	return h >= start || h < end
}

// nextAllowedTime returns the next moment delivery may resume: the next
// occurrence of the quiet-hours end (minutes honored), or 08:00 the
// following day when no valid end is configured.
func nextAllowedTime(p *Preferences, now time.Time) time.Time {
	hour, minute, ok := parseClock(p.QuietHoursEnd)
	if !ok {
		next := now.AddDate(0, 0, 1)
		return time.Date(next.Year(), next.Month(), next.Day(), fallbackQuietEndHour, 0, 0, 0, now.Location())
	}

	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
