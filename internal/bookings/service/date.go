package service

import (
	"strings"
	"time"

	bookingserrors "gymstore/internal/bookings/errors"
)

const day = 24 * time.Hour

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// NormalizeDate parses raw and returns 00:00 UTC of the calendar day as the
// caller wrote it. "2024-06-01T23:30:00-05:00" is June 1st, not June 2nd.
func NormalizeDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return CanonicalDay(t), nil
		}
	}
	return time.Time{}, bookingserrors.ErrInvalidDate
}

// CanonicalDay keeps the y/m/d of t in its own location and drops the rest.
func CanonicalDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayWindow returns the half-open range [start, start+24h) of a canonical day.
func DayWindow(canonical time.Time) (time.Time, time.Time) {
	return canonical, canonical.Add(day)
}
