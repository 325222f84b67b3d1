// Package businessday computes Monday–Friday calendar dates. Public holidays
// are not modelled; a holiday shows up as a business day without published
// rates.
package businessday

import (
	"fmt"
	"time"

	"github.com/SscSPs/exchange_sync_app/internal/apperrors"
)

// DateLayout is the wire format used for calendar dates everywhere in the service.
const DateLayout = "2006-01-02"

// DateOf returns the calendar date of t, as observed in t's own location,
// represented as midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the calendar date of now in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(now.In(loc))
}

// IsBusinessDay reports whether t falls on Monday through Friday.
func IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// Back returns the count most recent business days ending at reference,
// newest first. reference itself is included when it is a weekday.
func Back(reference time.Time, count int) ([]time.Time, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: business day count must be at least 1, got %d", apperrors.ErrValidation, count)
	}
	days := make([]time.Time, 0, count)
	current := DateOf(reference)
	for len(days) < count {
		if IsBusinessDay(current) {
			days = append(days, current)
		}
		current = current.AddDate(0, 0, -1)
	}
	return days, nil
}

// Between returns the business days in (startExclusive, endInclusive], oldest first.
func Between(startExclusive, endInclusive time.Time) []time.Time {
	start := DateOf(startExclusive)
	end := DateOf(endInclusive)
	var days []time.Time
	for current := start.AddDate(0, 0, 1); !current.After(end); current = current.AddDate(0, 0, 1) {
		if IsBusinessDay(current) {
			days = append(days, current)
		}
	}
	return days
}

// Format renders a calendar date using DateLayout.
func Format(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatAll renders each date using DateLayout.
func FormatAll(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = Format(d)
	}
	return out
}

// Parse parses a DateLayout string into a calendar date.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", apperrors.ErrValidation, s)
	}
	return t, nil
}
