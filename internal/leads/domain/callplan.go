// Package domain provides core business rules for the leads bounded context.
package domain

import (
	"errors"
	"strings"
	"time"

	// Zone rules are embedded so scheduling does not depend on the host's zoneinfo.
	_ "time/tzdata"
)

// DefaultTimezone is used when a lead has no preferred timezone.
const DefaultTimezone = "UTC"

// ErrInvalidNextCallDate is returned when an explicit call date cannot be parsed.
var ErrInvalidNextCallDate = errors.New("invalid next call date")

// wallClockLayouts are accepted for explicit call dates without a UTC offset.
// They are placed in the lead's own zone.
var wallClockLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// LoadZone resolves an IANA zone name. Empty names resolve to DefaultTimezone.
func LoadZone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultTimezone
	}
	return time.LoadLocation(name)
}

// NextCallDate advances from by frequencyDays calendar days in loc. The wall
// clock time is kept across DST transitions, so the elapsed duration may be
// an hour more or less than frequencyDays*24h.
func NextCallDate(from time.Time, frequencyDays int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return from.In(loc).AddDate(0, 0, frequencyDays)
}

// StartOfDay returns midnight of now's calendar day in loc.
func StartOfDay(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// ParseNextCallDate interprets an explicit call date in loc. Values carrying
// their own offset (RFC 3339) keep that instant; wall-clock and date-only
// values are read as local time in loc.
func ParseNextCallDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrInvalidNextCallDate
	}
	if loc == nil {
		loc = time.UTC
	}

	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.In(loc), nil
	}

	for _, layout := range wallClockLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, ErrInvalidNextCallDate
}

// IsDue reports whether a lead scheduled at nextCallDate belongs on the call
// list whose cutoff is the start of the current day. The cutoff is inclusive.
func IsDue(nextCallDate, cutoff time.Time) bool {
	return !nextCallDate.After(cutoff)
}
