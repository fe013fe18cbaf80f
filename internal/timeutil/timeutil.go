package timeutil

import (
	"fmt"
	"strings"
	"time"
)

const (
	// ISOLayout is the canonical wire format for event timestamps (no zone).
	ISOLayout = "2006-01-02T15:04:05"
	// DateLayout is the canonical wire format for calendar dates.
	DateLayout = "2006-01-02"
	// DisplayLayout is how timestamps are rendered back to the user.
	DisplayLayout = "02.01.2006 15:04"
	clockLayout   = "15:04"
)

var defaultLocation = time.UTC

// wallClockLayouts are tried in order by ParseWallClock.
var wallClockLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ResolveLocation returns the location for timezone with UTC fallback.
// The bool reports whether the fallback was used.
func ResolveLocation(timezone string) (*time.Location, bool) {
	if timezone == "" {
		return defaultLocation, true
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return defaultLocation, true
	}
	return loc, false
}

// ParseWallClock parses a zone-less date and time. The result carries the
// wall clock reading in UTC, which is how events are stored.
func ParseWallClock(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("time value is required")
	}

	for _, layout := range wallClockLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse time: %s", value)
}

// ParseDate parses a YYYY-MM-DD date at midnight UTC.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("date value is required")
	}

	d, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse date: %s", value)
	}
	return d, nil
}

// Clock is a time of day without a date.
type Clock struct {
	Hour   int
	Minute int
	Second int
}

// ParseClock accepts HH:MM and HH:MM:SS.
func ParseClock(value string) (Clock, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{"15:04:05", clockLayout} {
		if t, err := time.Parse(layout, value); err == nil {
			return Clock{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
		}
	}
	return Clock{}, fmt.Errorf("unable to parse time of day: %q", value)
}

// On places the clock on the calendar day of date.
func (c Clock) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour, c.Minute, c.Second, 0, time.UTC)
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// DayStart returns 00:00:00 of the day containing t.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayEnd returns 23:59:59 of the day containing t.
func DayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, time.UTC)
}

// Today returns the current calendar date in loc as a midnight UTC value.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = defaultLocation
	}
	return DayStart(now.In(loc))
}

// FormatISO renders t in the canonical wire format.
func FormatISO(t time.Time) string {
	return t.Format(ISOLayout)
}

// FormatDisplay renders t as dd.mm.yyyy HH:MM.
func FormatDisplay(t time.Time) string {
	return t.Format(DisplayLayout)
}

// FormatClock renders only the time of day of t.
func FormatClock(t time.Time) string {
	return t.Format(clockLayout)
}
