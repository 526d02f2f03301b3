// Package model defines domain types for purse purchases and budget views.
package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// DayLayout is the wire and display layout of an accounting day.
const DayLayout = "2006-01-02"

// ClockLayout is the wire and display layout of a purchase time.
const ClockLayout = "15:04"

// Day is a calendar date with no time-of-day component.
// The zero Day is "no date".
type Day struct {
	time.Time
}

// NewDay returns the Day for year, month, day.
func NewDay(year int, month time.Month, day int) Day {
	return Day{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOf returns the calendar date of t in t's own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return NewDay(y, m, d)
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("parsing day %q: %w", s, err)
	}
	return Day{Time: t}, nil
}

// String returns the YYYY-MM-DD form, or "" for the zero Day.
func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DayLayout)
}

// Next returns the following calendar day.
func (d Day) Next() Day {
	return Day{Time: d.AddDate(0, 0, 1)}
}

// Equal reports whether d and o are the same calendar date.
func (d Day) Equal(o Day) bool {
	return d.Time.Equal(o.Time)
}

// Month returns the first day of d's month.
func (d Day) Month() Day {
	return NewDay(d.Year(), d.Time.Month(), 1)
}

// MarshalText implements encoding.TextMarshaler.
func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty input yields the zero Day.
func (d *Day) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Day{}
		return nil
	}
	parsed, err := ParseDay(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON overrides the promoted time.Time encoding.
func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts a YYYY-MM-DD string or null.
func (d *Day) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Day{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("parsing day: %w", err)
	}
	return d.UnmarshalText([]byte(s))
}

// ParseClock validates an HH:MM string and returns it normalized.
func ParseClock(s string) (string, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return "", fmt.Errorf("parsing time %q: %w", s, err)
	}
	return t.Format(ClockLayout), nil
}

// FormatClock returns the HH:MM form of t in t's location.
func FormatClock(t time.Time) string {
	return t.Format(ClockLayout)
}
