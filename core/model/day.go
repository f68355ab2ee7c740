package model

import (
	"fmt"
	"time"
)

// dayLayout is the wire format for calendar dates.
const dayLayout = "2006-01-02"

// Day is a calendar date with day precision. It is comparable and safe to
// use as a map key; no time zone or clock time is attached.
type Day struct {
	Year  int
	Month time.Month
	Date  int
}

// NewDay builds a Day from its components.
func NewDay(year int, month time.Month, date int) Day {
	// Normalize through time.Date so Jan 32 becomes Feb 1.
	return DayOf(time.Date(year, month, date, 0, 0, 0, 0, time.UTC))
}

// DayOf truncates a time.Time to its calendar date.
func DayOf(t time.Time) Day {
	return Day{Year: t.Year(), Month: t.Month(), Date: t.Day()}
}

// ParseDay parses a date in the 2006-01-02 layout.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return DayOf(t), nil
}

// Time returns the day as midnight UTC.
func (d Day) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Date, 0, 0, 0, 0, time.UTC)
}

// IsZero reports whether the day is the zero value.
func (d Day) IsZero() bool { return d == Day{} }

// Weekday returns the day of the week.
func (d Day) Weekday() time.Weekday { return d.Time().Weekday() }

// AddDays returns the day n days later (or earlier for negative n).
func (d Day) AddDays(n int) Day { return DayOf(d.Time().AddDate(0, 0, n)) }

// Before reports whether d falls before o.
func (d Day) Before(o Day) bool { return d.Time().Before(o.Time()) }

// After reports whether d falls after o.
func (d Day) After(o Day) bool { return d.Time().After(o.Time()) }

// DaysUntil returns the number of whole days from d to o; negative when o
// is in the past relative to d.
func (d Day) DaysUntil(o Day) int {
	return int(o.Time().Sub(d.Time()) / (24 * time.Hour))
}

// Format renders the day using a time layout string.
func (d Day) Format(layout string) string { return d.Time().Format(layout) }

// String renders the day in the 2006-01-02 layout.
func (d Day) String() string { return d.Format(dayLayout) }

// MarshalJSON encodes the day as a 2006-01-02 string.
func (d Day) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a 2006-01-02 string.
func (d *Day) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("invalid day %s", b)
	}
	day, err := ParseDay(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*d = day
	return nil
}
