package client

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of calendar dates (Java LocalDate).
const DateLayout = "2006-01-02"

// DateTimeLayout is the wire format of local timestamps (Java LocalDateTime).
const DateTimeLayout = "2006-01-02T15:04:05"

// Date is a calendar date without time zone, encoded as "YYYY-MM-DD".
type Date time.Time

// NewDate returns the date of the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t as seen in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date(t), nil
}

// Time returns the date at midnight UTC.
func (d Date) Time() time.Time {
	return time.Time(d)
}

// IsZero reports whether d is the zero date.
func (d Date) IsZero() bool {
	return time.Time(d).IsZero()
}

// In returns the date at the given wall clock hour in loc.
func (d Date) In(loc *time.Location, hour int) time.Time {
	t := time.Time(d)
	return time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, loc)
}

// String formats the date as "YYYY-MM-DD", or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return time.Time(d).Format(DateLayout)
}

// BR formats the date as "DD/MM/YYYY".
func (d Date) BR() string {
	if d.IsZero() {
		return "-"
	}
	return time.Time(d).Format("02/01/2006")
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	// Some endpoints serialize dates as full timestamps.
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return fmt.Errorf("error parsing date '%s' with layout '%s': %w", s, DateLayout, err)
	}
	*d = Date(t)
	return nil
}

// DateTime is a local timestamp without zone, encoded as "YYYY-MM-DDTHH:MM:SS".
type DateTime time.Time

var dateTimeLayouts = []string{
	DateTimeLayout,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	time.RFC3339Nano,
}

// ParseDateTime accepts the wire layout and the HTML datetime-local layout.
func ParseDateTime(s string) (DateTime, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateTime(t), nil
		}
	}
	return DateTime{}, fmt.Errorf("invalid datetime %q", s)
}

func (d DateTime) Time() time.Time {
	return time.Time(d)
}

func (d DateTime) IsZero() bool {
	return time.Time(d).IsZero()
}

func (d DateTime) String() string {
	if d.IsZero() {
		return ""
	}
	return time.Time(d).Format(DateTimeLayout)
}

// BR formats the timestamp as "DD/MM/YYYY HH:MM".
func (d DateTime) BR() string {
	if d.IsZero() {
		return "-"
	}
	return time.Time(d).Format("02/01/2006 15:04")
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *DateTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = DateTime{}
		return nil
	}
	parsed, err := ParseDateTime(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
