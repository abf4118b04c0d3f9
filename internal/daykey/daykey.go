// Package daykey derives the canonical day key used to bucket log entries.
//
// A day key is the "YYYY-MM-DD" date of the local calendar day an event
// belongs to, derived exactly once when the entry is written. Read paths
// compare stored keys only and never re-derive a day from a precise
// timestamp, so entries cannot drift between days across time zone or DST
// changes. Lexicographic order of keys equals chronological order.
package daykey

import (
	"errors"
	"time"
)

// Layout is the reference layout for day keys.
const Layout = "2006-01-02"

// ErrInvalidKey reports a string that is not a valid day key.
var ErrInvalidKey = errors.New("invalid day key")

// FromTime returns the day key of t in the given location.
// A nil location means UTC.
func FromTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(Layout)
}

// Validate reports whether key is a well-formed day key.
func Validate(key string) error {
	if _, err := time.Parse(Layout, key); err != nil {
		return ErrInvalidKey
	}
	return nil
}

// Parse returns the midnight UTC instant of the key's calendar day.
// The instant is only used for arithmetic (Add, Weekday); it is never
// compared against event timestamps.
func Parse(key string) (time.Time, error) {
	t, err := time.Parse(Layout, key)
	if err != nil {
		return time.Time{}, ErrInvalidKey
	}
	return t, nil
}

// Add returns the day key days calendar days after key (negative for past).
func Add(key string, days int) (string, error) {
	t, err := Parse(key)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, days).Format(Layout), nil
}

// Range returns n consecutive day keys ending at today, oldest first.
func Range(today string, n int) ([]string, error) {
	if n <= 0 {
		return nil, errors.New("window size must be positive")
	}
	end, err := Parse(today)
	if err != nil {
		return nil, err
	}

	keys := make([]string, n)
	for offset := 0; offset < n; offset++ {
		keys[n-1-offset] = end.AddDate(0, 0, -offset).Format(Layout)
	}
	return keys, nil
}

// Label returns a human label for key relative to today:
// "Today", "Yesterday", or the weekday name ("Monday", ...).
// Malformed keys are returned as-is so a bad label never hides data.
func Label(key, today string) string {
	if key == today {
		return "Today"
	}
	yesterday, err := Add(today, -1)
	if err == nil && key == yesterday {
		return "Yesterday"
	}
	t, err := Parse(key)
	if err != nil {
		return key
	}
	return t.Weekday().String()
}
