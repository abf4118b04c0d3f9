package daykey

import (
	"testing"
	"time"
)

// Two events on the same calendar day must map to the same key regardless
// of time of day.
func TestFromTimeSameDay(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	morning := time.Date(2025, 3, 10, 0, 0, 1, 0, loc)
	night := time.Date(2025, 3, 10, 23, 59, 59, 0, loc)

	if FromTime(morning, loc) != FromTime(night, loc) {
		t.Errorf("same-day events got different keys: %s vs %s",
			FromTime(morning, loc), FromTime(night, loc))
	}
	if got := FromTime(morning, loc); got != "2025-03-10" {
		t.Errorf("FromTime = %s, want 2025-03-10", got)
	}
}

// The key depends on the profile's zone, not the server's.
func TestFromTimeZoneBoundary(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// 02:00 UTC on the 11th is still the evening of the 10th in LA.
	utcNight := time.Date(2025, 3, 11, 2, 0, 0, 0, time.UTC)
	if got := FromTime(utcNight, loc); got != "2025-03-10" {
		t.Errorf("FromTime = %s, want 2025-03-10", got)
	}
	if got := FromTime(utcNight, nil); got != "2025-03-11" {
		t.Errorf("FromTime(nil loc) = %s, want 2025-03-11", got)
	}
}

func TestAdd(t *testing.T) {
	got, err := Add("2025-03-01", -1)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got != "2025-02-28" {
		t.Errorf("Add(2025-03-01, -1) = %s, want 2025-02-28", got)
	}

	// Leap year boundary.
	got, err = Add("2024-03-01", -1)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got != "2024-02-29" {
		t.Errorf("Add(2024-03-01, -1) = %s, want 2024-02-29", got)
	}
}

func TestRange(t *testing.T) {
	keys, err := Range("2025-06-10", 7)
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	if len(keys) != 7 {
		t.Fatalf("Range returned %d keys, want 7", len(keys))
	}
	if keys[0] != "2025-06-04" {
		t.Errorf("oldest key = %s, want 2025-06-04", keys[0])
	}
	if keys[6] != "2025-06-10" {
		t.Errorf("newest key = %s, want 2025-06-10", keys[6])
	}
	for i := 1; i < len(keys); i++ {
		if keys[i] <= keys[i-1] {
			t.Errorf("keys not strictly ascending at %d: %s <= %s", i, keys[i], keys[i-1])
		}
	}
}

func TestRangeInvalid(t *testing.T) {
	if _, err := Range("2025-06-10", 0); err == nil {
		t.Error("expected error for zero window")
	}
	if _, err := Range("junk", 7); err == nil {
		t.Error("expected error for malformed today key")
	}
}

func TestLabel(t *testing.T) {
	today := "2025-06-10" // a Tuesday
	cases := []struct {
		key  string
		want string
	}{
		{"2025-06-10", "Today"},
		{"2025-06-09", "Yesterday"},
		{"2025-06-08", "Sunday"},
		{"2025-06-04", "Wednesday"},
	}
	for _, tc := range cases {
		if got := Label(tc.key, today); got != tc.want {
			t.Errorf("Label(%s) = %s, want %s", tc.key, got, tc.want)
		}
	}
}
