package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-02-20")
	if err != nil {
		t.Fatalf("ParseDate returned error: %v", err)
	}
	if d.String() != "2025-02-20" {
		t.Errorf("expected 2025-02-20, got %s", d.String())
	}

	if _, err := ParseDate("20/02/2025"); err == nil {
		t.Error("expected error for non ISO date")
	}
	if _, err := ParseDate(""); err == nil {
		t.Error("expected error for empty string")
	}
}

func TestDateAddMonths(t *testing.T) {
	tests := []struct {
		start  string
		months int
		want   string
	}{
		{"2025-02-20", 6, "2025-08-20"},
		{"2025-08-20", 6, "2026-02-20"},
		{"2025-01-31", 1, "2025-03-03"}, // Go normalizes overflow days
	}

	for _, tt := range tests {
		d, err := ParseDate(tt.start)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", tt.start, err)
		}
		got := d.AddMonths(tt.months).String()
		if got != tt.want {
			t.Errorf("AddMonths(%q, %d) = %s, want %s", tt.start, tt.months, got, tt.want)
		}
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2025, time.March, 5)

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `"2025-03-05"` {
		t.Errorf("expected quoted ISO date, got %s", data)
	}

	var parsed Date
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !parsed.Equal(d.Time) {
		t.Errorf("round trip mismatch: %s != %s", parsed, d)
	}
}

func TestDateScan(t *testing.T) {
	var d Date

	if err := d.Scan(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Scan(time.Time): %v", err)
	}
	if d.String() != "2025-06-01" {
		t.Errorf("expected 2025-06-01, got %s", d.String())
	}

	if err := d.Scan("2025-07-15"); err != nil {
		t.Fatalf("Scan(string): %v", err)
	}
	if d.String() != "2025-07-15" {
		t.Errorf("expected 2025-07-15, got %s", d.String())
	}

	if err := d.Scan(nil); err != nil {
		t.Fatalf("Scan(nil): %v", err)
	}
}

func TestDateBefore(t *testing.T) {
	earlier := NewDate(2025, time.January, 1)
	later := NewDate(2025, time.December, 31)

	if !earlier.Before(later) {
		t.Error("expected earlier.Before(later)")
	}
	if later.Before(earlier) {
		t.Error("later should not be before earlier")
	}
	if earlier.Before(earlier) {
		t.Error("a date is not before itself")
	}
}
