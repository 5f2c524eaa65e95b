package utils

import (
	"testing"
	"time"
)

func TestParseDay(t *testing.T) {
	now := time.Date(2025, 2, 7, 12, 0, 0, 0, time.Local)
	cases := []struct {
		in, want string
	}{
		{"", "2025-02-07"},
		{"today", "2025-02-07"},
		{"yesterday", "2025-02-06"},
		{"2024-12-31", "2024-12-31"},
		{"07/02/25", "2025-02-07"},
	}
	for _, c := range cases {
		got, err := ParseDay(c.in, now)
		if err != nil {
			t.Fatalf("ParseDay(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ParseDay(%q) = %s, want %s", c.in, got, c.want)
		}
	}

	if _, err := ParseDay("next week", now); err == nil {
		t.Fatal("expected an error for an unknown day")
	}
}

func TestFormatTimestamp(t *testing.T) {
	at := time.Date(2024, 3, 10, 7, 30, 15, 0, time.Local)
	out := FormatTimestamp(at.UnixMilli())

	parsed, err := time.ParseInLocation(time.RFC1123, out, time.Local)
	if err != nil {
		t.Fatalf("FormatTimestamp = %q: %v", out, err)
	}
	if !parsed.Equal(at) {
		t.Fatalf("FormatTimestamp = %q, parses back as %s, want %s", out, parsed, at)
	}
}
