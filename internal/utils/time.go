package utils

import (
	"fmt"
	"time"
)

const DayLayout = "2006-01-02"

// DayOf returns the local calendar day of t, formatted as YYYY-MM-DD.
func DayOf(t time.Time) string {
	return t.Local().Format(DayLayout)
}

// ParseDay accepts "2006-01-02", "02/01/06" or the words today/yesterday.
func ParseDay(s string, now time.Time) (string, error) {
	switch s {
	case "", "today":
		return DayOf(now), nil
	case "yesterday":
		return DayOf(now.AddDate(0, 0, -1)), nil
	}

	d, err := time.ParseInLocation(DayLayout, s, time.Local)
	if err != nil {
		d, err = time.ParseInLocation("02/01/06", s, time.Local)
	}
	if err != nil {
		return "", fmt.Errorf("Failed to parse day %q: %w", s, err)
	}
	return d.Format(DayLayout), nil
}

// FormatTimestamp renders a unix millisecond timestamp in local time.
func FormatTimestamp(ms int64) string {
	return time.UnixMilli(ms).Local().Format(time.RFC1123)
}
