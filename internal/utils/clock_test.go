package utils

import (
	"testing"
	"time"
)

func TestParisDay(t *testing.T) {
	// 23:30 UTC is already the next day in Paris (UTC+1 in winter).
	instant := time.Date(2026, 1, 10, 23, 30, 0, 0, time.UTC)
	day := ParisDay(instant)

	if day.Day() != 11 || day.Hour() != 0 {
		t.Fatalf("expected Paris midnight on the 11th, got %v", day)
	}
}

func TestDaysBetween(t *testing.T) {
	t.Run("same day", func(t *testing.T) {
		a := time.Date(2026, 5, 2, 1, 0, 0, 0, time.UTC)
		b := time.Date(2026, 5, 2, 20, 0, 0, 0, time.UTC)
		if got := DaysBetween(a, b); got != 0 {
			t.Fatalf("expected 0 days, got %d", got)
		}
	})

	t.Run("across DST transition", func(t *testing.T) {
		// 2026-03-29 is a 23-hour day in Paris; naive hour division would
		// round it away.
		a := time.Date(2026, 3, 28, 12, 0, 0, 0, time.UTC)
		b := time.Date(2026, 3, 29, 12, 0, 0, 0, time.UTC)
		if got := DaysBetween(a, b); got != 1 {
			t.Fatalf("expected 1 day across DST, got %d", got)
		}
	})

	t.Run("negative direction", func(t *testing.T) {
		a := time.Date(2026, 5, 5, 0, 0, 0, 0, time.UTC)
		b := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
		if got := DaysBetween(a, b); got != -3 {
			t.Fatalf("expected -3 days, got %d", got)
		}
	})
}
