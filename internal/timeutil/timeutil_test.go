package timeutil

import (
	"testing"
	"time"
)

func TestStartOfDay(t *testing.T) {
	t.Parallel()

	input := time.Date(2026, 3, 1, 14, 37, 9, 123, time.Local)
	got := StartOfDay(input)

	if got.Year() != 2026 || got.Month() != time.March || got.Day() != 1 {
		t.Fatalf("unexpected date: %v", got)
	}
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 || got.Nanosecond() != 0 {
		t.Fatalf("expected midnight, got %v", got)
	}
}

func TestSameDay(t *testing.T) {
	t.Parallel()

	a := time.Date(2026, 3, 1, 9, 0, 0, 0, time.Local)
	b := time.Date(2026, 3, 1, 18, 30, 0, 0, time.Local)
	c := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)

	if !SameDay(a, b) {
		t.Fatalf("expected same day for %v and %v", a, b)
	}
	if SameDay(a, c) {
		t.Fatalf("expected different days for %v and %v", a, c)
	}
}

func TestIsWeekend(t *testing.T) {
	t.Parallel()

	saturday := time.Date(2024, 3, 2, 12, 0, 0, 0, time.Local)
	monday := time.Date(2024, 3, 4, 12, 0, 0, 0, time.Local)

	if !IsWeekend(saturday) {
		t.Fatalf("expected %v to be a weekend day", saturday)
	}
	if IsWeekend(monday) {
		t.Fatalf("expected %v to be a weekday", monday)
	}
}

func TestWorkingOverlap_PartialDays(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	start := time.Date(2024, 3, 1, 16, 0, 0, 0, time.Local)
	end := time.Date(2024, 3, 4, 10, 0, 0, 0, time.Local)

	if got := WorkingOverlap(day, start, end); got != time.Hour {
		t.Fatalf("expected 1h overlap on first day, got %v", got)
	}

	lastDay := time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local)
	if got := WorkingOverlap(lastDay, start, end); got != time.Hour {
		t.Fatalf("expected 1h overlap on last day, got %v", got)
	}
}

func TestWorkingOverlap_OutsideWindowIsZero(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	start := time.Date(2024, 3, 1, 18, 0, 0, 0, time.Local)
	end := time.Date(2024, 3, 2, 8, 0, 0, 0, time.Local)

	if got := WorkingOverlap(day, start, end); got != 0 {
		t.Fatalf("expected zero overlap, got %v", got)
	}
}
