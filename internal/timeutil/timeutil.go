package timeutil

import "time"

// Working window used when clipping multi-day spans: 09:00-17:00 local time,
// Monday through Friday.
const (
	WorkdayStartHour = 9
	WorkdayEndHour   = 17
)

func StartOfDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, value.Location())
}

func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func IsWeekend(value time.Time) bool {
	switch value.Weekday() {
	case time.Saturday, time.Sunday:
		return true
	default:
		return false
	}
}

// WorkingOverlap returns the portion of [start, end] that falls inside the
// working window of the given day. Negative overlaps collapse to zero.
func WorkingOverlap(day, start, end time.Time) time.Duration {
	windowStart := time.Date(day.Year(), day.Month(), day.Day(), WorkdayStartHour, 0, 0, 0, day.Location())
	windowEnd := time.Date(day.Year(), day.Month(), day.Day(), WorkdayEndHour, 0, 0, 0, day.Location())

	overlapStart := start
	if overlapStart.Before(windowStart) {
		overlapStart = windowStart
	}
	overlapEnd := end
	if overlapEnd.After(windowEnd) {
		overlapEnd = windowEnd
	}

	overlap := overlapEnd.Sub(overlapStart)
	if overlap < 0 {
		return 0
	}
	return overlap
}
