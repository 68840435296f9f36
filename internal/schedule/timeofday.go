package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a clinic-local wall-clock time expressed as minutes since
// midnight. Appointments never cross midnight, so a single day's worth of
// minutes is enough.
type TimeOfDay int

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS". Seconds are dropped; the
// schedule granularity is one minute.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}

	if len(parts) == 3 {
		if _, err := strconv.Atoi(parts[2]); err != nil {
			return 0, fmt.Errorf("invalid second in %q", s)
		}
	}

	return TimeOfDay(hour*60 + minute), nil
}

// MustTimeOfDay panics on a malformed literal. Intended for constants and
// test fixtures only.
func MustTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// Add returns the time of day shifted forward by the given number of minutes.
func (t TimeOfDay) Add(minutes int) TimeOfDay {
	return t + TimeOfDay(minutes)
}

// String renders the 24-hour "HH:MM" form used in stored schedules.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Display renders the 12-hour form shown to patients, e.g. "9:00 AM".
func (t TimeOfDay) Display() string {
	ref := time.Date(0, time.January, 1, t.Hour(), t.Minute(), 0, 0, time.UTC)
	return ref.Format("3:04 PM")
}

// At anchors the time of day onto a calendar date in that date's location.
func (t TimeOfDay) At(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location())
}

// TimeWindow is a half-open interval [Start, End) within a single day.
type TimeWindow struct {
	Start TimeOfDay
	End   TimeOfDay
}

// Contains reports whether [start, end) fits entirely inside the window.
func (w TimeWindow) Contains(start, end TimeOfDay) bool {
	return start >= w.Start && end <= w.End
}

// Overlaps is the canonical half-open interval overlap test. Two intervals
// touching at a boundary (one ends exactly when the other starts) do not
// overlap.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.Start < other.End && other.Start < w.End
}
