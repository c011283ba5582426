package scraper

import (
	"fmt"
	"time"
)

// Bounds for the fan-out of a multi-week fetch.
const (
	MinWeeks = 1
	MaxWeeks = 6
)

// CurrentMonday returns the Monday of the current local calendar week.
func CurrentMonday() time.Time {
	today := midnight(time.Now())
	return today.AddDate(0, 0, -mondayOffset(today))
}

// ValidMonday resolves the Monday anchoring a requested week. With a nil
// target it returns the current week's Monday. An explicit target must be a
// Monday and no more than two weeks in the past; it is returned unchanged
// (truncated to midnight) otherwise the matching sentinel error is returned.
func ValidMonday(target *time.Time) (time.Time, error) {
	if target == nil {
		return CurrentMonday(), nil
	}
	given := midnight(*target)
	if mondayOffset(given) != 0 {
		return time.Time{}, ErrInvalidMonday
	}
	twoWeeksAgo := midnight(time.Now()).AddDate(0, 0, -14)
	if given.Before(twoWeeksAgo) {
		return time.Time{}, ErrTooOld
	}
	return given, nil
}

// WeekMondays returns weeks consecutive Mondays starting at first.
func WeekMondays(first time.Time, weeks int) []time.Time {
	mondays := make([]time.Time, weeks)
	for i := range mondays {
		mondays[i] = first.AddDate(0, 0, 7*i)
	}
	return mondays
}

// ValidateWeeks checks a caller-supplied week count against the allowed
// fan-out range.
func ValidateWeeks(weeks int) error {
	if weeks < MinWeeks || weeks > MaxWeeks {
		return fmt.Errorf("weeks must be between %d and %d", MinWeeks, MaxWeeks)
	}
	return nil
}

// mondayOffset is the zero-based weekday offset with Monday as 0.
func mondayOffset(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
