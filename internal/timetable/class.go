package timetable

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// LocalTimeLayout is the wire format for class start instants. The site
// publishes wall-clock times without a zone, so they are carried as-is.
const LocalTimeLayout = "2006-01-02T15:04:05"

// LocalTime is a floating (zone-less) date-time that serializes without an
// offset suffix.
type LocalTime struct {
	time.Time
}

// NewLocalTime wraps t as a floating local time.
func NewLocalTime(t time.Time) LocalTime {
	return LocalTime{t}
}

func (t LocalTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(LocalTimeLayout) + `"`), nil
}

func (t *LocalTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := time.ParseInLocation(LocalTimeLayout, s, time.Local)
	if err != nil {
		return fmt.Errorf("parsing local time %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

// ClassItem is a single schedule entry scraped from the agenda page.
type ClassItem struct {
	Date        LocalTime `json:"date"`
	EventName   string    `json:"event_name"`
	Coach       string    `json:"coach"`
	DurationMin *int      `json:"duration_min,omitempty"`
	SourceURL   string    `json:"source_url"`
	Location    string    `json:"location,omitempty"`
}

// Sort orders classes ascending by start instant, with ties broken
// lexicographically on event name and then coach. The ordering is total, so
// output is deterministic regardless of scrape order.
func Sort(classes []ClassItem) {
	sort.Slice(classes, func(i, j int) bool {
		a, b := classes[i], classes[j]
		if !a.Date.Equal(b.Date.Time) {
			return a.Date.Before(b.Date.Time)
		}
		if a.EventName != b.EventName {
			return a.EventName < b.EventName
		}
		return a.Coach < b.Coach
	})
}
