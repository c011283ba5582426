// Package calendar renders class schedules as iCalendar documents that
// standard calendar-import tooling can consume.
package calendar

import (
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/pfrederiksen/crossfit-timetable/internal/timetable"
)

const (
	// icsDateTime is the floating local date-time layout. The site
	// publishes wall-clock times with no zone, so no UTC conversion is
	// performed and no Z suffix is emitted.
	icsDateTime = "20060102T150405"

	// DefaultClassLength is assumed when the page's time range could not
	// be parsed.
	DefaultClassLength = time.Hour

	// proximityRadius (metres) for the structured location property.
	proximityRadius = "49.91"

	uidSuffix = "crossfit-timetable"
)

// Gym holds the branding and geocoordinate defaults stamped onto exported
// events when a class carries no scraped location of its own.
type Gym struct {
	Title     string
	Location  string
	Latitude  float64
	Longitude float64
}

// Exporter renders class lists as iCalendar documents.
type Exporter struct {
	Gym Gym
}

// Export serializes classes into one iCalendar document with one VEVENT per
// class. An empty class list yields an empty byte slice, not an empty
// calendar wrapper. The output depends only on the input, so repeated
// exports of the same list are byte-identical.
func (e Exporter) Export(classes []timetable.ClassItem) []byte {
	if len(classes) == 0 {
		return nil
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//" + e.Gym.Title + "//crossfit-timetable//EN")
	cal.SetXWRCalName(e.Gym.Title + " Timetable")

	for _, item := range classes {
		start := item.Date.Time
		end := start.Add(DefaultClassLength)
		if item.DurationMin != nil {
			end = start.Add(time.Duration(*item.DurationMin) * time.Minute)
		}

		event := cal.AddEvent(eventUID(item))
		// DTSTAMP is derived from the class start rather than the export
		// instant, keeping repeated exports idempotent.
		event.SetProperty(ics.ComponentProperty("DTSTAMP"), start.Format(icsDateTime))
		event.SetProperty(ics.ComponentProperty("DTSTART"), start.Format(icsDateTime))
		event.SetProperty(ics.ComponentProperty("DTEND"), end.Format(icsDateTime))
		event.SetSummary("CrossFit: " + item.EventName)

		location := item.Location
		if location == "" {
			location = e.Gym.Location
		}
		event.SetLocation(location)
		event.SetDescription("CrossFit Class\nCoach: " + item.Coach + "\nSource: " + item.SourceURL)
		e.addStructuredLocation(event, location)
	}

	return []byte(cal.Serialize())
}

// addStructuredLocation attaches the X-APPLE-STRUCTURED-LOCATION extension
// property carrying a geo URI and address metadata. Clients that support it
// gain map previews and arrival alerts; everyone else ignores the property.
func (e Exporter) addStructuredLocation(event *ics.VEvent, location string) {
	geoURI := "geo:" + strconv.FormatFloat(e.Gym.Latitude, 'f', -1, 64) +
		"," + strconv.FormatFloat(e.Gym.Longitude, 'f', -1, 64)
	event.SetProperty(
		ics.ComponentProperty("X-APPLE-STRUCTURED-LOCATION"),
		geoURI,
		&ics.KeyValues{Key: "VALUE", Value: []string{"URI"}},
		&ics.KeyValues{Key: "X-ADDRESS", Value: []string{strings.ReplaceAll(location, ", ", "\\n")}},
		&ics.KeyValues{Key: "X-TITLE", Value: []string{e.Gym.Title}},
		&ics.KeyValues{Key: "X-APPLE-RADIUS", Value: []string{proximityRadius}},
	)
}

// eventUID builds a deterministic identifier from the start instant, event
// name and coach, so re-imports update events in place instead of
// duplicating them.
func eventUID(item timetable.ClassItem) string {
	return strings.Join([]string{
		item.Date.Format(icsDateTime),
		strings.ReplaceAll(item.EventName, " ", "-"),
		strings.ReplaceAll(item.Coach, " ", "-"),
		uidSuffix,
	}, "-")
}
