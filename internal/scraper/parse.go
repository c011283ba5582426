package scraper

import (
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pfrederiksen/crossfit-timetable/internal/timetable"
)

// Selectors for the agenda markup. The site renders one table with a
// row-span date cell starting each day's block of class rows.
const (
	agendaTableSelector = "table.calendar_table_agenda"
	eventNameSelector   = "p.event_name"
	entryLinkSelector   = "a.schedule-agenda-link"
)

var agendaDateRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// parseTimetable extracts class records from one week's agenda HTML.
//
// The table is a small state machine: a cell carrying a rowspan attribute
// starts a new day and the parsed date is carried into the following rows
// until the next such cell. Malformed rows are skipped silently; only a
// wholly missing table is an error. Rows whose day falls outside
// [expectedMonday, expectedMonday+6] belong to an adjacent week rendered on
// the same page and are dropped.
func (s *Scraper) parseTimetable(r io.Reader, expectedMonday time.Time, location string, pageURL *url.URL) ([]timetable.ClassItem, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	table := doc.Find(agendaTableSelector).First()
	if table.Length() == 0 {
		return nil, ErrMissingTable
	}

	weekEnd := expectedMonday.AddDate(0, 0, 6)
	classes := make([]timetable.ClassItem, 0)
	var currentDate time.Time // zero until the first date header cell

	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() == 0 {
			return
		}

		timeCell, contentCell := cells.Eq(0), cells.Eq(1)
		if _, ok := cells.Eq(0).Attr("rowspan"); ok {
			// Date header cell: the remaining cells of this row hold the
			// day's first class entry.
			parsed, ok := parseAgendaDate(cells.Eq(0).Text())
			if !ok {
				return
			}
			currentDate = parsed
			timeCell, contentCell = cells.Eq(1), cells.Eq(2)
		}
		if currentDate.IsZero() {
			return
		}
		if currentDate.Before(expectedMonday) || currentDate.After(weekEnd) {
			return
		}
		if timeCell.Length() == 0 || contentCell.Length() == 0 {
			return
		}

		timeRange := strings.TrimSpace(timeCell.Text())
		duration, hasDuration := parseTimeRange(timeRange)

		start, ok := classStart(currentDate, timeRange)
		if !ok {
			return
		}

		eventName := strings.TrimSpace(contentCell.Find(eventNameSelector).First().Text())
		if eventName == "" {
			return
		}

		item := timetable.ClassItem{
			Date:      timetable.NewLocalTime(start),
			EventName: eventName,
			Coach:     findCoach(contentCell, eventName),
			SourceURL: s.entrySourceURL(contentCell, pageURL),
			Location:  location,
		}
		if hasDuration {
			item.DurationMin = &duration
		}
		classes = append(classes, item)
	})

	timetable.Sort(classes)
	return classes, nil
}

// parseAgendaDate extracts the first YYYY-MM-DD substring from a date
// header cell, e.g. "Pn, 2025-11-24".
func parseAgendaDate(s string) (time.Time, bool) {
	match := agendaDateRe.FindString(s)
	if match == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation("2006-01-02", match, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// parseTimeRange computes the span of a "HH:MM - HH:MM" range in minutes.
// ok is false when the range is malformed or negative; the row is still
// usable through its start time alone.
func parseTimeRange(s string) (int, bool) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return 0, false
	}
	start, okStart := clockMinutes(parts[0])
	end, okEnd := clockMinutes(parts[1])
	if !okStart || !okEnd || end < start {
		return 0, false
	}
	return end - start, true
}

// clockMinutes parses "HH:MM" into minutes since midnight.
func clockMinutes(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, false
	}
	hour, errHour := strconv.Atoi(parts[0])
	minute, errMinute := strconv.Atoi(parts[1])
	if errHour != nil || errMinute != nil {
		return 0, false
	}
	return hour*60 + minute, true
}

// classStart combines the day carried by the date header with the start
// half of the row's time range.
func classStart(day time.Time, timeRange string) (time.Time, bool) {
	startStr := strings.TrimSpace(strings.SplitN(timeRange, "-", 2)[0])
	parts := strings.Split(startStr, ":")
	if len(parts) != 2 {
		return time.Time{}, false
	}
	hour, errHour := strconv.Atoi(parts[0])
	minute, errMinute := strconv.Atoi(parts[1])
	if errHour != nil || errMinute != nil {
		return time.Time{}, false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location()), true
}

// findCoach returns the first non-empty text fragment inside the content
// cell that is not the event name itself. The heuristic is deliberately
// loose: the page renders the coach as a bare text node next to the event
// name paragraph, and stricter matching would change observable output.
func findCoach(cell *goquery.Selection, eventName string) string {
	coach := ""
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" && text != eventName {
				coach = text
				return true
			}
			return false
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	for _, n := range cell.Nodes {
		if walk(n) {
			break
		}
	}
	return coach
}

// entrySourceURL resolves the row's schedule link against the site base
// URL, falling back to the agenda page itself when no link exists.
func (s *Scraper) entrySourceURL(cell *goquery.Selection, pageURL *url.URL) string {
	href, ok := cell.Find(entryLinkSelector).First().Attr("href")
	if !ok {
		return pageURL.String()
	}
	ref, err := url.Parse(href)
	if err != nil {
		return pageURL.String()
	}
	return s.baseURL.ResolveReference(ref).String()
}
