package scraper

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pfrederiksen/crossfit-timetable/internal/logger"
	"github.com/pfrederiksen/crossfit-timetable/internal/timetable"
)

const (
	// AgendaView is the query value selecting the site's weekly agenda
	// rendering of the calendar.
	AgendaView = "Agenda"
	UserAgent  = "crossfit-timetable/1.0 (github.com/pfrederiksen/crossfit-timetable)"
	Timeout    = 30 * time.Second
)

// Scraper fetches and parses the gym's public schedule pages.
type Scraper struct {
	client     *http.Client
	baseURL    *url.URL
	agendaPath string
	gymName    string
}

// New creates a Scraper for the site at baseURL. The agenda is expected at
// agendaPath with day/view query parameters; gymName is used to drop the
// gym's own name line when extracting the postal address.
func New(baseURL *url.URL, agendaPath, gymName string) *Scraper {
	return &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		baseURL:    baseURL,
		agendaPath: agendaPath,
		gymName:    gymName,
	}
}

// agendaURL builds the weekly agenda URL for the given Monday.
func (s *Scraper) agendaURL(monday time.Time) *url.URL {
	u := *s.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + s.agendaPath
	u.RawQuery = url.Values{
		"day":  []string{monday.Format("2006-01-02")},
		"view": []string{AgendaView},
	}.Encode()
	return &u
}

// fetchHTML performs a single GET with no retries. Transport failures and
// non-2xx statuses both surface as *HTTPError.
func (s *Scraper) fetchHTML(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &HTTPError{URL: u.String(), Err: err}
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &HTTPError{URL: u.String(), Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, &HTTPError{URL: u.String(), StatusCode: resp.StatusCode}
	}
	return resp.Body, nil
}

// FetchLocation scrapes the gym's postal address from the site homepage.
// The lookup is best-effort by contract: any failure yields "" and is only
// logged, so a broken homepage can never abort a timetable request.
func (s *Scraper) FetchLocation(ctx context.Context) string {
	body, err := s.fetchHTML(ctx, s.baseURL)
	if err != nil {
		logger.Warn("failed to fetch location", logger.Fields{
			"url":   s.baseURL.String(),
			"error": err.Error(),
		})
		return ""
	}
	defer body.Close()
	return parseLocation(body, s.gymName)
}

// FetchTimetable fetches and parses one week's agenda. The monday argument
// is validated via ValidMonday, so callers may pass any candidate date.
func (s *Scraper) FetchTimetable(ctx context.Context, monday time.Time, location string) ([]timetable.ClassItem, error) {
	valid, err := ValidMonday(&monday)
	if err != nil {
		return nil, err
	}

	u := s.agendaURL(valid)
	body, err := s.fetchHTML(ctx, u)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return s.parseTimetable(body, valid, location, u)
}

// FetchWeeks fetches the given Mondays in parallel, one GET per week. The
// first failure cancels the remaining fetches and is returned as-is. On
// success the per-week lists are flattened in Monday order and re-sorted
// globally, so the result does not depend on fetch completion order.
func (s *Scraper) FetchWeeks(ctx context.Context, mondays []time.Time, location string) ([]timetable.ClassItem, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type weekResult struct {
		idx     int
		classes []timetable.ClassItem
		err     error
	}

	// Buffered so late goroutines can finish without blocking after the
	// caller has already returned an error.
	results := make(chan weekResult, len(mondays))
	for i, monday := range mondays {
		go func(idx int, monday time.Time) {
			classes, err := s.FetchTimetable(ctx, monday, location)
			results <- weekResult{idx: idx, classes: classes, err: err}
		}(i, monday)
	}

	weeks := make([][]timetable.ClassItem, len(mondays))
	for range mondays {
		res := <-results
		if res.err != nil {
			return nil, res.err
		}
		weeks[res.idx] = res.classes
	}

	classes := make([]timetable.ClassItem, 0)
	for _, week := range weeks {
		classes = append(classes, week...)
	}
	timetable.Sort(classes)
	return classes, nil
}
