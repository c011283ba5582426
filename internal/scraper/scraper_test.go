package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func agendaPage(day string) string {
	return fmt.Sprintf(`
	<html><body>
	<table class="calendar_table_agenda">
		<tr>
			<td rowspan="2">Pn, %s</td>
			<td>06:00 - 07:00</td>
			<td><p class="event_name">WOD</p>Anna Nowak</td>
		</tr>
		<tr>
			<td>18:00 - 19:30</td>
			<td><p class="event_name">HYROX</p>Jan Kowalski</td>
		</tr>
	</table>
	</body></html>`, day)
}

func TestFetchWeeks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/kalendarz-zajec" {
			http.NotFound(w, r)
			return
		}
		if view := r.URL.Query().Get("view"); view != AgendaView {
			t.Errorf("expected view=Agenda, got %q", view)
		}
		fmt.Fprint(w, agendaPage(r.URL.Query().Get("day")))
	}))
	defer srv.Close()

	s := newTestScraper(t, srv.URL)
	mondays := WeekMondays(CurrentMonday(), 2)

	classes, err := s.FetchWeeks(context.Background(), mondays, "")
	if err != nil {
		t.Fatalf("FetchWeeks failed: %v", err)
	}
	if len(classes) != 4 {
		t.Fatalf("expected 4 classes across 2 weeks, got %d", len(classes))
	}

	// Globally sorted by start instant regardless of fetch order.
	for i := 1; i < len(classes); i++ {
		if classes[i].Date.Before(classes[i-1].Date.Time) {
			t.Errorf("classes out of order at index %d: %v before %v",
				i, classes[i].Date, classes[i-1].Date)
		}
	}
	if !classes[0].Date.Equal(mondays[0].Add(6 * time.Hour)) {
		t.Errorf("expected first class at %v, got %v", mondays[0].Add(6*time.Hour), classes[0].Date)
	}
	if classes[0].DurationMin == nil || *classes[0].DurationMin != 60 {
		t.Errorf("expected duration 60, got %v", classes[0].DurationMin)
	}
}

func TestFetchWeeksFailFast(t *testing.T) {
	failDay := CurrentMonday().AddDate(0, 0, 7).Format("2006-01-02")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("day") == failDay {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, agendaPage(r.URL.Query().Get("day")))
	}))
	defer srv.Close()

	s := newTestScraper(t, srv.URL)
	mondays := WeekMondays(CurrentMonday(), 2)

	_, err := s.FetchWeeks(context.Background(), mondays, "")
	if err == nil {
		t.Fatal("expected FetchWeeks to fail when one week's fetch fails")
	}
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *HTTPError, got %T: %v", err, err)
	}
	if httpErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", httpErr.StatusCode)
	}
}

func TestFetchTimetableValidatesMonday(t *testing.T) {
	s := newTestScraper(t, "https://example.com")
	tuesday := CurrentMonday().AddDate(0, 0, 1)

	_, err := s.FetchTimetable(context.Background(), tuesday, "")
	if !errors.Is(err, ErrInvalidMonday) {
		t.Errorf("expected ErrInvalidMonday, got %v", err)
	}
}

func TestFetchTimetableMissingTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>redesigned page</body></html>")
	}))
	defer srv.Close()

	s := newTestScraper(t, srv.URL)
	_, err := s.FetchTimetable(context.Background(), CurrentMonday(), "")
	if !errors.Is(err, ErrMissingTable) {
		t.Errorf("expected ErrMissingTable, got %v", err)
	}
}

func TestFetchLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
		<address>
			<p>Kontakt</p>
			<p>CrossFit 2.0 Rzeszów</p>
			<p>Boya-Żeleńskiego 15</p>
			<p>35-105 Rzeszów</p>
		</address>
		</body></html>`)
	}))
	defer srv.Close()

	s := newTestScraper(t, srv.URL)
	got := s.FetchLocation(context.Background())
	want := "Boya-Żeleńskiego 15, 35-105 Rzeszów, Poland"
	if got != want {
		t.Errorf("FetchLocation = %q, expected %q", got, want)
	}
}

func TestFetchLocationNeverFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	srv.Close() // connection refused

	s := newTestScraper(t, srv.URL)
	if got := s.FetchLocation(context.Background()); got != "" {
		t.Errorf("FetchLocation = %q, expected empty on transport failure", got)
	}
}

func TestAgendaURL(t *testing.T) {
	s := newTestScraper(t, "https://example.com")
	monday := time.Date(2025, 11, 24, 0, 0, 0, 0, time.Local)

	got := s.agendaURL(monday)
	want := "https://example.com/kalendarz-zajec?day=2025-11-24&view=Agenda"
	if got.String() != want {
		t.Errorf("agendaURL = %q, expected %q", got.String(), want)
	}
	if _, err := url.Parse(got.String()); err != nil {
		t.Errorf("agendaURL is not parseable: %v", err)
	}
}
