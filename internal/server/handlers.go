package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pfrederiksen/crossfit-timetable/internal/calendar"
	"github.com/pfrederiksen/crossfit-timetable/internal/config"
	"github.com/pfrederiksen/crossfit-timetable/internal/logger"
	"github.com/pfrederiksen/crossfit-timetable/internal/scraper"
	"github.com/pfrederiksen/crossfit-timetable/internal/timetable"
)

const (
	weeksQueryArg = "weeks"
	tokenQueryArg = "token"

	icalFilename = "crossfit_timetable.ics"

	// genericScrapeError hides upstream detail from API consumers; the
	// underlying error is logged instead.
	genericScrapeError = "Failed to fetch timetable"
)

// TimetableSource is the scraping capability the handlers depend on.
type TimetableSource interface {
	FetchWeeks(ctx context.Context, mondays []time.Time, location string) ([]timetable.ClassItem, error)
	FetchLocation(ctx context.Context) string
}

// Handler serves the timetable API endpoints.
type Handler struct {
	settings *config.Settings
	source   TimetableSource
	exporter calendar.Exporter
}

// NewHandler creates a Handler backed by the given scrape source.
func NewHandler(settings *config.Settings, source TimetableSource, exporter calendar.Exporter) *Handler {
	return &Handler{
		settings: settings,
		source:   source,
		exporter: exporter,
	}
}

// Root returns a small service banner listing the endpoints.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "CrossFit Timetable API",
		"endpoints": map[string]string{
			"/timetable":      "Get timetable data as JSON",
			"/timetable.ical": "Download timetable as iCal file",
		},
	})
}

// HealthLive reports process liveness.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HealthReady reports readiness to serve traffic.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Timetable handles GET /timetable: the requested weeks as a JSON list.
func (h *Handler) Timetable(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(r) {
		http.Error(w, "Invalid authentication token", http.StatusUnauthorized)
		return
	}
	weeks, err := requestedWeeks(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	classes, err := h.fetch(r.Context(), weeks, "")
	if err != nil {
		h.writeScrapeError(w, err)
		return
	}
	if len(classes) == 0 {
		http.Error(w, "No classes found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, classes)
}

// ICal handles GET /timetable.ical: the requested weeks as a calendar file.
// The gym location is resolved once per request (config override first,
// else a best-effort homepage scrape) and stamped onto every class.
func (h *Handler) ICal(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(r) {
		http.Error(w, "Invalid authentication token", http.StatusUnauthorized)
		return
	}
	weeks, err := requestedWeeks(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	location := h.settings.Location
	if location == "" {
		location = h.source.FetchLocation(r.Context())
	}

	classes, err := h.fetch(r.Context(), weeks, location)
	if err != nil {
		h.writeScrapeError(w, err)
		return
	}
	if len(classes) == 0 {
		http.Error(w, "No classes found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/calendar")
	w.Header().Set("Content-Disposition", "attachment; filename="+icalFilename)
	w.WriteHeader(http.StatusOK)
	w.Write(h.exporter.Export(classes))
}

// fetch runs the multi-week scrape starting at the current Monday.
func (h *Handler) fetch(ctx context.Context, weeks int, location string) ([]timetable.ClassItem, error) {
	mondays := scraper.WeekMondays(scraper.CurrentMonday(), weeks)
	start := time.Now()
	classes, err := h.source.FetchWeeks(ctx, mondays, location)
	logger.RecordTiming("scrape.fetch", time.Since(start))
	return classes, err
}

// authorize accepts the configured token from either the Authorization
// bearer header or the token query parameter.
func (h *Handler) authorize(r *http.Request) bool {
	provided := r.URL.Query().Get(tokenQueryArg)
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		provided = strings.TrimPrefix(auth, "Bearer ")
	}
	return provided != "" && provided == h.settings.AuthToken
}

// requestedWeeks parses and validates the weeks query parameter,
// defaulting to 1.
func requestedWeeks(r *http.Request) (int, error) {
	raw := r.URL.Query().Get(weeksQueryArg)
	if raw == "" {
		return 1, nil
	}
	weeks, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("weeks must be an integer")
	}
	if err := scraper.ValidateWeeks(weeks); err != nil {
		return 0, err
	}
	return weeks, nil
}

// writeScrapeError maps scrape failures onto HTTP statuses. Caller input
// errors surface verbatim; upstream failures are logged and replaced with a
// generic body.
func (h *Handler) writeScrapeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scraper.ErrInvalidMonday), errors.Is(err, scraper.ErrTooOld):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, scraper.ErrMissingTable):
		// Worth alerting on: the upstream markup changed under us.
		logger.Error("schedule table missing from fetched page", nil, err)
		http.Error(w, genericScrapeError, http.StatusInternalServerError)
	default:
		var httpErr *scraper.HTTPError
		if errors.As(err, &httpErr) {
			logger.Error("fetching timetable page failed", logger.Fields{"url": httpErr.URL}, err)
		} else {
			logger.Error("timetable scrape failed", nil, err)
		}
		http.Error(w, genericScrapeError, http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("encoding response failed", nil, err)
	}
}
