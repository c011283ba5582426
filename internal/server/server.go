// Package server wires the scraper and calendar exporter into the HTTP API:
// routing, token auth, input validation and error-to-status mapping.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/pfrederiksen/crossfit-timetable/internal/calendar"
	"github.com/pfrederiksen/crossfit-timetable/internal/config"
	"github.com/pfrederiksen/crossfit-timetable/internal/logger"
	"github.com/pfrederiksen/crossfit-timetable/internal/scraper"
)

// Server is the assembled HTTP service.
type Server struct {
	settings *config.Settings
	handler  http.Handler
}

// New builds the full service from settings: scraper, exporter, handlers
// and routes.
func New(settings *config.Settings) *Server {
	sc := scraper.New(settings.ScraperBaseURL, settings.AgendaPath, settings.GymTitle)
	exporter := calendar.Exporter{Gym: calendar.Gym{
		Title:     settings.GymTitle,
		Location:  settings.GymLocation,
		Latitude:  settings.GymLatitude,
		Longitude: settings.GymLongitude,
	}}

	router := mux.NewRouter()
	router.Use(requestLogger)
	NewRouter(NewHandler(settings, sc, exporter), router).RegisterRoutes()

	return &Server{
		settings: settings,
		handler:  router,
	}
}

// Start blocks serving the API on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.settings.Port)
	logger.Info("starting CrossFit Timetable API", logger.Fields{"addr": addr})
	return http.ListenAndServe(addr, s.handler)
}

// requestLogger records one log line and a counter per handled request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.IncrCounter("http.requests")
		logger.Info("request handled", logger.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"duration_ms": time.Since(start).Milliseconds(),
		})
	})
}
