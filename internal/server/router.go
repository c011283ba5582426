package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Router binds the timetable handlers onto a mux router.
type Router struct {
	handler *Handler
	router  *mux.Router
}

// NewRouter creates a router with the app's routes.
func NewRouter(handler *Handler, router *mux.Router) *Router {
	return &Router{
		handler: handler,
		router:  router,
	}
}

func (r *Router) RegisterRoutes() {
	r.router.HandleFunc("/", r.handler.Root).Methods(http.MethodGet)
	r.router.HandleFunc("/healthz/live", r.handler.HealthLive).Methods(http.MethodGet)
	r.router.HandleFunc("/healthz/ready", r.handler.HealthReady).Methods(http.MethodGet)

	// expects ?weeks={1..6}&token={auth token, or Bearer header}
	r.router.HandleFunc("/timetable", r.handler.Timetable).Methods(http.MethodGet)
	r.router.HandleFunc("/timetable.ical", r.handler.ICal).Methods(http.MethodGet)
}
