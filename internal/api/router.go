package api

import (
	"net/http"
	"trip-route-service/internal/api/handlers"
	"trip-route-service/internal/ports"
	"trip-route-service/internal/services"

	"github.com/gorilla/mux"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(repo ports.ItineraryRepository, planner services.Planner, sessions *services.SessionRegistry) http.Handler {
	r := mux.NewRouter()

	itHandler := &handlers.ItineraryHandler{Repo: repo}
	routeHandler := &handlers.RouteHandler{Repo: repo, Planner: planner}
	sessHandler := &handlers.SessionHandler{Repo: repo, Sessions: sessions}

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)

	r.HandleFunc("/itineraries", itHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/itineraries/{id}", itHandler.Get).Methods(http.MethodGet)

	r.HandleFunc("/routes", routeHandler.Plan).Methods(http.MethodPost)

	r.HandleFunc("/sessions", sessHandler.Create).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}", sessHandler.Get).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{id}", sessHandler.Patch).Methods(http.MethodPatch)
	r.HandleFunc("/sessions/{id}", sessHandler.Delete).Methods(http.MethodDelete)

	// Outside the mux so 404 and 405 answers carry a request id too.
	return loggingMiddleware(requestIDMiddleware(r))
}
