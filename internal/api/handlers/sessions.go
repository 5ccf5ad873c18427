package handlers

import (
	"fmt"
	"net/http"
	"trip-route-service/internal/api/dto"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/ports"
	"trip-route-service/internal/services"

	"github.com/gorilla/mux"
)

// SessionHandler exposes live planning sessions. Every change answers 202
// immediately; clients poll GET until is_computing clears.
type SessionHandler struct {
	Repo     ports.ItineraryRepository
	Sessions *services.SessionRegistry
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.RouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	in, err := planInput(r.Context(), h.Repo, req)
	if err != nil {
		writeErr(w, r, "sessions.Create", err)
		return
	}

	s := h.Sessions.Create()
	gen := s.Controller.Update(r.Context(), in)

	w.Header().Set("Location", "/sessions/"+s.ID)
	writeJSON(w, r, http.StatusCreated, dto.SessionCreatedResponse{SessionID: s.ID, Generation: gen})
}

// Patch applies any subset of stops, mode and start index as one change.
func (h *SessionHandler) Patch(w http.ResponseWriter, r *http.Request) {
	s, err := h.Sessions.Get(mux.Vars(r)["id"])
	if err != nil {
		writeErr(w, r, "sessions.Patch", err)
		return
	}

	var req dto.SessionPatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var stops []domain.Stop
	if req.Stops != nil {
		if stops, err = stopsFromDTO(*req.Stops); err != nil {
			writeErr(w, r, "sessions.Patch", err)
			return
		}
	}
	var mode domain.TravelMode
	if req.Mode != nil {
		if mode, err = domain.ParseTravelMode(*req.Mode); err != nil {
			writeErr(w, r, "sessions.Patch", err)
			return
		}
	}
	if req.StartIndex != nil && *req.StartIndex < 0 {
		writeErr(w, r, "sessions.Patch", fmt.Errorf("start_index %d: %w", *req.StartIndex, domain.ErrInvalidArgument))
		return
	}

	gen := s.Controller.Modify(r.Context(), func(in *services.PlanInput) {
		if req.Stops != nil {
			in.Stops = stops
		}
		if req.Mode != nil {
			in.Mode = mode
		}
		if req.StartIndex != nil {
			in.StartIndex = *req.StartIndex
		}
	})
	writeJSON(w, r, http.StatusAccepted, dto.SessionCreatedResponse{SessionID: s.ID, Generation: gen})
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.Sessions.Get(mux.Vars(r)["id"])
	if err != nil {
		writeErr(w, r, "sessions.Get", err)
		return
	}

	res := dto.SessionResponse{
		SessionID:   s.ID,
		Generation:  s.Controller.Generation(),
		IsComputing: s.Controller.IsComputing(),
	}

	view, published := s.View()
	res.PublishedGeneration = published
	if view != nil {
		res.Route = routeToDTO(view)
		if cur := s.Controller.Current(); cur != nil && cur.Generation == published && cur.Err != nil {
			res.Route.Error = "travel durations unavailable"
		}
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Delete(mux.Vars(r)["id"]); err != nil {
		writeErr(w, r, "sessions.Delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
