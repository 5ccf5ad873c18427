package handlers

import (
	"net/http"
	"trip-route-service/internal/api/dto"
	"trip-route-service/internal/ports"

	"github.com/gorilla/mux"
)

type ItineraryHandler struct {
	Repo ports.ItineraryRepository
}

// List returns every saved itinerary without its stops.
func (h *ItineraryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.ListItineraries(r.Context())
	if err != nil {
		writeErr(w, r, "itineraries.List", err)
		return
	}

	res := dto.ListItinerariesResponse{
		Itineraries: make([]dto.ItinerarySummaryResponse, 0, len(items)),
	}
	for _, it := range items {
		res.Itineraries = append(res.Itineraries, dto.ItinerarySummaryResponse{
			ItineraryID: it.ItineraryID,
			Name:        it.Name,
			Count:       it.StopCount,
			UpdatedAt:   it.UpdatedAt,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *ItineraryHandler) Get(w http.ResponseWriter, r *http.Request) {
	it, err := h.Repo.GetItinerary(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeErr(w, r, "itineraries.Get", err)
		return
	}

	res := dto.ItineraryResponse{
		ItineraryID: it.ItineraryID,
		Name:        it.Name,
		UpdatedAt:   it.UpdatedAt,
		Items:       make([]dto.StopDTO, 0, len(it.Stops)),
	}
	for _, s := range it.Stops {
		res.Items = append(res.Items, stopToDTO(s))
	}

	writeJSON(w, r, http.StatusOK, res)
}
