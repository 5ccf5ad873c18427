package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"trip-route-service/internal/api/dto"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/ports"
	"trip-route-service/internal/services"
)

type RouteHandler struct {
	Repo    ports.ItineraryRepository
	Planner services.Planner
}

// Plan computes one route synchronously. A matrix outage still answers 200
// with a no_route plan and the reason in the error field.
func (h *RouteHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req dto.RouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	in, err := planInput(r.Context(), h.Repo, req)
	if err != nil {
		writeErr(w, r, "routes.Plan", err)
		return
	}

	plan, err := h.Planner.Plan(r.Context(), in)
	if err != nil && (plan == nil || !errors.Is(err, domain.ErrServiceUnavailable)) {
		writeErr(w, r, "routes.Plan", err)
		return
	}

	res := routeToDTO(services.BuildRouteView(plan, services.MarkerLabels(plan)))
	if err != nil {
		res.Error = "travel durations unavailable"
	}

	writeJSON(w, r, http.StatusOK, res)
}

// planInput builds planner input from a request that names either a saved
// itinerary or an explicit stop list, never both.
func planInput(ctx context.Context, repo ports.ItineraryRepository, req dto.RouteRequest) (services.PlanInput, error) {
	mode, err := domain.ParseTravelMode(req.Mode)
	if err != nil {
		return services.PlanInput{}, err
	}
	if req.StartIndex < 0 {
		return services.PlanInput{}, fmt.Errorf("start_index %d: %w", req.StartIndex, domain.ErrInvalidArgument)
	}

	in := services.PlanInput{Mode: mode, StartIndex: req.StartIndex}

	switch {
	case req.ItineraryID != "" && len(req.Stops) > 0:
		return services.PlanInput{}, fmt.Errorf("itinerary_id and stops are exclusive: %w", domain.ErrInvalidArgument)
	case req.ItineraryID != "":
		if repo == nil {
			return services.PlanInput{}, fmt.Errorf("itinerary lookup unavailable: %w", domain.ErrNotFound)
		}
		it, err := repo.GetItinerary(ctx, req.ItineraryID)
		if err != nil {
			return services.PlanInput{}, err
		}
		in.Stops = it.Stops
	default:
		stops, err := stopsFromDTO(req.Stops)
		if err != nil {
			return services.PlanInput{}, err
		}
		in.Stops = stops
	}

	return in, nil
}
