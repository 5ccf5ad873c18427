package handlers

import (
	"fmt"
	"strings"
	"trip-route-service/internal/api/dto"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/services"
)

func stopToDTO(s domain.Stop) dto.StopDTO {
	out := dto.StopDTO{
		PlaceID: s.ID,
		Name:    s.DisplayName,
		Address: s.DisplayAddress,
	}
	if s.Coordinate != nil {
		out.Location = &dto.LocationDTO{Lat: s.Coordinate.Lat, Lng: s.Coordinate.Lng}
	}
	return out
}

func stopsFromDTO(in []dto.StopDTO) ([]domain.Stop, error) {
	stops := make([]domain.Stop, 0, len(in))
	for i, s := range in {
		id := strings.TrimSpace(s.PlaceID)
		if id == "" && s.Location == nil {
			return nil, fmt.Errorf("stop %d needs a place_id or a location: %w", i, domain.ErrInvalidArgument)
		}

		stop := domain.Stop{
			ID:             id,
			DisplayName:    s.Name,
			DisplayAddress: s.Address,
		}
		if s.Location != nil {
			stop = stop.WithCoordinate(domain.Coordinates{Lat: s.Location.Lat, Lng: s.Location.Lng})
		}
		stops = append(stops, stop)
	}
	return stops, nil
}

func routeToDTO(view *services.RouteView) *dto.RouteResponse {
	res := &dto.RouteResponse{
		Status:          string(view.Status),
		Mode:            string(view.Mode),
		StartIndex:      view.StartIndex,
		Order:           view.DisplayOrder,
		OrderedStops:    make([]dto.StopDTO, 0, len(view.OrderedStops)),
		Legs:            make([]dto.LegResponse, 0, len(view.Legs)),
		TotalDurationMs: view.TotalMs,
		TotalMinutes:    view.TotalMinutes,
		Markers:         make([]dto.MarkerResponse, 0, len(view.Markers)),
		Path:            view.Path,
		Unresolved:      view.Unresolved,
	}

	for _, s := range view.OrderedStops {
		res.OrderedStops = append(res.OrderedStops, stopToDTO(s))
	}
	for _, l := range view.Legs {
		res.Legs = append(res.Legs, dto.LegResponse{
			FromPlaceID: l.FromStopID,
			ToPlaceID:   l.ToStopID,
			DurationMs:  l.DurationMs,
			Minutes:     l.Minutes,
		})
	}
	for _, m := range view.Markers {
		res.Markers = append(res.Markers, dto.MarkerResponse{
			PlaceID:  m.StopID,
			Title:    m.Title,
			Label:    m.Label,
			Position: dto.LocationDTO{Lat: m.Point.Lat(), Lng: m.Point.Lon()},
		})
	}
	if view.Bounds != nil {
		res.Bounds = &dto.BoundsResponse{
			SouthWest: dto.LocationDTO{Lat: view.Bounds.Min.Lat(), Lng: view.Bounds.Min.Lon()},
			NorthEast: dto.LocationDTO{Lat: view.Bounds.Max.Lat(), Lng: view.Bounds.Max.Lon()},
		}
	}

	return res
}
