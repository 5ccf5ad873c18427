package ports

import (
	"context"
	"trip-route-service/internal/domain"
)

// Port: a boundary for reading saved itineraries from a data source.
type ItineraryRepository interface {
	// List every itinerary without its stops.
	ListItineraries(ctx context.Context) ([]domain.ItinerarySummary, error)
	// Retrieve one itinerary with stops in display order, or domain.ErrNotFound.
	GetItinerary(ctx context.Context, itineraryID string) (*domain.Itinerary, error)
}
