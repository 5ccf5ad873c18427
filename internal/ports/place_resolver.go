package ports

import (
	"context"
	"trip-route-service/internal/domain"
)

// Contract for resolving a place reference to a coordinate.
type PlaceResolver interface {
	// Return the coordinate for placeID, or an error wrapping domain.ErrNotFound.
	Resolve(ctx context.Context, placeID string) (domain.Coordinates, error)
}

// Persistent placeID -> coordinate store used in front of a PlaceResolver.
type PlaceCache interface {
	GetMany(ctx context.Context, placeIDs []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}
