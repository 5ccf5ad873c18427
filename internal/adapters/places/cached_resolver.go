package places

import (
	"context"
	"errors"
	"log"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/ports"
)

// CachedResolver consults a persistent place cache before delegating to Next
// and writes fresh resolutions back. Cache failures are logged and ignored.
type CachedResolver struct {
	Next  ports.PlaceResolver
	Cache ports.PlaceCache
}

func NewCachedResolver(next ports.PlaceResolver, cache ports.PlaceCache) *CachedResolver {
	return &CachedResolver{Next: next, Cache: cache}
}

func (r *CachedResolver) Resolve(ctx context.Context, placeID string) (domain.Coordinates, error) {
	if r.Next == nil {
		return domain.Coordinates{}, errors.New("cached resolver: next resolver is nil")
	}

	if r.Cache != nil {
		hits, err := r.Cache.GetMany(ctx, []string{placeID})
		if err != nil {
			log.Printf("place cache read failed: place_id=%s err=%v", placeID, err)
		} else if c, ok := hits[placeID]; ok {
			return c, nil
		}
	}

	c, err := r.Next.Resolve(ctx, placeID)
	if err != nil {
		return domain.Coordinates{}, err
	}

	if r.Cache != nil {
		if err := r.Cache.PutMany(ctx, map[string]domain.Coordinates{placeID: c}); err != nil {
			log.Printf("place cache write failed: place_id=%s err=%v", placeID, err)
		}
	}

	return c, nil
}
