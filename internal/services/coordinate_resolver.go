package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/platform/obs"
	"trip-route-service/internal/ports"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentResolves bounds outstanding place lookups per batch.
const maxConcurrentResolves = 8

// CoordinateResolver resolves place references by trying a primary lookup and
// falling back to a legacy one. It keeps no state between calls.
type CoordinateResolver struct {
	Primary ports.PlaceResolver
	Legacy  ports.PlaceResolver
}

func NewCoordinateResolver(primary, legacy ports.PlaceResolver) *CoordinateResolver {
	return &CoordinateResolver{Primary: primary, Legacy: legacy}
}

// Resolve returns the coordinate for placeID or an error wrapping domain.ErrNotFound.
func (r *CoordinateResolver) Resolve(ctx context.Context, placeID string) (domain.Coordinates, error) {
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return domain.Coordinates{}, fmt.Errorf("resolve: empty place id: %w", domain.ErrNotFound)
	}

	var errs []error
	for _, step := range []struct {
		name     string
		resolver ports.PlaceResolver
	}{
		{"primary", r.Primary},
		{"legacy", r.Legacy},
	} {
		if step.resolver == nil {
			continue
		}

		c, err := step.resolver.Resolve(ctx, placeID)
		if err == nil {
			return c, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.Coordinates{}, fmt.Errorf("resolve %q: %w", placeID, ctxErr)
		}
		errs = append(errs, fmt.Errorf("%s: %w", step.name, err))
	}

	return domain.Coordinates{}, fmt.Errorf(
		"resolve %q: %w: %w",
		placeID, domain.ErrNotFound, errors.Join(errs...),
	)
}

// ResolveStops fills in coordinates for stops that lack one.
//
// Stops that already carry a coordinate are never looked up again. Lookups
// run concurrently. A stop that cannot be resolved keeps a nil coordinate and
// its id is returned in unresolved; only context cancellation fails the batch.
// The input slice is not modified.
func ResolveStops(
	ctx context.Context,
	resolver ports.PlaceResolver,
	stops []domain.Stop,
) (_ []domain.Stop, unresolved []string, err error) {
	defer obs.Time(ctx, "resolver.ResolveStops")(&err)

	out := make([]domain.Stop, len(stops))
	copy(out, stops)

	pending := make([]int, 0, len(out))
	for i, s := range out {
		if !s.Resolved() {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 || resolver == nil {
		for _, i := range pending {
			unresolved = append(unresolved, out[i].ID)
		}
		return out, unresolved, nil
	}

	var mu sync.Mutex
	failed := make(map[int]struct{})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentResolves)
	for _, i := range pending {
		g.Go(func() error {
			c, err := resolver.Resolve(gctx, out[i].ID)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				log.Printf("op=resolver.ResolveStops place_id=%s err=%v", out[i].ID, err)
				mu.Lock()
				failed[i] = struct{}{}
				mu.Unlock()
				return nil
			}
			// Each goroutine writes only its own index.
			out[i] = out[i].WithCoordinate(c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("resolve stops: %w", err)
	}

	for _, i := range pending {
		if _, ok := failed[i]; ok {
			unresolved = append(unresolved, out[i].ID)
		}
	}

	return out, unresolved, nil
}
