package services

import (
	"context"
	"errors"
	"fmt"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/platform/obs"
	"trip-route-service/internal/ports"
)

// Inputs of one planning pass.
type PlanInput struct {
	Stops      []domain.Stop
	Mode       domain.TravelMode
	StartIndex int
}

// RoutePlanner runs the resolve -> matrix -> order pipeline.
type RoutePlanner struct {
	Resolver ports.PlaceResolver
	Matrix   *CostMatrixClient
}

func NewRoutePlanner(resolver ports.PlaceResolver, provider ports.TravelMatrixProvider) *RoutePlanner {
	return &RoutePlanner{
		Resolver: resolver,
		Matrix:   NewCostMatrixClient(provider),
	}
}

// Plan resolves missing coordinates, keeps the routable stops in display
// order, clamps the start index into that list and orders it.
//
// With fewer than two routable stops no matrix is requested and the plan
// holds the identity order. A matrix failure is returned wrapping
// domain.ErrServiceUnavailable together with a no_route plan, so callers can
// publish the empty result.
func (p *RoutePlanner) Plan(ctx context.Context, in PlanInput) (_ *domain.RoutePlan, err error) {
	defer obs.Time(ctx, "planner.Plan")(&err)

	mode := in.Mode
	if mode == "" {
		mode = domain.Driving
	}

	stops, unresolved, err := ResolveStops(ctx, p.Resolver, in.Stops)
	if err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}

	routable := make([]int, 0, len(stops))
	coords := make([]domain.Coordinates, 0, len(stops))
	for i, s := range stops {
		if s.Resolved() {
			routable = append(routable, i)
			coords = append(coords, *s.Coordinate)
		}
	}

	plan := &domain.RoutePlan{
		Mode:       mode,
		StartIndex: ClampStartIndex(in.StartIndex, len(routable)),
		Stops:      stops,
		Routable:   routable,
		Unresolved: unresolved,
	}

	if len(routable) < 2 {
		plan.Route = IdentityOrder(len(routable))
		plan.Status = domain.RouteInsufficientStops
		return plan, nil
	}

	if p.Matrix == nil {
		return nil, errors.New("plan route: matrix client is nil")
	}

	cost, err := p.Matrix.GetMatrix(ctx, coords, mode)
	if err != nil {
		plan.Route = IdentityOrder(len(routable))
		plan.Status = domain.RouteNoRoute
		return plan, fmt.Errorf("plan route: %w", err)
	}

	route, err := ComputeOrder(cost, plan.StartIndex)
	if err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}

	plan.Route = route
	plan.Status = domain.RouteComplete
	if len(route.Order) < len(routable) {
		plan.Status = domain.RoutePartial
	}

	return plan, nil
}

// ClampStartIndex bounds start into [0, n-1]; with n == 0 it returns 0.
func ClampStartIndex(start, n int) int {
	if n == 0 || start < 0 {
		return 0
	}
	if start > n-1 {
		return n - 1
	}
	return start
}

// IdentityOrder is the order [0..n-1] with no legs.
func IdentityOrder(n int) domain.RouteOrder {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return domain.RouteOrder{Order: order, LegDurations: []int64{}}
}
