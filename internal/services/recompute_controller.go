package services

import (
	"context"
	"log"
	"strconv"
	"sync"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/platform/obs"
)

// Planner computes one route plan. *RoutePlanner is the production implementation.
type Planner interface {
	Plan(ctx context.Context, in PlanInput) (*domain.RoutePlan, error)
}

// RouteResult is one published computation. It is never mutated after
// publication; every recomputation replaces it wholesale.
type RouteResult struct {
	Generation uint64
	Plan       *domain.RoutePlan
	// MarkerLabels has one entry per display stop: the 1-based visiting
	// position, or "" for stops the route does not visit.
	MarkerLabels []string
	// Err describes why the plan is a no_route plan, if it is one.
	Err error
}

// PublishFunc receives every result that is still current at completion.
// Calls are serialized and arrive in generation order.
type PublishFunc func(*RouteResult)

// RecomputeController applies "latest request wins" to rapidly changing
// route inputs.
//
// Every input change mints a new generation and starts a computation without
// cancelling the ones already in flight. A computation's result is published
// only if its generation is still the latest when it completes; anything
// older is dropped silently, success or failure alike.
type RecomputeController struct {
	planner Planner
	publish PublishFunc

	mu         sync.Mutex
	generation uint64
	computing  bool
	input      PlanInput
	current    *RouteResult

	// publishMu keeps the currency check and the publish callback atomic
	// with respect to other completions.
	publishMu sync.Mutex
	wg        sync.WaitGroup
}

func NewRecomputeController(planner Planner, publish PublishFunc) *RecomputeController {
	return &RecomputeController{planner: planner, publish: publish}
}

// Update replaces all inputs and starts a computation for them. The work
// keeps ctx values (request id) but not its cancellation, so it outlives the
// caller. It returns the generation minted for this request.
func (c *RecomputeController) Update(ctx context.Context, in PlanInput) uint64 {
	return c.Modify(ctx, func(cur *PlanInput) { *cur = in })
}

// Modify applies fn to a copy of the latest inputs and starts a computation
// for the result. Reading, changing and minting happen under one lock, so
// concurrent partial changes never drop each other. fn must not call back
// into the controller.
func (c *RecomputeController) Modify(ctx context.Context, fn func(*PlanInput)) uint64 {
	c.mu.Lock()
	in := c.input
	in.Stops = append([]domain.Stop(nil), c.input.Stops...)
	fn(&in)
	in.Stops = append([]domain.Stop(nil), in.Stops...)

	c.generation++
	gen := c.generation
	c.input = in
	c.computing = true
	c.wg.Add(1)
	c.mu.Unlock()

	go c.run(context.WithoutCancel(ctx), gen, in)

	return gen
}

// SetStops changes only the stop list.
func (c *RecomputeController) SetStops(ctx context.Context, stops []domain.Stop) uint64 {
	return c.Modify(ctx, func(in *PlanInput) { in.Stops = stops })
}

// SetMode changes only the travel mode.
func (c *RecomputeController) SetMode(ctx context.Context, mode domain.TravelMode) uint64 {
	return c.Modify(ctx, func(in *PlanInput) { in.Mode = mode })
}

// SetStartIndex changes only the start index.
func (c *RecomputeController) SetStartIndex(ctx context.Context, start int) uint64 {
	return c.Modify(ctx, func(in *PlanInput) { in.StartIndex = start })
}

// Input returns a copy of the latest inputs.
func (c *RecomputeController) Input() PlanInput {
	c.mu.Lock()
	defer c.mu.Unlock()

	in := c.input
	in.Stops = append([]domain.Stop(nil), c.input.Stops...)
	return in
}

// Current returns the latest published result, or nil before the first publish.
func (c *RecomputeController) Current() *RouteResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Generation returns the latest minted generation.
func (c *RecomputeController) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// IsComputing reports whether the latest generation is still in flight.
func (c *RecomputeController) IsComputing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.computing
}

// Wait blocks until every in-flight computation, stale or not, has finished.
func (c *RecomputeController) Wait() {
	c.wg.Wait()
}

func (c *RecomputeController) run(ctx context.Context, gen uint64, in PlanInput) {
	defer c.wg.Done()

	plan, err := c.planner.Plan(ctx, in)
	if err != nil {
		log.Printf("req_id=%s op=controller.run gen=%d err=%v", obs.RequestID(ctx), gen, err)
		if plan == nil {
			plan = noRoutePlan(in)
		}
		plan.Status = domain.RouteNoRoute
		plan.Route = IdentityOrder(len(plan.Routable))
	}

	res := &RouteResult{
		Generation:   gen,
		Plan:         plan,
		MarkerLabels: MarkerLabels(plan),
		Err:          err,
	}

	c.publishMu.Lock()
	defer c.publishMu.Unlock()

	c.mu.Lock()
	if gen != c.generation {
		latest := c.generation
		c.mu.Unlock()
		log.Printf("req_id=%s op=controller.run gen=%d latest=%d discarded=stale", obs.RequestID(ctx), gen, latest)
		return
	}
	c.current = res
	c.computing = false
	c.mu.Unlock()

	log.Printf(
		"req_id=%s op=controller.publish gen=%d status=%s stops=%d ordered=%d",
		obs.RequestID(ctx), gen, plan.Status, len(plan.Stops), len(plan.Route.Order),
	)

	if c.publish != nil {
		c.publish(res)
	}
}

// noRoutePlan stands in when planning failed before producing a plan.
func noRoutePlan(in PlanInput) *domain.RoutePlan {
	return &domain.RoutePlan{
		Mode:     in.Mode,
		Stops:    append([]domain.Stop(nil), in.Stops...),
		Routable: []int{},
		Status:   domain.RouteNoRoute,
	}
}

// MarkerLabels labels the k-th visited stop "k+1" at its display position
// and leaves every other display stop unlabelled.
func MarkerLabels(plan *domain.RoutePlan) []string {
	labels := make([]string, len(plan.Stops))
	for pos, idx := range plan.Route.Order {
		labels[plan.Routable[idx]] = strconv.Itoa(pos + 1)
	}
	return labels
}
