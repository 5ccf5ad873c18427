package domain

// RouteOrder is the visiting sequence produced by the ordering engine.
// Order holds indices into the routable stop list, starting with the chosen
// start; it is shorter than the stop count when the greedy walk got stuck.
// LegDurations[k] is the cost from Order[k] to Order[k+1] in milliseconds.
type RouteOrder struct {
	Order        []int
	LegDurations []int64
}

// TotalDuration sums the leg durations in milliseconds.
func (r RouteOrder) TotalDuration() int64 {
	var total int64
	for _, d := range r.LegDurations {
		total += d
	}
	return total
}

type RouteStatus string

const (
	// Every routable stop was visited.
	RouteComplete RouteStatus = "complete"
	// The greedy walk stopped early on unreachable destinations.
	RoutePartial RouteStatus = "partial"
	// Fewer than two routable stops; identity order, no legs.
	RouteInsufficientStops RouteStatus = "insufficient_stops"
	// The matrix fetch failed; identity order, no legs, no path.
	RouteNoRoute RouteStatus = "no_route"
)

// RoutePlan is the outcome of one planning pass over a stop list.
//
// Stops is the full display list (resolved coordinates filled in where
// possible). Routable maps routable indices, which Order refers to, back to
// positions in Stops.
type RoutePlan struct {
	Mode       TravelMode
	StartIndex int
	Stops      []Stop
	Routable   []int
	Route      RouteOrder
	Status     RouteStatus
	Unresolved []string
}

// OrderedStops returns the routable stops in visiting order.
func (p *RoutePlan) OrderedStops() []Stop {
	out := make([]Stop, 0, len(p.Route.Order))
	for _, i := range p.Route.Order {
		out = append(out, p.Stops[p.Routable[i]])
	}
	return out
}
