package services

import (
	"math"
	"trip-route-service/internal/domain"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// RouteLeg is one edge of the visiting order as displayed.
type RouteLeg struct {
	FromStopID string
	ToStopID   string
	DurationMs int64
	Minutes    int64
}

// RouteMarker is a map pin for one display stop.
type RouteMarker struct {
	StopID string
	Title  string
	Label  string
	Point  orb.Point
}

// RouteView is everything a renderer needs to draw a published plan. It holds
// no rendering handles; the caller owns widget lifetime.
type RouteView struct {
	Status     domain.RouteStatus
	Mode       domain.TravelMode
	StartIndex int
	// DisplayOrder is the visiting order as positions in the display list.
	DisplayOrder []int
	OrderedStops []domain.Stop
	Unresolved   []string
	Legs         []RouteLeg
	TotalMs      int64
	TotalMinutes int64
	Markers      []RouteMarker
	// Bounds covers every located marker; nil when none are located.
	Bounds *orb.Bound
	// Path is a LineString through the ordered coordinates, to be handed to a
	// path renderer as-is (waypoints are already ordered). Nil when fewer than
	// two stops are ordered or there is no route.
	Path *geojson.Feature
}

// BuildRouteView maps a plan and its marker labels onto display artifacts.
// Durations stay in milliseconds; minutes are rounded for display only.
func BuildRouteView(plan *domain.RoutePlan, labels []string) *RouteView {
	view := &RouteView{
		Status:       plan.Status,
		Mode:         plan.Mode,
		StartIndex:   plan.StartIndex,
		DisplayOrder: make([]int, 0, len(plan.Route.Order)),
		OrderedStops: plan.OrderedStops(),
		Unresolved:   plan.Unresolved,
		Legs:         make([]RouteLeg, 0, len(plan.Route.LegDurations)),
		Markers:      make([]RouteMarker, 0, len(plan.Stops)),
	}

	for _, i := range plan.Route.Order {
		view.DisplayOrder = append(view.DisplayOrder, plan.Routable[i])
	}

	for k, d := range plan.Route.LegDurations {
		view.Legs = append(view.Legs, RouteLeg{
			FromStopID: view.OrderedStops[k].ID,
			ToStopID:   view.OrderedStops[k+1].ID,
			DurationMs: d,
			Minutes:    MillisToMinutes(d),
		})
	}
	view.TotalMs = plan.Route.TotalDuration()
	view.TotalMinutes = MillisToMinutes(view.TotalMs)

	var located orb.MultiPoint
	for i, s := range plan.Stops {
		if !s.Resolved() {
			continue
		}
		p := orb.Point{s.Coordinate.Lng, s.Coordinate.Lat}
		located = append(located, p)

		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		view.Markers = append(view.Markers, RouteMarker{
			StopID: s.ID,
			Title:  s.Label(),
			Label:  label,
			Point:  p,
		})
	}
	if len(located) > 0 {
		b := located.Bound()
		view.Bounds = &b
	}

	if plan.Status != domain.RouteNoRoute && len(view.OrderedStops) >= 2 {
		line := make(orb.LineString, 0, len(view.OrderedStops))
		for _, s := range view.OrderedStops {
			line = append(line, orb.Point{s.Coordinate.Lng, s.Coordinate.Lat})
		}
		f := geojson.NewFeature(line)
		f.Properties["mode"] = string(plan.Mode)
		f.Properties["optimize_waypoints"] = false
		view.Path = f
	}

	return view
}

// MillisToMinutes rounds a millisecond duration to whole minutes.
func MillisToMinutes(ms int64) int64 {
	return int64(math.Round(float64(ms) / 60000))
}
