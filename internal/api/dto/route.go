package dto

import "github.com/paulmach/orb/geojson"

// RouteRequest starts a plan from an itinerary or an explicit stop list.
type RouteRequest struct {
	ItineraryID string    `json:"itinerary_id"`
	Stops       []StopDTO `json:"stops"`
	Mode        string    `json:"mode"`
	StartIndex  int       `json:"start_index"`
}

// SessionPatchRequest changes any subset of a session's inputs.
type SessionPatchRequest struct {
	Stops      *[]StopDTO `json:"stops"`
	Mode       *string    `json:"mode"`
	StartIndex *int       `json:"start_index"`
}

type LegResponse struct {
	FromPlaceID string `json:"from_place_id"`
	ToPlaceID   string `json:"to_place_id"`
	DurationMs  int64  `json:"duration_ms"`
	Minutes     int64  `json:"minutes"`
}

type MarkerResponse struct {
	PlaceID  string      `json:"place_id"`
	Title    string      `json:"title"`
	Label    string      `json:"label"`
	Position LocationDTO `json:"position"`
}

type BoundsResponse struct {
	SouthWest LocationDTO `json:"south_west"`
	NorthEast LocationDTO `json:"north_east"`
}

type RouteResponse struct {
	Status          string           `json:"status"`
	Mode            string           `json:"mode"`
	StartIndex      int              `json:"start_index"`
	Order           []int            `json:"order"`
	OrderedStops    []StopDTO        `json:"ordered_stops"`
	Legs            []LegResponse    `json:"legs"`
	TotalDurationMs int64            `json:"total_duration_ms"`
	TotalMinutes    int64            `json:"total_minutes"`
	Markers         []MarkerResponse `json:"markers"`
	Bounds          *BoundsResponse  `json:"bounds,omitempty"`
	Path            *geojson.Feature `json:"path,omitempty"`
	Unresolved      []string         `json:"unresolved,omitempty"`
	Error           string           `json:"error,omitempty"`
}

type SessionCreatedResponse struct {
	SessionID  string `json:"session_id"`
	Generation uint64 `json:"generation"`
}

type SessionResponse struct {
	SessionID           string         `json:"session_id"`
	Generation          uint64         `json:"generation"`
	PublishedGeneration uint64         `json:"published_generation"`
	IsComputing         bool           `json:"is_computing"`
	Route               *RouteResponse `json:"route,omitempty"`
}
