package domain

import "time"

// Itinerary is a saved trip whose items feed the route planner.
type Itinerary struct {
	ItineraryID string
	Name        string
	Stops       []Stop
	UpdatedAt   time.Time
}

// ItinerarySummary is the lightweight listing form of an Itinerary.
type ItinerarySummary struct {
	ItineraryID string
	Name        string
	StopCount   int
	UpdatedAt   time.Time
}
