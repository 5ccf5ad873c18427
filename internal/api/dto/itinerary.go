package dto

import "time"

type LocationDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type StopDTO struct {
	PlaceID  string       `json:"place_id"`
	Name     string       `json:"name,omitempty"`
	Address  string       `json:"address,omitempty"`
	Location *LocationDTO `json:"location,omitempty"`
}

type ItinerarySummaryResponse struct {
	ItineraryID string    `json:"itinerary_id"`
	Name        string    `json:"name"`
	Count       int       `json:"count"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ListItinerariesResponse struct {
	Itineraries []ItinerarySummaryResponse `json:"itineraries"`
}

type ItineraryResponse struct {
	ItineraryID string    `json:"itinerary_id"`
	Name        string    `json:"name"`
	UpdatedAt   time.Time `json:"updated_at"`
	Items       []StopDTO `json:"items"`
}
