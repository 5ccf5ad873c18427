package domain

import "fmt"

// Immutable geographic coordinates (latitude, longitude).
type Coordinates struct {
	Lat float64
	Lng float64
}

// Return coordinates as [lng, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lng, c.Lat} }

// Key renders the coordinate rounded to ~1m so equal places share cache keys.
func (c Coordinates) Key() string { return fmt.Sprintf("%.5f,%.5f", c.Lat, c.Lng) }

// String renders "lat,lng" with full precision, the form Google endpoints accept.
func (c Coordinates) String() string { return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lng) }
