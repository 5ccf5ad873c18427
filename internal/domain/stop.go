package domain

// Represents one itinerary entry under consideration for routing.
// A Stop participates in routing only once Coordinate is set; stops without
// a coordinate stay in the display list but are excluded from the cost matrix.
type Stop struct {
	ID             string
	DisplayName    string
	DisplayAddress string
	Coordinate     *Coordinates
}

func (s Stop) Resolved() bool { return s.Coordinate != nil }

// WithCoordinate returns a copy of s carrying c.
func (s Stop) WithCoordinate(c Coordinates) Stop {
	s.Coordinate = &c
	return s
}

// Label picks the most descriptive presentation text for the stop.
func (s Stop) Label() string {
	switch {
	case s.DisplayName != "":
		return s.DisplayName
	case s.DisplayAddress != "":
		return s.DisplayAddress
	default:
		return s.ID
	}
}
