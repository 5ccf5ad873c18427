package domain

import (
	"fmt"
	"strings"
)

type TravelMode string

const (
	Driving   TravelMode = "DRIVING"
	Walking   TravelMode = "WALKING"
	Bicycling TravelMode = "BICYCLING"
)

// ParseTravelMode accepts any casing; an empty string selects Driving.
func ParseTravelMode(s string) (TravelMode, error) {
	switch TravelMode(strings.ToUpper(strings.TrimSpace(s))) {
	case "", Driving:
		return Driving, nil
	case Walking:
		return Walking, nil
	case Bicycling:
		return Bicycling, nil
	}
	return "", fmt.Errorf("parse travel mode %q: %w", s, ErrInvalidArgument)
}

// TrafficAware reports whether durations for this mode should include live traffic.
func (m TravelMode) TrafficAware() bool { return m == Driving }
