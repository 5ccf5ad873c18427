package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/platform/httpx"
	"trip-route-service/internal/platform/obs"
)

const (
	placesBaseURL     = "https://places.googleapis.com"
	googleMapsBaseURL = "https://maps.googleapis.com"
)

type placeResponse struct {
	Location *struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
}

// PlacesResolver resolves place ids with the Places API (New), fetching
// only the location field.
type PlacesResolver struct {
	client *httpx.Client
}

func NewPlacesResolver(apiKey string, timeout time.Duration) (*PlacesResolver, error) {
	if apiKey == "" {
		return nil, errors.New("google maps api key is empty")
	}

	return &PlacesResolver{
		client: httpx.New(placesBaseURL, timeout, map[string]string{
			"X-Goog-Api-Key":   apiKey,
			"X-Goog-FieldMask": "location",
		}),
	}, nil
}

func (p *PlacesResolver) Resolve(ctx context.Context, placeID string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "places.Resolve")(&err)

	endpoint := p.client.BaseURL + "/v1/places/" + url.PathEscape(placeID)

	resp, err := p.client.DoWithRetry(ctx, func() (*http.Request, error) {
		return p.client.NewRequest(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		var se *httpx.StatusError
		if errors.As(err, &se) && (se.Code == http.StatusNotFound || se.Code == http.StatusBadRequest) {
			return domain.Coordinates{}, fmt.Errorf("place %q: %w", placeID, domain.ErrNotFound)
		}
		return domain.Coordinates{}, fmt.Errorf("place %q: execute request: %w", placeID, err)
	}
	defer resp.Body.Close()

	var decoded placeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("place %q: decode response: %w", placeID, err)
	}

	if decoded.Location == nil {
		return domain.Coordinates{}, fmt.Errorf("place %q: no location field: %w", placeID, domain.ErrNotFound)
	}

	return domain.Coordinates{
		Lat: decoded.Location.Latitude,
		Lng: decoded.Location.Longitude,
	}, nil
}
