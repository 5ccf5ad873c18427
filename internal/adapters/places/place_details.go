package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/platform/httpx"
	"trip-route-service/internal/platform/obs"
)

type placeDetailsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Result       struct {
		Geometry *struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"result"`
}

// PlaceDetailsResolver resolves place ids with the legacy Place Details
// endpoint, requesting only geometry.
type PlaceDetailsResolver struct {
	client *httpx.Client
	apiKey string
}

func NewPlaceDetailsResolver(apiKey string, timeout time.Duration) (*PlaceDetailsResolver, error) {
	if apiKey == "" {
		return nil, errors.New("google maps api key is empty")
	}

	return &PlaceDetailsResolver{
		client: httpx.New(googleMapsBaseURL, timeout, nil),
		apiKey: apiKey,
	}, nil
}

func (p *PlaceDetailsResolver) Resolve(ctx context.Context, placeID string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "placedetails.Resolve")(&err)

	endpoint := p.client.BaseURL + "/maps/api/place/details/json"

	resp, err := p.client.DoWithRetry(ctx, func() (*http.Request, error) {
		req, err := p.client.NewRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("place_id", placeID)
		q.Set("fields", "geometry")
		q.Set("key", p.apiKey)
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("place details %q: execute request: %w", placeID, err)
	}
	defer resp.Body.Close()

	var decoded placeDetailsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("place details %q: decode response: %w", placeID, err)
	}

	switch decoded.Status {
	case "OK":
	case "NOT_FOUND", "ZERO_RESULTS", "INVALID_REQUEST":
		return domain.Coordinates{}, fmt.Errorf("place details %q: status %s: %w", placeID, decoded.Status, domain.ErrNotFound)
	default:
		return domain.Coordinates{}, fmt.Errorf("place details %q: status %s %s", placeID, decoded.Status, decoded.ErrorMessage)
	}

	if decoded.Result.Geometry == nil {
		return domain.Coordinates{}, fmt.Errorf("place details %q: no geometry: %w", placeID, domain.ErrNotFound)
	}

	loc := decoded.Result.Geometry.Location
	return domain.Coordinates{Lat: loc.Lat, Lng: loc.Lng}, nil
}
