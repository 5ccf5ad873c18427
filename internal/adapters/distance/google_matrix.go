package distance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/platform/httpx"
	"trip-route-service/internal/platform/obs"
	"trip-route-service/internal/ports"
)

const googleMapsBaseURL = "https://maps.googleapis.com"

type googleDuration struct {
	Value int64 `json:"value"`
}

type googleMatrixResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Rows         []struct {
		Elements []struct {
			Status            string          `json:"status"`
			Duration          *googleDuration `json:"duration"`
			DurationInTraffic *googleDuration `json:"duration_in_traffic"`
		} `json:"elements"`
	} `json:"rows"`
}

// GoogleMatrixProvider implements TravelMatrixProvider with the Google
// Distance Matrix API. Each GetMatrix is one batched request.
type GoogleMatrixProvider struct {
	client *httpx.Client
	apiKey string
}

func NewGoogleMatrixProvider(apiKey string, timeout time.Duration) (*GoogleMatrixProvider, error) {
	if apiKey == "" {
		return nil, errors.New("google maps api key is empty")
	}

	return &GoogleMatrixProvider{
		client: httpx.New(googleMapsBaseURL, timeout, nil),
		apiKey: apiKey,
	}, nil
}

func googleMode(m domain.TravelMode) string {
	switch m {
	case domain.Walking:
		return "walking"
	case domain.Bicycling:
		return "bicycling"
	default:
		return "driving"
	}
}

func joinCoords(coords []domain.Coordinates) string {
	parts := make([]string, 0, len(coords))
	for _, c := range coords {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, "|")
}

// GetMatrix fetches origins x destinations durations in milliseconds.
//
// For traffic-aware requests the provider asks for a best-guess duration at
// the current time and prefers duration_in_traffic over plain duration.
// Elements with a non-OK status or no duration come back unreachable.
func (g *GoogleMatrixProvider) GetMatrix(
	ctx context.Context,
	req ports.MatrixRequest,
) (_ [][]ports.MatrixCell, err error) {
	defer obs.Time(ctx, "google.GetMatrix")(&err)

	if len(req.Origins) == 0 || len(req.Destinations) == 0 {
		return [][]ports.MatrixCell{}, nil
	}

	endpoint := g.client.BaseURL + "/maps/api/distancematrix/json"

	q := make(map[string]string)
	q["origins"] = joinCoords(req.Origins)
	q["destinations"] = joinCoords(req.Destinations)
	q["mode"] = googleMode(req.Mode)
	q["units"] = "imperial"
	q["key"] = g.apiKey
	if req.TrafficAware && req.Mode == domain.Driving {
		q["departure_time"] = "now"
		q["traffic_model"] = "best_guess"
	}

	resp, err := g.client.DoWithRetry(ctx, func() (*http.Request, error) {
		r, err := g.client.NewRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		values := r.URL.Query()
		for k, v := range q {
			values.Set(k, v)
		}
		r.URL.RawQuery = values.Encode()
		return r, nil
	})
	if err != nil {
		return nil, fmt.Errorf("google matrix request: %w: %w", domain.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	var mr googleMatrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("decode google matrix response: %w: %w", domain.ErrServiceUnavailable, err)
	}

	if mr.Status != "OK" {
		return nil, fmt.Errorf(
			"google matrix status %s %s: %w",
			mr.Status, mr.ErrorMessage, domain.ErrServiceUnavailable,
		)
	}

	if len(mr.Rows) != len(req.Origins) {
		return nil, fmt.Errorf(
			"google matrix: got %d rows, want %d: %w",
			len(mr.Rows), len(req.Origins), domain.ErrServiceUnavailable,
		)
	}

	out := make([][]ports.MatrixCell, len(mr.Rows))
	for i, row := range mr.Rows {
		if len(row.Elements) != len(req.Destinations) {
			return nil, fmt.Errorf(
				"google matrix: row %d has %d elements, want %d: %w",
				i, len(row.Elements), len(req.Destinations), domain.ErrServiceUnavailable,
			)
		}

		out[i] = make([]ports.MatrixCell, len(row.Elements))
		for j, el := range row.Elements {
			cell := ports.MatrixCell{Status: ports.CellUnreachable}
			if el.Status == "OK" {
				// Zero in-traffic durations fall back to the plain duration.
				switch {
				case el.DurationInTraffic != nil && el.DurationInTraffic.Value > 0:
					cell = ports.MatrixCell{Status: ports.CellOK, DurationMs: el.DurationInTraffic.Value * 1000}
				case el.Duration != nil:
					cell = ports.MatrixCell{Status: ports.CellOK, DurationMs: el.Duration.Value * 1000}
				}
			}
			out[i][j] = cell
		}
	}

	return out, nil
}
