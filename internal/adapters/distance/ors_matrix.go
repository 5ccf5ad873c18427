package distance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"slices"
	"time"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/platform/httpx"
	"trip-route-service/internal/platform/obs"
	"trip-route-service/internal/ports"
)

const orsBaseURL = "https://api.openrouteservice.org"

type orsMatrixRequest struct {
	Locations    [][]float64 `json:"locations"`
	Sources      []int       `json:"sources"`
	Destinations []int       `json:"destinations"`
	Metrics      []string    `json:"metrics"`
}

type orsMatrixResponse struct {
	Durations [][]*float64 `json:"durations"`
}

// ORSMatrixProvider implements TravelMatrixProvider using OpenRouteService.
// ORS has no live traffic, so TrafficAware is ignored.
type ORSMatrixProvider struct {
	client *httpx.Client
}

func NewORSMatrixProvider(apiKey string, timeout time.Duration) (*ORSMatrixProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	return &ORSMatrixProvider{
		client: httpx.New(orsBaseURL, timeout, map[string]string{"Authorization": apiKey}),
	}, nil
}

func orsProfile(m domain.TravelMode) string {
	switch m {
	case domain.Walking:
		return "foot-walking"
	case domain.Bicycling:
		return "cycling-regular"
	default:
		return "driving-car"
	}
}

// GetMatrix retrieves origins x destinations durations from the ORS matrix
// endpoint in a single request. Null durations mark unroutable pairs.
func (o *ORSMatrixProvider) GetMatrix(
	ctx context.Context,
	req ports.MatrixRequest,
) (_ [][]ports.MatrixCell, err error) {
	defer obs.Time(ctx, "ors.GetMatrix")(&err)

	if len(req.Origins) == 0 || len(req.Destinations) == 0 {
		return [][]ports.MatrixCell{}, nil
	}

	endpoint := fmt.Sprintf("%s/v2/matrix/%s", o.client.BaseURL, orsProfile(req.Mode))

	locations, sources, destIdx := orsLocations(req.Origins, req.Destinations)

	payload, err := json.Marshal(orsMatrixRequest{
		Locations:    locations,
		Sources:      sources,
		Destinations: destIdx,
		Metrics:      []string{"duration"},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal matrix request: %w", err)
	}

	resp, err := o.client.DoWithRetry(ctx, func() (*http.Request, error) {
		return o.client.NewRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, fmt.Errorf("matrix request failed: %w: %w", domain.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	var mr orsMatrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("decode matrix response: %w: %w", domain.ErrServiceUnavailable, err)
	}

	if len(mr.Durations) != len(req.Origins) {
		return nil, fmt.Errorf(
			"expected %d source rows; got %d: %w",
			len(req.Origins), len(mr.Durations), domain.ErrServiceUnavailable,
		)
	}

	out := make([][]ports.MatrixCell, len(mr.Durations))
	for i, row := range mr.Durations {
		if len(row) != len(req.Destinations) {
			return nil, fmt.Errorf(
				"row %d length %d does not match destinations=%d: %w",
				i, len(row), len(req.Destinations), domain.ErrServiceUnavailable,
			)
		}

		out[i] = make([]ports.MatrixCell, len(row))
		for j, secondsPtr := range row {
			if secondsPtr == nil {
				out[i][j] = ports.MatrixCell{Status: ports.CellUnreachable}
				continue
			}
			// ORS returns float seconds; round to whole milliseconds.
			out[i][j] = ports.MatrixCell{
				Status:     ports.CellOK,
				DurationMs: int64(math.Round(*secondsPtr * 1000)),
			}
		}
	}

	return out, nil
}

// orsLocations lays out the request locations. A square request whose
// origins and destinations are the same list sends each point once.
func orsLocations(origins, destinations []domain.Coordinates) (locations [][]float64, sources, dests []int) {
	if slices.Equal(origins, destinations) {
		locations = make([][]float64, 0, len(origins))
		sources = make([]int, 0, len(origins))
		for i, c := range origins {
			sources = append(sources, i)
			locations = append(locations, c.CoordsToList())
		}
		return locations, sources, slices.Clone(sources)
	}

	locations = make([][]float64, 0, len(origins)+len(destinations))
	sources = make([]int, 0, len(origins))
	for _, c := range origins {
		sources = append(sources, len(locations))
		locations = append(locations, c.CoordsToList())
	}
	dests = make([]int, 0, len(destinations))
	for _, c := range destinations {
		dests = append(dests, len(locations))
		locations = append(locations, c.CoordsToList())
	}
	return locations, sources, dests
}
