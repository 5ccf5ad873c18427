package distance

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestORSMatrixProviderGetMatrix(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/matrix/foot-walking", r.URL.Path)
		assert.Equal(t, "ors-key", r.Header.Get("Authorization"))

		var body orsMatrixRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, [][]float64{{-112.074, 33.4484}, {-111.94, 33.4255}}, body.Locations)
		assert.Equal(t, []int{0}, body.Sources)
		assert.Equal(t, []int{1}, body.Destinations)
		assert.Equal(t, []string{"duration"}, body.Metrics)

		w.Write([]byte(`{"durations": [[1234.5678]]}`))
	}))
	defer server.Close()

	p, err := NewORSMatrixProvider("ors-key", time.Second)
	require.NoError(t, err)
	p.client.BaseURL = server.URL

	cells, err := p.GetMatrix(context.Background(), ports.MatrixRequest{
		Origins:      []domain.Coordinates{phx},
		Destinations: []domain.Coordinates{tmp},
		Mode:         domain.Walking,
	})
	require.NoError(t, err)
	assert.Equal(t, [][]ports.MatrixCell{{{Status: ports.CellOK, DurationMs: 1_234_568}}}, cells)
}

func TestORSMatrixProviderNullDuration(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/matrix/driving-car", r.URL.Path)

		var body orsMatrixRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, [][]float64{{-112.074, 33.4484}, {-111.94, 33.4255}}, body.Locations)
		assert.Equal(t, []int{0, 1}, body.Sources)
		assert.Equal(t, []int{0, 1}, body.Destinations)

		w.Write([]byte(`{"durations": [[0, null], [42, 0]]}`))
	}))
	defer server.Close()

	p, err := NewORSMatrixProvider("ors-key", time.Second)
	require.NoError(t, err)
	p.client.BaseURL = server.URL

	coords := []domain.Coordinates{phx, tmp}
	cells, err := p.GetMatrix(context.Background(), ports.MatrixRequest{
		Origins:      coords,
		Destinations: coords,
		Mode:         domain.Driving,
		TrafficAware: true,
	})
	require.NoError(t, err)
	assert.Equal(t, ports.CellUnreachable, cells[0][1].Status)
	assert.Equal(t, int64(42_000), cells[1][0].DurationMs)
}

func TestORSLocations(t *testing.T) {
	locs, src, dst := orsLocations([]domain.Coordinates{phx, tmp}, []domain.Coordinates{phx, tmp})
	assert.Len(t, locs, 2)
	assert.Equal(t, []int{0, 1}, src)
	assert.Equal(t, []int{0, 1}, dst)

	locs, src, dst = orsLocations([]domain.Coordinates{phx, tmp}, []domain.Coordinates{tmp, phx})
	assert.Len(t, locs, 4)
	assert.Equal(t, []int{0, 1}, src)
	assert.Equal(t, []int{2, 3}, dst)
}

func TestORSMatrixProviderRowMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"durations": []}`))
	}))
	defer server.Close()

	p, err := NewORSMatrixProvider("ors-key", time.Second)
	require.NoError(t, err)
	p.client.BaseURL = server.URL

	_, err = p.GetMatrix(context.Background(), ports.MatrixRequest{
		Origins:      []domain.Coordinates{phx},
		Destinations: []domain.Coordinates{tmp},
		Mode:         domain.Bicycling,
	})
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
}
