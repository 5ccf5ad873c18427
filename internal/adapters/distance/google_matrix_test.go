package distance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	phx = domain.Coordinates{Lat: 33.4484, Lng: -112.074}
	tmp = domain.Coordinates{Lat: 33.4255, Lng: -111.94}
)

func newTestGoogleProvider(t *testing.T, handler http.HandlerFunc) *GoogleMatrixProvider {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewGoogleMatrixProvider("test-key", time.Second)
	require.NoError(t, err)
	p.client.BaseURL = server.URL
	p.client.Backoff = time.Millisecond
	return p
}

func TestGoogleMatrixProviderTrafficAware(t *testing.T) {
	p := newTestGoogleProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/distancematrix/json", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "33.448400,-112.074000|33.425500,-111.940000", q.Get("origins"))
		assert.Equal(t, "driving", q.Get("mode"))
		assert.Equal(t, "now", q.Get("departure_time"))
		assert.Equal(t, "best_guess", q.Get("traffic_model"))
		assert.Equal(t, "test-key", q.Get("key"))

		w.Write([]byte(`{
			"status": "OK",
			"rows": [
				{"elements": [
					{"status": "OK", "duration": {"value": 0}},
					{"status": "OK", "duration": {"value": 600}, "duration_in_traffic": {"value": 720}}
				]},
				{"elements": [
					{"status": "OK", "duration": {"value": 590}, "duration_in_traffic": {"value": 0}},
					{"status": "OK", "duration": {"value": 0}}
				]}
			]
		}`))
	})

	cells, err := p.GetMatrix(context.Background(), ports.MatrixRequest{
		Origins:      []domain.Coordinates{phx, tmp},
		Destinations: []domain.Coordinates{phx, tmp},
		Mode:         domain.Driving,
		TrafficAware: true,
	})
	require.NoError(t, err)

	assert.Equal(t, ports.MatrixCell{Status: ports.CellOK, DurationMs: 720_000}, cells[0][1])
	// A zero in-traffic duration falls back to the plain duration.
	assert.Equal(t, ports.MatrixCell{Status: ports.CellOK, DurationMs: 590_000}, cells[1][0])
}

func TestGoogleMatrixProviderUnreachableElements(t *testing.T) {
	p := newTestGoogleProvider(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "walking", q.Get("mode"))
		assert.Empty(t, q.Get("departure_time"))

		w.Write([]byte(`{
			"status": "OK",
			"rows": [{"elements": [{"status": "ZERO_RESULTS"}, {"status": "OK"}]}]
		}`))
	})

	cells, err := p.GetMatrix(context.Background(), ports.MatrixRequest{
		Origins:      []domain.Coordinates{phx},
		Destinations: []domain.Coordinates{tmp, phx},
		Mode:         domain.Walking,
	})
	require.NoError(t, err)
	assert.Equal(t, ports.CellUnreachable, cells[0][0].Status)
	// OK without any duration is still unusable.
	assert.Equal(t, ports.CellUnreachable, cells[0][1].Status)
}

func TestGoogleMatrixProviderRequestDenied(t *testing.T) {
	p := newTestGoogleProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "REQUEST_DENIED", "error_message": "bad key", "rows": []}`))
	})

	_, err := p.GetMatrix(context.Background(), ports.MatrixRequest{
		Origins:      []domain.Coordinates{phx},
		Destinations: []domain.Coordinates{tmp},
		Mode:         domain.Bicycling,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
	assert.Contains(t, err.Error(), "bad key")
}

func TestGoogleMatrixProviderHTTPFailure(t *testing.T) {
	p := newTestGoogleProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := p.GetMatrix(context.Background(), ports.MatrixRequest{
		Origins:      []domain.Coordinates{phx},
		Destinations: []domain.Coordinates{tmp},
		Mode:         domain.Driving,
	})
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
}

func TestNewGoogleMatrixProviderRequiresKey(t *testing.T) {
	_, err := NewGoogleMatrixProvider("", time.Second)
	assert.Error(t, err)
}
