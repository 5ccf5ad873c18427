package services

import (
	"context"
	"errors"
	"testing"
	"trip-route-service/internal/adapters/distance"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ptA = domain.Coordinates{Lat: 33.4484, Lng: -112.0740}
	ptB = domain.Coordinates{Lat: 33.4255, Lng: -111.9400}
	ptC = domain.Coordinates{Lat: 33.5091, Lng: -111.8990}
)

// sizedProvider returns a fixed cell grid regardless of the request.
type sizedProvider struct {
	cells [][]ports.MatrixCell
}

func (p sizedProvider) GetMatrix(ctx context.Context, req ports.MatrixRequest) ([][]ports.MatrixCell, error) {
	return p.cells, nil
}

func TestCostMatrixClientGetMatrix(t *testing.T) {
	provider := distance.NewMockMatrixProvider([]distance.MockPair{
		{From: ptA, To: ptB, Millis: 600_000},
		{From: ptB, To: ptA, Millis: 620_000},
		{From: ptA, To: ptC, Millis: 900_000},
		{From: ptC, To: ptB, Millis: 300_000},
	})
	client := NewCostMatrixClient(provider)

	cost, err := client.GetMatrix(context.Background(), []domain.Coordinates{ptA, ptB, ptC}, domain.Walking)
	require.NoError(t, err)

	want := domain.CostMatrix{
		{0, 600_000, 900_000},
		{620_000, 0, inf},
		{inf, 300_000, 0},
	}
	assert.Equal(t, want, cost)

	require.Equal(t, 1, provider.Calls())
	req := provider.Requests[0]
	assert.Equal(t, domain.Walking, req.Mode)
	assert.False(t, req.TrafficAware)
	assert.Len(t, req.Origins, 3)
	assert.Len(t, req.Destinations, 3)
}

func TestCostMatrixClientDrivingIsTrafficAware(t *testing.T) {
	provider := distance.NewMockMatrixProvider(nil)
	client := NewCostMatrixClient(provider)

	_, err := client.GetMatrix(context.Background(), []domain.Coordinates{ptA, ptB}, domain.Driving)
	require.NoError(t, err)

	require.Equal(t, 1, provider.Calls())
	assert.True(t, provider.Requests[0].TrafficAware)
}

func TestCostMatrixClientSkipsProviderBelowTwoStops(t *testing.T) {
	provider := distance.NewMockMatrixProvider(nil)
	client := NewCostMatrixClient(provider)

	for _, coords := range [][]domain.Coordinates{nil, {ptA}} {
		cost, err := client.GetMatrix(context.Background(), coords, domain.Driving)
		require.NoError(t, err)
		assert.Equal(t, len(coords), cost.Size())
	}
	assert.Equal(t, 0, provider.Calls())
}

func TestCostMatrixClientProviderFailure(t *testing.T) {
	provider := distance.NewMockMatrixProvider(nil)
	provider.Err = errors.New("quota exceeded")
	client := NewCostMatrixClient(provider)

	_, err := client.GetMatrix(context.Background(), []domain.Coordinates{ptA, ptB}, domain.Driving)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestCostMatrixClientRejectsShortRows(t *testing.T) {
	client := NewCostMatrixClient(sizedProvider{cells: [][]ports.MatrixCell{
		{{Status: ports.CellOK}, {Status: ports.CellOK, DurationMs: 1}},
		{{Status: ports.CellOK}},
	}})

	_, err := client.GetMatrix(context.Background(), []domain.Coordinates{ptA, ptB}, domain.Walking)
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
}
