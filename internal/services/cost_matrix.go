package services

import (
	"context"
	"errors"
	"fmt"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/platform/obs"
	"trip-route-service/internal/ports"
)

// CostMatrixClient turns a batched travel matrix query into a CostMatrix.
type CostMatrixClient struct {
	Provider ports.TravelMatrixProvider
}

func NewCostMatrixClient(provider ports.TravelMatrixProvider) *CostMatrixClient {
	return &CostMatrixClient{Provider: provider}
}

// GetMatrix requests the full coords x coords duration matrix in one call.
//
// Cells the provider reports as non-OK become domain.Unreachable for that
// ordered pair only. A failure of the whole request is returned wrapping
// domain.ErrServiceUnavailable. Fewer than two coordinates need no request.
func (c *CostMatrixClient) GetMatrix(
	ctx context.Context,
	coords []domain.Coordinates,
	mode domain.TravelMode,
) (_ domain.CostMatrix, err error) {
	defer obs.Time(ctx, "matrix.GetMatrix")(&err)

	n := len(coords)
	if n < 2 {
		return domain.NewCostMatrix(n), nil
	}

	if c.Provider == nil {
		return nil, errors.New("get matrix: provider is nil")
	}

	cells, err := c.Provider.GetMatrix(ctx, ports.MatrixRequest{
		Origins:      coords,
		Destinations: coords,
		Mode:         mode,
		TrafficAware: mode.TrafficAware(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrServiceUnavailable) {
			return nil, fmt.Errorf("get matrix: %w", err)
		}
		return nil, fmt.Errorf("get matrix: %w: %w", domain.ErrServiceUnavailable, err)
	}

	if len(cells) != n {
		return nil, fmt.Errorf("get matrix: got %d rows, want %d: %w", len(cells), n, domain.ErrServiceUnavailable)
	}

	cost := domain.NewCostMatrix(n)
	for i, row := range cells {
		if len(row) != n {
			return nil, fmt.Errorf(
				"get matrix: row %d has %d cells, want %d: %w",
				i, len(row), n, domain.ErrServiceUnavailable,
			)
		}
		for j, cell := range row {
			if i == j {
				continue
			}
			if cell.Status == ports.CellOK && cell.DurationMs >= 0 {
				cost[i][j] = cell.DurationMs
			}
		}
	}

	return cost, nil
}
