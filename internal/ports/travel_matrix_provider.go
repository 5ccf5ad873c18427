package ports

import (
	"context"
	"trip-route-service/internal/domain"
)

type CellStatus string

const (
	CellOK          CellStatus = "OK"
	CellUnreachable CellStatus = "UNREACHABLE"
)

// One origin->destination entry of a travel matrix response.
type MatrixCell struct {
	Status     CellStatus
	DurationMs int64
}

// Request for a batched origins x destinations duration matrix.
type MatrixRequest struct {
	Origins      []domain.Coordinates
	Destinations []domain.Coordinates
	Mode         domain.TravelMode
	TrafficAware bool
}

// Contract for an external travel-time matrix service.
type TravelMatrixProvider interface {
	// Return cells aligned by origin row and destination column. A failure of
	// the whole request is returned as an error; per-pair failures are cells
	// with a non-OK status.
	GetMatrix(ctx context.Context, req MatrixRequest) ([][]MatrixCell, error)
}

// Persistent origin->destination duration store keyed by travel mode.
type MatrixCache interface {
	GetMany(ctx context.Context, mode domain.TravelMode, origin string, destinations []string) (map[string]int64, error)
	PutMany(ctx context.Context, mode domain.TravelMode, origin string, durations map[string]int64) error
}
