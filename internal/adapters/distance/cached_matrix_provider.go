package distance

import (
	"context"
	"errors"
	"log"
	"trip-route-service/internal/platform/obs"
	"trip-route-service/internal/ports"
)

// CachedMatrixProvider serves matrices from a persistent cache when every
// cell is known and otherwise issues one batched request to Next, storing the
// reachable cells it returns.
//
// Traffic-aware requests always go to Next: their durations depend on the
// departure time. Cache failures are logged and never fail the request.
type CachedMatrixProvider struct {
	Next  ports.TravelMatrixProvider
	Cache ports.MatrixCache
}

func NewCachedMatrixProvider(next ports.TravelMatrixProvider, cache ports.MatrixCache) *CachedMatrixProvider {
	return &CachedMatrixProvider{Next: next, Cache: cache}
}

func (p *CachedMatrixProvider) GetMatrix(
	ctx context.Context,
	req ports.MatrixRequest,
) (_ [][]ports.MatrixCell, err error) {
	defer obs.Time(ctx, "matrix.cache.GetMatrix")(&err)

	if p.Next == nil {
		return nil, errors.New("cached matrix provider: next provider is nil")
	}

	if p.Cache == nil || req.TrafficAware {
		return p.Next.GetMatrix(ctx, req)
	}

	if cells, ok := p.fromCache(ctx, req); ok {
		return cells, nil
	}

	cells, err := p.Next.GetMatrix(ctx, req)
	if err != nil {
		return nil, err
	}

	p.store(ctx, req, cells)
	return cells, nil
}

func (p *CachedMatrixProvider) fromCache(ctx context.Context, req ports.MatrixRequest) ([][]ports.MatrixCell, bool) {
	destKeys := make([]string, 0, len(req.Destinations))
	for _, d := range req.Destinations {
		destKeys = append(destKeys, d.Key())
	}

	out := make([][]ports.MatrixCell, len(req.Origins))
	for i, o := range req.Origins {
		originKey := o.Key()

		hits, err := p.Cache.GetMany(ctx, req.Mode, originKey, destKeys)
		if err != nil {
			log.Printf("matrix cache read failed: origin=%s err=%v", originKey, err)
			return nil, false
		}

		out[i] = make([]ports.MatrixCell, len(destKeys))
		for j, dk := range destKeys {
			if dk == originKey {
				out[i][j] = ports.MatrixCell{Status: ports.CellOK, DurationMs: 0}
				continue
			}
			ms, ok := hits[dk]
			if !ok {
				return nil, false
			}
			out[i][j] = ports.MatrixCell{Status: ports.CellOK, DurationMs: ms}
		}
	}

	return out, true
}

// store writes OK cells only, so unreachable pairs are asked for again later.
func (p *CachedMatrixProvider) store(ctx context.Context, req ports.MatrixRequest, cells [][]ports.MatrixCell) {
	for i, row := range cells {
		if i >= len(req.Origins) {
			return
		}
		originKey := req.Origins[i].Key()

		durations := make(map[string]int64, len(row))
		for j, cell := range row {
			if j >= len(req.Destinations) || cell.Status != ports.CellOK {
				continue
			}
			if dk := req.Destinations[j].Key(); dk != originKey {
				durations[dk] = cell.DurationMs
			}
		}

		if err := p.Cache.PutMany(ctx, req.Mode, originKey, durations); err != nil {
			log.Printf("matrix cache write failed: origin=%s err=%v", originKey, err)
		}
	}
}
