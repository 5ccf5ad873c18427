package distance

import (
	"context"
	"sync"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/ports"
)

// MockPair is one directed duration between two coordinates.
type MockPair struct {
	From, To domain.Coordinates
	Millis   int64
}

// MockMatrixProvider answers from a fixed pair list; missing pairs are
// unreachable. Err, when set, fails every request.
type MockMatrixProvider struct {
	m   map[string]int64
	Err error

	mu       sync.Mutex
	Requests []ports.MatrixRequest
}

func NewMockMatrixProvider(pairs []MockPair) *MockMatrixProvider {
	m := make(map[string]int64, len(pairs))
	for _, p := range pairs {
		m[p.From.Key()+"|"+p.To.Key()] = p.Millis
	}
	return &MockMatrixProvider{m: m}
}

func (p *MockMatrixProvider) GetMatrix(ctx context.Context, req ports.MatrixRequest) ([][]ports.MatrixCell, error) {
	p.mu.Lock()
	p.Requests = append(p.Requests, req)
	p.mu.Unlock()

	if p.Err != nil {
		return nil, p.Err
	}

	out := make([][]ports.MatrixCell, len(req.Origins))
	for i, o := range req.Origins {
		out[i] = make([]ports.MatrixCell, len(req.Destinations))
		for j, d := range req.Destinations {
			if o.Key() == d.Key() {
				out[i][j] = ports.MatrixCell{Status: ports.CellOK}
				continue
			}
			ms, ok := p.m[o.Key()+"|"+d.Key()]
			if !ok {
				out[i][j] = ports.MatrixCell{Status: ports.CellUnreachable}
				continue
			}
			out[i][j] = ports.MatrixCell{Status: ports.CellOK, DurationMs: ms}
		}
	}
	return out, nil
}

// Calls returns the number of GetMatrix requests received.
func (p *MockMatrixProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Requests)
}
