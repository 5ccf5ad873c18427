package domain

import (
	"fmt"
	"math"
)

// Unreachable marks a cost matrix cell with no usable duration. It compares
// greater than every real duration, so it behaves as +infinity.
const Unreachable int64 = math.MaxInt64

// CostMatrix holds travel durations in milliseconds; cost[i][j] is the trip
// from stop i to stop j. It is not assumed symmetric and the diagonal is
// never consulted.
type CostMatrix [][]int64

// NewCostMatrix returns an n×n matrix with every off-diagonal cell unreachable.
func NewCostMatrix(n int) CostMatrix {
	m := make(CostMatrix, n)
	for i := range m {
		m[i] = make([]int64, n)
		for j := range m[i] {
			if i != j {
				m[i][j] = Unreachable
			}
		}
	}
	return m
}

func (m CostMatrix) Size() int { return len(m) }

func (m CostMatrix) Reachable(i, j int) bool { return m[i][j] != Unreachable }

// Validate checks the matrix is square with no negative durations.
func (m CostMatrix) Validate() error {
	n := len(m)
	for i, row := range m {
		if len(row) != n {
			return fmt.Errorf("cost matrix: row %d has %d cells, want %d: %w", i, len(row), n, ErrInvalidArgument)
		}
		for j, c := range row {
			if c < 0 {
				return fmt.Errorf("cost matrix: negative cost at [%d][%d]: %w", i, j, ErrInvalidArgument)
			}
		}
	}
	return nil
}
