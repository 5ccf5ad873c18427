package services

import (
	"errors"
	"testing"
	"trip-route-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inf = domain.Unreachable

func TestComputeOrder(t *testing.T) {
	tests := []struct {
		name      string
		cost      domain.CostMatrix
		start     int
		wantOrder []int
		wantLegs  []int64
	}{
		{
			name:      "fully connected",
			cost:      domain.CostMatrix{{0, 5, 9}, {5, 0, 3}, {9, 3, 0}},
			start:     0,
			wantOrder: []int{0, 1, 2},
			wantLegs:  []int64{5, 3},
		},
		{
			name:      "cheapest first hop wins over direct",
			cost:      domain.CostMatrix{{0, 10, 2}, {10, 0, 1}, {2, 1, 0}},
			start:     0,
			wantOrder: []int{0, 2, 1},
			wantLegs:  []int64{2, 1},
		},
		{
			name:      "mutually unreachable pair",
			cost:      domain.CostMatrix{{0, inf}, {inf, 0}},
			start:     0,
			wantOrder: []int{0},
			wantLegs:  []int64{},
		},
		{
			name:      "tie goes to lower index",
			cost:      domain.CostMatrix{{0, 4, 4}, {4, 0, 7}, {4, 7, 0}},
			start:     0,
			wantOrder: []int{0, 1, 2},
			wantLegs:  []int64{4, 7},
		},
		{
			name:      "single stop",
			cost:      domain.CostMatrix{{0}},
			start:     0,
			wantOrder: []int{0},
			wantLegs:  []int64{},
		},
		{
			name:      "empty matrix",
			cost:      domain.CostMatrix{},
			start:     0,
			wantOrder: []int{},
			wantLegs:  []int64{},
		},
		{
			name:      "non-zero start",
			cost:      domain.CostMatrix{{0, 5, 9}, {5, 0, 3}, {9, 3, 0}},
			start:     2,
			wantOrder: []int{2, 1, 0},
			wantLegs:  []int64{3, 5},
		},
		{
			name: "stuck after reachable prefix",
			cost: domain.CostMatrix{
				{0, 1, inf, inf},
				{1, 0, inf, inf},
				{inf, inf, 0, 2},
				{inf, inf, 2, 0},
			},
			start:     0,
			wantOrder: []int{0, 1},
			wantLegs:  []int64{1},
		},
		{
			name:      "asymmetric costs follow outgoing direction",
			cost:      domain.CostMatrix{{0, 8, 3}, {1, 0, 1}, {9, 2, 0}},
			start:     1,
			wantOrder: []int{1, 0, 2},
			wantLegs:  []int64{1, 3},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ComputeOrder(tc.cost, tc.start)
			require.NoError(t, err)
			assert.Equal(t, tc.wantOrder, got.Order)
			assert.Equal(t, tc.wantLegs, got.LegDurations)
		})
	}
}

func TestComputeOrderTotal(t *testing.T) {
	got, err := ComputeOrder(domain.CostMatrix{{0, 5, 9}, {5, 0, 3}, {9, 3, 0}}, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(8), got.TotalDuration())
}

func TestComputeOrderInvalidStart(t *testing.T) {
	cost := domain.CostMatrix{{0, 1}, {1, 0}}

	for _, start := range []int{-1, 2} {
		_, err := ComputeOrder(cost, start)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidArgument), "start=%d: %v", start, err)
	}
}

func TestComputeOrderRejectsMalformedMatrix(t *testing.T) {
	tests := map[string]domain.CostMatrix{
		"ragged row":    {{0, 5, 9}, {5, 0}, {9, 3, 0}},
		"negative cost": {{0, -1}, {1, 0}},
	}

	for name, cost := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ComputeOrder(cost, 1)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		})
	}
}

func TestComputeOrderDeterministic(t *testing.T) {
	cost := domain.CostMatrix{
		{0, 7, 7, 3, 9},
		{7, 0, 2, 2, 5},
		{7, 2, 0, 6, 1},
		{3, 2, 6, 0, 4},
		{9, 5, 1, 4, 0},
	}

	first, err := ComputeOrder(cost, 0)
	require.NoError(t, err)
	for range 20 {
		again, err := ComputeOrder(cost, 0)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestComputeOrderCoversFiniteMatrix(t *testing.T) {
	cost := domain.CostMatrix{
		{0, 7, 7, 3, 9},
		{7, 0, 2, 2, 5},
		{7, 2, 0, 6, 1},
		{3, 2, 6, 0, 4},
		{9, 5, 1, 4, 0},
	}

	for start := range cost.Size() {
		got, err := ComputeOrder(cost, start)
		require.NoError(t, err)
		require.Len(t, got.Order, cost.Size())
		assert.Equal(t, start, got.Order[0])
		assert.ElementsMatch(t, []int{0, 1, 2, 3, 4}, got.Order)

		require.Len(t, got.LegDurations, len(got.Order)-1)
		for k, d := range got.LegDurations {
			assert.Equal(t, cost[got.Order[k]][got.Order[k+1]], d)
		}
	}
}

func TestLegDurations(t *testing.T) {
	cost := domain.CostMatrix{{0, 5, 9}, {5, 0, 3}, {9, 3, 0}}

	assert.Equal(t, []int64{9, 3}, LegDurations(cost, []int{0, 2, 1}))
	assert.Empty(t, LegDurations(cost, []int{1}))
	assert.NotNil(t, LegDurations(cost, nil))
}
