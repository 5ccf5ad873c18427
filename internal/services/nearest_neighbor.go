package services

import (
	"fmt"
	"trip-route-service/internal/domain"
)

// Compute a visiting order using a greedy nearest-neighbor walk.
//
// Starting at startIndex, the walk repeatedly moves to the unvisited stop with
// the cheapest outgoing cost from the current stop. Equal costs resolve to the
// lowest index. When every remaining stop is unreachable from the current one
// the walk stops and the order holds only the reachable prefix.
//
// It is a heuristic, not a tour optimizer: the result is deterministic for a
// given matrix and start, not minimal.
func ComputeOrder(cost domain.CostMatrix, startIndex int) (domain.RouteOrder, error) {
	n := cost.Size()
	if n == 0 {
		return domain.RouteOrder{Order: []int{}, LegDurations: []int64{}}, nil
	}

	if err := cost.Validate(); err != nil {
		return domain.RouteOrder{}, fmt.Errorf("compute order: %w", err)
	}

	if startIndex < 0 || startIndex >= n {
		return domain.RouteOrder{}, fmt.Errorf(
			"compute order: start index %d outside [0, %d]: %w",
			startIndex, n-1, domain.ErrInvalidArgument,
		)
	}

	visited := make([]bool, n)
	order := make([]int, 0, n)
	order = append(order, startIndex)
	visited[startIndex] = true
	curr := startIndex

	for step := 1; step < n; step++ {
		best := -1
		bestCost := domain.Unreachable

		// Ascending scan with strict comparison keeps the lowest index on ties.
		for j := 0; j < n; j++ {
			if visited[j] || !cost.Reachable(curr, j) {
				continue
			}
			if c := cost[curr][j]; c < bestCost {
				best = j
				bestCost = c
			}
		}

		// Stuck: nothing left is reachable from curr.
		if best == -1 {
			break
		}

		order = append(order, best)
		visited[best] = true
		curr = best
	}

	return domain.RouteOrder{
		Order:        order,
		LegDurations: LegDurations(cost, order),
	}, nil
}

// LegDurations returns cost[order[k]][order[k+1]] for each consecutive pair.
func LegDurations(cost domain.CostMatrix, order []int) []int64 {
	if len(order) < 2 {
		return []int64{}
	}

	legs := make([]int64, 0, len(order)-1)
	for k := 0; k+1 < len(order); k++ {
		legs = append(legs, cost[order[k]][order[k+1]])
	}
	return legs
}
