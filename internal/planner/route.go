package planner

import "github.com/exploresl/exploresl-api/internal/types"

// OptimizeRoute orders a cluster's attractions into an open visiting path and
// refreshes the cluster's travel metrics from the optimized tour.
//
// The tour starts at the highest-scored attraction, is extended nearest
// neighbour first, then improved with first-improvement 2-opt until no swap
// shortens it. The path is open: the day ends at its last stop, there is no
// return leg. VisitOrder on each attraction is set to its 1-based position.
// Returns the visiting order as indexes into the original member slice.
func OptimizeRoute(cfg Config, c *Cluster) []int {
	n := len(c.Attractions)
	if n == 0 {
		return nil
	}

	tour := nearestNeighborTour(c.Attractions)
	tour = twoOpt(c.Attractions, tour)

	ordered := make([]types.Attraction, n)
	for pos, idx := range tour {
		ordered[pos] = c.Attractions[idx]
		ordered[pos].VisitOrder = pos + 1
	}
	c.Attractions = ordered

	c.TravelTimeMinutes = cfg.TravelMinutes(pathLength(c.Attractions, identityOrder(n)))
	visitHours, _ := clusterTimes(cfg, c.Attractions)
	c.EstimatedTimeHours = visitHours + c.TravelTimeMinutes/60
	c.ValuePerHour = c.TotalPearScore / maxFloat(c.EstimatedTimeHours, 0.1)

	return tour
}

// nearestNeighborTour builds an initial open path starting at index 0, which
// with a score-sorted member list is the highest-scored attraction.
func nearestNeighborTour(members []types.Attraction) []int {
	n := len(members)
	tour := make([]int, 0, n)
	used := make([]bool, n)

	current := 0
	used[0] = true
	tour = append(tour, 0)

	for len(tour) < n {
		next, nextDist := -1, 0.0
		for i := range members {
			if used[i] {
				continue
			}
			d := Haversine(members[current].Latitude, members[current].Longitude,
				members[i].Latitude, members[i].Longitude)
			if next < 0 || d < nextDist {
				next, nextDist = i, d
			}
		}
		used[next] = true
		tour = append(tour, next)
		current = next
	}
	return tour
}

// twoOpt applies first-improvement 2-opt to an open path: reverse the segment
// between two positions whenever that shortens the total, restart the scan on
// every improvement, stop at the first full pass with none.
func twoOpt(members []types.Attraction, tour []int) []int {
	n := len(tour)
	if n < 4 {
		return tour
	}
	improved := true
	for improved {
		improved = false
		for i := 1; i < n-1 && !improved; i++ {
			for j := i + 1; j < n && !improved; j++ {
				candidate := make([]int, n)
				copy(candidate, tour)
				reverse(candidate[i : j+1])
				if pathLength(members, candidate) < pathLength(members, tour) {
					tour = candidate
					improved = true
				}
			}
		}
	}
	return tour
}

// pathLength sums the open-path legs of a tour over members.
func pathLength(members []types.Attraction, tour []int) float64 {
	var total float64
	for i := 1; i < len(tour); i++ {
		a, b := members[tour[i-1]], members[tour[i]]
		total += Haversine(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
	}
	return total
}

func reverse(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func identityOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}
