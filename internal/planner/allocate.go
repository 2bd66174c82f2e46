package planner

// AllocateDays picks at most days clusters from the ranked list and sequences
// them into a day order that limits hotel-to-hotel hops.
//
// Selection is by rank. Sequencing starts at the best-ranked selected cluster
// and chains nearest neighbours by centroid distance, preferring the nearest
// cluster whose hop fits the traveller's daily travel ceiling. When no
// remaining cluster fits the ceiling the overall nearest is taken anyway, so
// a far-flung catalog still yields a complete plan rather than an error.
// Fewer clusters than requested days yields a shorter plan.
func AllocateDays(cfg Config, ranked []Cluster, days int, travelPref string) []Cluster {
	if days < 1 || len(ranked) == 0 {
		return nil
	}
	selected := ranked
	if len(selected) > days {
		selected = selected[:days]
	}

	ceilingKm := MaxDailyTravelHours(travelPref) * cfg.AverageSpeedKmh

	ordered := make([]Cluster, 0, len(selected))
	used := make([]bool, len(selected))

	current := 0
	used[0] = true
	ordered = append(ordered, selected[0])

	for len(ordered) < len(selected) {
		next := nextDay(selected, used, current, ceilingKm)
		used[next] = true
		ordered = append(ordered, selected[next])
		current = next
	}
	return ordered
}

// nextDay finds the nearest unused cluster to the current one, favouring
// those within the hop ceiling. Ties keep the better-ranked (lower index).
func nextDay(clusters []Cluster, used []bool, current int, ceilingKm float64) int {
	bestWithin, bestWithinDist := -1, 0.0
	bestAny, bestAnyDist := -1, 0.0

	for i, c := range clusters {
		if used[i] {
			continue
		}
		d := Haversine(clusters[current].CenterLat, clusters[current].CenterLng,
			c.CenterLat, c.CenterLng)
		if bestAny < 0 || d < bestAnyDist {
			bestAny, bestAnyDist = i, d
		}
		if d <= ceilingKm && (bestWithin < 0 || d < bestWithinDist) {
			bestWithin, bestWithinDist = i, d
		}
	}
	if bestWithin >= 0 {
		return bestWithin
	}
	return bestAny
}
