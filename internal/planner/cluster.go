package planner

import (
	"sort"

	"github.com/exploresl/exploresl-api/internal/types"
)

// Cluster is one geographic group of attractions, sized to fit a single day.
type Cluster struct {
	ID                 int
	Attractions        []types.Attraction
	CenterLat          float64
	CenterLng          float64
	RegionName         string
	TotalPearScore     float64
	EstimatedTimeHours float64
	TravelTimeMinutes  float64
	ValuePerHour       float64
	MaxSpreadKm        float64
	IsBalanced         bool
	// RankScore is filled by RankClusters.
	RankScore float64
}

// BuildClusters groups the scored pool into day-sized geographic clusters.
//
// The pool must already be sorted by descending pear score. Clusters are grown
// greedily: the best unclustered attraction seeds a cluster, then the nearest
// compatible unclustered attractions are absorbed one at a time until the
// absorption radius, spread cap, day budget or per-day size cap stops growth.
// Attraction count per cluster never exceeds maxPerDay and every attraction
// lands in exactly one cluster.
func BuildClusters(cfg Config, pool []types.Attraction, maxPerDay int) []Cluster {
	if maxPerDay < 1 {
		maxPerDay = 1
	}
	candidates := candidatePool(cfg, pool)
	if len(candidates) == 0 {
		return nil
	}

	used := make([]bool, len(candidates))
	var clusters []Cluster

	for seed := range candidates {
		if used[seed] {
			continue
		}
		used[seed] = true
		c := Cluster{
			ID:          len(clusters),
			Attractions: []types.Attraction{candidates[seed]},
		}
		c.recompute(cfg)

		for len(c.Attractions) < maxPerDay {
			next := c.bestAbsorption(cfg, candidates, used)
			if next < 0 {
				break
			}
			used[next] = true
			c.Attractions = append(c.Attractions, candidates[next])
			c.recompute(cfg)
		}
		clusters = append(clusters, c)
	}
	return clusters
}

// candidatePool truncates the scored pool to the candidate window and drops
// zero-relevance attractions, unless nothing scored at all, in which case the
// whole window is planned as-is.
func candidatePool(cfg Config, pool []types.Attraction) []types.Attraction {
	window := pool
	if cfg.CandidatePoolSize > 0 && len(window) > cfg.CandidatePoolSize {
		window = window[:cfg.CandidatePoolSize]
	}
	var relevant []types.Attraction
	for _, a := range window {
		if a.PearScore > 0 {
			relevant = append(relevant, a)
		}
	}
	if len(relevant) == 0 {
		return window
	}
	return relevant
}

// bestAbsorption picks the unclustered attraction nearest to the current
// centroid that keeps the cluster within its geometric and time limits.
// Returns -1 when no candidate qualifies. Distance ties go to the higher
// scored attraction, which with a sorted pool is the lower index.
func (c *Cluster) bestAbsorption(cfg Config, pool []types.Attraction, used []bool) int {
	best := -1
	bestDist := 0.0
	for i, a := range pool {
		if used[i] {
			continue
		}
		dist := Haversine(c.CenterLat, c.CenterLng, a.Latitude, a.Longitude)
		if dist > cfg.AbsorbRadiusKm {
			continue
		}
		if best >= 0 && dist >= bestDist {
			continue
		}
		if c.spreadWith(a) > cfg.MaxClusterSpreadKm {
			continue
		}
		if c.hoursWith(cfg, a) > cfg.DayBudgetHours {
			continue
		}
		best, bestDist = i, dist
	}
	return best
}

// spreadWith returns the max pairwise distance if a joined the cluster.
func (c *Cluster) spreadWith(a types.Attraction) float64 {
	spread := c.MaxSpreadKm
	for _, b := range c.Attractions {
		d := Haversine(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
		if d > spread {
			spread = d
		}
	}
	return spread
}

// hoursWith projects the cluster's total day hours if a joined.
func (c *Cluster) hoursWith(cfg Config, a types.Attraction) float64 {
	members := append(append([]types.Attraction(nil), c.Attractions...), a)
	visit, travel := clusterTimes(cfg, members)
	return visit + travel/60
}

// recompute refreshes every derived metric from the member list.
func (c *Cluster) recompute(cfg Config) {
	n := len(c.Attractions)
	if n == 0 {
		return
	}

	var latSum, lngSum, scoreSum float64
	for _, a := range c.Attractions {
		latSum += a.Latitude
		lngSum += a.Longitude
		scoreSum += a.PearScore
	}
	c.CenterLat = latSum / float64(n)
	c.CenterLng = lngSum / float64(n)
	c.RegionName = RegionName(c.CenterLat, c.CenterLng)
	c.TotalPearScore = scoreSum

	c.MaxSpreadKm = 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := Haversine(c.Attractions[i].Latitude, c.Attractions[i].Longitude,
				c.Attractions[j].Latitude, c.Attractions[j].Longitude)
			if d > c.MaxSpreadKm {
				c.MaxSpreadKm = d
			}
		}
	}

	visitHours, travelMinutes := clusterTimes(cfg, c.Attractions)
	c.TravelTimeMinutes = travelMinutes
	c.EstimatedTimeHours = visitHours + travelMinutes/60
	c.ValuePerHour = scoreSum / maxFloat(c.EstimatedTimeHours, 0.1)

	utilization := c.EstimatedTimeHours / cfg.DayBudgetHours
	c.IsBalanced = n >= 2 &&
		utilization >= cfg.BalanceBandLow && utilization <= 1.0 &&
		c.MaxSpreadKm <= cfg.MaxClusterSpreadKm
}

// clusterTimes estimates total visit hours and intra-cluster travel minutes.
// Before a visiting order exists, travel is approximated as the mean pairwise
// leg scaled to n-1 hops; the route optimizer replaces it with the real tour.
func clusterTimes(cfg Config, members []types.Attraction) (visitHours, travelMinutes float64) {
	n := len(members)
	var visitTotal int
	for _, a := range members {
		d := a.VisitDurationMinutes
		if d <= 0 {
			d = cfg.DefaultVisitMinutes
		}
		visitTotal += d
	}
	visitHours = float64(visitTotal) / 60

	if n < 2 {
		return visitHours, 0
	}
	var distSum float64
	pairs := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			distSum += Haversine(members[i].Latitude, members[i].Longitude,
				members[j].Latitude, members[j].Longitude)
			pairs++
		}
	}
	meanLeg := distSum / float64(pairs)
	travelMinutes = cfg.TravelMinutes(meanLeg * float64(n-1))
	return visitHours, travelMinutes
}

// RankClusters orders clusters by adjusted value per hour, best first.
//
// Multipliers reward balanced days (x1.2) and day-sized groups (x1.1 when the
// size sits between two and the per-day cap), and penalise travel-heavy
// clusters (x0.7 beyond three hours of internal driving). Input order breaks
// exact ties so ranking stays deterministic.
func RankClusters(clusters []Cluster, maxPerDay int) []Cluster {
	ranked := make([]Cluster, len(clusters))
	copy(ranked, clusters)

	for i := range ranked {
		score := ranked[i].ValuePerHour
		if ranked[i].IsBalanced {
			score *= 1.2
		}
		if ranked[i].TravelTimeMinutes > 180 {
			score *= 0.7
		}
		if n := len(ranked[i].Attractions); n >= 2 && n <= maxPerDay {
			score *= 1.1
		}
		ranked[i].RankScore = score
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].RankScore != ranked[j].RankScore {
			return ranked[i].RankScore > ranked[j].RankScore
		}
		return ranked[i].TotalPearScore > ranked[j].TotalPearScore
	})
	return ranked
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
