// Package planner implements the deterministic itinerary engine: lexical
// relevance scoring, geographic day clustering, day allocation and per-day
// route optimization. It is pure computation over an in-memory attraction
// pool; persistence, transport and enhancement modules live elsewhere.
package planner

import (
	"github.com/exploresl/exploresl-api/internal/types"
)

// Engine turns a plan request plus an attraction pool into a travel plan.
// Safe for concurrent use; all state lives in the per-call inputs.
type Engine struct {
	cfg Config
}

// NewEngine returns an engine with the given constants. Zero-valued fields
// are backfilled from DefaultConfig.
func NewEngine(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.AverageSpeedKmh <= 0 {
		cfg.AverageSpeedKmh = def.AverageSpeedKmh
	}
	if cfg.DefaultVisitMinutes <= 0 {
		cfg.DefaultVisitMinutes = def.DefaultVisitMinutes
	}
	if cfg.AbsorbRadiusKm <= 0 {
		cfg.AbsorbRadiusKm = def.AbsorbRadiusKm
	}
	if cfg.MaxClusterSpreadKm <= 0 {
		cfg.MaxClusterSpreadKm = def.MaxClusterSpreadKm
	}
	if cfg.DayBudgetHours <= 0 {
		cfg.DayBudgetHours = def.DayBudgetHours
	}
	if cfg.BalanceBandLow <= 0 {
		cfg.BalanceBandLow = def.BalanceBandLow
	}
	if cfg.CandidatePoolSize <= 0 {
		cfg.CandidatePoolSize = def.CandidatePoolSize
	}
	return &Engine{cfg: cfg}
}

// Config exposes the engine's effective constants.
func (e *Engine) Config() Config { return e.cfg }

// BuildPlan runs the full pipeline over the pool. The result carries no
// enhancement data; enhancement modules decorate it afterwards. The same
// request and pool always produce the same plan.
func (e *Engine) BuildPlan(req *types.PlanRequest, pool []types.Attraction) *types.TravelPlanData {
	maxPerDay := req.MaxAttractionsPerDay
	if maxPerDay < 1 {
		maxPerDay = 4
	}

	scored := ScoreAttractions(req.Query, req.Interests, pool)
	clusters := BuildClusters(e.cfg, scored, maxPerDay)
	ranked := RankClusters(clusters, maxPerDay)
	days := AllocateDays(e.cfg, ranked, req.TripDurationDays, req.DailyTravelPreference)

	plan := &types.TravelPlanData{
		Query:               req.Query,
		TotalDays:           len(days),
		DailyItineraries:    make([]types.DailyItinerary, 0, len(days)),
		EnhancementsApplied: []string{},
	}

	var valueSum float64
	for i := range days {
		c := &days[i]
		order := OptimizeRoute(e.cfg, c)
		routeKm := pathLength(c.Attractions, identityOrder(len(c.Attractions)))

		plan.DailyItineraries = append(plan.DailyItineraries, types.DailyItinerary{
			Day:                     i + 1,
			ClusterInfo:             clusterInfo(c, order),
			Attractions:             c.Attractions,
			TotalTravelDistanceKm:   routeKm,
			EstimatedTotalTimeHours: c.EstimatedTimeHours,
		})

		plan.TotalAttractions += len(c.Attractions)
		plan.OverallStats.TotalTravelDistanceKm += routeKm
		valueSum += c.ValuePerHour
		if c.IsBalanced {
			plan.OverallStats.BalancedClusters++
		}
	}
	if len(days) > 0 {
		plan.OverallStats.AverageValuePerHour = valueSum / float64(len(days))
	}
	return plan
}

func clusterInfo(c *Cluster, order []int) types.ClusterInfo {
	return types.ClusterInfo{
		ClusterID:            c.ID,
		RegionName:           c.RegionName,
		CenterLat:            c.CenterLat,
		CenterLng:            c.CenterLng,
		TotalAttractions:     len(c.Attractions),
		TotalPearScore:       c.TotalPearScore,
		EstimatedTimeHours:   c.EstimatedTimeHours,
		TravelTimeMinutes:    c.TravelTimeMinutes,
		ValuePerHour:         c.ValuePerHour,
		IsBalanced:           c.IsBalanced,
		OptimalVisitingOrder: order,
		MaxTravelDistanceKm:  c.MaxSpreadKm,
	}
}
