package enhance

import (
	"context"
	"fmt"

	"github.com/exploresl/exploresl-api/internal/types"
)

// FindRequest is one nearby-place lookup around a day's cluster centroid.
type FindRequest struct {
	Latitude  float64
	Longitude float64
	RadiusKm  float64
	Keyword   string
	Kind      string
	MinPrice  int
	MaxPrice  int
	Limit     int
}

// PlaceFinder is the slice of the places client the module needs.
type PlaceFinder interface {
	FindNearby(ctx context.Context, req FindRequest) ([]types.PlaceRecommendation, error)
}

// Per-day slot sizes.
const (
	breakfastSlots     = 3
	lunchSlots         = 4
	dinnerSlots        = 4
	accommodationSlots = 3
	cafeSlots          = 3

	defaultSearchRadiusKm = 15.0
)

// PlacesModule fills each day with restaurant, cafe and accommodation
// recommendations around the day's cluster centroid.
type PlacesModule struct {
	finder PlaceFinder
}

func NewPlacesModule(finder PlaceFinder) *PlacesModule {
	return &PlacesModule{finder: finder}
}

func (m *PlacesModule) Name() string { return "places" }

// BudgetPriceRange maps a budget level onto the price-level window used for
// restaurant and lodging searches.
func BudgetPriceRange(budget string) (min, max int) {
	switch budget {
	case types.BudgetBudget:
		return 0, 2
	case types.BudgetLuxury:
		return 3, 4
	default:
		return 1, 3
	}
}

func (m *PlacesModule) Enhance(ctx context.Context, req *types.PlanRequest, plan *types.TravelPlanData) error {
	radius := defaultSearchRadiusKm
	if settings, ok := req.Enhancements[m.Name()]; ok {
		if v, ok := settings.Config["search_radius_km"].(float64); ok && v > 0 {
			radius = v
		}
	}
	minPrice, maxPrice := BudgetPriceRange(req.BudgetLevel)

	stats := &types.PlacesStats{
		SearchRadiusKm:  radius,
		BudgetLevelUsed: req.BudgetLevel,
	}

	for i := range plan.DailyItineraries {
		day := &plan.DailyItineraries[i]
		recs, added, err := m.enhanceDay(ctx, day, radius, minPrice, maxPrice)
		if err != nil {
			stats.ErrorMessage = err.Error()
			plan.PlacesStats = stats
			return err
		}
		if added == 0 {
			continue
		}
		day.PlaceRecommendations = recs
		stats.TotalPlacesAdded += added
		stats.DaysEnhanced++
	}

	stats.Success = true
	plan.PlacesStats = stats
	return nil
}

// enhanceDay runs the five slot searches for one day. Meal and cafe searches
// use the day's radius; accommodation searches doubled, a hotel slightly out
// of the way beats no hotel at all.
func (m *PlacesModule) enhanceDay(ctx context.Context, day *types.DailyItinerary, radius float64, minPrice, maxPrice int) (*types.DailyPlaceRecommendations, int, error) {
	lat, lng := day.ClusterInfo.CenterLat, day.ClusterInfo.CenterLng
	recs := &types.DailyPlaceRecommendations{
		Day:              day.Day,
		ClusterCenterLat: lat,
		ClusterCenterLng: lng,
	}

	slots := []struct {
		target   *[]types.PlaceRecommendation
		keyword  string
		kind     string
		radiusKm float64
		limit    int
	}{
		{&recs.BreakfastPlaces, "breakfast", "restaurant", radius, breakfastSlots},
		{&recs.LunchPlaces, "lunch", "restaurant", radius, lunchSlots},
		{&recs.DinnerPlaces, "dinner", "restaurant", radius, dinnerSlots},
		{&recs.Accommodation, "", "lodging", radius * 2, accommodationSlots},
		{&recs.Cafes, "coffee", "cafe", radius, cafeSlots},
	}
	for _, slot := range slots {
		found, err := m.finder.FindNearby(ctx, FindRequest{
			Latitude:  lat,
			Longitude: lng,
			RadiusKm:  slot.radiusKm,
			Keyword:   slot.keyword,
			Kind:      slot.kind,
			MinPrice:  minPrice,
			MaxPrice:  maxPrice,
			Limit:     slot.limit,
		})
		if err != nil {
			return nil, 0, fmt.Errorf("day %d %s search: %w", day.Day, slot.kind, err)
		}
		*slot.target = found
	}
	return recs, recs.TotalRecommendations(), nil
}
