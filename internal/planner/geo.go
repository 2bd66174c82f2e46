package planner

import "math"

const earthRadiusKm = 6371.0

// Haversine returns the great-circle distance in kilometers between two
// points given in decimal degrees.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	rLat1 := lat1 * math.Pi / 180
	rLng1 := lng1 * math.Pi / 180
	rLat2 := lat2 * math.Pi / 180
	rLng2 := lng2 * math.Pi / 180

	dLat := rLat2 - rLat1
	dLng := rLng2 - rLng1

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Asin(math.Sqrt(a))

	return earthRadiusKm * c
}

// Config holds the tunable planning constants. Defaults match the documented
// contract: road travel is approximated from great-circle distance at a fixed
// average speed, not a road-network shortest path.
type Config struct {
	// AverageSpeedKmh converts haversine kilometers into travel minutes.
	AverageSpeedKmh float64
	// DefaultVisitMinutes is assumed when the catalog has no duration.
	DefaultVisitMinutes int
	// AbsorbRadiusKm bounds how far from a cluster's running centroid the
	// clusterer will pull in a new attraction.
	AbsorbRadiusKm float64
	// MaxClusterSpreadKm bounds the largest pairwise distance inside one
	// cluster; beyond it a day is never considered balanced.
	MaxClusterSpreadKm float64
	// DayBudgetHours is the full-day time budget (visits plus travel).
	DayBudgetHours float64
	// BalanceBandLow is the lower utilization bound of the balanced band;
	// the upper bound is the full budget.
	BalanceBandLow float64
	// CandidatePoolSize truncates the scored pool before clustering.
	CandidatePoolSize int
}

// DefaultConfig returns the production constants.
func DefaultConfig() Config {
	return Config{
		AverageSpeedKmh:     40.0,
		DefaultVisitMinutes: 120,
		AbsorbRadiusKm:      40.0,
		MaxClusterSpreadKm:  50.0,
		DayBudgetHours:      10.0,
		BalanceBandLow:      0.7,
		CandidatePoolSize:   30,
	}
}

// TravelMinutes converts a distance into estimated driving minutes.
func (c Config) TravelMinutes(km float64) float64 {
	return km / c.AverageSpeedKmh * 60
}

// MaxDailyTravelHours maps the request's daily_travel_preference onto a
// travel-time ceiling. Unknown values fall back to moderate.
func MaxDailyTravelHours(pref string) float64 {
	switch pref {
	case "minimal":
		return 2.0
	case "extensive":
		return 4.5
	default:
		return 3.0
	}
}

// RegionName maps coordinates onto a Sri Lankan province label. Coarse
// bounding boxes, good enough for day headings.
func RegionName(lat, lng float64) string {
	switch {
	case lat > 8.8:
		return "Northern Province"
	case lat <= 6.45:
		return "Southern Province"
	case lng > 81.2:
		return "Eastern Province"
	case lat > 7.9 && lng > 80.2:
		return "North Central Province"
	case lat > 7.3 && lng < 80.2:
		return "North Western Province"
	case lng < 80.2:
		return "Western Province"
	case lat > 7.0:
		return "Central Province"
	case lng > 80.75:
		return "Uva Province"
	default:
		return "Sabaragamuwa Province"
	}
}
