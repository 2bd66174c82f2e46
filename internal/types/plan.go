package types

// BudgetLevel, TripType and TravelPreference are the request enums accepted
// by the planning endpoint.
const (
	BudgetBudget   = "budget"
	BudgetMidRange = "mid_range"
	BudgetLuxury   = "luxury"

	TripSolo   = "solo"
	TripCouple = "couple"
	TripFamily = "family"
	TripGroup  = "group"

	TravelMinimal   = "minimal"
	TravelModerate  = "moderate"
	TravelExtensive = "extensive"
)

// EnhancementSettings configures one enhancement module in a plan request.
type EnhancementSettings struct {
	Enabled  bool           `json:"enabled"`
	Priority int            `json:"priority"`
	Config   map[string]any `json:"config,omitempty"`
}

// PlanRequest is the body of POST /planner/plan.
type PlanRequest struct {
	Query                 string                         `json:"query"`
	Interests             []string                       `json:"interests"`
	TripDurationDays      int                            `json:"trip_duration_days"`
	BudgetLevel           string                         `json:"budget_level"`
	TripType              string                         `json:"trip_type"`
	ActivityLevel         int                            `json:"activity_level"`
	MaxAttractionsPerDay  int                            `json:"max_attractions_per_day"`
	DailyTravelPreference string                         `json:"daily_travel_preference"`
	GroupSize             int                            `json:"group_size"`
	Enhancements          map[string]EnhancementSettings `json:"enhancements,omitempty"`
	AsyncProcessing       bool                           `json:"async_processing"`
}

// ClusterInfo describes the geographic cluster backing one day.
type ClusterInfo struct {
	ClusterID             int     `json:"cluster_id"`
	RegionName            string  `json:"region_name"`
	CenterLat             float64 `json:"center_lat"`
	CenterLng             float64 `json:"center_lng"`
	TotalAttractions      int     `json:"total_attractions"`
	TotalPearScore        float64 `json:"total_pear_score"`
	EstimatedTimeHours    float64 `json:"estimated_time_hours"`
	TravelTimeMinutes     float64 `json:"travel_time_minutes"`
	ValuePerHour          float64 `json:"value_per_hour"`
	IsBalanced            bool    `json:"is_balanced"`
	OptimalVisitingOrder  []int   `json:"optimal_visiting_order"`
	MaxTravelDistanceKm   float64 `json:"max_travel_distance_km"`
}

// DailyItinerary is one day of the generated plan. PlaceRecommendations,
// WeatherInfo and TransportInfo are filled in by enhancement modules and stay
// nil when the module was disabled or failed.
type DailyItinerary struct {
	Day                     int                        `json:"day"`
	ClusterInfo             ClusterInfo                `json:"cluster_info"`
	Attractions             []Attraction               `json:"attractions"`
	TotalTravelDistanceKm   float64                    `json:"total_travel_distance_km"`
	EstimatedTotalTimeHours float64                    `json:"estimated_total_time_hours"`
	PlaceRecommendations    *DailyPlaceRecommendations `json:"place_recommendations,omitempty"`
	WeatherInfo             *DayWeather                `json:"weather_info,omitempty"`
	TransportInfo           *DayTransport              `json:"transport_info,omitempty"`
}

// EnhancementStats reports one module's run inside a plan response.
type EnhancementStats struct {
	Success          bool    `json:"success"`
	ProcessingTimeMs float64 `json:"processing_time_ms"`
	ErrorMessage     string  `json:"error_message,omitempty"`
}

// PlacesStats summarises the places module run.
type PlacesStats struct {
	Success           bool    `json:"success"`
	ProcessingTimeMs  float64 `json:"processing_time_ms"`
	TotalPlacesAdded  int     `json:"total_places_added"`
	DaysEnhanced      int     `json:"days_enhanced"`
	SearchRadiusKm    float64 `json:"search_radius_km"`
	BudgetLevelUsed   string  `json:"budget_level_used"`
	ErrorMessage      string  `json:"error_message,omitempty"`
}

// OverallStats aggregates plan-wide numbers.
type OverallStats struct {
	TotalTravelDistanceKm float64 `json:"total_travel_distance_km"`
	AverageValuePerHour   float64 `json:"average_value_per_hour"`
	BalancedClusters      int     `json:"balanced_clusters"`
}

// TravelPlanData is the aggregate planning response. It is built fresh per
// request; saving it under My Trips snapshots this structure verbatim.
type TravelPlanData struct {
	Query               string                      `json:"query"`
	TotalDays           int                         `json:"total_days"`
	TotalAttractions    int                         `json:"total_attractions"`
	DailyItineraries    []DailyItinerary            `json:"daily_itineraries"`
	OverallStats        OverallStats                `json:"overall_stats"`
	PlacesStats         *PlacesStats                `json:"places_stats,omitempty"`
	EnhancementStats    map[string]EnhancementStats `json:"enhancement_stats,omitempty"`
	EnhancementsApplied []string                    `json:"enhancements_applied"`
	ProcessingTimeMs    float64                     `json:"processing_time_ms"`
}

// DayWeather is the weather module's per-day output.
type DayWeather struct {
	Season          string   `json:"season"`
	Outlook         string   `json:"outlook"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// DayTransport is the transport module's per-day output.
type DayTransport struct {
	SuggestedMode string   `json:"suggested_mode"`
	LocalOptions  []string `json:"local_options,omitempty"`
}
