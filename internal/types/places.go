package types

// PlaceRecommendation is a single candidate place returned by the external
// places API, already reduced to the fields the frontend renders.
type PlaceRecommendation struct {
	Name       string   `json:"name"`
	Rating     float64  `json:"rating"`
	PriceLevel *int     `json:"price_level,omitempty"`
	PlaceID    string   `json:"place_id"`
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	Types      []string `json:"types,omitempty"`
	Address    string   `json:"address"`
	DistanceKm float64  `json:"distance_km"`
}

// DailyPlaceRecommendations groups place candidates for one day's cluster.
type DailyPlaceRecommendations struct {
	Day              int                   `json:"day"`
	ClusterCenterLat float64               `json:"cluster_center_lat"`
	ClusterCenterLng float64               `json:"cluster_center_lng"`
	BreakfastPlaces  []PlaceRecommendation `json:"breakfast_places"`
	LunchPlaces      []PlaceRecommendation `json:"lunch_places"`
	DinnerPlaces     []PlaceRecommendation `json:"dinner_places"`
	Accommodation    []PlaceRecommendation `json:"accommodation"`
	Cafes            []PlaceRecommendation `json:"cafes"`
}

// TotalRecommendations counts every candidate across all slots.
func (d *DailyPlaceRecommendations) TotalRecommendations() int {
	return len(d.BreakfastPlaces) + len(d.LunchPlaces) + len(d.DinnerPlaces) +
		len(d.Accommodation) + len(d.Cafes)
}
