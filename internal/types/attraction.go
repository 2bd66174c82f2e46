package types

import "github.com/google/uuid"

// Category is the attraction classification used by the catalog and the
// scorer. Values mirror the seeded catalog data.
type Category string

const (
	CategoryBeach       Category = "beach"
	CategoryAdventure   Category = "adventure"
	CategoryWildlife    Category = "wildlife"
	CategoryCultural    Category = "cultural"
	CategoryHistorical  Category = "historical"
	CategoryNature      Category = "nature"
	CategoryPhotography Category = "photography"
)

// ValidCategory reports whether c is one of the known catalog categories.
func ValidCategory(c string) bool {
	switch Category(c) {
	case CategoryBeach, CategoryAdventure, CategoryWildlife, CategoryCultural,
		CategoryHistorical, CategoryNature, CategoryPhotography:
		return true
	}
	return false
}

// Attraction is read-only catalog data during planning. The planner only
// selects and orders attractions; PearScore and VisitOrder are the two
// computed fields filled in along the way.
type Attraction struct {
	ID                   uuid.UUID `json:"id"`
	Name                 string    `json:"name"`
	Category             Category  `json:"category"`
	Description          string    `json:"description"`
	Region               string    `json:"region"`
	Tags                 []string  `json:"tags,omitempty"`
	Latitude             float64   `json:"latitude"`
	Longitude            float64   `json:"longitude"`
	VisitDurationMinutes int       `json:"visit_duration_minutes"`
	PearScore            float64   `json:"pear_score"`
	VisitOrder           int       `json:"visit_order,omitempty"`
}

// AttractionFilter narrows catalog queries.
type AttractionFilter struct {
	Region   string `json:"region,omitempty"`
	Category string `json:"category,omitempty"`
	Query    string `json:"query,omitempty"`
}
