package types

import (
	"time"

	"github.com/google/uuid"
)

// TripStatus tracks a saved trip through its lifecycle.
type TripStatus string

const (
	TripStatusDraft     TripStatus = "draft"
	TripStatusActive    TripStatus = "active"
	TripStatusCompleted TripStatus = "completed"
	TripStatusArchived  TripStatus = "archived"
)

// ValidTripStatus reports whether s is a known status value.
func ValidTripStatus(s string) bool {
	switch TripStatus(s) {
	case TripStatusDraft, TripStatusActive, TripStatusCompleted, TripStatusArchived:
		return true
	}
	return false
}

// SavedTrip is a My Trips record: a verbatim TravelPlanData snapshot plus
// user-editable metadata.
type SavedTrip struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"user_id"`
	Title     string         `json:"title"`
	Notes     string         `json:"notes,omitempty"`
	Status    TripStatus     `json:"status"`
	Favorite  bool           `json:"favorite"`
	Plan      TravelPlanData `json:"plan"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// CreateTripRequest is the body of POST /trips.
type CreateTripRequest struct {
	Title string         `json:"title"`
	Notes string         `json:"notes,omitempty"`
	Plan  TravelPlanData `json:"plan"`
}

// UpdateTripRequest carries the optional My Trips metadata updates. Nil
// fields are left unchanged.
type UpdateTripRequest struct {
	Title    *string `json:"title,omitempty"`
	Notes    *string `json:"notes,omitempty"`
	Status   *string `json:"status,omitempty"`
	Favorite *bool   `json:"favorite,omitempty"`
}

// PaginatedTripsResponse is the list envelope for GET /trips.
type PaginatedTripsResponse struct {
	Trips        []SavedTrip `json:"trips"`
	TotalRecords int         `json:"total_records"`
	Page         int         `json:"page"`
	PageSize     int         `json:"page_size"`
}
