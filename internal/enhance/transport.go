package enhance

import (
	"context"

	"github.com/exploresl/exploresl-api/internal/types"
)

// TransportModule suggests how to get around on each day, purely from the
// day's total route distance.
type TransportModule struct{}

func NewTransportModule() *TransportModule { return &TransportModule{} }

func (m *TransportModule) Name() string { return "transport" }

func (m *TransportModule) Enhance(_ context.Context, _ *types.PlanRequest, plan *types.TravelPlanData) error {
	for i := range plan.DailyItineraries {
		day := &plan.DailyItineraries[i]
		day.TransportInfo = dayTransport(day.TotalTravelDistanceKm)
	}
	return nil
}

func dayTransport(distanceKm float64) *types.DayTransport {
	switch {
	case distanceKm < 3:
		return &types.DayTransport{
			SuggestedMode: "walking",
			LocalOptions:  []string{"walking", "tuk-tuk"},
		}
	case distanceKm < 15:
		return &types.DayTransport{
			SuggestedMode: "tuk-tuk",
			LocalOptions:  []string{"tuk-tuk", "taxi", "scooter rental"},
		}
	case distanceKm < 60:
		return &types.DayTransport{
			SuggestedMode: "car with driver",
			LocalOptions:  []string{"car with driver", "taxi", "local bus"},
		}
	default:
		return &types.DayTransport{
			SuggestedMode: "intercity train or bus",
			LocalOptions:  []string{"intercity train", "express bus", "car with driver"},
		}
	}
}
