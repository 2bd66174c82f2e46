package enhance

import (
	"context"
	"time"

	"github.com/exploresl/exploresl-api/internal/types"
)

// WeatherModule attaches deterministic seasonal guidance to each day based on
// the two Sri Lankan monsoons: the southwest monsoon (May to September) soaks
// the southwest coast and hill country, the northeast monsoon (December to
// February) the north and east. No external forecast API, same month and
// region always yield the same guidance.
type WeatherModule struct {
	now func() time.Time
}

func NewWeatherModule() *WeatherModule {
	return &WeatherModule{now: time.Now}
}

// NewWeatherModuleAt pins the clock, used by tests.
func NewWeatherModuleAt(now func() time.Time) *WeatherModule {
	return &WeatherModule{now: now}
}

func (m *WeatherModule) Name() string { return "weather" }

func (m *WeatherModule) Enhance(_ context.Context, _ *types.PlanRequest, plan *types.TravelPlanData) error {
	month := m.now().Month()
	for i := range plan.DailyItineraries {
		day := &plan.DailyItineraries[i]
		day.WeatherInfo = dayWeather(month, day.ClusterInfo.CenterLat, day.ClusterInfo.CenterLng)
	}
	return nil
}

func dayWeather(month time.Month, lat, lng float64) *types.DayWeather {
	southwest := lng < 80.8 && lat < 7.6
	northeast := lng >= 80.8 || lat >= 8.0

	switch {
	case month >= time.May && month <= time.September:
		if southwest {
			return &types.DayWeather{
				Season:  "southwest monsoon",
				Outlook: "showers likely",
				Recommendations: []string{
					"carry rain gear",
					"plan outdoor visits for the morning",
				},
			}
		}
		return &types.DayWeather{
			Season:  "southwest monsoon",
			Outlook: "mostly dry",
			Recommendations: []string{
				"east and north coasts are at their best now",
			},
		}
	case month == time.December || month <= time.February:
		if northeast {
			return &types.DayWeather{
				Season:  "northeast monsoon",
				Outlook: "showers likely",
				Recommendations: []string{
					"carry rain gear",
					"check road conditions before long drives",
				},
			}
		}
		return &types.DayWeather{
			Season:  "northeast monsoon",
			Outlook: "sunny",
			Recommendations: []string{
				"peak season on the south and west coasts, book ahead",
			},
		}
	default:
		return &types.DayWeather{
			Season:  "inter-monsoon",
			Outlook: "mixed sun and afternoon showers",
			Recommendations: []string{
				"afternoon thunderstorms are common, keep evenings flexible",
			},
		}
	}
}
