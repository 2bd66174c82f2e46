package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appMiddleware "github.com/exploresl/exploresl-api/app/middleware"
	"github.com/exploresl/exploresl-api/internal/api"
	"github.com/exploresl/exploresl-api/internal/api/attractions"
	plannerAPI "github.com/exploresl/exploresl-api/internal/api/planner"
	"github.com/exploresl/exploresl-api/internal/api/trips"
	"github.com/exploresl/exploresl-api/internal/enhance"
	"github.com/exploresl/exploresl-api/internal/planner"
	"github.com/exploresl/exploresl-api/internal/router"
	"github.com/exploresl/exploresl-api/internal/types"
)

var jwtSecret = []byte("router-test-secret")

// stubCatalog serves a fixed attraction pool without a database.
type stubCatalog struct {
	pool []types.Attraction
}

func (s *stubCatalog) GetAttractions(_ context.Context, filter types.AttractionFilter) ([]types.Attraction, error) {
	if filter.Category != "" && !types.ValidCategory(filter.Category) {
		return nil, fmt.Errorf("unknown category %q: %w", filter.Category, api.ErrValidation)
	}
	return s.pool, nil
}

func (s *stubCatalog) GetAttraction(_ context.Context, id uuid.UUID) (*types.Attraction, error) {
	for i := range s.pool {
		if s.pool[i].ID == id {
			return &s.pool[i], nil
		}
	}
	return nil, api.ErrNotFound
}

func (s *stubCatalog) SearchAttractions(_ context.Context, q string) ([]types.Attraction, error) {
	if q == "" {
		return nil, fmt.Errorf("search term is required: %w", api.ErrValidation)
	}
	return s.pool, nil
}

func (s *stubCatalog) Catalog(_ context.Context) ([]types.Attraction, error) {
	return s.pool, nil
}

// memoryTripsRepo keeps saved trips in a map, enough to drive the handlers.
type memoryTripsRepo struct {
	mu    sync.Mutex
	trips map[uuid.UUID]types.SavedTrip
}

func newMemoryTripsRepo() *memoryTripsRepo {
	return &memoryTripsRepo{trips: make(map[uuid.UUID]types.SavedTrip)}
}

func (r *memoryTripsRepo) CreateTrip(_ context.Context, trip *types.SavedTrip) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	trip.CreatedAt = time.Now()
	trip.UpdatedAt = trip.CreatedAt
	r.trips[trip.ID] = *trip
	return nil
}

func (r *memoryTripsRepo) GetTrip(_ context.Context, tripID uuid.UUID) (*types.SavedTrip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	trip, ok := r.trips[tripID]
	if !ok {
		return nil, fmt.Errorf("trip %s: %w", tripID, api.ErrNotFound)
	}
	return &trip, nil
}

func (r *memoryTripsRepo) ListTrips(_ context.Context, userID uuid.UUID, _, _ int) ([]types.SavedTrip, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []types.SavedTrip
	for _, trip := range r.trips {
		if trip.UserID == userID {
			out = append(out, trip)
		}
	}
	return out, len(out), nil
}

func (r *memoryTripsRepo) UpdateTrip(_ context.Context, trip *types.SavedTrip) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.trips[trip.ID]; !ok {
		return fmt.Errorf("trip %s: %w", trip.ID, api.ErrNotFound)
	}
	trip.UpdatedAt = time.Now()
	r.trips[trip.ID] = *trip
	return nil
}

func (r *memoryTripsRepo) DeleteTrip(_ context.Context, tripID, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	trip, ok := r.trips[tripID]
	if !ok || trip.UserID != userID {
		return fmt.Errorf("trip %s: %w", tripID, api.ErrNotFound)
	}
	delete(r.trips, tripID)
	return nil
}

func catalogPool() []types.Attraction {
	return []types.Attraction{
		{ID: uuid.New(), Name: "Galle Fort", Category: types.CategoryHistorical,
			Description: "Dutch colonial fort with ocean views", Region: "Southern Province",
			Latitude: 6.0267, Longitude: 80.2170, VisitDurationMinutes: 210},
		{ID: uuid.New(), Name: "Mirissa Beach", Category: types.CategoryBeach,
			Description: "Crescent beach with whale watching and surfing", Region: "Southern Province",
			Latitude: 5.9487, Longitude: 80.4563, VisitDurationMinutes: 240},
		{ID: uuid.New(), Name: "Unawatuna Beach", Category: types.CategoryBeach,
			Description: "Sheltered swimming beach near Galle", Region: "Southern Province",
			Latitude: 6.0097, Longitude: 80.2492, VisitDurationMinutes: 180},
		{ID: uuid.New(), Name: "Yala National Park", Category: types.CategoryWildlife,
			Description: "Safari park famous for leopards and elephants", Region: "Southern Province",
			Latitude: 6.3725, Longitude: 81.5119, VisitDurationMinutes: 360},
		{ID: uuid.New(), Name: "Temple of the Sacred Tooth Relic", Category: types.CategoryCultural,
			Description: "Sacred Buddhist temple in Kandy", Region: "Central Province",
			Latitude: 7.2955, Longitude: 80.6415, VisitDurationMinutes: 90},
		{ID: uuid.New(), Name: "Sigiriya Rock Fortress", Category: types.CategoryHistorical,
			Description: "Ancient rock fortress with frescoes", Region: "Central Province",
			Latitude: 7.9570, Longitude: 80.7603, VisitDurationMinutes: 180},
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	catalog := &stubCatalog{pool: catalogPool()}
	attractionsHandler := attractions.NewHandler(catalog, logger)

	engine := planner.NewEngine(planner.DefaultConfig())
	pipeline := enhance.NewPipeline(logger, enhance.DefaultModuleTimeout,
		enhance.NewWeatherModule(),
		enhance.NewTransportModule(),
	)
	plannerService := plannerAPI.NewServiceImpl(catalog, engine, pipeline, nil, logger)
	plannerHandler := plannerAPI.NewHandler(plannerService, logger)

	tripsService := trips.NewServiceImpl(newMemoryTripsRepo(), logger)
	tripsHandler := trips.NewHandler(tripsService, logger)

	r := router.SetupRouter(&router.Config{
		AttractionsHandler:     attractionsHandler,
		PlannerHandler:         plannerHandler,
		TripsHandler:           tripsHandler,
		AuthenticateMiddleware: appMiddleware.Authenticate(jwtSecret),
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func bearerToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	claims := &appMiddleware.Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
	require.NoError(t, err)
	return signed
}

func TestRouterPing(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouterPlanFlow(t *testing.T) {
	srv := newTestServer(t)

	body, err := json.Marshal(types.PlanRequest{
		Query:            "beaches and history in the south",
		TripDurationDays: 2,
		Enhancements: map[string]types.EnhancementSettings{
			"weather":   {Enabled: true, Priority: 1},
			"transport": {Enabled: true, Priority: 2},
		},
	})
	require.NoError(t, err)

	resp, err := http.Post(srv.URL+"/api/v1/planner/plan", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var plan types.TravelPlanData
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&plan))
	require.NotEmpty(t, plan.DailyItineraries)
	assert.LessOrEqual(t, len(plan.DailyItineraries), 2)
	for _, day := range plan.DailyItineraries {
		assert.NotEmpty(t, day.Attractions)
		if assert.NotNil(t, day.WeatherInfo) {
			assert.NotEmpty(t, day.WeatherInfo.Season)
		}
		if assert.NotNil(t, day.TransportInfo) {
			assert.NotEmpty(t, day.TransportInfo.SuggestedMode)
		}
	}
}

func TestRouterPlanValidation(t *testing.T) {
	srv := newTestServer(t)

	body := []byte(`{"query":"beaches","trip_duration_days":-1}`)
	resp, err := http.Post(srv.URL+"/api/v1/planner/plan", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouterTripsRequireAuth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/trips")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouterTripsLifecycle(t *testing.T) {
	srv := newTestServer(t)
	userID := uuid.New()
	token := bearerToken(t, userID)
	client := srv.Client()

	authedReq := func(method, path string, body []byte) *http.Request {
		req, err := http.NewRequest(method, srv.URL+path, bytes.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")
		return req
	}

	createBody, err := json.Marshal(types.CreateTripRequest{
		Title: "Southern beaches",
		Plan: types.TravelPlanData{
			Query:            "beaches",
			TotalDays:        1,
			DailyItineraries: []types.DailyItinerary{{Day: 1}},
		},
	})
	require.NoError(t, err)

	resp, err := client.Do(authedReq(http.MethodPost, "/api/v1/trips", createBody))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created types.SavedTrip
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	assert.Equal(t, types.TripStatusDraft, created.Status)

	resp, err = client.Do(authedReq(http.MethodGet, "/api/v1/trips", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed types.PaginatedTripsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	resp.Body.Close()
	assert.Equal(t, 1, listed.TotalRecords)

	resp, err = client.Do(authedReq(http.MethodDelete, "/api/v1/trips/"+created.ID.String(), nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
