package trips

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/exploresl/exploresl-api/internal/api"
	"github.com/exploresl/exploresl-api/internal/types"
)

// MockTripsRepository is a mock implementation of Repository.
type MockTripsRepository struct {
	mock.Mock
}

func (m *MockTripsRepository) CreateTrip(ctx context.Context, trip *types.SavedTrip) error {
	args := m.Called(ctx, trip)
	return args.Error(0)
}

func (m *MockTripsRepository) GetTrip(ctx context.Context, tripID uuid.UUID) (*types.SavedTrip, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.SavedTrip), args.Error(1)
}

func (m *MockTripsRepository) ListTrips(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]types.SavedTrip, int, error) {
	args := m.Called(ctx, userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]types.SavedTrip), args.Int(1), args.Error(2)
}

func (m *MockTripsRepository) UpdateTrip(ctx context.Context, trip *types.SavedTrip) error {
	args := m.Called(ctx, trip)
	return args.Error(0)
}

func (m *MockTripsRepository) DeleteTrip(ctx context.Context, tripID, userID uuid.UUID) error {
	args := m.Called(ctx, tripID, userID)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func snapshotPlan() types.TravelPlanData {
	return types.TravelPlanData{
		Query:            "beaches",
		TotalDays:        1,
		TotalAttractions: 2,
		DailyItineraries: []types.DailyItinerary{{Day: 1}},
	}
}

func TestServiceCreateTrip(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockTripsRepository)
		repo.On("CreateTrip", mock.Anything, mock.MatchedBy(func(trip *types.SavedTrip) bool {
			return trip.UserID == userID && trip.Status == types.TripStatusDraft && trip.ID != uuid.Nil
		})).Return(nil).Once()

		svc := NewServiceImpl(repo, testLogger())
		trip, err := svc.CreateTrip(ctx, userID, &types.CreateTripRequest{
			Title: "South coast week",
			Plan:  snapshotPlan(),
		})
		require.NoError(t, err)
		assert.Equal(t, "South coast week", trip.Title)
		assert.Equal(t, types.TripStatusDraft, trip.Status)
		repo.AssertExpectations(t)
	})

	t.Run("MissingTitle", func(t *testing.T) {
		repo := new(MockTripsRepository)
		svc := NewServiceImpl(repo, testLogger())

		_, err := svc.CreateTrip(ctx, userID, &types.CreateTripRequest{Plan: snapshotPlan()})
		assert.ErrorIs(t, err, api.ErrValidation)
		repo.AssertNotCalled(t, "CreateTrip")
	})

	t.Run("EmptyPlan", func(t *testing.T) {
		repo := new(MockTripsRepository)
		svc := NewServiceImpl(repo, testLogger())

		_, err := svc.CreateTrip(ctx, userID, &types.CreateTripRequest{Title: "Empty"})
		assert.ErrorIs(t, err, api.ErrValidation)
	})
}

func TestServiceOwnership(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()
	tripID := uuid.New()

	stored := &types.SavedTrip{
		ID:     tripID,
		UserID: owner,
		Title:  "Hill country loop",
		Status: types.TripStatusActive,
		Plan:   snapshotPlan(),
	}

	t.Run("OwnerCanRead", func(t *testing.T) {
		repo := new(MockTripsRepository)
		repo.On("GetTrip", mock.Anything, tripID).Return(stored, nil).Once()

		svc := NewServiceImpl(repo, testLogger())
		trip, err := svc.GetTrip(ctx, owner, tripID)
		require.NoError(t, err)
		assert.Equal(t, tripID, trip.ID)
	})

	t.Run("StrangerForbidden", func(t *testing.T) {
		repo := new(MockTripsRepository)
		repo.On("GetTrip", mock.Anything, tripID).Return(stored, nil).Once()

		svc := NewServiceImpl(repo, testLogger())
		_, err := svc.GetTrip(ctx, stranger, tripID)
		assert.ErrorIs(t, err, api.ErrForbidden)
	})

	t.Run("StrangerCannotDelete", func(t *testing.T) {
		repo := new(MockTripsRepository)
		repo.On("GetTrip", mock.Anything, tripID).Return(stored, nil).Once()

		svc := NewServiceImpl(repo, testLogger())
		err := svc.DeleteTrip(ctx, stranger, tripID)
		assert.ErrorIs(t, err, api.ErrForbidden)
		repo.AssertNotCalled(t, "DeleteTrip")
	})

	t.Run("MissingTripIsNotFound", func(t *testing.T) {
		repo := new(MockTripsRepository)
		repo.On("GetTrip", mock.Anything, tripID).Return(nil, api.ErrNotFound).Once()

		svc := NewServiceImpl(repo, testLogger())
		_, err := svc.GetTrip(ctx, owner, tripID)
		assert.ErrorIs(t, err, api.ErrNotFound)
	})
}

func TestServiceUpdateTrip(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	tripID := uuid.New()

	freshTrip := func() *types.SavedTrip {
		return &types.SavedTrip{
			ID:     tripID,
			UserID: owner,
			Title:  "Old title",
			Status: types.TripStatusDraft,
			Plan:   snapshotPlan(),
		}
	}

	t.Run("PartialUpdate", func(t *testing.T) {
		repo := new(MockTripsRepository)
		repo.On("GetTrip", mock.Anything, tripID).Return(freshTrip(), nil).Once()
		repo.On("UpdateTrip", mock.Anything, mock.MatchedBy(func(trip *types.SavedTrip) bool {
			return trip.Title == "New title" && trip.Favorite && trip.Status == types.TripStatusDraft
		})).Return(nil).Once()

		svc := NewServiceImpl(repo, testLogger())
		title := "New title"
		favorite := true
		trip, err := svc.UpdateTrip(ctx, owner, tripID, &types.UpdateTripRequest{
			Title:    &title,
			Favorite: &favorite,
		})
		require.NoError(t, err)
		assert.Equal(t, "New title", trip.Title)
		assert.True(t, trip.Favorite)
		repo.AssertExpectations(t)
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		repo := new(MockTripsRepository)
		svc := NewServiceImpl(repo, testLogger())

		status := "abandoned"
		_, err := svc.UpdateTrip(ctx, owner, tripID, &types.UpdateTripRequest{Status: &status})
		assert.ErrorIs(t, err, api.ErrValidation)
		repo.AssertNotCalled(t, "GetTrip")
	})

	t.Run("EmptyTitleRejected", func(t *testing.T) {
		repo := new(MockTripsRepository)
		svc := NewServiceImpl(repo, testLogger())

		empty := ""
		_, err := svc.UpdateTrip(ctx, owner, tripID, &types.UpdateTripRequest{Title: &empty})
		assert.ErrorIs(t, err, api.ErrValidation)
	})
}

func TestServiceListTrips(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("PaginationDefaults", func(t *testing.T) {
		repo := new(MockTripsRepository)
		repo.On("ListTrips", mock.Anything, userID, 1, defaultPageSize).
			Return([]types.SavedTrip{}, 0, nil).Once()

		svc := NewServiceImpl(repo, testLogger())
		resp, err := svc.ListTrips(ctx, userID, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, defaultPageSize, resp.PageSize)
		repo.AssertExpectations(t)
	})

	t.Run("PageSizeCapped", func(t *testing.T) {
		repo := new(MockTripsRepository)
		repo.On("ListTrips", mock.Anything, userID, 2, maxPageSize).
			Return([]types.SavedTrip{}, 0, nil).Once()

		svc := NewServiceImpl(repo, testLogger())
		resp, err := svc.ListTrips(ctx, userID, 2, 500)
		require.NoError(t, err)
		assert.Equal(t, maxPageSize, resp.PageSize)
	})
}
