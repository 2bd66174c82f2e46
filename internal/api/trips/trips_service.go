package trips

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/exploresl/exploresl-api/internal/api"
	"github.com/exploresl/exploresl-api/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for saved trips. Every
// operation is scoped to the calling user; access to another user's trip
// yields api.ErrForbidden.
type Service interface {
	CreateTrip(ctx context.Context, userID uuid.UUID, req *types.CreateTripRequest) (*types.SavedTrip, error)
	GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.SavedTrip, error)
	ListTrips(ctx context.Context, userID uuid.UUID, page, pageSize int) (*types.PaginatedTripsResponse, error)
	UpdateTrip(ctx context.Context, userID, tripID uuid.UUID, updates *types.UpdateTripRequest) (*types.SavedTrip, error)
	DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ServiceImpl struct {
	logger     *slog.Logger
	repository Repository
}

func NewServiceImpl(repository Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{logger: logger, repository: repository}
}

func (s *ServiceImpl) CreateTrip(ctx context.Context, userID uuid.UUID, req *types.CreateTripRequest) (*types.SavedTrip, error) {
	ctx, span := otel.Tracer("TripsService").Start(ctx, "CreateTrip")
	defer span.End()

	if req.Title == "" {
		span.SetStatus(codes.Error, "missing title")
		return nil, fmt.Errorf("title is required: %w", api.ErrValidation)
	}
	if len(req.Plan.DailyItineraries) == 0 {
		span.SetStatus(codes.Error, "empty plan")
		return nil, fmt.Errorf("plan snapshot must contain at least one day: %w", api.ErrValidation)
	}

	trip := &types.SavedTrip{
		ID:     uuid.New(),
		UserID: userID,
		Title:  req.Title,
		Notes:  req.Notes,
		Status: types.TripStatusDraft,
		Plan:   req.Plan,
	}
	if err := s.repository.CreateTrip(ctx, trip); err != nil {
		s.logger.ErrorContext(ctx, "failed to create trip", slog.Any("error", err))
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.String("trip.id", trip.ID.String()))
	span.SetStatus(codes.Ok, "trip created")
	return trip, nil
}

func (s *ServiceImpl) GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.SavedTrip, error) {
	ctx, span := otel.Tracer("TripsService").Start(ctx, "GetTrip")
	defer span.End()

	trip, err := s.ownedTrip(ctx, userID, tripID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetStatus(codes.Ok, "trip fetched")
	return trip, nil
}

func (s *ServiceImpl) ListTrips(ctx context.Context, userID uuid.UUID, page, pageSize int) (*types.PaginatedTripsResponse, error) {
	ctx, span := otel.Tracer("TripsService").Start(ctx, "ListTrips")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	trips, total, err := s.repository.ListTrips(ctx, userID, page, pageSize)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list trips", slog.Any("error", err))
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("trips.total", total))
	span.SetStatus(codes.Ok, "trips listed")
	return &types.PaginatedTripsResponse{
		Trips:        trips,
		TotalRecords: total,
		Page:         page,
		PageSize:     pageSize,
	}, nil
}

func (s *ServiceImpl) UpdateTrip(ctx context.Context, userID, tripID uuid.UUID, updates *types.UpdateTripRequest) (*types.SavedTrip, error) {
	ctx, span := otel.Tracer("TripsService").Start(ctx, "UpdateTrip")
	defer span.End()

	if updates.Status != nil && !types.ValidTripStatus(*updates.Status) {
		span.SetStatus(codes.Error, "invalid status")
		return nil, fmt.Errorf("unknown status %q: %w", *updates.Status, api.ErrValidation)
	}
	if updates.Title != nil && *updates.Title == "" {
		span.SetStatus(codes.Error, "empty title")
		return nil, fmt.Errorf("title must not be empty: %w", api.ErrValidation)
	}

	trip, err := s.ownedTrip(ctx, userID, tripID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if updates.Title != nil {
		trip.Title = *updates.Title
	}
	if updates.Notes != nil {
		trip.Notes = *updates.Notes
	}
	if updates.Status != nil {
		trip.Status = types.TripStatus(*updates.Status)
	}
	if updates.Favorite != nil {
		trip.Favorite = *updates.Favorite
	}

	if err := s.repository.UpdateTrip(ctx, trip); err != nil {
		s.logger.ErrorContext(ctx, "failed to update trip",
			slog.String("trip_id", tripID.String()), slog.Any("error", err))
		span.RecordError(err)
		return nil, err
	}

	span.SetStatus(codes.Ok, "trip updated")
	return trip, nil
}

func (s *ServiceImpl) DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error {
	ctx, span := otel.Tracer("TripsService").Start(ctx, "DeleteTrip")
	defer span.End()

	// Ownership check first so a foreign trip yields 403, not 404.
	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		span.RecordError(err)
		return err
	}

	if err := s.repository.DeleteTrip(ctx, tripID, userID); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete trip",
			slog.String("trip_id", tripID.String()), slog.Any("error", err))
		span.RecordError(err)
		return err
	}

	span.SetStatus(codes.Ok, "trip deleted")
	return nil
}

// ownedTrip loads a trip and verifies the caller owns it.
func (s *ServiceImpl) ownedTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.SavedTrip, error) {
	trip, err := s.repository.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.UserID != userID {
		return nil, fmt.Errorf("trip %s belongs to another user: %w", tripID, api.ErrForbidden)
	}
	return trip, nil
}
