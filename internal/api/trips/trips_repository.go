package trips

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/exploresl/exploresl-api/internal/api"
	"github.com/exploresl/exploresl-api/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository is the saved-trips data access contract. The plan snapshot is
// stored verbatim as jsonb.
type Repository interface {
	CreateTrip(ctx context.Context, trip *types.SavedTrip) error
	GetTrip(ctx context.Context, tripID uuid.UUID) (*types.SavedTrip, error)
	ListTrips(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]types.SavedTrip, int, error)
	UpdateTrip(ctx context.Context, trip *types.SavedTrip) error
	DeleteTrip(ctx context.Context, tripID, userID uuid.UUID) error
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{logger: logger, pgpool: pool}
}

const tripColumns = `id, user_id, title, notes, status, favorite, plan, created_at, updated_at`

func (r *RepositoryImpl) CreateTrip(ctx context.Context, trip *types.SavedTrip) error {
	ctx, span := otel.Tracer("TripsRepository").Start(ctx, "CreateTrip")
	defer span.End()
	span.SetAttributes(semconv.DBSystemPostgreSQL)

	planJSON, err := json.Marshal(trip.Plan)
	if err != nil {
		return fmt.Errorf("marshaling plan snapshot: %w", err)
	}

	query := `
		INSERT INTO travel_plans (id, user_id, title, notes, status, favorite, plan)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err = r.pgpool.QueryRow(ctx, query,
		trip.ID, trip.UserID, trip.Title, trip.Notes, trip.Status, trip.Favorite, planJSON,
	).Scan(&trip.CreatedAt, &trip.UpdatedAt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return fmt.Errorf("inserting trip: %w", err)
	}

	span.SetStatus(codes.Ok, "trip created")
	return nil
}

func (r *RepositoryImpl) GetTrip(ctx context.Context, tripID uuid.UUID) (*types.SavedTrip, error) {
	ctx, span := otel.Tracer("TripsRepository").Start(ctx, "GetTrip")
	defer span.End()
	span.SetAttributes(semconv.DBSystemPostgreSQL, attribute.String("trip.id", tripID.String()))

	query := `SELECT ` + tripColumns + ` FROM travel_plans WHERE id = $1`

	trip, err := scanTrip(r.pgpool.QueryRow(ctx, query, tripID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, fmt.Errorf("trip %s: %w", tripID, api.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("querying trip %s: %w", tripID, err)
	}

	span.SetStatus(codes.Ok, "trip fetched")
	return trip, nil
}

func (r *RepositoryImpl) ListTrips(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]types.SavedTrip, int, error) {
	ctx, span := otel.Tracer("TripsRepository").Start(ctx, "ListTrips")
	defer span.End()
	span.SetAttributes(semconv.DBSystemPostgreSQL)

	var total int
	if err := r.pgpool.QueryRow(ctx,
		`SELECT COUNT(*) FROM travel_plans WHERE user_id = $1`, userID).Scan(&total); err != nil {
		span.RecordError(err)
		return nil, 0, fmt.Errorf("counting trips: %w", err)
	}

	query := `SELECT ` + tripColumns + `
		FROM travel_plans
		WHERE user_id = $1
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pgpool.Query(ctx, query, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, 0, fmt.Errorf("querying trips: %w", err)
	}
	defer rows.Close()

	var out []types.SavedTrip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			span.RecordError(err)
			return nil, 0, fmt.Errorf("scanning trip row: %w", err)
		}
		out = append(out, *trip)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, 0, fmt.Errorf("iterating trip rows: %w", err)
	}

	span.SetAttributes(attribute.Int("trips.count", len(out)))
	span.SetStatus(codes.Ok, "trips listed")
	return out, total, nil
}

// UpdateTrip persists the metadata fields of an already-loaded trip. The plan
// snapshot is immutable after creation.
func (r *RepositoryImpl) UpdateTrip(ctx context.Context, trip *types.SavedTrip) error {
	ctx, span := otel.Tracer("TripsRepository").Start(ctx, "UpdateTrip")
	defer span.End()
	span.SetAttributes(semconv.DBSystemPostgreSQL, attribute.String("trip.id", trip.ID.String()))

	query := `
		UPDATE travel_plans
		SET title = $1, notes = $2, status = $3, favorite = $4, updated_at = now()
		WHERE id = $5 AND user_id = $6
		RETURNING updated_at
	`
	err := r.pgpool.QueryRow(ctx, query,
		trip.Title, trip.Notes, trip.Status, trip.Favorite, trip.ID, trip.UserID,
	).Scan(&trip.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return fmt.Errorf("trip %s: %w", trip.ID, api.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return fmt.Errorf("updating trip %s: %w", trip.ID, err)
	}

	span.SetStatus(codes.Ok, "trip updated")
	return nil
}

func (r *RepositoryImpl) DeleteTrip(ctx context.Context, tripID, userID uuid.UUID) error {
	ctx, span := otel.Tracer("TripsRepository").Start(ctx, "DeleteTrip")
	defer span.End()
	span.SetAttributes(semconv.DBSystemPostgreSQL, attribute.String("trip.id", tripID.String()))

	tag, err := r.pgpool.Exec(ctx,
		`DELETE FROM travel_plans WHERE id = $1 AND user_id = $2`, tripID, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return fmt.Errorf("deleting trip %s: %w", tripID, err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "not found")
		return fmt.Errorf("trip %s: %w", tripID, api.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "trip deleted")
	return nil
}

func scanTrip(row pgx.Row) (*types.SavedTrip, error) {
	var trip types.SavedTrip
	var planJSON []byte
	err := row.Scan(&trip.ID, &trip.UserID, &trip.Title, &trip.Notes, &trip.Status,
		&trip.Favorite, &planJSON, &trip.CreatedAt, &trip.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(planJSON, &trip.Plan); err != nil {
		return nil, fmt.Errorf("unmarshaling plan snapshot: %w", err)
	}
	return &trip, nil
}
