package attractions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/exploresl/exploresl-api/app/observability/metrics"
	"github.com/exploresl/exploresl-api/internal/api"
	"github.com/exploresl/exploresl-api/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository is the attraction catalog data access contract.
type Repository interface {
	GetAttractions(ctx context.Context, filter types.AttractionFilter) ([]types.Attraction, error)
	GetAttraction(ctx context.Context, id uuid.UUID) (*types.Attraction, error)
}

// DB is the pgx query surface the repository needs; *pgxpool.Pool and
// pgxmock both satisfy it.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type RepositoryImpl struct {
	logger *slog.Logger
	db     DB
}

func NewRepository(pool *pgxpool.Pool, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{logger: logger, db: pool}
}

// NewRepositoryWithDB wires an arbitrary query surface, used by tests.
func NewRepositoryWithDB(db DB, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{logger: logger, db: db}
}

// recordQueryDuration feeds the db query histogram when metrics are enabled.
func recordQueryDuration(ctx context.Context, start time.Time) {
	if m := metrics.Get(); m != nil {
		m.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	}
}

const attractionColumns = `id, name, category, description, region, tags,
		latitude, longitude, visit_duration_minutes`

// GetAttractions lists catalog attractions, optionally narrowed by region,
// category and a free-text term over name and description.
func (r *RepositoryImpl) GetAttractions(ctx context.Context, filter types.AttractionFilter) ([]types.Attraction, error) {
	ctx, span := otel.Tracer("AttractionsRepository").Start(ctx, "GetAttractions")
	defer span.End()
	span.SetAttributes(semconv.DBSystemPostgreSQL)
	defer recordQueryDuration(ctx, time.Now())

	query := `SELECT ` + attractionColumns + ` FROM attractions WHERE 1=1`
	var args []any

	if filter.Region != "" {
		args = append(args, "%"+filter.Region+"%")
		query += fmt.Sprintf(" AND region ILIKE $%d", len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		query += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}
	query += " ORDER BY name"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("querying attractions: %w", err)
	}
	defer rows.Close()

	var out []types.Attraction
	for rows.Next() {
		var a types.Attraction
		if err := rows.Scan(&a.ID, &a.Name, &a.Category, &a.Description, &a.Region,
			&a.Tags, &a.Latitude, &a.Longitude, &a.VisitDurationMinutes); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("scanning attraction row: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("iterating attraction rows: %w", err)
	}

	span.SetAttributes(attribute.Int("attractions.count", len(out)))
	span.SetStatus(codes.Ok, "attractions fetched")
	return out, nil
}

// GetAttraction fetches one attraction by id.
func (r *RepositoryImpl) GetAttraction(ctx context.Context, id uuid.UUID) (*types.Attraction, error) {
	ctx, span := otel.Tracer("AttractionsRepository").Start(ctx, "GetAttraction")
	defer span.End()
	span.SetAttributes(semconv.DBSystemPostgreSQL, attribute.String("attraction.id", id.String()))
	defer recordQueryDuration(ctx, time.Now())

	query := `SELECT ` + attractionColumns + ` FROM attractions WHERE id = $1`

	var a types.Attraction
	err := r.db.QueryRow(ctx, query, id).Scan(&a.ID, &a.Name, &a.Category, &a.Description,
		&a.Region, &a.Tags, &a.Latitude, &a.Longitude, &a.VisitDurationMinutes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, fmt.Errorf("attraction %s: %w", id, api.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("querying attraction %s: %w", id, err)
	}

	span.SetStatus(codes.Ok, "attraction fetched")
	return &a, nil
}
