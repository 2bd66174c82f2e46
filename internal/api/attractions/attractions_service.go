package attractions

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/exploresl/exploresl-api/internal/api"
	"github.com/exploresl/exploresl-api/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for the attraction catalog.
type Service interface {
	GetAttractions(ctx context.Context, filter types.AttractionFilter) ([]types.Attraction, error)
	GetAttraction(ctx context.Context, id uuid.UUID) (*types.Attraction, error)
	SearchAttractions(ctx context.Context, q string) ([]types.Attraction, error)
	// Catalog returns the full attraction pool for the planner.
	Catalog(ctx context.Context) ([]types.Attraction, error)
}

const (
	cacheTTL     = 10 * time.Minute
	cacheCleanup = 15 * time.Minute
)

type ServiceImpl struct {
	logger     *slog.Logger
	repository Repository
	cache      *cache.Cache
}

func NewServiceImpl(repository Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		repository: repository,
		cache:      cache.New(cacheTTL, cacheCleanup),
	}
}

// GetAttractions lists catalog attractions with optional filters. The catalog
// changes rarely, so results are cached per filter for ten minutes.
func (s *ServiceImpl) GetAttractions(ctx context.Context, filter types.AttractionFilter) ([]types.Attraction, error) {
	ctx, span := otel.Tracer("AttractionsService").Start(ctx, "GetAttractions")
	defer span.End()

	if filter.Category != "" && !types.ValidCategory(filter.Category) {
		span.SetStatus(codes.Error, "invalid category")
		return nil, fmt.Errorf("unknown category %q: %w", filter.Category, api.ErrValidation)
	}

	key := cacheKey(filter)
	if cached, ok := s.cache.Get(key); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached.([]types.Attraction), nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	found, err := s.repository.GetAttractions(ctx, filter)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list attractions", slog.Any("error", err))
		span.RecordError(err)
		return nil, err
	}

	s.cache.Set(key, found, cache.DefaultExpiration)
	return found, nil
}

func (s *ServiceImpl) GetAttraction(ctx context.Context, id uuid.UUID) (*types.Attraction, error) {
	ctx, span := otel.Tracer("AttractionsService").Start(ctx, "GetAttraction")
	defer span.End()

	a, err := s.repository.GetAttraction(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get attraction",
			slog.String("id", id.String()), slog.Any("error", err))
		span.RecordError(err)
		return nil, err
	}
	return a, nil
}

// SearchAttractions runs a free-text search over the catalog.
func (s *ServiceImpl) SearchAttractions(ctx context.Context, q string) ([]types.Attraction, error) {
	ctx, span := otel.Tracer("AttractionsService").Start(ctx, "SearchAttractions")
	defer span.End()

	if q == "" {
		return nil, fmt.Errorf("search term is required: %w", api.ErrValidation)
	}
	return s.GetAttractions(ctx, types.AttractionFilter{Query: q})
}

// Catalog returns the unfiltered attraction pool.
func (s *ServiceImpl) Catalog(ctx context.Context) ([]types.Attraction, error) {
	return s.GetAttractions(ctx, types.AttractionFilter{})
}

func cacheKey(filter types.AttractionFilter) string {
	return fmt.Sprintf("attractions|%s|%s|%s", filter.Region, filter.Category, filter.Query)
}
