// Package planner exposes the itinerary engine over the REST API: request
// validation, catalog loading, plan generation and enhancement dispatch.
package planner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/exploresl/exploresl-api/app/observability/metrics"
	"github.com/exploresl/exploresl-api/internal/api"
	"github.com/exploresl/exploresl-api/internal/api/attractions"
	"github.com/exploresl/exploresl-api/internal/enhance"
	engine "github.com/exploresl/exploresl-api/internal/planner"
	"github.com/exploresl/exploresl-api/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for plan generation.
type Service interface {
	CreatePlan(ctx context.Context, req *types.PlanRequest) (*types.TravelPlanData, error)
}

type ServiceImpl struct {
	logger   *slog.Logger
	catalog  attractions.Service
	engine   *engine.Engine
	pipeline *enhance.Pipeline
	metrics  *metrics.AppMetrics
}

// NewServiceImpl wires the planning service. appMetrics may be nil, metric
// recording is then skipped.
func NewServiceImpl(catalog attractions.Service, eng *engine.Engine, pipeline *enhance.Pipeline, appMetrics *metrics.AppMetrics, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		catalog:  catalog,
		engine:   eng,
		pipeline: pipeline,
		metrics:  appMetrics,
	}
}

// CreatePlan validates the request, builds the base plan from the catalog and
// runs the enhancement pipeline over it. Validation errors reject the whole
// request; everything after validation degrades softly, the caller always
// gets a usable base plan.
func (s *ServiceImpl) CreatePlan(ctx context.Context, req *types.PlanRequest) (*types.TravelPlanData, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "CreatePlan")
	defer span.End()

	start := time.Now()

	if err := ValidatePlanRequest(req); err != nil {
		span.SetStatus(codes.Error, "validation failed")
		return nil, err
	}

	pool, err := s.catalog.Catalog(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load attraction catalog", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "catalog load failed")
		return nil, fmt.Errorf("loading attraction catalog: %w", err)
	}

	plan := s.engine.BuildPlan(req, pool)
	s.pipeline.Apply(ctx, req, plan)
	plan.ProcessingTimeMs = float64(time.Since(start).Microseconds()) / 1000

	span.SetAttributes(
		attribute.Int("plan.total_days", plan.TotalDays),
		attribute.Int("plan.total_attractions", plan.TotalAttractions),
		attribute.StringSlice("plan.enhancements_applied", plan.EnhancementsApplied),
	)
	span.SetStatus(codes.Ok, "plan created")

	s.recordMetrics(ctx, plan, time.Since(start))
	s.logger.InfoContext(ctx, "travel plan created",
		slog.Int("total_days", plan.TotalDays),
		slog.Int("total_attractions", plan.TotalAttractions),
		slog.Float64("processing_ms", plan.ProcessingTimeMs),
	)
	return plan, nil
}

func (s *ServiceImpl) recordMetrics(ctx context.Context, plan *types.TravelPlanData, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.PlanRequestsTotal.Add(ctx, 1)
	s.metrics.PlanDurationSeconds.Record(ctx, elapsed.Seconds())
	for name, stats := range plan.EnhancementStats {
		if !stats.Success {
			s.metrics.EnhancementFailuresTotal.Add(ctx, 1, metrics.WithModuleAttr(name))
		}
	}
}

// ValidatePlanRequest enforces the request contract. A failure wraps
// api.ErrValidation so handlers can map it onto a 400.
func ValidatePlanRequest(req *types.PlanRequest) error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf(format+": %w", append(args, api.ErrValidation)...)
	}

	if req.Query == "" && len(req.Interests) == 0 {
		return invalid("either query or interests must be provided")
	}
	if req.TripDurationDays <= 0 {
		return invalid("trip_duration_days must be positive, got %d", req.TripDurationDays)
	}
	if req.TripDurationDays > 30 {
		return invalid("trip_duration_days must be at most 30, got %d", req.TripDurationDays)
	}
	if req.MaxAttractionsPerDay < 0 || req.MaxAttractionsPerDay > 10 {
		return invalid("max_attractions_per_day must be between 0 and 10, got %d", req.MaxAttractionsPerDay)
	}
	if req.GroupSize < 0 {
		return invalid("group_size must not be negative, got %d", req.GroupSize)
	}

	switch req.BudgetLevel {
	case "", types.BudgetBudget, types.BudgetMidRange, types.BudgetLuxury:
	default:
		return invalid("unknown budget_level %q", req.BudgetLevel)
	}
	switch req.TripType {
	case "", types.TripSolo, types.TripCouple, types.TripFamily, types.TripGroup:
	default:
		return invalid("unknown trip_type %q", req.TripType)
	}
	switch req.DailyTravelPreference {
	case "", types.TravelMinimal, types.TravelModerate, types.TravelExtensive:
	default:
		return invalid("unknown daily_travel_preference %q", req.DailyTravelPreference)
	}
	return nil
}
