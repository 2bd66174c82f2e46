package planner

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/exploresl/exploresl-api/internal/api"
	"github.com/exploresl/exploresl-api/internal/types"
)

type Handler struct {
	logger  *slog.Logger
	service Service
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger.With(slog.String("handler", "planner")),
		service: service,
	}
}

// CreatePlan handles POST /planner/plan.
func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlannerHandler").Start(r.Context(), "CreatePlan")
	defer span.End()

	l := h.logger.With(slog.String("method", "CreatePlan"))

	var req types.PlanRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid plan request body", slog.Any("error", err))
		span.SetStatus(codes.Error, "invalid body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.service.CreatePlan(ctx, &req)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, api.ErrValidation) {
			l.WarnContext(ctx, "Plan request failed validation", slog.Any("error", err))
			span.SetStatus(codes.Error, "validation failed")
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
		l.ErrorContext(ctx, "Failed to create plan", slog.Any("error", err))
		span.SetStatus(codes.Error, "service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create travel plan")
		return
	}

	span.SetStatus(codes.Ok, "plan created")
	api.WriteJSONResponse(w, r, http.StatusOK, plan)
}
