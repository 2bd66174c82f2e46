package trips

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	appMiddleware "github.com/exploresl/exploresl-api/app/middleware"
	"github.com/exploresl/exploresl-api/internal/api"
	"github.com/exploresl/exploresl-api/internal/types"
)

type Handler struct {
	logger  *slog.Logger
	service Service
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger.With(slog.String("handler", "trips")),
		service: service,
	}
}

// CreateTrip handles POST /trips.
func (h *Handler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripsHandler").Start(r.Context(), "CreateTrip")
	defer span.End()

	userID, ok := callerID(ctx, w, r, span)
	if !ok {
		return
	}

	var req types.CreateTripRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.SetStatus(codes.Error, "invalid body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	trip, err := h.service.CreateTrip(ctx, userID, &req)
	if err != nil {
		h.writeServiceError(ctx, w, r, span, err, "Failed to save trip")
		return
	}

	span.SetStatus(codes.Ok, "trip created")
	api.WriteJSONResponse(w, r, http.StatusCreated, trip)
}

// ListTrips handles GET /trips with page/page_size pagination.
func (h *Handler) ListTrips(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripsHandler").Start(r.Context(), "ListTrips")
	defer span.End()

	userID, ok := callerID(ctx, w, r, span)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	resp, err := h.service.ListTrips(ctx, userID, page, pageSize)
	if err != nil {
		h.writeServiceError(ctx, w, r, span, err, "Failed to list trips")
		return
	}

	span.SetStatus(codes.Ok, "trips listed")
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// GetTrip handles GET /trips/{tripID}.
func (h *Handler) GetTrip(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripsHandler").Start(r.Context(), "GetTrip")
	defer span.End()

	userID, ok := callerID(ctx, w, r, span)
	if !ok {
		return
	}
	tripID, ok := pathTripID(w, r, span)
	if !ok {
		return
	}

	trip, err := h.service.GetTrip(ctx, userID, tripID)
	if err != nil {
		h.writeServiceError(ctx, w, r, span, err, "Failed to get trip")
		return
	}

	span.SetStatus(codes.Ok, "trip fetched")
	api.WriteJSONResponse(w, r, http.StatusOK, trip)
}

// UpdateTrip handles PUT /trips/{tripID}.
func (h *Handler) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripsHandler").Start(r.Context(), "UpdateTrip")
	defer span.End()

	userID, ok := callerID(ctx, w, r, span)
	if !ok {
		return
	}
	tripID, ok := pathTripID(w, r, span)
	if !ok {
		return
	}

	var updates types.UpdateTripRequest
	if err := api.DecodeJSONBody(w, r, &updates); err != nil {
		span.SetStatus(codes.Error, "invalid body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	trip, err := h.service.UpdateTrip(ctx, userID, tripID, &updates)
	if err != nil {
		h.writeServiceError(ctx, w, r, span, err, "Failed to update trip")
		return
	}

	span.SetStatus(codes.Ok, "trip updated")
	api.WriteJSONResponse(w, r, http.StatusOK, trip)
}

// DeleteTrip handles DELETE /trips/{tripID}.
func (h *Handler) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripsHandler").Start(r.Context(), "DeleteTrip")
	defer span.End()

	userID, ok := callerID(ctx, w, r, span)
	if !ok {
		return
	}
	tripID, ok := pathTripID(w, r, span)
	if !ok {
		return
	}

	if err := h.service.DeleteTrip(ctx, userID, tripID); err != nil {
		h.writeServiceError(ctx, w, r, span, err, "Failed to delete trip")
		return
	}

	span.SetStatus(codes.Ok, "trip deleted")
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

// callerID pulls the authenticated user id out of the request context.
func callerID(ctx context.Context, w http.ResponseWriter, r *http.Request, span trace.Span) (uuid.UUID, bool) {
	raw, ok := appMiddleware.GetUserIDFromContext(ctx)
	if !ok {
		span.SetStatus(codes.Error, "missing auth context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		span.SetStatus(codes.Error, "malformed user id")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid authentication context")
		return uuid.Nil, false
	}
	return userID, true
}

func pathTripID(w http.ResponseWriter, r *http.Request, span trace.Span) (uuid.UUID, bool) {
	tripID, err := uuid.Parse(chi.URLParam(r, "tripID"))
	if err != nil {
		span.SetStatus(codes.Error, "invalid trip id")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid trip ID")
		return uuid.Nil, false
	}
	return tripID, true
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, r *http.Request, span trace.Span, err error, fallback string) {
	span.RecordError(err)
	switch {
	case errors.Is(err, api.ErrValidation):
		span.SetStatus(codes.Error, "validation failed")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, api.ErrNotFound):
		span.SetStatus(codes.Error, "not found")
		api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found")
	case errors.Is(err, api.ErrForbidden):
		span.SetStatus(codes.Error, "forbidden")
		api.ErrorResponse(w, r, http.StatusForbidden, "You do not have access to this trip")
	default:
		h.logger.ErrorContext(ctx, fallback, slog.Any("error", err))
		span.SetStatus(codes.Error, "service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, fallback)
	}
}
