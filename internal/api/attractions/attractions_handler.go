package attractions

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
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
		logger:  logger.With(slog.String("handler", "attractions")),
		service: service,
	}
}

// GetAttractions handles GET /attractions with optional region and category
// filters.
func (h *Handler) GetAttractions(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AttractionsHandler").Start(r.Context(), "GetAttractions")
	defer span.End()

	l := h.logger.With(slog.String("method", "GetAttractions"))

	filter := types.AttractionFilter{
		Region:   r.URL.Query().Get("region"),
		Category: r.URL.Query().Get("category"),
	}

	found, err := h.service.GetAttractions(ctx, filter)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, api.ErrValidation) {
			span.SetStatus(codes.Error, "invalid filter")
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
		l.ErrorContext(ctx, "Failed to list attractions", slog.Any("error", err))
		span.SetStatus(codes.Error, "service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list attractions")
		return
	}

	span.SetStatus(codes.Ok, "attractions listed")
	api.WriteJSONResponse(w, r, http.StatusOK, found)
}

// GetAttraction handles GET /attractions/{attractionID}.
func (h *Handler) GetAttraction(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AttractionsHandler").Start(r.Context(), "GetAttraction")
	defer span.End()

	l := h.logger.With(slog.String("method", "GetAttraction"))

	id, err := uuid.Parse(chi.URLParam(r, "attractionID"))
	if err != nil {
		span.SetStatus(codes.Error, "invalid id")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid attraction ID")
		return
	}

	a, err := h.service.GetAttraction(ctx, id)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, api.ErrNotFound) {
			span.SetStatus(codes.Error, "not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Attraction not found")
			return
		}
		l.ErrorContext(ctx, "Failed to get attraction", slog.Any("error", err))
		span.SetStatus(codes.Error, "service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to get attraction")
		return
	}

	span.SetStatus(codes.Ok, "attraction fetched")
	api.WriteJSONResponse(w, r, http.StatusOK, a)
}

// SearchAttractions handles GET /attractions/search?q=.
func (h *Handler) SearchAttractions(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AttractionsHandler").Start(r.Context(), "SearchAttractions")
	defer span.End()

	l := h.logger.With(slog.String("method", "SearchAttractions"))

	q := r.URL.Query().Get("q")
	found, err := h.service.SearchAttractions(ctx, q)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, api.ErrValidation) {
			span.SetStatus(codes.Error, "missing search term")
			api.ErrorResponse(w, r, http.StatusBadRequest, "Query parameter 'q' is required")
			return
		}
		l.ErrorContext(ctx, "Failed to search attractions", slog.Any("error", err))
		span.SetStatus(codes.Error, "service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to search attractions")
		return
	}

	span.SetStatus(codes.Ok, "attractions searched")
	api.WriteJSONResponse(w, r, http.StatusOK, found)
}
