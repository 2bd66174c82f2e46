package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/exploresl/exploresl-api/internal/api/attractions"
	"github.com/exploresl/exploresl-api/internal/api/planner"
	"github.com/exploresl/exploresl-api/internal/api/trips"
)

// Config carries the handlers and middleware the router mounts.
type Config struct {
	AttractionsHandler     *attractions.Handler
	PlannerHandler         *planner.Handler
	TripsHandler           *trips.Handler
	AuthenticateMiddleware func(http.Handler) http.Handler
	MetricsHandler         http.Handler
}

// SetupRouter wires the public and protected API routes. Server-wide
// middleware (request id, logging, recovery) is applied by the caller before
// mounting this router.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes: catalog browsing and plan generation.
		r.Group(func(r chi.Router) {
			r.Get("/attractions", cfg.AttractionsHandler.GetAttractions)
			r.Get("/attractions/search", cfg.AttractionsHandler.SearchAttractions)
			r.Get("/attractions/{attractionID}", cfg.AttractionsHandler.GetAttraction)

			r.Post("/planner/plan", cfg.PlannerHandler.CreatePlan)
		})

		// Saved trips require an authenticated user.
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Route("/trips", func(r chi.Router) {
				r.Post("/", cfg.TripsHandler.CreateTrip)
				r.Get("/", cfg.TripsHandler.ListTrips)
				r.Get("/{tripID}", cfg.TripsHandler.GetTrip)
				r.Put("/{tripID}", cfg.TripsHandler.UpdateTrip)
				r.Delete("/{tripID}", cfg.TripsHandler.DeleteTrip)
			})
		})
	})

	return r
}
