package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	database "github.com/exploresl/exploresl-api/app/db"
	appLogger "github.com/exploresl/exploresl-api/app/logger"
	appMiddleware "github.com/exploresl/exploresl-api/app/middleware"
	"github.com/exploresl/exploresl-api/app/observability/metrics"
	"github.com/exploresl/exploresl-api/app/tracer"
	"github.com/exploresl/exploresl-api/config"
	"github.com/exploresl/exploresl-api/internal/api/attractions"
	plannerAPI "github.com/exploresl/exploresl-api/internal/api/planner"
	"github.com/exploresl/exploresl-api/internal/api/trips"
	"github.com/exploresl/exploresl-api/internal/enhance"
	"github.com/exploresl/exploresl-api/internal/places"
	"github.com/exploresl/exploresl-api/internal/planner"
	"github.com/exploresl/exploresl-api/internal/router"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails.
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger()
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Observability ---
	metricsHandler, err := tracer.InitTracingAndMetrics("exploresl-api")
	if err != nil {
		logger.Error("Failed to initialize tracing and metrics", slog.Any("error", err))
		os.Exit(1)
	}
	metrics.InitAppMetrics()

	// --- Database ---
	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		os.Exit(1)
	}

	if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if !database.WaitForDB(ctx, pool, logger) {
		logger.Error("Database not ready after waiting, exiting.")
		os.Exit(1)
	}

	// --- Dependency Injection ---
	attractionsRepo := attractions.NewRepository(pool, logger)
	attractionsService := attractions.NewServiceImpl(attractionsRepo, logger)
	attractionsHandler := attractions.NewHandler(attractionsService, logger)

	engine := planner.NewEngine(planner.Config{
		AverageSpeedKmh:     cfg.Planner.AverageSpeedKmh,
		DefaultVisitMinutes: cfg.Planner.DefaultVisitMins,
		AbsorbRadiusKm:      cfg.Planner.AbsorbRadiusKm,
		MaxClusterSpreadKm:  cfg.Planner.MaxClusterSpreadKm,
		DayBudgetHours:      cfg.Planner.DayBudgetHours,
	})

	placesClient := places.NewClient(cfg.Places.BaseURL, cfg.Places.APIKey, logger)
	pipeline := enhance.NewPipeline(logger, enhance.DefaultModuleTimeout,
		enhance.NewPlacesModule(placesClient),
		enhance.NewWeatherModule(),
		enhance.NewTransportModule(),
	)

	plannerService := plannerAPI.NewServiceImpl(attractionsService, engine, pipeline, metrics.Get(), logger)
	plannerHandler := plannerAPI.NewHandler(plannerService, logger)

	tripsRepo := trips.NewRepository(pool, logger)
	tripsService := trips.NewServiceImpl(tripsRepo, logger)
	tripsHandler := trips.NewHandler(tripsService, logger)

	jwtSecret := cfg.Auth.JWTSecret
	if jwtSecret == "" {
		logger.Warn("JWT secret not configured, saved trips endpoints will reject all tokens signed elsewhere")
		jwtSecret = "development-only-secret"
	}

	// --- Router ---
	apiRouter := router.SetupRouter(&router.Config{
		AttractionsHandler:     attractionsHandler,
		PlannerHandler:         plannerHandler,
		TripsHandler:           tripsHandler,
		AuthenticateMiddleware: appMiddleware.Authenticate([]byte(jwtSecret)),
		MetricsHandler:         metricsHandler,
	})

	mux := chi.NewMux()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(appLogger.StructuredLogger(logger))
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.StripSlashes)
	mux.Use(middleware.Timeout(60 * time.Second))
	mux.Use(middleware.Compress(5, "application/json"))
	mux.Mount("/", apiRouter)

	// --- HTTP Server ---
	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()

	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}

	logger.Info("Application shut down complete.")
}

// setupLogger picks colored development output or JSON depending on APP_ENV.
func setupLogger() *slog.Logger {
	var logger *slog.Logger
	env := os.Getenv("APP_ENV")

	if env == "development" || env == "" {
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
	} else {
		jsonOpts := &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
	}
	return logger
}
