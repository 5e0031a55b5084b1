// Package main is the entry point for the Wayfarer itinerary API server.
//
// It loads configuration, connects the PostgreSQL pool, wires the generation
// service (persona aggregator, climate provider, SQS export trigger,
// CloudWatch metrics), mounts the HTTP chassis, and runs with graceful
// shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/go-chi/chi/v5"

	"wayfarer/internal/api/handlers"
	"wayfarer/internal/climate"
	"wayfarer/internal/config"
	"wayfarer/internal/core"
	"wayfarer/internal/db"
	"wayfarer/internal/external"
	"wayfarer/internal/itinerary"
	"wayfarer/internal/persona"
	"wayfarer/internal/queue"
	"wayfarer/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// run encapsulates the startup lifecycle so main() can cleanly exit on error.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("wayfarer API starting",
		"environment", cfg.Environment,
		"service", cfg.Service,
		"port", cfg.Server.Port,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting database: %w", err)
	}
	defer pool.Close()

	// Repositories over the shared pool.
	legRepo := db.NewLegRepository(pool)
	activityRepo := db.NewActivityRepository(pool)
	signalRepo := db.NewSignalRepository(pool)
	climateRepo := db.NewClimateRepository(pool)
	generationStore := db.NewGenerationStore(pool)

	personaSrc := persona.NewAggregator(signalRepo)

	// Climate descriptions come from the remote service when configured,
	// otherwise from the seeded database profiles.
	var climateSource climate.DescriptionSource = climateRepo
	if cfg.Climate.BaseURL != "" {
		climateSource = external.NewClimateClient(
			&http.Client{Timeout: cfg.Climate.Timeout},
			external.ClimateClientConfig{BaseURL: cfg.Climate.BaseURL, Logger: logger},
		)
		logger.Info("using remote climate provider", "base_url", cfg.Climate.BaseURL)
	}
	climateSrc := climate.NewProvider(climateSource, logger)

	// AWS-backed export trigger and metrics; both optional in local mode.
	var publisher itinerary.ExportPublisher
	var metrics itinerary.Metrics = telemetry.NoopMetrics{}
	if !cfg.IsLocal() || cfg.AWS.EndpointURL != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
		if err != nil {
			return fmt.Errorf("loading AWS configuration: %w", err)
		}

		if cfg.AWS.RankingExportQueue != "" {
			sqsClient := sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
				if cfg.AWS.EndpointURL != "" {
					o.BaseEndpoint = &cfg.AWS.EndpointURL
				}
			})
			publisher = queue.NewExportTrigger(sqsClient, cfg.AWS, logger)
		}

		cwClient := cloudwatch.NewFromConfig(awsCfg, func(o *cloudwatch.Options) {
			if cfg.AWS.EndpointURL != "" {
				o.BaseEndpoint = &cfg.AWS.EndpointURL
			}
		})
		metrics = telemetry.NewCloudWatchMetrics(cwClient, cfg.AWS.MetricsNamespace, logger)
	}

	generator := itinerary.NewService(
		activityRepo,
		legRepo,
		personaSrc,
		climateSrc,
		generationDBAdapter{store: generationStore},
		publisher,
		metrics,
		logger,
	)

	srv, err := core.NewServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	srv.HealthProbes = []core.HealthProbe{
		core.PingProbe{ProbeName: "database", Ping: pool.Ping},
	}

	itineraryHandler := handlers.NewItineraryHandler(legRepo, generator, logger)
	srv.V1RouteRegistrars = append(srv.V1RouteRegistrars, func(r chi.Router) {
		itineraryHandler.RegisterRoutes(r)
	})

	srv.MountRoutes()

	return runHTTPServer(srv, cfg, logger)
}

// generationDBAdapter narrows *db.GenerationStore to the itinerary service's
// GenerationDB contract; the concrete *db.GenerationTx satisfies the
// transaction interface directly.
type generationDBAdapter struct {
	store *db.GenerationStore
}

func (a generationDBAdapter) BeginGeneration(ctx context.Context) (itinerary.GenerationTx, error) {
	tx, err := a.store.BeginGeneration(ctx)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// runHTTPServer starts the server in standard HTTP mode with graceful shutdown.
func runHTTPServer(srv *core.Server, cfg *config.Config, logger *slog.Logger) error {
	addr := ":" + cfg.Server.Port

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)

	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	logger.Info("initiating graceful shutdown")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server resource shutdown error", "error", err)
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped cleanly")
	return nil
}

// newLogger creates a structured slog.Logger for the given log level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler)
}
