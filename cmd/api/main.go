package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dormdeck/dormdeck-backend/internal/adapters/cache"
	"github.com/dormdeck/dormdeck-backend/internal/adapters/database"
	"github.com/dormdeck/dormdeck-backend/internal/adapters/memory"
	sqliteadapter "github.com/dormdeck/dormdeck-backend/internal/adapters/sqlite"
	"github.com/dormdeck/dormdeck-backend/internal/api/handlers"
	"github.com/dormdeck/dormdeck-backend/internal/api/routes"
	"github.com/dormdeck/dormdeck-backend/internal/application/services"
	"github.com/dormdeck/dormdeck-backend/internal/domain/providers"
	"github.com/dormdeck/dormdeck-backend/internal/domain/repositories"
	"github.com/dormdeck/dormdeck-backend/internal/infrastructure/clients/gemini"
	"github.com/dormdeck/dormdeck-backend/internal/infrastructure/clients/postgres"
	"github.com/dormdeck/dormdeck-backend/internal/infrastructure/clients/redis"
	"github.com/dormdeck/dormdeck-backend/internal/infrastructure/clients/sqlite"
	"github.com/dormdeck/dormdeck-backend/internal/infrastructure/observability"
	"github.com/dormdeck/dormdeck-backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)
	logger := observability.GetLogger()

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Msg("OpenTelemetry initialized")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize storage backend
	var (
		providerRepo repositories.ProviderRepository
		sessionRepo  repositories.SessionRepository
	)
	switch cfg.Storage.Backend {
	case "postgres":
		pgClient, err := postgres.NewClient(&cfg.Database)
		if err != nil {
			log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
		}
		defer pgClient.Close()
		providerRepo = database.NewProviderAdapter(pgClient)
		sessionRepo = database.NewSessionAdapter(pgClient)
		logger.Info().Msg("PostgreSQL storage initialized")
	case "sqlite":
		sqliteClient, err := sqlite.NewClient(&cfg.SQLite)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite client: %v", err)
		}
		defer sqliteClient.Close()
		providerRepo = sqliteadapter.NewProviderAdapter(sqliteClient)
		sessionRepo = sqliteadapter.NewSessionAdapter(sqliteClient)
		logger.Info().Str("path", cfg.SQLite.Path).Msg("SQLite storage initialized")
	case "memory":
		providerRepo = memory.NewProviderAdapter()
		sessionRepo = memory.NewSessionAdapter()
		logger.Warn().Msg("in-memory storage initialized; data will not survive restarts")
	default:
		log.Fatalf("Unknown storage backend: %s", cfg.Storage.Backend)
	}

	// Initialize Redis client for the shared intent cache
	var cacheProvider providers.CacheProvider
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable; intent cache runs in-process only")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		logger.Info().Msg("Redis client initialized")
	}

	// Initialize the intent classification collaborator
	var intentProvider providers.IntentProvider
	if cfg.Gemini.APIKey != "" {
		geminiClient, err := gemini.NewClient(&cfg.Gemini)
		if err != nil {
			logger.Warn().Err(err).Msg("Gemini unavailable; classification falls back to heuristics")
		} else {
			intentProvider = geminiClient
			logger.Info().Str("model", cfg.Gemini.Model).Msg("Gemini client initialized")
		}
	} else {
		logger.Warn().Msg("GEMINI_API_KEY not set; classification falls back to heuristics")
	}

	// Initialize services
	intentService := services.NewIntentService(
		intentProvider,
		cfg.Intent.CacheSize,
		cacheProvider,
		time.Duration(cfg.Intent.CacheTTLSeconds)*time.Second,
	)
	locationScorer := services.NewLocationScorer()
	availability := services.NewAvailabilityEvaluator()
	rankingService := services.NewRankingService(intentService, locationScorer, availability, nil)
	registryService := services.NewRegistryService(providerRepo)
	sessionService := services.NewSessionService(sessionRepo)
	metricsService := services.NewMetricsService(sessionRepo, providerRepo, locationScorer)
	exportService := services.NewExportService(sessionRepo)

	// Initialize handlers
	searchHandler := handlers.NewSearchHandler(registryService, rankingService, sessionService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	providerHandler := handlers.NewProviderHandler(registryService)
	metricsHandler := handlers.NewMetricsHandler(metricsService)
	exportHandler := handlers.NewExportHandler(exportService)

	// Set up router
	router := routes.NewRouter(
		searchHandler,
		sessionHandler,
		providerHandler,
		metricsHandler,
		exportHandler,
		metrics,
	)
	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("server shutting down")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error during server shutdown")
	}

	logger.Info().Msg("server stopped")
}
