package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/agrievents/internal/adapters/cache"
	"github.com/zatekoja/agrievents/internal/adapters/database"
	"github.com/zatekoja/agrievents/internal/adapters/events"
	"github.com/zatekoja/agrievents/internal/adapters/filestore"
	"github.com/zatekoja/agrievents/internal/adapters/search"
	"github.com/zatekoja/agrievents/internal/api/handlers"
	"github.com/zatekoja/agrievents/internal/api/middleware"
	"github.com/zatekoja/agrievents/internal/api/routes"
	"github.com/zatekoja/agrievents/internal/application/services"
	"github.com/zatekoja/agrievents/internal/domain/providers"
	"github.com/zatekoja/agrievents/internal/domain/repositories"
	"github.com/zatekoja/agrievents/internal/infrastructure/clients/openai"
	"github.com/zatekoja/agrievents/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/agrievents/internal/infrastructure/clients/redis"
	"github.com/zatekoja/agrievents/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/agrievents/internal/infrastructure/observability"
	"github.com/zatekoja/agrievents/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			observability.EnableOTelLogExport()
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Event data
	csvAdapter := filestore.NewCSVEventAdapter(cfg.Data.EventsPath, cfg.Data.DelimiterRune())
	var eventRepo repositories.EventRepository = csvAdapter
	var cachedEvents *filestore.CachedEventAdapter
	if cfg.Data.CacheMode == config.DataCacheMtime {
		cachedEvents = filestore.NewCachedEventAdapter(csvAdapter, cfg.Data.EventsPath)
		eventRepo = cachedEvents
		log.Info().Msg("event data cached until the file changes")
	}

	// Optional Redis: response cache and dataset change fan-out
	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable; running without response cache")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient)
			eventBus = events.NewRedisEventBus(redisClient)
			defer eventBus.Close()
			log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("redis client initialized")
		}
	}

	// Optional PostgreSQL: search analytics
	var analyticsRepo repositories.SearchAnalyticsRepository
	if cfg.Database.Enabled {
		pgClient, err := postgres.NewClient(ctx, &cfg.Database)
		if err != nil {
			log.Warn().Err(err).Msg("postgres unavailable; search analytics disabled")
		} else if err := pgClient.Migrate(ctx); err != nil {
			log.Warn().Err(err).Msg("postgres migration failed; search analytics disabled")
			pgClient.Close()
		} else {
			defer pgClient.Close()
			analyticsRepo = database.NewSearchAnalyticsAdapter(pgClient)
			log.Info().Msg("search analytics enabled")
		}
	}

	// Optional Typesense: title suggestions
	var suggester handlers.TitleSuggester
	var indexWarmer *services.SearchIndexWarmingService
	if cfg.Typesense.Enabled {
		tsClient, err := typesense.NewClient(ctx, &cfg.Typesense)
		if err != nil {
			log.Warn().Err(err).Msg("typesense unavailable; suggestions disabled")
		} else {
			adapter := search.NewTypesenseAdapter(tsClient)
			if err := adapter.InitSchema(ctx); err != nil {
				log.Warn().Err(err).Msg("typesense schema init failed; suggestions disabled")
			} else {
				suggester = adapter
				indexWarmer = services.NewSearchIndexWarmingService(eventRepo, adapter)
				go warmIndex(ctx, indexWarmer)
				log.Info().Msg("typesense suggestions enabled")
			}
		}
	}

	// Text generation
	var textProvider providers.TextGenerationProvider
	if cfg.OpenAI.Enabled() {
		openaiClient, err := openai.NewClient(&cfg.OpenAI)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize OpenAI client")
		} else {
			defer openaiClient.Close()
			textProvider = openaiClient
			log.Info().Str("model", openaiClient.Model()).Msg("OpenAI client initialized")
		}
	} else {
		log.Warn().Msg("OPENAI_API_KEY is not set; AI insights and chat disabled")
	}

	// Services
	analyticsService := services.NewSearchAnalyticsService(analyticsRepo)
	insightService := services.NewInsightService(textProvider)
	eventService := services.NewEventService(eventRepo, insightService, analyticsService)
	chatService := services.NewChatService(textProvider)

	var invalidation *services.CacheInvalidationService
	if cacheProvider != nil && eventBus != nil {
		invalidation = services.NewCacheInvalidationService(cacheProvider, eventBus)
		if err := invalidation.Start(); err != nil {
			log.Warn().Err(err).Msg("cache invalidation listener not started")
			invalidation = nil
		} else {
			defer invalidation.Stop()
		}
	}

	// Watch the data file
	if cfg.Data.Watch {
		watcher, err := filestore.NewWatcher(cfg.Data.EventsPath, 0)
		if err != nil {
			log.Warn().Err(err).Msg("failed to watch events file")
		} else {
			watcher.OnChange(func(ctx context.Context, path string) {
				if cachedEvents != nil {
					cachedEvents.Invalidate()
				}
				if indexWarmer != nil {
					go warmIndex(ctx, indexWarmer)
				}
				if invalidation == nil {
					return
				}
				if err := invalidation.PublishDatasetChanged(ctx, path); err != nil {
					log.Warn().Err(err).Msg("failed to announce dataset change")
				}
			})
			watcher.Start(ctx)
			defer watcher.Stop()
		}
	}

	// Handlers
	exposeDetails := !cfg.Server.IsProduction()
	eventHandler := handlers.NewEventHandler(eventService, suggester, exposeDetails)
	chatHandler := handlers.NewChatHandler(chatService, exposeDetails)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, exposeDetails)
	dashboardHandler := handlers.NewDashboardHandler()

	var cacheMiddleware *middleware.CacheMiddleware
	if cfg.HTTPCache.Enabled && cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider, cfg.HTTPCache.TTLSeconds, metrics)
		log.Info().Int("ttl_seconds", cfg.HTTPCache.TTLSeconds).Msg("HTTP response cache enabled")
	}

	router := routes.NewRouter(
		eventHandler,
		chatHandler,
		analyticsHandler,
		dashboardHandler,
		cacheMiddleware,
		cfg.CORS.AllowedOrigins,
		metrics,
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.OpenAI.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Str("env", cfg.Server.Env).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	analyticsService.Wait()

	log.Info().Msg("server exited")
}

func warmIndex(ctx context.Context, warmer *services.SearchIndexWarmingService) {
	if _, err := warmer.WarmIndex(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Warn().Err(err).Msg("failed to warm search index")
	}
}
