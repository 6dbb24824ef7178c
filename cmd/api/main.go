package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfoliobim_backend/internal/adapters"
	"portfoliobim_backend/internal/audit"
	"portfoliobim_backend/internal/buildings"
	"portfoliobim_backend/internal/events"
	"portfoliobim_backend/internal/geocode"
	apphttp "portfoliobim_backend/internal/http"
	"portfoliobim_backend/internal/http/router"
	"portfoliobim_backend/internal/schema"
	"portfoliobim_backend/platform/config"
	"portfoliobim_backend/platform/logger"
	"portfoliobim_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// Durable geocode cache store. Falls back to an in-process map when no
	// redis is configured; the cache then lives for the process lifetime only.
	var health apphttp.HealthChecker
	var cacheStore geocode.Store
	if cfg.IsRedisEnabled() {
		redisStore, err := geocode.NewRedisStore(cfg.GetRedisURL(), cfg.GetGeocodeCacheKey())
		if err != nil {
			log.Error("failed to initialize redis cache store", "error", err)
			panic("failed to initialize redis cache store: " + err.Error())
		}
		defer func() { _ = redisStore.Close() }()
		cacheStore = redisStore
		health = redisStore
		log.Info("geocode cache store initialized", "backend", "redis", "key", cfg.GetGeocodeCacheKey())
	} else {
		cacheStore = geocode.NewMemoryStore()
		log.Warn("REDIS_URL not configured; geocode cache is process-local only")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Audit module subscribes to domain events (not HTTP-facing)
	auditModule := audit.New(log)
	auditModule.RegisterHandlers(eventBus)

	geocodeCache := geocode.NewCache(ctx, cacheStore, log)
	log.Info("geocode cache loaded", "entries", geocodeCache.Len())

	geocodeClient := geocode.NewClient(cfg, log)
	cityResolver := geocode.NewResolver(geocodeCache, geocodeClient, cfg.GetGeocodeInterval(), eventBus, log)

	schemaModule := schema.NewModule(cfg, log)
	schemaSource := adapters.NewSchemaPropertiesAdapter(schemaModule.Service())

	buildingsModule := buildings.NewModule(cfg, cityResolver, schemaSource, eventBus, val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   health,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			buildingsModule,
			schemaModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}
