// Command geocode-warm pre-resolves the portfolio's city names into the
// durable geocode cache so that the first dashboard load does not have to
// wait out the oracle's inter-call delay for every city.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"portfoliobim_backend/internal/buildings/client"
	"portfoliobim_backend/internal/geocode"
	"portfoliobim_backend/platform/config"
	"portfoliobim_backend/platform/logger"
)

func main() {
	reset := flag.Bool("reset", false, "clear the durable geocode cache before warming")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting geocode cache warmup")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store geocode.Store
	if cfg.IsRedisEnabled() {
		redisStore, err := geocode.NewRedisStore(cfg.GetRedisURL(), cfg.GetGeocodeCacheKey())
		if err != nil {
			log.Error("failed to initialize redis cache store", "error", err)
			panic("failed to initialize redis cache store: " + err.Error())
		}
		defer func() { _ = redisStore.Close() }()
		store = redisStore
	} else {
		// Without redis there is nothing durable to warm, but the run still
		// validates the portfolio source and the oracle end to end.
		log.Warn("REDIS_URL not configured; warmed entries will not survive this process")
		store = geocode.NewMemoryStore()
	}

	if *reset {
		if err := store.Clear(ctx); err != nil {
			log.Error("failed to clear geocode cache", "error", err)
			panic("failed to clear geocode cache: " + err.Error())
		}
		log.Info("geocode cache cleared")
	}

	cache := geocode.NewCache(ctx, store, log)
	log.Info("geocode cache loaded", "entries", cache.Len())

	src := client.New(cfg.GetPortfolioAPIURL(), log)
	names, err := src.FetchCityNames(ctx)
	if err != nil {
		log.Error("failed to fetch city names", "error", err)
		panic("failed to fetch city names: " + err.Error())
	}
	log.Info("city names fetched", "count", len(names))

	resolver := geocode.NewResolver(cache, geocode.NewClient(cfg, log), cfg.GetGeocodeInterval(), nil, log)
	resolved := resolver.Resolve(ctx, names)

	log.Info("geocode cache warmup complete",
		"requested", len(names),
		"resolved", len(resolved),
		"cached", cache.Len(),
	)
}
