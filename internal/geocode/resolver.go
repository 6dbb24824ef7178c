package geocode

import (
	"context"
	"time"

	"portfoliobim_backend/internal/events"
	"portfoliobim_backend/platform/logger"
)

// Oracle is the external lookup the resolver falls back to on cache misses.
type Oracle interface {
	Lookup(ctx context.Context, name string) (Coordinate, bool, error)
}

// Resolver turns a sequence of raw place names into coordinates. It is
// strictly sequential: the oracle's usage policy forbids concurrent calls,
// and every live call is followed by a fixed inter-call delay. Cache hits
// bypass both the oracle and the delay.
type Resolver struct {
	cache    *Cache
	oracle   Oracle
	interval time.Duration
	bus      events.Bus
	log      *logger.Logger
}

// NewResolver creates a resolver with the given inter-call spacing.
func NewResolver(cache *Cache, oracle Oracle, interval time.Duration, bus events.Bus, log *logger.Logger) *Resolver {
	return &Resolver{
		cache:    cache,
		oracle:   oracle,
		interval: interval,
		bus:      bus,
		log:      log,
	}
}

// Resolve maps each input name to a coordinate, in input order. Names that
// normalize to nothing, fail to resolve, or error out contribute no output
// record; one bad name never aborts the rest of the batch. With the oracle
// entirely unreachable the batch degrades to cache-only resolution.
func (r *Resolver) Resolve(ctx context.Context, names []string) []ResolvedPlace {
	results := make([]ResolvedPlace, 0, len(names))
	liveCalls := 0

	for _, raw := range names {
		name := NormalizePlaceName(raw)
		if name == "" {
			r.log.Debug("skipping empty place name", "raw", raw)
			continue
		}

		if coord, ok := r.cache.Get(name); ok {
			r.log.CacheEvent("hit", name)
			results = append(results, ResolvedPlace{Name: name, Lat: coord.Lat, Lon: coord.Lon})
			continue
		}

		coord, ok, err := r.oracle.Lookup(ctx, name)
		liveCalls++
		if err != nil {
			r.log.Warn("geocode lookup failed", "place", name, "error", err)
			if waitErr := r.wait(ctx); waitErr != nil {
				break
			}
			continue
		}
		if !ok {
			r.log.Info("place name unresolvable", "place", name)
			if waitErr := r.wait(ctx); waitErr != nil {
				break
			}
			continue
		}

		if err := r.cache.Set(ctx, name, coord); err != nil {
			r.log.Warn("failed to persist resolution", "place", name, "error", err)
		}
		results = append(results, ResolvedPlace{Name: name, Lat: coord.Lat, Lon: coord.Lon})

		if waitErr := r.wait(ctx); waitErr != nil {
			break
		}
	}

	if r.bus != nil {
		r.bus.Publish(ctx, events.GeocodeBatchCompleted{
			BaseEvent: events.NewBaseEvent(),
			Requested: len(names),
			Resolved:  len(results),
			LiveCalls: liveCalls,
		})
	}

	return results
}

// wait blocks for the configured inter-call interval, honoring context
// cancellation. Called after every live oracle call, never after a cache hit.
func (r *Resolver) wait(ctx context.Context) error {
	timer := time.NewTimer(r.interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
