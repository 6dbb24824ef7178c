package geocode

import (
	"context"
	"testing"

	"portfoliobim_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	store, err := NewRedisStore("redis://"+mr.Addr(), "cityCoordsCache")
	if err != nil {
		t.Fatalf("failed to create redis store: %v", err)
	}
	return store, mr
}

func TestCache_SetThenGet(t *testing.T) {
	store, _ := newTestRedisStore(t)
	cache := NewCache(context.Background(), store, logger.New("development"))

	coord := Coordinate{Lat: 51.05, Lon: 13.74}
	if err := cache.Set(context.Background(), "Dresden", coord); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got, ok := cache.Get("Dresden")
	if !ok {
		t.Fatal("expected cache hit after set")
	}
	if got != coord {
		t.Fatalf("expected %v, got %v", coord, got)
	}
}

func TestCache_MissingKeyLoadsEmpty(t *testing.T) {
	store, _ := newTestRedisStore(t)
	cache := NewCache(context.Background(), store, logger.New("development"))

	if cache.Len() != 0 {
		t.Fatalf("expected empty cache, got %d entries", cache.Len())
	}
	if _, ok := cache.Get("Dresden"); ok {
		t.Fatal("expected miss on empty cache")
	}
}

func TestCache_EntriesSurviveReload(t *testing.T) {
	store, _ := newTestRedisStore(t)
	log := logger.New("development")

	first := NewCache(context.Background(), store, log)
	if err := first.Set(context.Background(), "Berlin", Coordinate{Lat: 52.52, Lon: 13.40}); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	// A fresh cache over the same store simulates a process restart.
	second := NewCache(context.Background(), store, log)
	got, ok := second.Get("Berlin")
	if !ok {
		t.Fatal("expected entry to survive reload")
	}
	if got.Lat != 52.52 || got.Lon != 13.40 {
		t.Fatalf("unexpected coordinate after reload: %v", got)
	}
}

func TestCache_Clear(t *testing.T) {
	store, _ := newTestRedisStore(t)
	log := logger.New("development")

	cache := NewCache(context.Background(), store, log)
	if err := cache.Set(context.Background(), "Hamburg", Coordinate{Lat: 53.55, Lon: 9.99}); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if err := cache.Clear(context.Background()); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, ok := cache.Get("Hamburg"); ok {
		t.Fatal("expected miss after clear")
	}

	reloaded := NewCache(context.Background(), store, log)
	if reloaded.Len() != 0 {
		t.Fatalf("expected durable store cleared, got %d entries", reloaded.Len())
	}
}

func TestCache_CorruptStoreStartsEmpty(t *testing.T) {
	store, mr := newTestRedisStore(t)
	mr.Set("cityCoordsCache", "{not json")

	cache := NewCache(context.Background(), store, logger.New("development"))
	if cache.Len() != 0 {
		t.Fatalf("expected load-or-empty on corrupt payload, got %d entries", cache.Len())
	}
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	cache := NewCache(context.Background(), store, logger.New("development"))

	if err := cache.Set(context.Background(), "München", Coordinate{Lat: 48.14, Lon: 11.58}); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	reloaded := NewCache(context.Background(), store, logger.New("development"))
	if _, ok := reloaded.Get("München"); !ok {
		t.Fatal("expected entry to survive in memory store")
	}
}
