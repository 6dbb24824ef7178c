package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Store persists the full place-name -> coordinate map under a single
// well-known key. It is read once at cache initialization and rewritten
// on every new resolution.
type Store interface {
	Load(ctx context.Context) (map[string]Coordinate, error)
	Flush(ctx context.Context, entries map[string]Coordinate) error
	Clear(ctx context.Context) error
}

// RedisStore keeps the serialized cache map in a redis string key.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects to redis using a URL (redis://...) and binds the
// store to the given key.
func NewRedisStore(redisURL, key string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisStore{
		client: redis.NewClient(opt),
		key:    key,
	}, nil
}

// Load reads and deserializes the cache map. A missing key yields an
// empty map, not an error.
func (s *RedisStore) Load(ctx context.Context) (map[string]Coordinate, error) {
	raw, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return map[string]Coordinate{}, nil
	}
	if err != nil {
		return nil, err
	}

	entries := map[string]Coordinate{}
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Flush serializes and writes the full cache map.
func (s *RedisStore) Flush(ctx context.Context, entries map[string]Coordinate) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key, raw, 0).Err()
}

// Clear removes the cache key. Manual invalidation escape hatch; entries
// otherwise never expire.
func (s *RedisStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}

// Ping checks connectivity to the redis backend, for readiness checks.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)

// MemoryStore is the fallback when no redis is configured. Entries live
// for the process lifetime only.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]Coordinate
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]Coordinate{}}
}

func (s *MemoryStore) Load(ctx context.Context) (map[string]Coordinate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]Coordinate, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryStore) Flush(ctx context.Context, entries map[string]Coordinate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]Coordinate, len(entries))
	for k, v := range entries {
		s.entries[k] = v
	}
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = map[string]Coordinate{}
	return nil
}

var _ Store = (*MemoryStore)(nil)
