package viewstate

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when no value exists for a key.
var ErrNotFound = errors.New("viewstate: not found")

// Store is the string key/value collaborator backing view-state persistence.
// Implementations may fail; callers treat any error as "no saved state".
type Store interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// MemoryStore is an in-process Store, used in tests and single-node runs.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]string)}
}

func (s *MemoryStore) GetItem(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.items[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (s *MemoryStore) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

func (s *MemoryStore) RemoveItem(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

// RedisStore keeps view state in Redis with a session-scoped TTL, so state
// survives a reload but not an abandoned session.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) GetItem(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, "viewstate:"+key).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	return value, err
}

func (s *RedisStore) SetItem(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, "viewstate:"+key, value, s.ttl).Err()
}

func (s *RedisStore) RemoveItem(ctx context.Context, key string) error {
	return s.client.Del(ctx, "viewstate:"+key).Err()
}
