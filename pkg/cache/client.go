package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client defines the cache operations the lifecycle core depends on. The
// set operations back the analytics daily unique-viewer tracking.
type Client interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	SetAdd(ctx context.Context, key string, member string) (bool, error)
	SetCard(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, expiration time.Duration) error
	Close() error
}

// RedisClient is a wrapper around the Redis client.
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient creates a new Redis cache client. An empty address returns
// an in-process fallback suitable for single-instance deployments.
func NewRedisClient(addr, password string, db int) (Client, error) {
	if addr == "" {
		return NewLocalClient(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

// Get retrieves a value from cache.
func (r *RedisClient) Get(ctx context.Context, key string) (string, error) {
	return r.client.Get(ctx, key).Result()
}

// Set stores a value in cache with expiration.
func (r *RedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return r.client.Set(ctx, key, value, expiration).Err()
}

// Delete removes keys from cache.
func (r *RedisClient) Delete(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

// SetAdd adds a member to a set, reporting whether it was newly added.
func (r *RedisClient) SetAdd(ctx context.Context, key string, member string) (bool, error) {
	added, err := r.client.SAdd(ctx, key, member).Result()
	if err != nil {
		return false, err
	}
	return added > 0, nil
}

// SetCard returns the number of members in a set.
func (r *RedisClient) SetCard(ctx context.Context, key string) (int64, error) {
	return r.client.SCard(ctx, key).Result()
}

// Expire sets an expiration on a key.
func (r *RedisClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return r.client.Expire(ctx, key, expiration).Err()
}

// Close closes the Redis connection.
func (r *RedisClient) Close() error {
	return r.client.Close()
}

// LocalClient is an in-process Client used when Redis is not configured.
// It serves a single instance only; expirations are coarse.
type LocalClient struct {
	mu     sync.Mutex
	values map[string]localEntry
	sets   map[string]map[string]struct{}
	expiry map[string]time.Time
}

type localEntry struct {
	value      string
	expiration time.Time
}

// NewLocalClient creates an in-process cache client.
func NewLocalClient() *LocalClient {
	return &LocalClient{
		values: make(map[string]localEntry),
		sets:   make(map[string]map[string]struct{}),
		expiry: make(map[string]time.Time),
	}
}

// Get retrieves a value, honoring expiration.
func (l *LocalClient) Get(ctx context.Context, key string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.values[key]
	if !ok {
		return "", fmt.Errorf("key not found")
	}
	if !entry.expiration.IsZero() && time.Now().After(entry.expiration) {
		delete(l.values, key)
		return "", fmt.Errorf("key expired")
	}
	return entry.value, nil
}

// Set stores a string value.
func (l *LocalClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := localEntry{value: fmt.Sprintf("%v", value)}
	if expiration > 0 {
		entry.expiration = time.Now().Add(expiration)
	}
	l.values[key] = entry
	return nil
}

// Delete removes keys and their set counterparts.
func (l *LocalClient) Delete(ctx context.Context, keys ...string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, key := range keys {
		delete(l.values, key)
		delete(l.sets, key)
		delete(l.expiry, key)
	}
	return nil
}

// SetAdd adds a member to a set, reporting whether it was newly added.
func (l *LocalClient) SetAdd(ctx context.Context, key string, member string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.evictExpiredSet(key)

	set, ok := l.sets[key]
	if !ok {
		set = make(map[string]struct{})
		l.sets[key] = set
	}
	if _, exists := set[member]; exists {
		return false, nil
	}
	set[member] = struct{}{}
	return true, nil
}

// SetCard returns the number of members in a set.
func (l *LocalClient) SetCard(ctx context.Context, key string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.evictExpiredSet(key)
	return int64(len(l.sets[key])), nil
}

// Expire sets an expiration on a set key.
func (l *LocalClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.expiry[key] = time.Now().Add(expiration)
	return nil
}

// Close is a no-op for the local client.
func (l *LocalClient) Close() error {
	return nil
}

func (l *LocalClient) evictExpiredSet(key string) {
	if deadline, ok := l.expiry[key]; ok && time.Now().After(deadline) {
		delete(l.sets, key)
		delete(l.expiry, key)
	}
}
