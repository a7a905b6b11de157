package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Store backed by a shared Redis instance, so the cached global
// average survives restarts and is shared across replicas.
type Redis struct {
	client *redis.Client
	addr   string
}

// NewRedis creates a Redis-backed Store with connection pooling and verifies
// connectivity before returning.
func NewRedis(addr, password string, db int) (*Redis, error) {
	slog.Info("Initializing Redis cache", "addr", addr, "db", db)

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
		PoolTimeout:  4 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	slog.Info("Redis cache connected", "addr", addr)

	return &Redis{client: client, addr: addr}, nil
}

// Client returns the underlying Redis client, shared with the rate limiter.
func (r *Redis) Client() *redis.Client {
	return r.client
}

// Get retrieves a key; a Redis nil reply is a plain miss, anything else is a
// backend error.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get %q: %w", key, err)
	}
	return data, true, nil
}

// Set stores a key with the given TTL.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	slog.Info("Closing Redis cache connection")
	return r.client.Close()
}
