// Package cache is a JSON read-through cache on Redis. Every call is a
// no-op when Redis is not connected, so callers never branch on it.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/neubistro/bistro/config"
	"github.com/neubistro/bistro/pkg/metrics"
)

var RDB *redis.Client

// Connect initialises the Redis client and verifies it with a ping.
// On failure RDB stays nil and the cache degrades to a no-op.
func Connect(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		RDB = nil
		return fmt.Errorf("cache: redis ping: %w", err)
	}

	RDB = client
	return nil
}

// Close releases the Redis connection pool.
func Close() error {
	if RDB == nil {
		return nil
	}
	err := RDB.Close()
	RDB = nil
	return err
}

// Enabled reports whether a Redis connection is available.
func Enabled() bool { return RDB != nil }

// Get unmarshals the cached value for key into dest.
// Returns true on a hit, false on miss, error or no connection.
func Get(ctx context.Context, key string, dest interface{}) bool {
	if RDB == nil {
		return false
	}

	val, err := RDB.Get(ctx, key).Bytes()
	if err != nil || json.Unmarshal(val, dest) != nil {
		metrics.RecordCache(key, false)
		return false
	}

	metrics.RecordCache(key, true)
	return true
}

// Set stores value under key for ttl.
func Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if RDB == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal %s: %w", key, err)
	}

	return RDB.Set(ctx, key, data, ttl).Err()
}

// Forget removes one or more keys.
func Forget(ctx context.Context, keys ...string) error {
	if RDB == nil || len(keys) == 0 {
		return nil
	}
	return RDB.Del(ctx, keys...).Err()
}

// Remember returns the cached value for key, or calls fn, caches its result
// for ttl and returns it. Cache write failures do not fail the call.
func Remember[T any](ctx context.Context, key string, ttl time.Duration, fn func() (T, error)) (T, error) {
	var cached T
	if Get(ctx, key, &cached) {
		return cached, nil
	}

	fresh, err := fn()
	if err != nil {
		return fresh, err
	}

	_ = Set(ctx, key, fresh, ttl)
	return fresh, nil
}

// Generation returns the counter stored for name, or 0 when it is unset or
// Redis is not connected.
func Generation(ctx context.Context, name string) int64 {
	if RDB == nil {
		return 0
	}
	n, err := RDB.Get(ctx, generationKey(name)).Int64()
	if err != nil {
		return 0
	}
	return n
}

// Bump advances name's generation. Keys built by VersionedKey before the
// bump are never read again and age out on their TTL, so a late Set from a
// reader that started before an invalidation cannot resurrect old data.
func Bump(ctx context.Context, name string) error {
	if RDB == nil {
		return nil
	}
	return RDB.Incr(ctx, generationKey(name)).Err()
}

// VersionedKey is name suffixed with its current generation.
func VersionedKey(ctx context.Context, name string) string {
	return fmt.Sprintf("%s:%d", name, Generation(ctx, name))
}

func generationKey(name string) string { return name + ":gen" }
