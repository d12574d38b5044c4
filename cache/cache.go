// Package cache memoizes per-query lookup results in Redis. Caching is
// optional; the tool runs without it when no Redis address is configured.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

// New creates a Redis client for the given address.
func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})
}

// Key derives a stable cache key from the query parts (name plus filters).
func Key(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return "voterlookup:query:" + hex.EncodeToString(sum[:16])
}

// Memoize caches any function result in Redis under key with the given TTL.
// Cache failures fall through to the function; a cold or broken cache only
// costs time.
func Memoize[T any](ctx context.Context, client *redis.Client, key string, ttl time.Duration, fn func() (T, error)) (T, error) {
	var result T

	cachedData, err := client.Get(ctx, key).Bytes()
	if err == nil {
		if jsonErr := json.Unmarshal(cachedData, &result); jsonErr == nil {
			return result, nil
		}
	}

	result, err = fn()
	if err != nil {
		return result, err
	}

	cacheData, _ := json.Marshal(result)
	client.Set(ctx, key, cacheData, ttl)

	return result, nil
}
