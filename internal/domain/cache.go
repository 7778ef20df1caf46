package domain

import (
	"context"
	"time"
)

// CacheError represents an error originating from the cache.
type CacheError string

func (e CacheError) Error() string {
	return string(e)
}

// ErrCacheMiss is returned when a key is not found in the cache.
const ErrCacheMiss = CacheError("cache: key not found")

// Cache is a string key/value cache. Callers treat every error as a miss.
type Cache interface {
	// Get returns ErrCacheMiss if the key is not found.
	Get(ctx context.Context, key string) (string, error)
	// Set with a zero expiration keeps the item until deleted.
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	// Delete does not fail on missing keys.
	Delete(ctx context.Context, key ...string) error
	Ping(ctx context.Context) error
}
