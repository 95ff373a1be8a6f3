// Package cache stores raw analyzer output so that repeated sentences are not
// analyzed twice.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by a Store when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Backend names accepted by the configuration.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Default cache settings.
const (
	DefaultSize   = 4096
	DefaultTTL    = 24 * time.Hour
	DefaultPrefix = "ichiran:"
)

// Store is a string key/value store with expiry.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Name identifies the backend in logs and metrics.
	Name() string
}
