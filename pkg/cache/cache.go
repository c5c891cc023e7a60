// Package cache provides the response cache client used by the router, with
// an in-process backend for single-node deployments and a Redis backend for
// shared ones.
//
// The cache is advisory: callers treat every error as a miss and keep going,
// so a failing backend degrades throughput, never correctness.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Client is the uniform cache contract. Implementations are safe for
// concurrent use.
type Client interface {
	// Get returns the value stored under key, or ErrMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. A zero ttl means the entry does not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
