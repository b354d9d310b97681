// Package cache provides the result cache used for idempotent request
// replay. Entries carry a TTL; a memory store backs single-instance
// deployments and a Redis store backs shared ones.
package cache

import (
	"context"
	"time"
)

// Store is the cache behind idempotent replays.
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}
