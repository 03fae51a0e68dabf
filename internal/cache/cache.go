package cache

import (
	"context"
	"time"
)

// Cache stores JSON-serializable values with a TTL. Implementations are
// best-effort: a miss and an absent backend look the same to callers.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
