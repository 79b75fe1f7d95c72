package cache

import (
	"context"
	"time"
)

// Cache is the narrow key-value contract the services depend on.
// Implementations: Redis in production, Memory in tests.
type Cache interface {
	// SetNX stores value only when key is absent and reports whether it did.
	SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)

	// Delete removes keys; missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	// Ping checks the connection.
	Ping(ctx context.Context) error
}
