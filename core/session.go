package core

import (
	"context"
	"time"
)

// SessionStore is a key-value cache with per-key expiry. The auth
// service is its only consumer; keys are "auth_<token>" and values are
// user ids.
type SessionStore interface {
	// Set stores value under key for the given lifetime.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Get returns the value stored under key, or ErrNotFound on a miss
	// (including keys that have expired).
	Get(ctx context.Context, key string) (string, error)

	// Del removes key. Deleting an absent key is not an error.
	Del(ctx context.Context, key string) error

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
