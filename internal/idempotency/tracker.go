// Package idempotency provides once-per-session flags with explicit
// keys, backed by Redis.  Flows that must not run twice for the same
// logical session (double-clicking the submit button, re-posting the
// same draft) acquire a flag before starting and clear it on success,
// so a failed attempt can be retried after the TTL or an explicit
// clear.  The tracker is an injected collaborator, never ambient
// process state.
package idempotency

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Tracker marks and clears one-shot operation flags.
type Tracker interface {
	// Begin marks the (scope, key) flag and reports whether this
	// caller won it.  false means the operation is already in flight.
	Begin(ctx context.Context, scope, key string, ttl time.Duration) (bool, error)
	// Clear removes the flag so the operation may run again.
	Clear(ctx context.Context, scope, key string) error
}

// RedisTracker implements Tracker with SETNX + TTL.  The TTL bounds
// how long a crashed attempt can block retries.
type RedisTracker struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisTracker returns a tracker namespaced under "once".
func NewRedisTracker(rdb *redis.Client) *RedisTracker {
	return &RedisTracker{rdb: rdb, prefix: "once"}
}

func (t *RedisTracker) key(scope, key string) string {
	return t.prefix + ":" + scope + ":" + key
}

// Begin implements Tracker.  A nil client degrades to always-won so
// the flow keeps working without Redis, just without the dedupe.
func (t *RedisTracker) Begin(ctx context.Context, scope, key string, ttl time.Duration) (bool, error) {
	if t.rdb == nil {
		return true, nil
	}
	return t.rdb.SetNX(ctx, t.key(scope, key), "1", ttl).Result()
}

// Clear implements Tracker.
func (t *RedisTracker) Clear(ctx context.Context, scope, key string) error {
	if t.rdb == nil {
		return nil
	}
	return t.rdb.Del(ctx, t.key(scope, key)).Err()
}
