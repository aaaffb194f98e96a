package store

import (
	"context"
	"time"
)

// Dedup is the idempotency gate for at-least-once webhook deliveries. It has
// no fallback: when the store is down the error propagates and the update
// fails hard (the transport still acks, so Telegram does not retry-storm).
type Dedup struct {
	store Store
	keys  Keys
	ttl   time.Duration
}

// NewDedup builds a gate with the standard 120s window.
func NewDedup(s Store, keys Keys) *Dedup {
	return &Dedup{store: s, keys: keys, ttl: TTLDedup}
}

// Claim reports true exactly once per update id within the dedup window.
// Callers must skip processing when it returns false.
func (d *Dedup) Claim(ctx context.Context, updateID int) (bool, error) {
	return d.store.SetIfAbsent(ctx, d.keys.Dedup(updateID), 1, d.ttl)
}
