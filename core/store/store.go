// Package store provides the TTL-bounded JSON key/value store that holds all
// conversational state. Everything the bot remembers between updates lives
// here; the process itself is stateless.
package store

import (
	"context"
	"time"
)

// Store is the key/value interface shared by all backends. Values are
// serialized as JSON; a zero TTL means no expiry.
type Store interface {
	// GetJSON decodes the value at key into dst and reports whether a live
	// (non-expired) record was found.
	GetJSON(ctx context.Context, key string, dst any) (bool, error)

	// SetJSON writes value at key with the given TTL.
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error

	// Delete removes the record at key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// SetIfAbsent atomically creates the record when no live record exists at
	// key. It reports true exactly for the writer that created the record.
	// This is the only primitive with cross-update atomicity guarantees.
	SetIfAbsent(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
}

// Retention periods for the persisted entities.
const (
	// TTLDedup bounds the window in which a redelivered update is dropped.
	TTLDedup = 120 * time.Second
	// TTLLang keeps a user's language preference.
	TTLLang = 365 * 24 * time.Hour
	// TTLFlow bounds flow and pending markers; an abandoned "send one
	// message" prompt silently expires after this.
	TTLFlow = 15 * time.Minute
	// TTLTicket bounds an open ticket and its thread mapping.
	TTLTicket = 14 * 24 * time.Hour
)
