// Package adapter defines the interfaces the application layer depends on.
// Implementations live in the integration layer.
package adapter

import "context"

// Store is a keyed persistent store. Implementations differ in durability
// and confidentiality guarantees: the general tier is fast and unprotected,
// the protected tier is encrypted at rest and sized for small payloads.
type Store interface {
	// Get returns the raw value stored under key, or (nil, nil) when the key
	// is absent or the stored value is unreadable.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set durably writes value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes the value stored under key. Removing an absent key is
	// not an error.
	Remove(ctx context.Context, key string) error
}

// TokenProvider exposes the bearer token for the remote API.
type TokenProvider interface {
	// Token returns the current bearer token, or an error when no usable
	// session exists.
	Token(ctx context.Context) (string, error)

	// HasValidSession reports whether a non-expired token is available.
	// The sync engine skips outbox drains while this is false.
	HasValidSession(ctx context.Context) bool
}
