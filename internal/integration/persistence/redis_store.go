// Package persistence implements the keyed store tiers backing the local
// caches. The general tier is fast and unprotected; the protected tier is
// encrypted at rest and intended for small PII payloads.
package persistence

import (
	"context"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/finance-tracker/client/internal/application/adapter"
	domainerror "github.com/finance-tracker/client/internal/domain/error"
)

// redisStore implements the general tier of adapter.Store over Redis.
type redisStore struct {
	client *redis.Client
}

// NewRedisStore creates the general-tier store backed by the given Redis client.
func NewRedisStore(client *redis.Client) adapter.Store {
	return &redisStore{client: client}
}

// Get returns the raw value under key, or (nil, nil) when absent.
func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		slog.Error("General store read failed", "key", key, "error", err)
		return nil, domainerror.NewStoreError(
			domainerror.ErrCodeStoreUnavailable,
			"failed to read from general store",
			errors.Join(domainerror.ErrStoreUnavailable, err),
		)
	}
	return value, nil
}

// Set durably writes value under key with no expiration.
func (s *redisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		slog.Error("General store write failed", "key", key, "error", err)
		return domainerror.NewStoreError(
			domainerror.ErrCodeStoreUnavailable,
			"failed to write to general store",
			errors.Join(domainerror.ErrStoreUnavailable, err),
		)
	}
	return nil
}

// Remove deletes the value under key. Removing an absent key is not an error.
func (s *redisStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		slog.Error("General store delete failed", "key", key, "error", err)
		return domainerror.NewStoreError(
			domainerror.ErrCodeStoreUnavailable,
			"failed to delete from general store",
			errors.Join(domainerror.ErrStoreUnavailable, err),
		)
	}
	return nil
}
