package persistence

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/finance-tracker/client/internal/application/adapter"
	"github.com/finance-tracker/client/internal/application/usecase/privacy"
	domainerror "github.com/finance-tracker/client/internal/domain/error"
)

// SecureKeySuffix is appended to a logical key to address its sensitive
// counterpart in the protected tier.
const SecureKeySuffix = "_secure"

// PartitionedStore persists JSON values split across the two store tiers:
// the public shape under <key> in the general tier, the sensitive shape
// under <key>_secure in the protected tier. The two writes are independent
// operations with no atomicity between them; a failure in between leaves
// either a public record whose secure counterpart never landed (tolerated by
// the combine step) or an orphaned secure record (inert, ignored on read).
type PartitionedStore struct {
	general   adapter.Store
	protected adapter.Store
}

// NewPartitionedStore composes the two tiers into a partition-aware store.
func NewPartitionedStore(general, protected adapter.Store) *PartitionedStore {
	return &PartitionedStore{
		general:   general,
		protected: protected,
	}
}

// SetJSON splits value and writes both shapes. Values without sensitive
// leaves are stored as-is in the general tier and the secure counterpart is
// cleared so a stale one cannot be zipped into a future read.
func (s *PartitionedStore) SetJSON(ctx context.Context, key string, value any) error {
	public, sensitive := privacy.Split(value)

	publicBytes, err := json.Marshal(public)
	if err != nil {
		return domainerror.NewStoreError(
			domainerror.ErrCodeStoreSerialization,
			"failed to encode public shape",
			err,
		)
	}
	if err := s.general.Set(ctx, key, publicBytes); err != nil {
		return err
	}

	if sensitive == nil {
		if err := s.protected.Remove(ctx, key+SecureKeySuffix); err != nil {
			slog.Warn("Failed to clear stale secure counterpart", "key", key, "error", err)
		}
		return nil
	}

	sensitiveBytes, err := json.Marshal(sensitive)
	if err != nil {
		return domainerror.NewStoreError(
			domainerror.ErrCodeStoreSerialization,
			"failed to encode sensitive shape",
			err,
		)
	}
	if err := s.protected.Set(ctx, key+SecureKeySuffix, sensitiveBytes); err != nil {
		// Public shape is already persisted; the read path tolerates the
		// missing counterpart. Surface the failure so the caller can log it.
		return err
	}
	return nil
}

// GetJSON reads and recombines the value under key. Absent or unreadable
// public data yields (nil, nil). A missing secure counterpart degrades to
// the public-only shape.
func (s *PartitionedStore) GetJSON(ctx context.Context, key string) (any, error) {
	publicBytes, err := s.general.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if publicBytes == nil {
		return nil, nil
	}

	var public any
	if err := json.Unmarshal(publicBytes, &public); err != nil {
		slog.Error("Corrupt public value in general store", "key", key, "error", err)
		return nil, nil
	}

	if !hasSecureCounterpart(public) {
		return public, nil
	}

	sensitiveBytes, err := s.protected.Get(ctx, key+SecureKeySuffix)
	if err != nil || sensitiveBytes == nil {
		return privacy.Combine(public, nil), nil
	}

	var sensitive any
	if err := json.Unmarshal(sensitiveBytes, &sensitive); err != nil {
		slog.Error("Corrupt sensitive value in protected store", "key", key, "error", err)
		return privacy.Combine(public, nil), nil
	}

	return privacy.Combine(public, sensitive), nil
}

// Remove deletes both shapes of the value under key.
func (s *PartitionedStore) Remove(ctx context.Context, key string) error {
	if err := s.general.Remove(ctx, key); err != nil {
		return err
	}
	return s.protected.Remove(ctx, key+SecureKeySuffix)
}

// hasSecureCounterpart reports whether the stored public shape carries a
// split marker anywhere, meaning a secure counterpart must be looked up.
func hasSecureCounterpart(value any) bool {
	switch v := value.(type) {
	case map[string]any:
		if _, tagged := v[privacy.MarkerHasSecureData]; tagged {
			return true
		}
		for _, child := range v {
			if hasSecureCounterpart(child) {
				return true
			}
		}
	case []any:
		for _, child := range v {
			if hasSecureCounterpart(child) {
				return true
			}
		}
	}
	return false
}
