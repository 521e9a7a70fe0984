package persistence

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/nacl/secretbox"
	"gorm.io/gorm"

	"github.com/finance-tracker/client/internal/application/adapter"
	domainerror "github.com/finance-tracker/client/internal/domain/error"
	"github.com/finance-tracker/client/internal/integration/persistence/model"
)

const nonceSize = 24

// secureStore implements the protected tier of adapter.Store: a local sqlite
// table holding secretbox-sealed values. Slower than the general tier and
// sized for small payloads only.
type secureStore struct {
	db  *gorm.DB
	key [32]byte
}

// NewSecureStore creates the protected-tier store. hexKey must decode to
// exactly 32 bytes.
func NewSecureStore(db *gorm.DB, hexKey string) (adapter.Store, error) {
	raw, err := hex.DecodeString(hexKey)
	if err != nil || len(raw) != 32 {
		return nil, domainerror.NewStoreError(
			domainerror.ErrCodeSecureKeyInvalid,
			"invalid protected-tier key",
			domainerror.ErrSecureKeyInvalid,
		)
	}

	store := &secureStore{db: db}
	copy(store.key[:], raw)
	return store, nil
}

// LoadOrCreateKey returns the hex key stored at path, generating a fresh
// 32-byte key and persisting it with owner-only permissions on first run.
func LoadOrCreateKey(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err == nil {
		return strings.TrimSpace(string(raw)), nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", domainerror.NewStoreError(
			domainerror.ErrCodeSecureKeyInvalid,
			"failed to read protected-tier key file",
			err,
		)
	}

	var key [32]byte
	if _, err := rand.Read(key[:]); err != nil {
		return "", domainerror.NewStoreError(
			domainerror.ErrCodeSecureKeyInvalid,
			"failed to generate protected-tier key",
			err,
		)
	}
	encoded := hex.EncodeToString(key[:])
	if err := os.WriteFile(path, []byte(encoded), 0o600); err != nil {
		return "", domainerror.NewStoreError(
			domainerror.ErrCodeSecureKeyInvalid,
			"failed to persist protected-tier key file",
			err,
		)
	}
	slog.Info("Generated protected-tier key", "path", path)
	return encoded, nil
}

// Get returns the decrypted value under key. A missing row, a read failure
// or a value that no longer authenticates all yield (nil, nil): the caller
// sees "absent" rather than an exception.
func (s *secureStore) Get(ctx context.Context, key string) ([]byte, error) {
	var item model.SecureItemModel
	result := s.db.WithContext(ctx).Where("key = ?", key).First(&item)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("Protected store read failed", "key", key, "error", result.Error)
		return nil, nil
	}

	if len(item.Nonce) != nonceSize {
		slog.Error("Protected store value has invalid nonce", "key", key)
		return nil, nil
	}

	var nonce [nonceSize]byte
	copy(nonce[:], item.Nonce)

	plaintext, ok := secretbox.Open(nil, item.Ciphertext, &nonce, &s.key)
	if !ok {
		slog.Error("Protected store value failed authentication", "key", key)
		return nil, nil
	}
	return plaintext, nil
}

// Set seals value and upserts it under key.
func (s *secureStore) Set(ctx context.Context, key string, value []byte) error {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return domainerror.NewStoreError(
			domainerror.ErrCodeStoreUnavailable,
			"failed to generate nonce",
			err,
		)
	}

	item := model.SecureItemModel{
		Key:        key,
		Nonce:      nonce[:],
		Ciphertext: secretbox.Seal(nil, value, &nonce, &s.key),
		UpdatedAt:  time.Now().UTC(),
	}

	result := s.db.WithContext(ctx).Save(&item)
	if result.Error != nil {
		slog.Error("Protected store write failed", "key", key, "error", result.Error)
		return domainerror.NewStoreError(
			domainerror.ErrCodeStoreUnavailable,
			"failed to write to protected store",
			errors.Join(domainerror.ErrStoreUnavailable, result.Error),
		)
	}
	return nil
}

// Remove deletes the value under key.
func (s *secureStore) Remove(ctx context.Context, key string) error {
	result := s.db.WithContext(ctx).Where("key = ?", key).Delete(&model.SecureItemModel{})
	if result.Error != nil {
		slog.Error("Protected store delete failed", "key", key, "error", result.Error)
		return domainerror.NewStoreError(
			domainerror.ErrCodeStoreUnavailable,
			"failed to delete from protected store",
			errors.Join(domainerror.ErrStoreUnavailable, result.Error),
		)
	}
	return nil
}
