package persistence

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/finance-tracker/client/internal/application/adapter"
	domainerror "github.com/finance-tracker/client/internal/domain/error"
	"github.com/finance-tracker/client/internal/integration/persistence/model"
)

// testSecureKey is 32 bytes, hex encoded.
const testSecureKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func newTestSecureDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.SecureItemModel{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func newTestSecureStore(t *testing.T) adapter.Store {
	t.Helper()

	store, err := NewSecureStore(newTestSecureDB(t), testSecureKey)
	if err != nil {
		t.Fatalf("failed to create secure store: %v", err)
	}
	return store
}

func TestNewSecureStore_RejectsBadKeys(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{name: "empty", key: ""},
		{name: "not hex", key: strings.Repeat("zz", 32)},
		{name: "too short", key: "0102"},
		{name: "too long", key: testSecureKey + "ff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSecureStore(newTestSecureDB(t), tt.key)
			if err == nil {
				t.Fatal("expected an error for invalid key")
			}
			if !errors.Is(err, domainerror.ErrSecureKeyInvalid) {
				t.Errorf("expected ErrSecureKeyInvalid, got %v", err)
			}
		})
	}
}

func TestSecureStore_RoundTrip(t *testing.T) {
	store := newTestSecureStore(t)
	ctx := context.Background()

	plaintext := []byte(`{"name":"Ana","cpf":"12345678900"}`)
	if err := store.Set(ctx, "clients_secure", plaintext); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	value, err := store.Get(ctx, "clients_secure")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(value) != string(plaintext) {
		t.Errorf("round trip mismatch: %s", value)
	}
}

func TestSecureStore_ValuesAreEncryptedAtRest(t *testing.T) {
	db := newTestSecureDB(t)
	store, err := NewSecureStore(db, testSecureKey)
	if err != nil {
		t.Fatal(err)
	}

	plaintext := []byte(`{"name":"Ana"}`)
	if err := store.Set(context.Background(), "k", plaintext); err != nil {
		t.Fatal(err)
	}

	var item model.SecureItemModel
	if err := db.Where("key = ?", "k").First(&item).Error; err != nil {
		t.Fatalf("expected a persisted row: %v", err)
	}
	if strings.Contains(string(item.Ciphertext), "Ana") {
		t.Error("plaintext leaked into the stored ciphertext")
	}
}

func TestSecureStore_AbsentKeyReturnsNilSentinel(t *testing.T) {
	store := newTestSecureStore(t)

	value, err := store.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("absent key must not error: %v", err)
	}
	if value != nil {
		t.Errorf("expected nil for absent key, got %s", value)
	}
}

func TestSecureStore_TamperedValueReadsAsAbsent(t *testing.T) {
	db := newTestSecureDB(t)
	store, err := NewSecureStore(db, testSecureKey)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := store.Set(ctx, "k", []byte("secret")); err != nil {
		t.Fatal(err)
	}

	// Flip the ciphertext so authentication fails.
	if err := db.Model(&model.SecureItemModel{}).
		Where("key = ?", "k").
		Update("ciphertext", []byte("corrupted")).Error; err != nil {
		t.Fatal(err)
	}

	value, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("tampered value must degrade, not error: %v", err)
	}
	if value != nil {
		t.Errorf("expected nil sentinel for tampered value, got %s", value)
	}
}

func TestSecureStore_SetOverwritesAndRemoveDeletes(t *testing.T) {
	store := newTestSecureStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "k", []byte("one")); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, "k", []byte("two")); err != nil {
		t.Fatal(err)
	}

	value, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if string(value) != "two" {
		t.Errorf("expected overwritten value, got %s", value)
	}

	if err := store.Remove(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	value, err = store.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if value != nil {
		t.Errorf("expected nil after remove, got %s", value)
	}
}

func TestLoadOrCreateKey_GeneratesOnceAndReuses(t *testing.T) {
	path := t.TempDir() + "/secure.key"

	first, err := LoadOrCreateKey(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewSecureStore(newTestSecureDB(t), first); err != nil {
		t.Fatalf("generated key must open a secure store: %v", err)
	}

	second, err := LoadOrCreateKey(path)
	if err != nil {
		t.Fatal(err)
	}
	if second != first {
		t.Error("expected the persisted key on the second run")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("expected owner-only key file permissions, got %v", info.Mode().Perm())
	}
}
