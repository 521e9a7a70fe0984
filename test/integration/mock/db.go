package mock

import (
	"github.com/finance-tracker/client/config"
	"github.com/finance-tracker/client/internal/infra/db"
	"github.com/finance-tracker/client/internal/integration/persistence/model"
)

// SecureKey is a fixed 32-byte hex key for the protected tier in tests.
const SecureKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

// NewDatabase opens an in-memory protected-tier database with the schema
// migrated.
func NewDatabase() (*db.Database, error) {
	database, err := db.NewSqliteConnection(&config.Secure{
		DatabasePath: ":memory:",
		Key:          SecureKey,
	})
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(&model.SecureItemModel{}); err != nil {
		return nil, err
	}
	return database, nil
}
