package adapter

import (
	"context"
	"encoding/json"

	"github.com/finance-tracker/client/internal/domain/entity"
)

// Gateway is the remote Finance Tracker API, consumed as a black box.
// Every method returns an explicit error instead of panicking so callers
// always branch on failure; the agent stays usable offline.
type Gateway interface {
	// FetchProfile returns the authenticated user's profile.
	FetchProfile(ctx context.Context) (*entity.Profile, error)

	// FetchTransactions returns the authoritative transaction list, already
	// normalized into the canonical shape with malformed fields coerced to
	// safe defaults.
	FetchTransactions(ctx context.Context) ([]*entity.Transaction, error)

	// CreateTransaction posts a transaction and returns the server's version
	// of it, including the server-assigned ID.
	CreateTransaction(ctx context.Context, tx *entity.Transaction) (*entity.Transaction, error)

	// ListClients returns the user's client directory.
	ListClients(ctx context.Context) ([]*entity.Client, error)

	// CreateClient registers a new client and returns the stored record.
	CreateClient(ctx context.Context, client *entity.Client) (*entity.Client, error)

	// UpdateClient replaces an existing client record.
	UpdateClient(ctx context.Context, client *entity.Client) (*entity.Client, error)

	// DeleteClient removes a client by ID.
	DeleteClient(ctx context.Context, id string) error

	// FetchAnalytics proxies a read-only analytics feed and returns the raw
	// JSON document. The agent does not interpret analytics payloads.
	FetchAnalytics(ctx context.Context, feed string) (json.RawMessage, error)
}
