// Package transactions implements the optimistic local write path: record
// locally first, then try the server, and queue for later when it fails.
package transactions

import (
	"context"
	"log/slog"

	"github.com/finance-tracker/client/internal/application/adapter"
	"github.com/finance-tracker/client/internal/application/usecase/localcache"
	"github.com/finance-tracker/client/internal/application/usecase/outbox"
	"github.com/finance-tracker/client/internal/domain/entity"
)

// Writer records new transactions. The local write always succeeds; server
// acceptance upgrades the record in place and server failure parks it in
// the outbox for the next drain.
type Writer struct {
	cache   *localcache.Cache
	box     *outbox.Outbox
	gateway adapter.Gateway
	tokens  adapter.TokenProvider
}

// NewWriter wires the transaction write path.
func NewWriter(
	cache *localcache.Cache,
	box *outbox.Outbox,
	gateway adapter.Gateway,
	tokens adapter.TokenProvider,
) *Writer {
	return &Writer{
		cache:   cache,
		box:     box,
		gateway: gateway,
		tokens:  tokens,
	}
}

// Record applies the transaction to the local cache and balance, then
// attempts immediate delivery. The returned transaction is the
// server-confirmed version when delivery succeeded and the local pending
// version otherwise; the error is never the delivery failure, only a local
// persistence failure.
func (w *Writer) Record(ctx context.Context, tx *entity.Transaction) (*entity.Transaction, error) {
	if err := w.cache.Apply(ctx, tx); err != nil {
		return nil, err
	}

	if !w.tokens.HasValidSession(ctx) {
		slog.Info("No valid session, queueing transaction", "localId", tx.Confirmation.LocalID)
		return tx, w.box.Enqueue(ctx, tx)
	}

	confirmed, err := w.gateway.CreateTransaction(ctx, tx)
	if err != nil {
		slog.Warn("Immediate delivery failed, queueing transaction",
			"localId", tx.Confirmation.LocalID,
			"error", err,
		)
		return tx, w.box.Enqueue(ctx, tx)
	}

	if err := w.cache.Patch(ctx, tx.ID(), confirmed); err != nil {
		slog.Warn("Failed to patch confirmed transaction", "localId", tx.ID(), "error", err)
	}
	return confirmed, nil
}
