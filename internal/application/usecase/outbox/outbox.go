// Package outbox queues transactions created while the remote API is
// unreachable and replays them in order once connectivity returns.
package outbox

import (
	"context"
	"log/slog"
	"sync"

	"github.com/finance-tracker/client/internal/domain/entity"
	"github.com/finance-tracker/client/internal/integration/persistence"
)

// outboxKey is the store key for the persisted queue.
const outboxKey = "outbox"

// Sender delivers a single queued transaction to the server. It is the
// only slice of the remote gateway the outbox needs.
type Sender interface {
	CreateTransaction(ctx context.Context, tx *entity.Transaction) (*entity.Transaction, error)
}

// DrainResult pairs a delivered transaction's local placeholder ID with
// the server-confirmed version, so the caller can patch its cache in place.
type DrainResult struct {
	LocalID   string
	Confirmed *entity.Transaction
}

// Outbox is a FIFO queue of unsynced transactions, written through to the
// partitioned store on every mutation. Entries are only removed after the
// server accepts them; a failed delivery keeps the entry queued for the
// next drain, without a retry budget.
type Outbox struct {
	store *persistence.PartitionedStore

	mu    sync.Mutex
	queue []*entity.Transaction
}

// NewOutbox creates an empty outbox. Call Load to hydrate it from the store.
func NewOutbox(store *persistence.PartitionedStore) *Outbox {
	return &Outbox{
		store: store,
		queue: []*entity.Transaction{},
	}
}

// Load hydrates the queue from the store. Corrupt or absent state degrades
// to an empty queue.
func (o *Outbox) Load(ctx context.Context) error {
	queue := []*entity.Transaction{}

	tree, err := o.store.GetJSON(ctx, outboxKey)
	if err != nil {
		slog.Error("Failed to load outbox", "error", err)
	} else if tree != nil {
		if err := persistence.DecodeTree(tree, &queue); err != nil {
			slog.Error("Corrupt outbox, starting empty", "error", err)
			queue = []*entity.Transaction{}
		}
	}

	o.mu.Lock()
	o.queue = queue
	o.mu.Unlock()

	slog.Info("Outbox hydrated", "pending", len(queue))
	return nil
}

// Enqueue appends a transaction to the tail of the queue and persists the
// new queue before returning.
func (o *Outbox) Enqueue(ctx context.Context, tx *entity.Transaction) error {
	o.mu.Lock()
	o.queue = append(o.queue, tx)
	o.mu.Unlock()

	return o.persist(ctx)
}

// Pending returns the number of queued transactions.
func (o *Outbox) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.queue)
}

// Snapshot returns a copy of the queued transactions in delivery order.
func (o *Outbox) Snapshot() []*entity.Transaction {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]*entity.Transaction{}, o.queue...)
}

// Drain attempts to deliver every queued transaction in FIFO order, one at
// a time. Accepted entries leave the queue; rejected or undeliverable ones
// stay queued in their original relative order for the next drain. Drain
// returns the accepted deliveries so the caller can reconcile its cache.
// A nil sender or an empty queue is a no-op.
func (o *Outbox) Drain(ctx context.Context, sender Sender) ([]DrainResult, error) {
	if sender == nil {
		return nil, nil
	}

	o.mu.Lock()
	pending := append([]*entity.Transaction{}, o.queue...)
	o.mu.Unlock()

	if len(pending) == 0 {
		return nil, nil
	}

	slog.Info("Draining outbox", "pending", len(pending))

	accepted := []DrainResult{}
	remaining := []*entity.Transaction{}
	for _, tx := range pending {
		confirmed, err := sender.CreateTransaction(ctx, tx)
		if err != nil {
			slog.Warn("Outbox delivery failed, keeping entry queued",
				"localId", tx.Confirmation.LocalID,
				"error", err,
			)
			remaining = append(remaining, tx)
			continue
		}
		accepted = append(accepted, DrainResult{
			LocalID:   tx.Confirmation.LocalID,
			Confirmed: confirmed,
		})
	}

	// Entries enqueued while the deliveries were in flight sit past the
	// snapshot length; carry them over so they are never dropped.
	o.mu.Lock()
	o.queue = append(remaining, o.queue[len(pending):]...)
	o.mu.Unlock()

	if err := o.persist(ctx); err != nil {
		return accepted, err
	}

	slog.Info("Outbox drain finished",
		"accepted", len(accepted),
		"remaining", len(remaining),
	)
	return accepted, nil
}

// persist writes the current queue through to the store.
func (o *Outbox) persist(ctx context.Context) error {
	o.mu.Lock()
	queue := append([]*entity.Transaction{}, o.queue...)
	o.mu.Unlock()

	tree, err := persistence.EncodeTree(queue)
	if err != nil {
		return err
	}
	return o.store.SetJSON(ctx, outboxKey, tree)
}
