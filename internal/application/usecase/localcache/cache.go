// Package localcache holds the best-known local view of the user's
// transactions and the running balance. Every mutation is written through to
// the partitioned store before it returns, and observers are notified on the
// event bus only after the persisted write succeeds.
package localcache

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/client/internal/domain/entity"
	domainerror "github.com/finance-tracker/client/internal/domain/error"
	"github.com/finance-tracker/client/internal/domain/event"
	"github.com/finance-tracker/client/internal/integration/persistence"
)

// Store keys for the cached collections.
const (
	transactionsKey = "transactions"
	balanceKey      = "balance"
)

// Cache is the local transaction cache. The balance is maintained
// incrementally at write time and only folded back to ground truth when a
// full server list replaces the cache.
type Cache struct {
	store        *persistence.PartitionedStore
	bus          *event.Bus
	baseCurrency string

	mu           sync.RWMutex
	transactions []*entity.Transaction
	balance      decimal.Decimal
}

// NewCache creates an empty cache. Call Load to hydrate it from the store.
func NewCache(store *persistence.PartitionedStore, bus *event.Bus, baseCurrency string) *Cache {
	return &Cache{
		store:        store,
		bus:          bus,
		baseCurrency: baseCurrency,
		transactions: []*entity.Transaction{},
		balance:      decimal.Zero,
	}
}

// Load hydrates the cache from the store. Corrupt or absent state degrades
// to an empty cache; the next successful sync repopulates it.
func (c *Cache) Load(ctx context.Context) error {
	transactions := []*entity.Transaction{}

	tree, err := c.store.GetJSON(ctx, transactionsKey)
	if err != nil {
		slog.Error("Failed to load transaction cache", "error", err)
	} else if tree != nil {
		if err := persistence.DecodeTree(tree, &transactions); err != nil {
			slog.Error("Corrupt transaction cache, starting empty", "error", err)
			transactions = []*entity.Transaction{}
		}
	}

	balance := decimal.Zero
	balanceTree, err := c.store.GetJSON(ctx, balanceKey)
	if err != nil {
		slog.Error("Failed to load cached balance", "error", err)
	} else if raw, ok := balanceTree.(string); ok {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			slog.Error("Corrupt cached balance, starting at zero", "value", raw, "error", err)
		} else {
			balance = parsed
		}
	}

	c.mu.Lock()
	c.transactions = transactions
	c.balance = balance
	c.mu.Unlock()

	c.bus.Publish(event.TopicTransactionsChanged, c.Snapshot())
	c.bus.Publish(event.TopicBalanceChanged, balance)

	slog.Info("Transaction cache hydrated",
		"transactions", len(transactions),
		"balance", balance.String(),
	)
	return nil
}

// ReplaceAll wholesale-replaces the cached list with the authoritative
// server list and recomputes the balance from it. Used after a successful
// pull-and-reconcile; this is a replace, not a merge.
func (c *Cache) ReplaceAll(ctx context.Context, transactions []*entity.Transaction) error {
	if transactions == nil {
		transactions = []*entity.Transaction{}
	}

	balance := decimal.Zero
	for _, tx := range transactions {
		if tx.MovesBalance(c.baseCurrency) {
			balance = balance.Add(tx.SignedAmount())
		}
	}

	c.mu.Lock()
	c.transactions = transactions
	c.balance = balance
	c.mu.Unlock()

	if err := c.persistTransactions(ctx); err != nil {
		return err
	}
	if err := c.persistBalance(ctx); err != nil {
		return err
	}

	c.bus.Publish(event.TopicTransactionsChanged, c.Snapshot())
	c.bus.Publish(event.TopicBalanceChanged, balance)
	return nil
}

// Prepend inserts a transaction at the head of the list (optimistic write).
func (c *Cache) Prepend(ctx context.Context, tx *entity.Transaction) error {
	c.mu.Lock()
	c.transactions = append([]*entity.Transaction{tx}, c.transactions...)
	c.mu.Unlock()

	if err := c.persistTransactions(ctx); err != nil {
		return err
	}

	c.bus.Publish(event.TopicTransactionsChanged, c.Snapshot())
	return nil
}

// Apply performs the full optimistic local write: prepend the transaction
// and, when it qualifies, move the balance by its signed amount.
func (c *Cache) Apply(ctx context.Context, tx *entity.Transaction) error {
	if err := c.Prepend(ctx, tx); err != nil {
		return err
	}
	if !tx.MovesBalance(c.baseCurrency) {
		return nil
	}
	return c.AdjustBalance(ctx, tx.SignedAmount())
}

// Patch overwrites the transaction identified by id with the confirmed
// server version, preserving its position in the list.
func (c *Cache) Patch(ctx context.Context, id string, confirmed *entity.Transaction) error {
	c.mu.Lock()
	index := -1
	for i, tx := range c.transactions {
		if tx.ID() == id {
			index = i
			break
		}
	}
	if index == -1 {
		c.mu.Unlock()
		return domainerror.NewSyncError(
			domainerror.ErrCodeTransactionNotFound,
			"transaction not in local cache",
			domainerror.ErrTransactionNotFound,
		)
	}
	c.transactions[index] = confirmed
	c.mu.Unlock()

	if err := c.persistTransactions(ctx); err != nil {
		return err
	}

	c.bus.Publish(event.TopicTransactionsChanged, c.Snapshot())
	return nil
}

// AdjustBalance moves the balance by delta. The adjustment is incremental:
// a missed or doubled delta skews the cached value until the next full
// server resync recomputes it.
func (c *Cache) AdjustBalance(ctx context.Context, delta decimal.Decimal) error {
	c.mu.Lock()
	c.balance = c.balance.Add(delta)
	balance := c.balance
	c.mu.Unlock()

	if err := c.persistBalance(ctx); err != nil {
		return err
	}

	c.bus.Publish(event.TopicBalanceChanged, balance)
	return nil
}

// Snapshot returns a copy of the cached transaction list.
func (c *Cache) Snapshot() []*entity.Transaction {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot := make([]*entity.Transaction, len(c.transactions))
	copy(snapshot, c.transactions)
	return snapshot
}

// Balance returns the cached balance.
func (c *Cache) Balance() decimal.Decimal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.balance
}

// Find returns the cached transaction with the given canonical ID.
func (c *Cache) Find(id string) (*entity.Transaction, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, tx := range c.transactions {
		if tx.ID() == id {
			return tx, true
		}
	}
	return nil, false
}

// persistTransactions writes the current list through the partitioned store.
// The list is copied under the lock first; Patch rewrites slots in place, so
// encoding the live slice would race with a concurrent patch.
func (c *Cache) persistTransactions(ctx context.Context) error {
	tree, err := persistence.EncodeTree(c.Snapshot())
	if err != nil {
		return domainerror.NewStoreError(
			domainerror.ErrCodeStoreSerialization,
			"failed to encode transaction cache",
			err,
		)
	}
	return c.store.SetJSON(ctx, transactionsKey, tree)
}

// persistBalance writes the current balance through the partitioned store.
func (c *Cache) persistBalance(ctx context.Context) error {
	c.mu.RLock()
	balance := c.balance
	c.mu.RUnlock()

	return c.store.SetJSON(ctx, balanceKey, balance.String())
}

