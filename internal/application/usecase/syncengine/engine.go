// Package syncengine coordinates the bidirectional exchange with the remote
// API: draining the outbox first, then pulling the authoritative transaction
// list and folding it back into the local cache.
package syncengine

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/finance-tracker/client/internal/application/adapter"
	"github.com/finance-tracker/client/internal/application/usecase/localcache"
	"github.com/finance-tracker/client/internal/application/usecase/outbox"
	"github.com/finance-tracker/client/internal/domain/entity"
	domainerror "github.com/finance-tracker/client/internal/domain/error"
	"github.com/finance-tracker/client/internal/domain/event"
	"github.com/finance-tracker/client/internal/integration/persistence"
)

// profileKey is the store key for the cached user profile.
const profileKey = "profile"

// Status describes the engine's current and most recent sync state, for the
// local API's status endpoint and the sync-completed event payload.
type Status struct {
	Syncing    bool      `json:"syncing"`
	LastSyncAt time.Time `json:"lastSyncAt"`
	LastError  string    `json:"lastError,omitempty"`
	Pending    int       `json:"pending"`
}

// Engine runs sync cycles. A cycle always drains the outbox before pulling,
// so locally created transactions reach the server before the pulled list
// replaces the cache. At most one cycle runs at a time; an overlapping
// trigger is dropped, not queued.
type Engine struct {
	cache    *localcache.Cache
	box      *outbox.Outbox
	gateway  adapter.Gateway
	tokens   adapter.TokenProvider
	bus      *event.Bus
	store    *persistence.PartitionedStore
	interval time.Duration

	syncing atomic.Bool
	trigger chan struct{}

	mu         sync.RWMutex
	lastSyncAt time.Time
	lastError  string
}

// NewEngine wires a sync engine. interval is the periodic cycle cadence
// used by Run.
func NewEngine(
	cache *localcache.Cache,
	box *outbox.Outbox,
	gateway adapter.Gateway,
	tokens adapter.TokenProvider,
	bus *event.Bus,
	store *persistence.PartitionedStore,
	interval time.Duration,
) *Engine {
	return &Engine{
		cache:    cache,
		box:      box,
		gateway:  gateway,
		tokens:   tokens,
		bus:      bus,
		store:    store,
		interval: interval,
		trigger:  make(chan struct{}, 1),
	}
}

// Startup hydrates the local state and runs the first sync cycle. Every
// remote step is best-effort: an unreachable server leaves the agent running
// on cached data.
func (e *Engine) Startup(ctx context.Context) error {
	if err := e.cache.Load(ctx); err != nil {
		return err
	}
	if err := e.box.Load(ctx); err != nil {
		return err
	}

	e.refreshProfile(ctx)

	if err := e.SyncNow(ctx); err != nil {
		slog.Warn("Startup sync failed, continuing on cached data", "error", err)
	}
	return nil
}

// SyncNow runs one sync cycle synchronously. It fails fast with
// ErrSyncInProgress when a cycle is already running.
func (e *Engine) SyncNow(ctx context.Context) error {
	if !e.syncing.CompareAndSwap(false, true) {
		return domainerror.NewSyncError(
			domainerror.ErrCodeSyncInProgress,
			"a sync cycle is already running",
			domainerror.ErrSyncInProgress,
		)
	}
	defer e.syncing.Store(false)

	err := e.cycle(ctx)

	e.mu.Lock()
	e.lastSyncAt = time.Now().UTC()
	e.lastError = ""
	if err != nil {
		e.lastError = err.Error()
	}
	e.mu.Unlock()

	e.bus.Publish(event.TopicSyncCompleted, e.Status())
	return err
}

// Trigger requests an asynchronous sync cycle from the Run loop. It never
// blocks; a trigger raised while one is already queued is dropped.
func (e *Engine) Trigger() {
	select {
	case e.trigger <- struct{}{}:
	default:
	}
}

// Run drives periodic sync cycles until ctx is cancelled. Manual triggers
// fire a cycle immediately without resetting the periodic cadence.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	slog.Info("Sync loop started", "interval", e.interval.String())
	for {
		select {
		case <-ctx.Done():
			slog.Info("Sync loop stopped")
			return
		case <-ticker.C:
		case <-e.trigger:
		}

		if err := e.SyncNow(ctx); err != nil {
			slog.Warn("Sync cycle failed", "error", err)
		}
	}
}

// Syncing reports whether a cycle is currently running.
func (e *Engine) Syncing() bool {
	return e.syncing.Load()
}

// Status returns the current engine status.
func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Status{
		Syncing:    e.syncing.Load(),
		LastSyncAt: e.lastSyncAt,
		LastError:  e.lastError,
		Pending:    e.box.Pending(),
	}
}

// Profile returns the cached user profile, or (nil, nil) when none has been
// fetched yet.
func (e *Engine) Profile(ctx context.Context) (*entity.Profile, error) {
	tree, err := e.store.GetJSON(ctx, profileKey)
	if err != nil || tree == nil {
		return nil, err
	}
	profile := &entity.Profile{}
	if err := persistence.DecodeTree(tree, profile); err != nil {
		slog.Error("Corrupt cached profile", "error", err)
		return nil, nil
	}
	return profile, nil
}

// cycle performs one drain-then-pull exchange. A failed pull leaves the
// cache exactly as it was.
func (e *Engine) cycle(ctx context.Context) error {
	e.drain(ctx)

	list, err := e.gateway.FetchTransactions(ctx)
	if err != nil {
		slog.Warn("Pull failed, keeping cached transactions", "error", err)
		return err
	}
	return e.cache.ReplaceAll(ctx, list)
}

// drain replays the outbox when a usable session exists, patching each
// accepted transaction's cache entry in place with the server version.
func (e *Engine) drain(ctx context.Context) {
	if !e.tokens.HasValidSession(ctx) {
		slog.Info("No valid session, skipping outbox drain")
		return
	}

	results, err := e.box.Drain(ctx, e.gateway)
	if err != nil {
		slog.Error("Failed to persist drained outbox", "error", err)
	}
	for _, result := range results {
		if err := e.cache.Patch(ctx, result.LocalID, result.Confirmed); err != nil {
			slog.Warn("Confirmed transaction missing from cache",
				"localId", result.LocalID,
				"serverId", result.Confirmed.ID(),
				"error", err,
			)
		}
	}
}

// refreshProfile fetches and caches the user profile, best-effort.
func (e *Engine) refreshProfile(ctx context.Context) {
	profile, err := e.gateway.FetchProfile(ctx)
	if err != nil {
		slog.Warn("Profile fetch failed, keeping cached profile", "error", err)
		return
	}

	tree, err := persistence.EncodeTree(profile)
	if err != nil {
		slog.Error("Failed to encode profile", "error", err)
		return
	}
	if err := e.store.SetJSON(ctx, profileKey, tree); err != nil {
		slog.Error("Failed to cache profile", "error", err)
	}
}
