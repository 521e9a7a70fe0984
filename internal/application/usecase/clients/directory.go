// Package clients keeps a local copy of the user's client directory so the
// listing works offline. The directory is PII-heavy (names, CPFs, phone
// numbers, emails), so every cached write goes through the partitioned store
// and lands split across the two tiers.
package clients

import (
	"context"
	"log/slog"

	"github.com/finance-tracker/client/internal/application/adapter"
	"github.com/finance-tracker/client/internal/domain/entity"
	"github.com/finance-tracker/client/internal/integration/persistence"
)

// clientsKey is the store key for the cached directory.
const clientsKey = "clients"

// Directory serves the client list remote-first, falling back to the cached
// copy when the server is unreachable. Mutations are passthrough writes; the
// cache is refreshed after every successful remote read.
type Directory struct {
	gateway adapter.Gateway
	store   *persistence.PartitionedStore
}

// NewDirectory wires a client directory.
func NewDirectory(gateway adapter.Gateway, store *persistence.PartitionedStore) *Directory {
	return &Directory{gateway: gateway, store: store}
}

// List returns the client directory. The remote list wins and refreshes the
// cache; when the server is unreachable the cached copy is served instead,
// and the remote error is only surfaced when there is no cache to fall
// back on.
func (d *Directory) List(ctx context.Context) ([]*entity.Client, error) {
	remote, err := d.gateway.ListClients(ctx)
	if err == nil {
		d.cacheList(ctx, remote)
		return remote, nil
	}
	slog.Warn("Client list fetch failed, serving cached directory", "error", err)

	cached, cacheErr := d.cachedList(ctx)
	if cacheErr != nil || cached == nil {
		return nil, err
	}
	return cached, nil
}

// Create registers a client on the server and refreshes the cached
// directory.
func (d *Directory) Create(ctx context.Context, client *entity.Client) (*entity.Client, error) {
	created, err := d.gateway.CreateClient(ctx, client)
	if err != nil {
		return nil, err
	}
	d.refresh(ctx)
	return created, nil
}

// Update replaces a client record on the server and refreshes the cached
// directory.
func (d *Directory) Update(ctx context.Context, client *entity.Client) (*entity.Client, error) {
	updated, err := d.gateway.UpdateClient(ctx, client)
	if err != nil {
		return nil, err
	}
	d.refresh(ctx)
	return updated, nil
}

// Delete removes a client on the server and refreshes the cached directory.
func (d *Directory) Delete(ctx context.Context, id string) error {
	if err := d.gateway.DeleteClient(ctx, id); err != nil {
		return err
	}
	d.refresh(ctx)
	return nil
}

// refresh re-reads the remote list to keep the cache current, best-effort.
func (d *Directory) refresh(ctx context.Context) {
	remote, err := d.gateway.ListClients(ctx)
	if err != nil {
		slog.Warn("Client directory refresh failed, cache left stale", "error", err)
		return
	}
	d.cacheList(ctx, remote)
}

// cacheList writes the directory through the partitioned store.
func (d *Directory) cacheList(ctx context.Context, list []*entity.Client) {
	if list == nil {
		list = []*entity.Client{}
	}
	tree, err := persistence.EncodeTree(list)
	if err != nil {
		slog.Error("Failed to encode client directory", "error", err)
		return
	}
	if err := d.store.SetJSON(ctx, clientsKey, tree); err != nil {
		slog.Error("Failed to cache client directory", "error", err)
	}
}

// cachedList reads the directory back from the store. Corrupt state is
// treated as absent.
func (d *Directory) cachedList(ctx context.Context) ([]*entity.Client, error) {
	tree, err := d.store.GetJSON(ctx, clientsKey)
	if err != nil || tree == nil {
		return nil, err
	}
	list := []*entity.Client{}
	if err := persistence.DecodeTree(tree, &list); err != nil {
		slog.Error("Corrupt cached client directory", "error", err)
		return nil, nil
	}
	return list, nil
}
