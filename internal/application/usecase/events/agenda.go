// Package events keeps the user's scheduling agenda. Events live only on this
// device; guest names and phone numbers are PII, so the list is persisted
// through the partitioned store and split across the two tiers.
package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/finance-tracker/client/internal/domain/entity"
	domainerror "github.com/finance-tracker/client/internal/domain/error"
	"github.com/finance-tracker/client/internal/integration/persistence"
)

// eventsKey is the store key for the persisted agenda.
const eventsKey = "events"

// Agenda holds the scheduled events in memory and writes through to the
// partitioned store on every mutation.
type Agenda struct {
	store *persistence.PartitionedStore

	mu     sync.RWMutex
	events []*entity.Event
}

// NewAgenda wires an event agenda around the partitioned store.
func NewAgenda(store *persistence.PartitionedStore) *Agenda {
	return &Agenda{store: store, events: []*entity.Event{}}
}

// Load hydrates the agenda from the store. Missing or corrupt state degrades
// to an empty agenda.
func (a *Agenda) Load(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.events = []*entity.Event{}

	tree, err := a.store.GetJSON(ctx, eventsKey)
	if err != nil {
		slog.Warn("Failed to load agenda, starting empty", "error", err)
		return nil
	}
	if tree == nil {
		return nil
	}

	events := []*entity.Event{}
	if err := persistence.DecodeTree(tree, &events); err != nil {
		slog.Warn("Corrupt agenda state, starting empty", "error", err)
		return nil
	}
	a.events = events
	return nil
}

// List returns a copy of the agenda.
func (a *Agenda) List() []*entity.Event {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]*entity.Event, len(a.events))
	copy(out, a.events)
	return out
}

// Add appends an event to the agenda and persists the list.
func (a *Agenda) Add(ctx context.Context, event *entity.Event) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	next := append(append([]*entity.Event{}, a.events...), event)
	if err := a.persist(ctx, next); err != nil {
		return err
	}
	a.events = next
	return nil
}

// Remove deletes the event with the given id from the agenda and persists
// the list.
func (a *Agenda) Remove(ctx context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	index := -1
	for i, event := range a.events {
		if event.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return domainerror.NewSyncError(
			domainerror.ErrCodeEventNotFound,
			"event "+id+" is not in the agenda",
			domainerror.ErrEventNotFound,
		)
	}

	next := append([]*entity.Event{}, a.events[:index]...)
	next = append(next, a.events[index+1:]...)
	if err := a.persist(ctx, next); err != nil {
		return err
	}
	a.events = next
	return nil
}

// persist writes the agenda through the partitioned store.
func (a *Agenda) persist(ctx context.Context, events []*entity.Event) error {
	tree, err := persistence.EncodeTree(events)
	if err != nil {
		return domainerror.NewStoreError(
			domainerror.ErrCodeStoreSerialization,
			"failed to encode agenda",
			err,
		)
	}
	return a.store.SetJSON(ctx, eventsKey, tree)
}
