package events

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/finance-tracker/client/internal/domain/entity"
	domainerror "github.com/finance-tracker/client/internal/domain/error"
	"github.com/finance-tracker/client/internal/integration/persistence"
)

type memoryStore struct {
	values map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: make(map[string][]byte)}
}

func (s *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	return s.values[key], nil
}

func (s *memoryStore) Set(_ context.Context, key string, value []byte) error {
	s.values[key] = value
	return nil
}

func (s *memoryStore) Remove(_ context.Context, key string) error {
	delete(s.values, key)
	return nil
}

func newAgendaFixture() (*Agenda, *memoryStore, *memoryStore) {
	general := newMemoryStore()
	protected := newMemoryStore()
	return NewAgenda(persistence.NewPartitionedStore(general, protected)), general, protected
}

func TestAgenda_GuestNamesLandInProtectedTier(t *testing.T) {
	agenda, general, protected := newAgendaFixture()
	ctx := context.Background()

	event := entity.NewEvent("Quarterly review", time.Now(), "bring statements", []entity.Guest{
		{Name: "Ana Souza", Phone: "+5511999990000"},
	})
	if err := agenda.Add(ctx, event); err != nil {
		t.Fatal(err)
	}

	if strings.Contains(string(general.values[eventsKey]), "Ana Souza") {
		t.Error("guest name leaked into the general tier")
	}
	if !strings.Contains(string(protected.values[eventsKey+persistence.SecureKeySuffix]), "Ana Souza") {
		t.Error("expected the guest name in the protected tier")
	}
}

func TestAgenda_AddSurvivesReload(t *testing.T) {
	general := newMemoryStore()
	protected := newMemoryStore()
	store := persistence.NewPartitionedStore(general, protected)
	ctx := context.Background()

	agenda := NewAgenda(store)
	event := entity.NewEvent("Tax deadline", time.Date(2026, 4, 30, 12, 0, 0, 0, time.UTC), "", nil)
	if err := agenda.Add(ctx, event); err != nil {
		t.Fatal(err)
	}

	reloaded := NewAgenda(store)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatal(err)
	}
	list := reloaded.List()
	if len(list) != 1 {
		t.Fatalf("expected 1 event after reload, got %d", len(list))
	}
	if list[0].ID != event.ID || list[0].Title != "Tax deadline" {
		t.Errorf("expected the event intact after reload, got %+v", list[0])
	}
}

func TestAgenda_RemoveDeletesAndPersists(t *testing.T) {
	agenda, _, _ := newAgendaFixture()
	ctx := context.Background()

	first := entity.NewEvent("First", time.Now(), "", nil)
	second := entity.NewEvent("Second", time.Now(), "", nil)
	if err := agenda.Add(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := agenda.Add(ctx, second); err != nil {
		t.Fatal(err)
	}

	if err := agenda.Remove(ctx, first.ID); err != nil {
		t.Fatal(err)
	}
	list := agenda.List()
	if len(list) != 1 || list[0].ID != second.ID {
		t.Errorf("expected only the second event, got %+v", list)
	}
}

func TestAgenda_RemoveUnknownIDFails(t *testing.T) {
	agenda, _, _ := newAgendaFixture()

	err := agenda.Remove(context.Background(), "missing")
	if !errors.Is(err, domainerror.ErrEventNotFound) {
		t.Errorf("expected ErrEventNotFound, got %v", err)
	}
}

func TestAgenda_LoadDegradesOnCorruptState(t *testing.T) {
	agenda, general, _ := newAgendaFixture()
	ctx := context.Background()

	general.values[eventsKey] = []byte(`{"not":"a list"}`)
	if err := agenda.Load(ctx); err != nil {
		t.Fatalf("expected corrupt state to degrade, got %v", err)
	}
	if len(agenda.List()) != 0 {
		t.Error("expected an empty agenda after corrupt load")
	}
}
