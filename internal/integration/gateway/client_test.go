package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/client/config"
	"github.com/finance-tracker/client/internal/application/adapter"
	"github.com/finance-tracker/client/internal/domain/entity"
	domainerror "github.com/finance-tracker/client/internal/domain/error"
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

func newTestClient(t *testing.T, handler http.Handler) (adapter.Gateway, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	tokens := NewTokenProvider(newMemoryStore())
	if err := tokens.SaveToken(context.Background(), "opaque-test-token"); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Remote{BaseURL: server.URL, RequestTimeout: 2 * time.Second}
	return NewClient(cfg, tokens), server
}

func TestClient_InjectsBearerToken(t *testing.T) {
	var authorization string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authorization = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"usr-1","name":"Ana","email":"ana@example.com"}`))
	}))

	profile, err := client.FetchProfile(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if authorization != "Bearer opaque-test-token" {
		t.Errorf("expected the bearer token on the request, got %q", authorization)
	}
	if profile.Name != "Ana" {
		t.Errorf("expected the profile decoded, got %+v", profile)
	}
}

func TestClient_NormalizesServerTransactions(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"srv-1","title":"groceries","amount":42.5,"type":"expense","currency":"BRL","category":"food","status":"concluded","transactionDate":"2026-08-01T10:00:00Z","createdAt":"2026-08-01T10:00:00Z","isRecurring":false},
			{"id":"srv-2","title":"salary","amount":"1000.00","type":"income","status":"concluded"},
			{"id":"srv-3","title":"broken","amount":"not-a-number","type":"teleport","status":"limbo","transactionDate":"yesterday-ish"}
		]`))
	}))

	list, err := client.FetchTransactions(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(list))
	}

	clean := list[0]
	if clean.ID() != "srv-1" || clean.Description != "groceries" || clean.Amount.String() != "42.5" {
		t.Errorf("expected the well-formed record decoded as-is, got %+v", clean)
	}
	if clean.IsLocalOnly() {
		t.Error("expected a pulled record to be server-confirmed")
	}

	quoted := list[1]
	if quoted.Amount.String() != "1000" && quoted.Amount.String() != "1000.00" {
		t.Errorf("expected the quoted amount parsed, got %s", quoted.Amount)
	}
	if quoted.Currency != "BRL" || quoted.Category != entity.DefaultCategory {
		t.Errorf("expected missing currency and category defaulted, got %+v", quoted)
	}

	broken := list[2]
	if !broken.Amount.IsZero() {
		t.Errorf("expected the malformed amount coerced to zero, got %s", broken.Amount)
	}
	if broken.Type != entity.TransactionTypeExpense || broken.Status != entity.TransactionStatusConcluded {
		t.Errorf("expected invalid type and status coerced, got %s/%s", broken.Type, broken.Status)
	}
	if time.Since(broken.TransactionDate) > time.Minute {
		t.Errorf("expected the malformed date coerced to now, got %s", broken.TransactionDate)
	}
}

func TestClient_CreateKeepsLocalID(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected a POST, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"srv-99","title":"coffee","amount":10,"type":"expense","status":"concluded"}`))
	}))

	local := entity.NewLocalTransaction("coffee", decimal.NewFromInt(10), entity.TransactionTypeExpense, "BRL", "other", entity.TransactionStatusConcluded, time.Now(), nil, false)
	confirmed, err := client.CreateTransaction(context.Background(), local)
	if err != nil {
		t.Fatal(err)
	}

	if confirmed.Confirmation.ServerID != "srv-99" {
		t.Errorf("expected the server-assigned ID, got %q", confirmed.Confirmation.ServerID)
	}
	if confirmed.Confirmation.LocalID != local.Confirmation.LocalID {
		t.Error("expected the local placeholder carried on the confirmed version")
	}
}

func TestClient_ErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "server error maps to unavailable", status: http.StatusInternalServerError, wantErr: domainerror.ErrRemoteUnavailable},
		{name: "client error maps to rejected", status: http.StatusUnprocessableEntity, wantErr: domainerror.ErrRemoteRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))

			_, err := client.FetchTransactions(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestClient_UnreachableServerMapsToUnavailable(t *testing.T) {
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := client.FetchTransactions(context.Background())
	if !errors.Is(err, domainerror.ErrRemoteUnavailable) {
		t.Errorf("expected ErrRemoteUnavailable, got %v", err)
	}
}
