package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/client/config"
	"github.com/finance-tracker/client/internal/application/adapter"
	"github.com/finance-tracker/client/internal/domain/entity"
	domainerror "github.com/finance-tracker/client/internal/domain/error"
)

// Client is the HTTP client for the remote Finance Tracker API. Server
// records are normalized into the canonical entity shapes on the way in,
// with malformed fields coerced to safe defaults so a sloppy server payload
// never breaks the local agent.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a remote API client. The bearer token is injected per
// request by a transport wrapper reading the protected store through the
// token provider.
func NewClient(cfg *config.Remote, tokens adapter.TokenProvider) adapter.Gateway {
	return &Client{
		baseURL: cfg.BaseURL,
		http: &http.Client{
			Timeout: cfg.RequestTimeout,
			Transport: &bearerTransport{
				base:   http.DefaultTransport,
				tokens: tokens,
			},
		},
	}
}

// bearerTransport injects the Authorization header on every request and
// logs 401 responses. It never retries or clears the session; expiry is
// handled by the token provider's validity check.
type bearerTransport struct {
	base   http.RoundTripper
	tokens adapter.TokenProvider
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.tokens.Token(req.Context())
	if err == nil {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		slog.Warn("Remote API rejected the session token",
			"method", req.Method,
			"path", req.URL.Path,
		)
	}
	return resp, nil
}

// FetchProfile returns the authenticated user's profile from GET /auth/me.
func (c *Client) FetchProfile(ctx context.Context) (*entity.Profile, error) {
	profile := &entity.Profile{}
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// FetchTransactions returns the authoritative transaction list, normalized.
func (c *Client) FetchTransactions(ctx context.Context) ([]*entity.Transaction, error) {
	records := []serverTransaction{}
	if err := c.do(ctx, http.MethodGet, "/transactions", nil, &records); err != nil {
		return nil, err
	}

	transactions := make([]*entity.Transaction, 0, len(records))
	for _, record := range records {
		transactions = append(transactions, record.normalize())
	}
	return transactions, nil
}

// CreateTransaction posts a transaction and returns the server's version of
// it, carrying the server-assigned ID alongside the local placeholder.
func (c *Client) CreateTransaction(ctx context.Context, tx *entity.Transaction) (*entity.Transaction, error) {
	record := serverTransaction{}
	if err := c.do(ctx, http.MethodPost, "/transactions", newTransactionRequest(tx), &record); err != nil {
		return nil, err
	}

	confirmed := record.normalize()
	confirmed.Confirmation.LocalID = tx.Confirmation.LocalID
	return confirmed, nil
}

// ListClients returns the user's client directory.
func (c *Client) ListClients(ctx context.Context) ([]*entity.Client, error) {
	clients := []*entity.Client{}
	if err := c.do(ctx, http.MethodGet, "/clients", nil, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

// CreateClient registers a new client.
func (c *Client) CreateClient(ctx context.Context, client *entity.Client) (*entity.Client, error) {
	created := &entity.Client{}
	if err := c.do(ctx, http.MethodPost, "/clients", client, created); err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateClient replaces an existing client record.
func (c *Client) UpdateClient(ctx context.Context, client *entity.Client) (*entity.Client, error) {
	updated := &entity.Client{}
	if err := c.do(ctx, http.MethodPut, "/clients/"+client.ID, client, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteClient removes a client by ID.
func (c *Client) DeleteClient(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/clients/"+id, nil, nil)
}

// FetchAnalytics proxies a read-only analytics feed as raw JSON.
func (c *Client) FetchAnalytics(ctx context.Context, feed string) (json.RawMessage, error) {
	raw := json.RawMessage{}
	if err := c.do(ctx, http.MethodGet, "/analytics/"+feed, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// do executes one request against the remote API. Transport failures map to
// ErrRemoteUnavailable, 4xx responses to ErrRemoteRejected and 5xx to
// ErrRemoteUnavailable, always with the response body logged when present.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return domainerror.NewSyncError(
				domainerror.ErrCodeRemoteRejected,
				"failed to encode request body",
				err,
			)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return domainerror.NewSyncError(
			domainerror.ErrCodeRemoteRejected,
			"failed to build request",
			err,
		)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Warn("Remote API unreachable", "method", method, "path", path, "error", err)
		return domainerror.NewSyncError(
			domainerror.ErrCodeRemoteUnavailable,
			fmt.Sprintf("%s %s failed", method, path),
			domainerror.ErrRemoteUnavailable,
		)
	}
	defer resp.Body.Close()

	payload, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= http.StatusInternalServerError {
		slog.Warn("Remote API error response",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"body", string(payload),
		)
		return domainerror.NewSyncError(
			domainerror.ErrCodeRemoteUnavailable,
			fmt.Sprintf("%s %s returned %d", method, path, resp.StatusCode),
			domainerror.ErrRemoteUnavailable,
		)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		slog.Warn("Remote API rejected request",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"body", string(payload),
		)
		return domainerror.NewSyncError(
			domainerror.ErrCodeRemoteRejected,
			fmt.Sprintf("%s %s returned %d", method, path, resp.StatusCode),
			domainerror.ErrRemoteRejected,
		)
	}

	if out == nil || len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		slog.Warn("Malformed remote API response",
			"method", method,
			"path", path,
			"error", err,
		)
		return domainerror.NewSyncError(
			domainerror.ErrCodeRemoteRejected,
			fmt.Sprintf("%s %s returned a malformed body", method, path),
			domainerror.ErrRemoteRejected,
		)
	}
	return nil
}

// serverTransaction is the wire shape of a transaction record. The server
// names the description field "title" and is loose about field types, so
// amount and date are decoded leniently and coerced.
type serverTransaction struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Amount          json.RawMessage `json:"amount"`
	Type            string          `json:"type"`
	Currency        string          `json:"currency"`
	Category        string          `json:"category"`
	Status          string          `json:"status"`
	TransactionDate string          `json:"transactionDate"`
	CreatedAt       string          `json:"createdAt"`
	Metadata        map[string]any  `json:"metadata"`
	IsRecurring     bool            `json:"isRecurring"`
}

// transactionRequest is the POST /transactions body.
type transactionRequest struct {
	Title           string         `json:"title"`
	Amount          string         `json:"amount"`
	Type            string         `json:"type"`
	Currency        string         `json:"currency"`
	Category        string         `json:"category"`
	Status          string         `json:"status"`
	TransactionDate string         `json:"transactionDate"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	IsRecurring     bool           `json:"isRecurring"`
}

func newTransactionRequest(tx *entity.Transaction) transactionRequest {
	return transactionRequest{
		Title:           tx.Description,
		Amount:          tx.Amount.String(),
		Type:            string(tx.Type),
		Currency:        tx.Currency,
		Category:        tx.Category,
		Status:          string(tx.Status),
		TransactionDate: tx.TransactionDate.Format(time.RFC3339),
		Metadata:        tx.Metadata,
		IsRecurring:     tx.IsRecurring,
	}
}

// normalize coerces a server record into the canonical shape. Malformed
// fields degrade to safe defaults instead of failing the whole pull.
func (r serverTransaction) normalize() *entity.Transaction {
	now := time.Now().UTC()

	txType := entity.TransactionType(r.Type)
	if !entity.IsValidTransactionType(txType) {
		txType = entity.TransactionTypeExpense
	}
	status := entity.TransactionStatus(r.Status)
	if !entity.IsValidTransactionStatus(status) {
		status = entity.TransactionStatusConcluded
	}
	currency := r.Currency
	if currency == "" {
		currency = "BRL"
	}
	category := r.Category
	if category == "" {
		category = entity.DefaultCategory
	}

	amount := parseAmount(r.Amount)
	transactionDate := parseTime(r.TransactionDate, now)
	createdAt := parseTime(r.CreatedAt, now)

	return &entity.Transaction{
		Confirmation:    entity.Confirmation{ServerID: r.ID},
		Description:     r.Title,
		Amount:          amount,
		Type:            txType,
		Currency:        currency,
		Category:        category,
		Status:          status,
		TransactionDate: transactionDate,
		CreatedAt:       createdAt,
		Metadata:        r.Metadata,
		IsRecurring:     r.IsRecurring,
	}
}

// parseAmount accepts a JSON number or a numeric string; anything else is a
// zero amount. Negative magnitudes are folded to their absolute value, the
// sign always comes from the type field.
func parseAmount(raw json.RawMessage) decimal.Decimal {
	if len(raw) == 0 {
		return decimal.Zero
	}

	text := string(raw)
	if unquoted, err := strconv.Unquote(text); err == nil {
		text = unquoted
	}
	amount, err := decimal.NewFromString(text)
	if err != nil {
		slog.Warn("Non-numeric amount in server record, coercing to zero", "amount", string(raw))
		return decimal.Zero
	}
	return amount.Abs()
}

// parseTime accepts an RFC 3339 timestamp; anything else degrades to the
// fallback.
func parseTime(value string, fallback time.Time) time.Time {
	if value == "" {
		return fallback
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		slog.Warn("Malformed date in server record, coercing to now", "date", value)
		return fallback
	}
	return parsed.UTC()
}
