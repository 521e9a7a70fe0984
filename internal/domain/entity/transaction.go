// Package entity defines the core business entities for the domain layer.
package entity

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of a transaction (expense or income).
type TransactionType string

const (
	TransactionTypeExpense TransactionType = "expense"
	TransactionTypeIncome  TransactionType = "income"
)

// TransactionStatus represents whether a transaction has taken effect.
type TransactionStatus string

const (
	TransactionStatusConcluded TransactionStatus = "concluded"
	TransactionStatusScheduled TransactionStatus = "scheduled"
)

// DefaultCategory is assigned when a record arrives with no usable category.
const DefaultCategory = "other"

// Confirmation tracks whether a transaction has been accepted by the server.
// A transaction created offline carries a locally generated ID until the
// server assigns a canonical one; the two are kept as separate fields so
// "has this been confirmed" is a checkable property rather than a convention.
type Confirmation struct {
	LocalID  string `json:"localId,omitempty"`
	ServerID string `json:"serverId,omitempty"`
}

// Confirmed reports whether the server has assigned a canonical ID.
func (c Confirmation) Confirmed() bool {
	return c.ServerID != ""
}

// ID returns the canonical identifier: the server ID once confirmed,
// the local placeholder before that.
func (c Confirmation) ID() string {
	if c.ServerID != "" {
		return c.ServerID
	}
	return c.LocalID
}

// Transaction represents a financial transaction known to the local agent.
// Amount is always a non-negative magnitude; the sign is derived from Type.
type Transaction struct {
	Confirmation    Confirmation      `json:"confirmation"`
	Description     string            `json:"description"`
	Amount          decimal.Decimal   `json:"amount"`
	Type            TransactionType   `json:"type"`
	Currency        string            `json:"currency"`
	Category        string            `json:"category"`
	Status          TransactionStatus `json:"status"`
	TransactionDate time.Time         `json:"transactionDate"`
	CreatedAt       time.Time         `json:"createdAt"`
	Metadata        map[string]any    `json:"metadata,omitempty"`
	IsRecurring     bool              `json:"isRecurring"`
}

// NewLocalTransaction creates a transaction from a local user action, before
// any contact with the server. The placeholder ID is the creation time in
// epoch milliseconds followed by a random suffix.
func NewLocalTransaction(
	description string,
	amount decimal.Decimal,
	transactionType TransactionType,
	currency string,
	category string,
	status TransactionStatus,
	transactionDate time.Time,
	metadata map[string]any,
	isRecurring bool,
) *Transaction {
	now := time.Now().UTC()

	if currency == "" {
		currency = "BRL"
	}
	if category == "" {
		category = DefaultCategory
	}
	if transactionDate.IsZero() {
		transactionDate = now
	}
	if amount.IsNegative() {
		amount = amount.Abs()
	}

	return &Transaction{
		Confirmation:    Confirmation{LocalID: newLocalID(now)},
		Description:     description,
		Amount:          amount,
		Type:            transactionType,
		Currency:        currency,
		Category:        category,
		Status:          status,
		TransactionDate: transactionDate,
		CreatedAt:       now,
		Metadata:        metadata,
		IsRecurring:     isRecurring,
	}
}

// newLocalID builds a placeholder ID of the form <epoch-ms><random-suffix>.
func newLocalID(now time.Time) string {
	suffix := strings.Split(uuid.New().String(), "-")[0]
	return strconv.FormatInt(now.UnixMilli(), 10) + suffix
}

// ID returns the canonical identifier of the transaction.
func (t *Transaction) ID() string {
	return t.Confirmation.ID()
}

// IsLocalOnly reports whether the transaction is still awaiting server
// confirmation.
func (t *Transaction) IsLocalOnly() bool {
	return !t.Confirmation.Confirmed()
}

// SignedAmount returns the amount with its directional sign applied:
// positive for income, negative for expense.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// MovesBalance reports whether applying this transaction adjusts the cached
// balance. Only concluded, non-recurring transactions in the base currency do.
func (t *Transaction) MovesBalance(baseCurrency string) bool {
	return t.Currency == baseCurrency &&
		!t.IsRecurring &&
		t.Status == TransactionStatusConcluded
}

// IsValidTransactionType validates the transaction type.
func IsValidTransactionType(transactionType TransactionType) bool {
	return transactionType == TransactionTypeExpense || transactionType == TransactionTypeIncome
}

// IsValidTransactionStatus validates the transaction status.
func IsValidTransactionStatus(status TransactionStatus) bool {
	return status == TransactionStatusConcluded || status == TransactionStatusScheduled
}
