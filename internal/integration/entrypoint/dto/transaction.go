// Package dto defines data transfer objects for the local API.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/client/internal/domain/entity"
)

// CreateTransactionRequest is the request body for recording a transaction.
// Malformed optional fields are coerced, not rejected; the local write path
// must always succeed.
type CreateTransactionRequest struct {
	Description     string         `json:"description" binding:"required,min=1,max=255"`
	Amount          string         `json:"amount" binding:"required"`
	Type            string         `json:"type" binding:"required,oneof=expense income"`
	Currency        string         `json:"currency,omitempty"`
	Category        string         `json:"category,omitempty"`
	Status          string         `json:"status,omitempty" binding:"omitempty,oneof=concluded scheduled"`
	TransactionDate string         `json:"transactionDate,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	IsRecurring     bool           `json:"isRecurring,omitempty"`
}

// ToEntity converts the request into a pending local transaction, coercing
// malformed fields to safe defaults.
func (r CreateTransactionRequest) ToEntity() *entity.Transaction {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		amount = decimal.Zero
	}

	status := entity.TransactionStatus(r.Status)
	if !entity.IsValidTransactionStatus(status) {
		status = entity.TransactionStatusConcluded
	}

	var transactionDate time.Time
	if r.TransactionDate != "" {
		if parsed, err := time.Parse(time.RFC3339, r.TransactionDate); err == nil {
			transactionDate = parsed
		}
	}

	return entity.NewLocalTransaction(
		r.Description,
		amount,
		entity.TransactionType(r.Type),
		r.Currency,
		r.Category,
		status,
		transactionDate,
		r.Metadata,
		r.IsRecurring,
	)
}

// TransactionResponse represents a single transaction in API responses.
type TransactionResponse struct {
	ID              string         `json:"id"`
	LocalID         string         `json:"localId,omitempty"`
	Confirmed       bool           `json:"confirmed"`
	Description     string         `json:"description"`
	Amount          string         `json:"amount"`
	Type            string         `json:"type"`
	Currency        string         `json:"currency"`
	Category        string         `json:"category"`
	Status          string         `json:"status"`
	TransactionDate string         `json:"transactionDate"`
	CreatedAt       string         `json:"createdAt"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	IsRecurring     bool           `json:"isRecurring"`
}

// TransactionListResponse wraps the transaction listing.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int                   `json:"total"`
}

// BalanceResponse represents the cached balance.
type BalanceResponse struct {
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
}

// ToTransactionResponse converts a transaction entity to its API shape.
func ToTransactionResponse(tx *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              tx.ID(),
		LocalID:         tx.Confirmation.LocalID,
		Confirmed:       tx.Confirmation.Confirmed(),
		Description:     tx.Description,
		Amount:          tx.Amount.String(),
		Type:            string(tx.Type),
		Currency:        tx.Currency,
		Category:        tx.Category,
		Status:          string(tx.Status),
		TransactionDate: tx.TransactionDate.Format(time.RFC3339),
		CreatedAt:       tx.CreatedAt.Format(time.RFC3339),
		Metadata:        tx.Metadata,
		IsRecurring:     tx.IsRecurring,
	}
}

// ToTransactionListResponse converts a transaction list to its API shape.
func ToTransactionListResponse(transactions []*entity.Transaction) TransactionListResponse {
	responses := make([]TransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		responses = append(responses, ToTransactionResponse(tx))
	}
	return TransactionListResponse{
		Transactions: responses,
		Total:        len(responses),
	}
}
