package dto

import (
	"github.com/SscSPs/money_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID int                `json:"transactionID"`
	Date          string             `json:"date,omitempty"`
	TotalAmount   decimal.Decimal    `json:"totalAmount"`
	CategoryIDs   []int              `json:"categoryIDs"`
	Movements     []MovementResponse `json:"movements"`
}

func ToTransactionResponse(tx *domain.Transaction) TransactionResponse {
	res := TransactionResponse{
		TransactionID: tx.ID(),
		TotalAmount:   tx.TotalAmount(),
		CategoryIDs:   categoryIDs(tx.Categories()),
		Movements:     ToListMovementResponse(tx.Movements()),
	}
	if d := tx.Date(); !d.IsZero() {
		res.Date = d.Format(DateLayout)
	}
	return res
}

func ToListTransactionResponse(txs []*domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txs))
	for i, tx := range txs {
		res[i] = ToTransactionResponse(tx)
	}
	return res
}

// ListTransactionsResponse wraps the list of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}
