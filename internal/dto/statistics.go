package dto

import (
	"github.com/SscSPs/money_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CategoryTotalResponse is one row of the per-category breakdown.
type CategoryTotalResponse struct {
	CategoryID   int             `json:"categoryID"`
	CategoryName string          `json:"categoryName"`
	Total        decimal.Decimal `json:"total"`
}

func ToCategoryTotalsResponse(totals []domain.CategoryTotal) []CategoryTotalResponse {
	res := make([]CategoryTotalResponse, len(totals))
	for i, t := range totals {
		res[i] = CategoryTotalResponse{
			CategoryID:   t.Category.ID(),
			CategoryName: t.Category.Name(),
			Total:        t.Total,
		}
	}
	return res
}

// AccountSummaryResponse defines the statistics returned for one account.
type AccountSummaryResponse struct {
	AccountID      int                     `json:"accountID"`
	Balance        decimal.Decimal         `json:"balance"`
	CategoryTotals []CategoryTotalResponse `json:"categoryTotals"`
	MaxCredit      *MovementResponse       `json:"maxCredit,omitempty"`
	MinCredit      *MovementResponse       `json:"minCredit,omitempty"`
	MaxDebit       *MovementResponse       `json:"maxDebit,omitempty"`
	MinDebit       *MovementResponse       `json:"minDebit,omitempty"`
}

func optionalMovement(m *domain.Movement) *MovementResponse {
	if m == nil {
		return nil
	}
	res := ToMovementResponse(m)
	return &res
}

func ToAccountSummaryResponse(s *domain.AccountSummary) AccountSummaryResponse {
	return AccountSummaryResponse{
		AccountID:      s.Account.ID(),
		Balance:        s.Balance,
		CategoryTotals: ToCategoryTotalsResponse(s.CategoryTotals),
		MaxCredit:      optionalMovement(s.MaxCredit),
		MinCredit:      optionalMovement(s.MinCredit),
		MaxDebit:       optionalMovement(s.MaxDebit),
		MinDebit:       optionalMovement(s.MinDebit),
	}
}
