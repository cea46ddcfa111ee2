package dto

import (
	"github.com/SscSPs/money_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	ID             *int               `json:"id" binding:"omitempty,min=0"` // Optional explicit id
	Name           string             `json:"name" binding:"required,ledger_field"`
	AccountType    domain.AccountType `json:"accountType" binding:"required,oneof=ASSETS LIABILITIES"`
	Description    string             `json:"description" binding:"ledger_field"`
	OpeningBalance decimal.Decimal    `json:"openingBalance"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name        *string `json:"name" binding:"omitempty,ledger_field"`
	Description *string `json:"description" binding:"omitempty,ledger_field"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID      int                `json:"accountID"`
	Name           string             `json:"name"`
	AccountType    domain.AccountType `json:"accountType"`
	Description    string             `json:"description"`
	OpeningBalance decimal.Decimal    `json:"openingBalance"`
	Balance        decimal.Decimal    `json:"balance"`
	MovementCount  int                `json:"movementCount"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:      acc.ID(),
		Name:           acc.Name(),
		AccountType:    acc.Type(),
		Description:    acc.Description(),
		OpeningBalance: acc.OpeningBalance(),
		Balance:        acc.Balance(),
		MovementCount:  len(acc.Movements()),
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []*domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(acc)
	}
	return res
}

// AccountBalanceParams defines query parameters for a balance query.
type AccountBalanceParams struct {
	AsOf string `form:"asOf" binding:"omitempty,ledger_date"` // YYYY-MM-DD, end of day
}

// AccountBalanceResponse defines the data returned for an account balance query.
type AccountBalanceResponse struct {
	AccountID int             `json:"accountID"`
	Balance   decimal.Decimal `json:"balance"`
	AsOf      string          `json:"asOf,omitempty"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}
