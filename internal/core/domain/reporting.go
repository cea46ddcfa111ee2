package domain

import (
	"github.com/shopspring/decimal"
)

// CategoryTotal is the unsigned sum of an account's movements carrying a category.
type CategoryTotal struct {
	Category *Category
	Total    decimal.Decimal
}

// AccountSummary gathers the statistics of one account.
// Extremes are nil when the account has no movement of that type.
type AccountSummary struct {
	Account        *Account
	Balance        decimal.Decimal
	CategoryTotals []CategoryTotal
	MaxCredit      *Movement
	MinCredit      *Movement
	MaxDebit       *Movement
	MinDebit       *Movement
}
