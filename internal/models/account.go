package models

import (
	"github.com/shopspring/decimal"
)

// AccountType mirrors the account_type column.
type AccountType string

const (
	Assets      AccountType = "ASSETS"
	Liabilities AccountType = "LIABILITIES"
)

// Account is a row of ledger_accounts.
type Account struct {
	AccountID      int             `db:"account_id"`
	AccountType    AccountType     `db:"account_type"`
	Name           string          `db:"name"`
	Description    string          `db:"description"`
	OpeningBalance decimal.Decimal `db:"opening_balance"`
}
