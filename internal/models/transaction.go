package models

// TransactionCategory is a row of ledger_transaction_categories.
type TransactionCategory struct {
	TransactionID int `db:"transaction_id"`
	CategoryID    int `db:"category_id"`
}
