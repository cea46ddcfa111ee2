package models

// Category is a row of ledger_categories.
type Category struct {
	CategoryID  int    `db:"category_id"`
	Name        string `db:"name"`
	Description string `db:"description"`
}
