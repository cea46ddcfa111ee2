package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType mirrors the movement_type column.
type MovementType string

const (
	Credits MovementType = "CREDITS"
	Debits  MovementType = "DEBITS"
)

// Movement is a row of ledger_movements. CategoryIDs is aggregated from
// ledger_movement_categories when reading and ignored by inserts.
type Movement struct {
	MovementID    int             `db:"movement_id"`
	MovementType  MovementType    `db:"movement_type"`
	Amount        decimal.Decimal `db:"amount"`
	MovementDate  time.Time       `db:"movement_date"`
	Description   string          `db:"description"`
	TransactionID int             `db:"transaction_id"`
	AccountID     int             `db:"account_id"`
	CategoryIDs   []int32         `db:"category_ids"`
}
