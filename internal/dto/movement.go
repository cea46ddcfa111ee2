package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/money_ledger/internal/apperrors"
	"github.com/SscSPs/money_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format accepted and returned by the API.
const DateLayout = time.DateOnly

// ParseDate parses a YYYY-MM-DD date in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", apperrors.ErrValidation, s)
	}
	return t, nil
}

// CreateMovementRequest defines a movement posted to a new or existing transaction.
type CreateMovementRequest struct {
	AccountID    *int                `json:"accountID" binding:"required,min=0"`
	MovementType domain.MovementType `json:"movementType" binding:"required,oneof=CREDITS DEBITS"`
	Amount       decimal.Decimal     `json:"amount" binding:"decimal_gte0"`
	Date         string              `json:"date" binding:"required,ledger_date"`
	Description  string              `json:"description" binding:"ledger_field"`
}

// UpdateMovementRequest defines the data allowed for updating a movement.
type UpdateMovementRequest struct {
	Amount      *decimal.Decimal `json:"amount" binding:"omitempty,decimal_gte0"`
	Date        *string          `json:"date" binding:"omitempty,ledger_date"`
	Description *string          `json:"description" binding:"omitempty,ledger_field"`
}

type MovementResponse struct {
	MovementID    int                 `json:"movementID"`
	TransactionID int                 `json:"transactionID"`
	AccountID     int                 `json:"accountID"`
	MovementType  domain.MovementType `json:"movementType"`
	Amount        decimal.Decimal     `json:"amount"`
	SignedAmount  decimal.Decimal     `json:"signedAmount"`
	Date          string              `json:"date"`
	Description   string              `json:"description"`
	CategoryIDs   []int               `json:"categoryIDs"`
}

// ToMovementResponse converts a domain.Movement to its DTO. Deleted movements
// report zero for their transaction and account.
func ToMovementResponse(m *domain.Movement) MovementResponse {
	res := MovementResponse{
		MovementID:   m.ID(),
		MovementType: m.Type(),
		Amount:       m.Amount(),
		SignedAmount: m.SignedAmount(),
		Date:         m.Date().Format(DateLayout),
		Description:  m.Description(),
		CategoryIDs:  categoryIDs(m.Categories()),
	}
	if tx := m.Transaction(); tx != nil {
		res.TransactionID = tx.ID()
	}
	if a := m.Account(); a != nil {
		res.AccountID = a.ID()
	}
	return res
}

func ToListMovementResponse(movements []*domain.Movement) []MovementResponse {
	res := make([]MovementResponse, len(movements))
	for i, m := range movements {
		res[i] = ToMovementResponse(m)
	}
	return res
}

// ListMovementsParams defines query parameters for paging through movements.
type ListMovementsParams struct {
	Limit     int     `form:"limit,default=50" binding:"min=1,max=500"`
	NextToken *string `form:"nextToken"`
}

// ListMovementsResponse wraps a page of movements.
type ListMovementsResponse struct {
	Movements []MovementResponse `json:"movements"`
	NextToken *string            `json:"nextToken,omitempty"`
}
