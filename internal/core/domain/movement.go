package domain

import (
	"fmt"
	"slices"
	"time"

	"github.com/SscSPs/money_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Movement is a single credit or debit on one account, grouped under one transaction.
type Movement struct {
	id           int
	movementType MovementType
	amount       decimal.Decimal
	date         time.Time
	description  string
	categories   []*Category
	transaction  *Transaction
	account      *Account
}

// NewMovement builds a movement and registers it into tx and then into account.
// If either registration fails the movement is left in neither.
func NewMovement(id int, movementType MovementType, amount decimal.Decimal, date time.Time, description string, tx *Transaction, account *Account) (*Movement, error) {
	if id < 0 {
		return nil, fmt.Errorf("%w: negative movement id %d", apperrors.ErrInvalidMovement, id)
	}
	if !movementType.IsValid() {
		return nil, fmt.Errorf("%w: movement type", apperrors.ErrNullField)
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: movement date", apperrors.ErrNullField)
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: negative amount %s", apperrors.ErrInvalidMovement, amount)
	}
	if tx == nil {
		return nil, fmt.Errorf("%w: missing transaction", apperrors.ErrInvalidMovement)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: missing account", apperrors.ErrInvalidMovement)
	}

	m := &Movement{
		id:           id,
		movementType: movementType,
		amount:       amount,
		date:         date,
		description:  description,
		transaction:  tx,
		account:      account,
	}
	if err := tx.addMovement(m); err != nil {
		return nil, err
	}
	if err := account.addMovement(m); err != nil {
		tx.removeMovement(m)
		return nil, err
	}
	return m, nil
}

func (m *Movement) ID() int                   { return m.id }
func (m *Movement) Type() MovementType        { return m.movementType }
func (m *Movement) Amount() decimal.Decimal   { return m.amount }
func (m *Movement) Date() time.Time           { return m.date }
func (m *Movement) Description() string       { return m.description }
func (m *Movement) Transaction() *Transaction { return m.transaction }
func (m *Movement) Account() *Account         { return m.account }

// Categories returns a copy of the movement's categories in id order.
func (m *Movement) Categories() []*Category {
	return slices.Clone(m.categories)
}

// IsDeleted reports whether Delete has detached the movement.
func (m *Movement) IsDeleted() bool {
	return m.transaction == nil && m.account == nil
}

// SignedAmount is the movement's contribution to its account balance.
// A deleted movement contributes nothing.
func (m *Movement) SignedAmount() decimal.Decimal {
	if m.account == nil {
		return decimal.Zero
	}
	return m.signedAmountFor(m.account.accountType)
}

func (m *Movement) signedAmountFor(t AccountType) decimal.Decimal {
	if t.Sign(m.movementType) < 0 {
		return m.amount.Neg()
	}
	return m.amount
}

// SetAmount replaces the amount. Negative values are rejected.
func (m *Movement) SetAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: negative amount %s", apperrors.ErrInvalidMovement, amount)
	}
	m.amount = amount
	return nil
}

func (m *Movement) SetDate(date time.Time) error {
	if date.IsZero() {
		return fmt.Errorf("%w: movement date", apperrors.ErrNullField)
	}
	m.date = date
	return nil
}

func (m *Movement) SetDescription(description string) {
	m.description = description
}

// AddCategory tags the movement. It returns false if the category was already present.
func (m *Movement) AddCategory(c *Category) bool {
	if c == nil {
		return false
	}
	var ok bool
	m.categories, ok = insertByID(m.categories, c)
	return ok
}

// RemoveCategory untags the movement. It returns false if the category was absent.
func (m *Movement) RemoveCategory(c *Category) bool {
	if c == nil {
		return false
	}
	var ok bool
	m.categories, ok = removeByID(m.categories, c)
	return ok
}

func (m *Movement) HasCategory(c *Category) bool {
	return c != nil && containsItem(m.categories, c)
}

// Delete clears both back references. The movement survives as an orphan.
func (m *Movement) Delete() {
	m.transaction = nil
	m.account = nil
}

func (m *Movement) String() string {
	return fmt.Sprintf("Movement{%d %s %s %s}", m.id, m.movementType, m.amount, m.date.Format(time.DateOnly))
}
