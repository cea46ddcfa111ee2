package domain

import (
	"fmt"
	"slices"
	"time"

	"github.com/SscSPs/money_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Transaction groups one or more movements treated as a single event.
// Movements and categories are kept sorted by id.
type Transaction struct {
	id         int
	movements  []*Movement
	categories []*Category
}

// NewTransaction creates an empty transaction. It becomes visible to a ledger
// only once one of its movements sits in a ledger account.
func NewTransaction(id int) *Transaction {
	return &Transaction{id: id}
}

func (t *Transaction) ID() int { return t.id }

// Movements returns a copy of the transaction's movements in id order.
func (t *Transaction) Movements() []*Movement {
	return slices.Clone(t.movements)
}

// Categories returns a copy of the transaction's categories in id order.
func (t *Transaction) Categories() []*Category {
	return slices.Clone(t.categories)
}

// Date is the date of the last movement in id order, or the zero time when
// the transaction has no movements.
func (t *Transaction) Date() time.Time {
	if len(t.movements) == 0 {
		return time.Time{}
	}
	return t.movements[len(t.movements)-1].date
}

// TotalAmount sums credits minus debits regardless of the accounts involved.
func (t *Transaction) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, m := range t.movements {
		if m.movementType == Credits {
			total = total.Add(m.amount)
		} else {
			total = total.Sub(m.amount)
		}
	}
	return total
}

// AddCategory tags the transaction and every one of its movements.
// It returns false if the transaction already carried the category.
func (t *Transaction) AddCategory(c *Category) bool {
	if c == nil {
		return false
	}
	var ok bool
	if t.categories, ok = insertByID(t.categories, c); !ok {
		return false
	}
	for _, m := range t.movements {
		m.AddCategory(c)
	}
	return true
}

// AttachCategory tags the transaction alone, leaving its movements as they are.
func (t *Transaction) AttachCategory(c *Category) bool {
	if c == nil {
		return false
	}
	var ok bool
	t.categories, ok = insertByID(t.categories, c)
	return ok
}

// RemoveCategory untags the transaction and every one of its movements.
// It returns false if the transaction did not carry the category.
func (t *Transaction) RemoveCategory(c *Category) bool {
	if c == nil {
		return false
	}
	var ok bool
	if t.categories, ok = removeByID(t.categories, c); !ok {
		return false
	}
	for _, m := range t.movements {
		m.RemoveCategory(c)
	}
	return true
}

func (t *Transaction) HasCategory(c *Category) bool {
	return c != nil && containsItem(t.categories, c)
}

func (t *Transaction) addMovement(m *Movement) error {
	if m.transaction != t {
		return fmt.Errorf("%w: movement %d belongs to another transaction", apperrors.ErrInvalidMovement, m.id)
	}
	var ok bool
	if t.movements, ok = insertByID(t.movements, m); !ok {
		return fmt.Errorf("%w: movement %d already in transaction %d", apperrors.ErrAlreadyRegistered, m.id, t.id)
	}
	return nil
}

func (t *Transaction) removeMovement(m *Movement) bool {
	var ok bool
	t.movements, ok = removeByID(t.movements, m)
	return ok
}

func (t *Transaction) String() string {
	return fmt.Sprintf("Transaction{%d movements=%d}", t.id, len(t.movements))
}
