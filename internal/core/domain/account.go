package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/SscSPs/money_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Account is a balance bucket holding movements, kept sorted by movement id.
// Every movement in the list references this account as its owner.
type Account struct {
	id             int
	accountType    AccountType
	name           string
	description    string
	openingBalance decimal.Decimal
	movements      []*Movement
}

// NewAccount creates an account with no movements.
func NewAccount(id int, accountType AccountType, name, description string, openingBalance decimal.Decimal) (*Account, error) {
	if id < 0 {
		return nil, fmt.Errorf("%w: negative account id %d", apperrors.ErrValidation, id)
	}
	if !accountType.IsValid() {
		return nil, fmt.Errorf("%w: account type", apperrors.ErrNullField)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: account name", apperrors.ErrNullField)
	}
	return &Account{
		id:             id,
		accountType:    accountType,
		name:           name,
		description:    description,
		openingBalance: openingBalance,
	}, nil
}

func (a *Account) ID() int                         { return a.id }
func (a *Account) Type() AccountType               { return a.accountType }
func (a *Account) Name() string                    { return a.name }
func (a *Account) Description() string             { return a.description }
func (a *Account) OpeningBalance() decimal.Decimal { return a.openingBalance }

// Movements returns a copy of the account's movements in id order.
func (a *Account) Movements() []*Movement {
	return slices.Clone(a.movements)
}

// MovementsWhere returns the movements matching pred, in id order.
func (a *Account) MovementsWhere(pred func(*Movement) bool) []*Movement {
	var out []*Movement
	for _, m := range a.movements {
		if pred(m) {
			out = append(out, m)
		}
	}
	return out
}

// SetName renames the account.
func (a *Account) SetName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: account name", apperrors.ErrNullField)
	}
	a.name = name
	return nil
}

func (a *Account) SetDescription(description string) {
	a.description = description
}

// Balance is the balance as of now; movements dated in the future are ignored.
func (a *Account) Balance() decimal.Decimal {
	return a.BalanceAt(time.Now())
}

// BalanceAt returns the opening balance plus the signed contribution of every
// movement dated at or before t.
func (a *Account) BalanceAt(t time.Time) decimal.Decimal {
	balance := a.openingBalance
	for _, m := range a.movements {
		if m.date.After(t) {
			continue
		}
		balance = balance.Add(m.signedAmountFor(a.accountType))
	}
	return balance
}

func (a *Account) hasMovement(m *Movement) bool {
	return containsItem(a.movements, m)
}

func (a *Account) addMovement(m *Movement) error {
	if m.account != a {
		return fmt.Errorf("%w: movement %d belongs to another account", apperrors.ErrInvalidMovement, m.id)
	}
	var ok bool
	if a.movements, ok = insertByID(a.movements, m); !ok {
		return fmt.Errorf("%w: movement %d already in account %d", apperrors.ErrAlreadyRegistered, m.id, a.id)
	}
	return nil
}

func (a *Account) removeMovement(m *Movement) bool {
	var ok bool
	a.movements, ok = removeByID(a.movements, m)
	return ok
}

func (a *Account) String() string {
	return fmt.Sprintf("Account{%d %s %s}", a.id, a.accountType, a.name)
}
