package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/money_ledger/internal/apperrors"
)

// AccountType defines how movements affect an account's balance.
type AccountType string

const (
	Assets      AccountType = "ASSETS"
	Liabilities AccountType = "LIABILITIES"
)

// MovementType indicates whether a movement is a Credit or a Debit.
type MovementType string

const (
	Credits MovementType = "CREDITS"
	Debits  MovementType = "DEBITS"
)

// IsValid reports whether t is a known account type.
func (t AccountType) IsValid() bool {
	return t == Assets || t == Liabilities
}

// Sign returns the multiplier a movement of type mt contributes to an account of type t.
// ASSETS gain on credits and lose on debits; LIABILITIES are inverted.
func (t AccountType) Sign(mt MovementType) int {
	sign := 1
	if mt == Debits {
		sign = -1
	}
	if t == Liabilities {
		sign = -sign
	}
	return sign
}

// IsValid reports whether t is a known movement type.
func (t MovementType) IsValid() bool {
	return t == Credits || t == Debits
}

// ParseAccountType converts a case-insensitive name into an AccountType.
func ParseAccountType(s string) (AccountType, error) {
	t := AccountType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, s)
	}
	return t, nil
}

// ParseMovementType converts a case-insensitive name into a MovementType.
func ParseMovementType(s string) (MovementType, error) {
	t := MovementType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: unknown movement type %q", apperrors.ErrValidation, s)
	}
	return t, nil
}
