package domain

import (
	"fmt"
	"slices"

	"github.com/SscSPs/money_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Ledger is the aggregate root over accounts, categories and transactions.
// All three collections are kept sorted by id. Account and category ids come
// from the ledger's own counters; movement and transaction ids are allocated by
// the caller.
//
// A Ledger is not safe for concurrent use.
type Ledger struct {
	accounts     []*Account
	categories   []*Category
	transactions []*Transaction

	nextAccountID  int
	nextCategoryID int
}

// NewLedger returns an empty ledger whose counters start at 1.
func NewLedger() *Ledger {
	return &Ledger{nextAccountID: 1, nextCategoryID: 1}
}

// AddAccount creates an account with the next free id.
func (l *Ledger) AddAccount(accountType AccountType, name, description string, opening decimal.Decimal) (*Account, error) {
	for {
		if _, taken := findByID(l.accounts, l.nextAccountID); !taken {
			break
		}
		l.nextAccountID++
	}
	a, err := NewAccount(l.nextAccountID, accountType, name, description, opening)
	if err != nil {
		return nil, err
	}
	l.accounts, _ = insertByID(l.accounts, a)
	l.nextAccountID++
	return a, nil
}

// AddAccountWithID creates an account with an explicit id and moves the
// counter past it.
func (l *Ledger) AddAccountWithID(accountType AccountType, name, description string, id int, opening decimal.Decimal) (*Account, error) {
	if _, taken := findByID(l.accounts, id); taken {
		return nil, fmt.Errorf("%w: account %d", apperrors.ErrDuplicateID, id)
	}
	a, err := NewAccount(id, accountType, name, description, opening)
	if err != nil {
		return nil, err
	}
	l.accounts, _ = insertByID(l.accounts, a)
	l.nextAccountID = max(l.nextAccountID, id+1)
	return a, nil
}

// AddCategory creates a category with the next free id.
func (l *Ledger) AddCategory(name, description string) (*Category, error) {
	for {
		if _, taken := findByID(l.categories, l.nextCategoryID); !taken {
			break
		}
		l.nextCategoryID++
	}
	c, err := NewCategory(l.nextCategoryID, name, description)
	if err != nil {
		return nil, err
	}
	l.categories, _ = insertByID(l.categories, c)
	l.nextCategoryID++
	return c, nil
}

// AddCategoryWithID creates a category with an explicit id and moves the
// counter past it.
func (l *Ledger) AddCategoryWithID(name, description string, id int) (*Category, error) {
	if _, taken := findByID(l.categories, id); taken {
		return nil, fmt.Errorf("%w: category %d", apperrors.ErrDuplicateID, id)
	}
	c, err := NewCategory(id, name, description)
	if err != nil {
		return nil, err
	}
	l.categories, _ = insertByID(l.categories, c)
	l.nextCategoryID = max(l.nextCategoryID, id+1)
	return c, nil
}

// AddTransaction registers tx. At least one of its movements must already be
// held by an account of this ledger.
func (l *Ledger) AddTransaction(tx *Transaction) error {
	if tx == nil {
		return fmt.Errorf("%w: transaction", apperrors.ErrNullField)
	}
	if _, taken := findByID(l.transactions, tx.id); taken {
		return fmt.Errorf("%w: transaction %d", apperrors.ErrAlreadyRegistered, tx.id)
	}
	if !l.reachable(tx) {
		return fmt.Errorf("%w: transaction %d", apperrors.ErrOrphanTransaction, tx.id)
	}
	l.transactions, _ = insertByID(l.transactions, tx)
	return nil
}

func (l *Ledger) reachable(tx *Transaction) bool {
	for _, m := range tx.movements {
		if m.account != nil && m.transaction == tx && l.HasAccount(m.account) && m.account.hasMovement(m) {
			return true
		}
	}
	return false
}

// RemoveAccount deletes every movement of the account, removes the account and
// purges the transactions left without movements.
func (l *Ledger) RemoveAccount(a *Account) bool {
	if a == nil {
		return false
	}
	var ok bool
	if l.accounts, ok = removeByID(l.accounts, a); !ok {
		return false
	}
	for _, m := range a.movements {
		m.Delete()
	}
	a.movements = nil

	kept := l.transactions[:0]
	for _, tx := range l.transactions {
		tx.movements = slices.DeleteFunc(tx.movements, (*Movement).IsDeleted)
		if len(tx.movements) > 0 {
			kept = append(kept, tx)
		}
	}
	clear(l.transactions[len(kept):])
	l.transactions = kept
	return true
}

// RemoveCategory detaches the category from every transaction and movement,
// then removes it.
func (l *Ledger) RemoveCategory(c *Category) bool {
	if c == nil || !containsItem(l.categories, c) {
		return false
	}
	for _, tx := range l.transactions {
		tx.RemoveCategory(c)
		for _, m := range tx.movements {
			m.RemoveCategory(c)
		}
	}
	for _, a := range l.accounts {
		for _, m := range a.movements {
			m.RemoveCategory(c)
		}
	}
	l.categories, _ = removeByID(l.categories, c)
	return true
}

// RemoveTransaction removes the transaction and deletes all of its movements.
func (l *Ledger) RemoveTransaction(tx *Transaction) bool {
	if tx == nil {
		return false
	}
	var ok bool
	if l.transactions, ok = removeByID(l.transactions, tx); !ok {
		return false
	}
	for _, m := range tx.movements {
		if m.account != nil {
			m.account.removeMovement(m)
		}
		m.Delete()
	}
	tx.movements = nil
	return true
}

// RemoveMovement takes the movement out of its account and its transaction.
// When it was the transaction's only movement the whole transaction leaves the
// ledger. It reports true only if both sides held the movement.
func (l *Ledger) RemoveMovement(m *Movement) bool {
	if m == nil {
		return false
	}
	account, tx := m.account, m.transaction
	accountOK := account != nil && account.removeMovement(m)

	txOK := false
	if tx != nil {
		if len(tx.movements) == 1 && tx.movements[0] == m {
			txOK = l.RemoveTransaction(tx)
		} else {
			txOK = tx.removeMovement(m)
		}
	}
	m.Delete()
	return accountOK && txOK
}

// DiscardMovement unlinks a movement that never made it into the ledger.
func DiscardMovement(m *Movement) {
	if m == nil {
		return
	}
	if m.account != nil {
		m.account.removeMovement(m)
	}
	if m.transaction != nil {
		m.transaction.removeMovement(m)
	}
	m.Delete()
}

// Accounts returns a copy of the accounts in id order.
func (l *Ledger) Accounts() []*Account { return slices.Clone(l.accounts) }

// Categories returns a copy of the categories in id order.
func (l *Ledger) Categories() []*Category { return slices.Clone(l.categories) }

// Transactions returns a copy of the transactions in id order.
func (l *Ledger) Transactions() []*Transaction { return slices.Clone(l.transactions) }

// TransactionsWhere returns the transactions matching pred, in id order.
func (l *Ledger) TransactionsWhere(pred func(*Transaction) bool) []*Transaction {
	var out []*Transaction
	for _, tx := range l.transactions {
		if pred(tx) {
			out = append(out, tx)
		}
	}
	return out
}

// Movements returns every movement of every registered transaction,
// ordered by transaction id then movement id.
func (l *Ledger) Movements() []*Movement {
	var out []*Movement
	for _, tx := range l.transactions {
		out = append(out, tx.movements...)
	}
	return out
}

func (l *Ledger) Account(id int) (*Account, bool)         { return findByID(l.accounts, id) }
func (l *Ledger) Category(id int) (*Category, bool)       { return findByID(l.categories, id) }
func (l *Ledger) Transaction(id int) (*Transaction, bool) { return findByID(l.transactions, id) }

// Movement looks a movement up across all accounts.
func (l *Ledger) Movement(id int) (*Movement, bool) {
	for _, a := range l.accounts {
		if m, ok := findByID(a.movements, id); ok {
			return m, true
		}
	}
	return nil, false
}

func (l *Ledger) HasAccount(a *Account) bool         { return a != nil && containsItem(l.accounts, a) }
func (l *Ledger) HasCategory(c *Category) bool       { return c != nil && containsItem(l.categories, c) }
func (l *Ledger) HasTransaction(tx *Transaction) bool { return tx != nil && containsItem(l.transactions, tx) }

// HasMovement reports whether m sits in a ledger account.
func (l *Ledger) HasMovement(m *Movement) bool {
	return m != nil && m.account != nil && l.HasAccount(m.account) && m.account.hasMovement(m)
}
