package repositories

import (
	"context"

	"github.com/SscSPs/money_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerLoader is the write surface an Importer rebuilds a ledger through.
type LedgerLoader interface {
	// AddAccountWithID recreates an account under its stored id.
	AddAccountWithID(ctx context.Context, accountType domain.AccountType, name, description string, id int, opening decimal.Decimal) (*domain.Account, error)

	// AddCategoryWithID recreates a category under its stored id.
	AddCategoryWithID(ctx context.Context, name, description string, id int) (*domain.Category, error)

	// ImportMovement registers an already linked movement and keeps the id counters ahead of it.
	ImportMovement(ctx context.Context, m *domain.Movement) error

	LinkCategoryToMovement(ctx context.Context, c *domain.Category, m *domain.Movement) error

	// RestoreTransactionCategory tags a transaction without touching its movements.
	RestoreTransactionCategory(ctx context.Context, tx *domain.Transaction, c *domain.Category) error

	GetAccount(ctx context.Context, id int) (*domain.Account, error)
	GetCategory(ctx context.Context, id int) (*domain.Category, error)
	GetTransaction(ctx context.Context, id int) (*domain.Transaction, error)
	GetMovement(ctx context.Context, id int) (*domain.Movement, error)
}

// LedgerSnapshot is the read surface a Saver walks.
type LedgerSnapshot interface {
	ListAccounts(ctx context.Context) []*domain.Account
	ListCategories(ctx context.Context) []*domain.Category
	ListTransactions(ctx context.Context) []*domain.Transaction
	ListMovements(ctx context.Context) []*domain.Movement
}

// Importer reads a stored ledger. Callers invoke the methods in declaration order.
type Importer interface {
	ImportAccounts(ctx context.Context, into LedgerLoader) error
	ImportCategories(ctx context.Context, into LedgerLoader) error
	ImportMovements(ctx context.Context, into LedgerLoader) error
	ImportTransactionCategories(ctx context.Context, into LedgerLoader) error
}

// Saver writes a ledger out. Callers invoke the methods in declaration order.
type Saver interface {
	SaveAccounts(ctx context.Context, from LedgerSnapshot) error
	SaveMovements(ctx context.Context, from LedgerSnapshot) error
	SaveCategories(ctx context.Context, from LedgerSnapshot) error
	SaveTransactionCategories(ctx context.Context, from LedgerSnapshot) error
}

// SnapshotRepositoryFacade is a storage backend able to both load and store a ledger.
type SnapshotRepositoryFacade interface {
	Importer
	Saver
}
