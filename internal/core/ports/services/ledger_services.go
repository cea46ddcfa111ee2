package services

import (
	"context"
	"time"

	"github.com/SscSPs/money_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/money_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/money_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// LedgerReaderSvc defines lookups and listings over the ledger.
type LedgerReaderSvc interface {
	// GetAccount retrieves an account by id or fails with apperrors.ErrNotFound.
	GetAccount(ctx context.Context, id int) (*domain.Account, error)
	GetCategory(ctx context.Context, id int) (*domain.Category, error)
	GetTransaction(ctx context.Context, id int) (*domain.Transaction, error)
	GetMovement(ctx context.Context, id int) (*domain.Movement, error)

	ListAccounts(ctx context.Context) []*domain.Account
	ListCategories(ctx context.Context) []*domain.Category
	ListTransactions(ctx context.Context) []*domain.Transaction

	// ListMovements returns every movement ordered by transaction then movement id.
	ListMovements(ctx context.Context) []*domain.Movement
}

// LedgerWriterSvc defines the mutating operations of the ledger.
type LedgerWriterSvc interface {
	AddAccount(ctx context.Context, accountType domain.AccountType, name, description string, opening decimal.Decimal) (*domain.Account, error)
	AddAccountWithID(ctx context.Context, accountType domain.AccountType, name, description string, id int, opening decimal.Decimal) (*domain.Account, error)
	AddCategory(ctx context.Context, name, description string) (*domain.Category, error)
	AddCategoryWithID(ctx context.Context, name, description string, id int) (*domain.Category, error)

	UpdateAccount(ctx context.Context, id int, req dto.UpdateAccountRequest) (*domain.Account, error)
	UpdateCategory(ctx context.Context, id int, req dto.UpdateCategoryRequest) (*domain.Category, error)
	UpdateMovement(ctx context.Context, id int, req dto.UpdateMovementRequest) (*domain.Movement, error)

	// AddMovement opens a new transaction whose first movement is described by the arguments.
	AddMovement(ctx context.Context, movementType domain.MovementType, amount decimal.Decimal, date time.Time, description string, account *domain.Account) (*domain.Transaction, error)

	// AddMovementToTransaction appends a movement to a registered transaction.
	AddMovementToTransaction(ctx context.Context, movementType domain.MovementType, amount decimal.Decimal, date time.Time, description string, tx *domain.Transaction, account *domain.Account) (*domain.Movement, error)

	// ImportMovement registers a movement built outside the service, typically by an importer.
	ImportMovement(ctx context.Context, m *domain.Movement) error

	RemoveMovement(ctx context.Context, m *domain.Movement) bool
	RemoveAccount(ctx context.Context, a *domain.Account) bool
	RemoveCategory(ctx context.Context, c *domain.Category) bool
	RemoveTransaction(ctx context.Context, tx *domain.Transaction) bool

	LinkCategoryToMovement(ctx context.Context, c *domain.Category, m *domain.Movement) error
	UnlinkCategoryFromMovement(ctx context.Context, c *domain.Category, m *domain.Movement) bool
	LinkCategoryToTransaction(ctx context.Context, c *domain.Category, tx *domain.Transaction) error
	UnlinkCategoryFromTransaction(ctx context.Context, c *domain.Category, tx *domain.Transaction) bool
	RestoreTransactionCategory(ctx context.Context, tx *domain.Transaction, c *domain.Category) error
}

// LedgerPersistenceSvc moves the whole ledger to and from a storage backend.
type LedgerPersistenceSvc interface {
	// ImportData loads into the current ledger: accounts, categories, movements, transaction categories.
	ImportData(ctx context.Context, from portsrepo.Importer) error

	// SaveData writes accounts, movements, categories and transaction categories, in that order.
	SaveData(ctx context.Context, to portsrepo.Saver) error

	// Restore replaces the ledger with the imported one. On failure the ledger is left untouched.
	Restore(ctx context.Context, from portsrepo.Importer) error
}

// LedgerSvcFacade combines all ledger-related service interfaces
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
	LedgerPersistenceSvc
}
