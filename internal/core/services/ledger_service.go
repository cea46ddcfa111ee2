package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/money_ledger/internal/apperrors"
	"github.com/SscSPs/money_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/money_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/money_ledger/internal/core/ports/services"
	"github.com/SscSPs/money_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// LedgerService is the facade over a domain.Ledger. It allocates movement and
// transaction ids and rolls them back when a compound operation fails.
//
// LedgerService is not safe for concurrent use; callers serialize access.
type LedgerService struct {
	BaseService
	ledger            *domain.Ledger
	nextMovementID    int
	nextTransactionID int
}

// LedgerServiceOption is a functional option for configuring the ledger service
type LedgerServiceOption func(*LedgerService)

// WithLedger starts the service on an existing ledger. The id counters are
// moved past every movement and transaction it already holds.
func WithLedger(ledger *domain.Ledger) LedgerServiceOption {
	return func(s *LedgerService) {
		s.ledger = ledger
	}
}

// NewLedgerService creates a new LedgerService with the provided options
func NewLedgerService(options ...LedgerServiceOption) *LedgerService {
	svc := &LedgerService{
		ledger:            domain.NewLedger(),
		nextMovementID:    1,
		nextTransactionID: 1,
	}
	for _, option := range options {
		option(svc)
	}
	for _, tx := range svc.ledger.Transactions() {
		svc.nextTransactionID = max(svc.nextTransactionID, tx.ID()+1)
	}
	for _, m := range svc.ledger.Movements() {
		svc.nextMovementID = max(svc.nextMovementID, m.ID()+1)
	}
	return svc
}

var (
	_ portssvc.LedgerSvcFacade = (*LedgerService)(nil)
	_ portsrepo.LedgerLoader   = (*LedgerService)(nil)
	_ portsrepo.LedgerSnapshot = (*LedgerService)(nil)
)

// --- Accounts and categories ---

func (s *LedgerService) AddAccount(ctx context.Context, accountType domain.AccountType, name, description string, opening decimal.Decimal) (*domain.Account, error) {
	a, err := s.ledger.AddAccount(accountType, name, description, opening)
	if err != nil {
		s.LogWarn(ctx, err, "Rejected account", slog.String("account_name", name))
		return nil, err
	}
	s.LogInfo(ctx, "Account created", slog.Int("account_id", a.ID()), slog.String("account_type", string(accountType)))
	return a, nil
}

func (s *LedgerService) AddAccountWithID(ctx context.Context, accountType domain.AccountType, name, description string, id int, opening decimal.Decimal) (*domain.Account, error) {
	a, err := s.ledger.AddAccountWithID(accountType, name, description, id, opening)
	if err != nil {
		s.LogWarn(ctx, err, "Rejected account", slog.Int("account_id", id))
		return nil, err
	}
	s.LogDebug(ctx, "Account created with explicit id", slog.Int("account_id", id))
	return a, nil
}

func (s *LedgerService) AddCategory(ctx context.Context, name, description string) (*domain.Category, error) {
	c, err := s.ledger.AddCategory(name, description)
	if err != nil {
		s.LogWarn(ctx, err, "Rejected category", slog.String("category_name", name))
		return nil, err
	}
	s.LogInfo(ctx, "Category created", slog.Int("category_id", c.ID()))
	return c, nil
}

func (s *LedgerService) AddCategoryWithID(ctx context.Context, name, description string, id int) (*domain.Category, error) {
	c, err := s.ledger.AddCategoryWithID(name, description, id)
	if err != nil {
		s.LogWarn(ctx, err, "Rejected category", slog.Int("category_id", id))
		return nil, err
	}
	s.LogDebug(ctx, "Category created with explicit id", slog.Int("category_id", id))
	return c, nil
}

// UpdateAccount applies the non-nil fields of req.
func (s *LedgerService) UpdateAccount(ctx context.Context, id int, req dto.UpdateAccountRequest) (*domain.Account, error) {
	a, err := s.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if err := a.SetName(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		a.SetDescription(*req.Description)
	}
	s.LogInfo(ctx, "Account updated", slog.Int("account_id", id))
	return a, nil
}

// UpdateCategory applies the non-nil fields of req.
func (s *LedgerService) UpdateCategory(ctx context.Context, id int, req dto.UpdateCategoryRequest) (*domain.Category, error) {
	c, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if err := c.SetName(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		c.SetDescription(*req.Description)
	}
	s.LogInfo(ctx, "Category updated", slog.Int("category_id", id))
	return c, nil
}

// UpdateMovement applies the non-nil fields of req. All fields are validated
// before any of them is written.
func (s *LedgerService) UpdateMovement(ctx context.Context, id int, req dto.UpdateMovementRequest) (*domain.Movement, error) {
	m, err := s.GetMovement(ctx, id)
	if err != nil {
		return nil, err
	}

	var date time.Time
	if req.Date != nil {
		if date, err = dto.ParseDate(*req.Date); err != nil {
			return nil, err
		}
	}
	if req.Amount != nil && req.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: negative amount %s", apperrors.ErrInvalidMovement, req.Amount)
	}

	if req.Amount != nil {
		if err := m.SetAmount(*req.Amount); err != nil {
			return nil, err
		}
	}
	if req.Date != nil {
		if err := m.SetDate(date); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		m.SetDescription(*req.Description)
	}
	s.LogInfo(ctx, "Movement updated", slog.Int("movement_id", id))
	return m, nil
}

// --- Movements and transactions ---

// AddMovement opens a transaction with a single movement on account. On any
// failure both id counters are restored and the movement leaves no trace.
func (s *LedgerService) AddMovement(ctx context.Context, movementType domain.MovementType, amount decimal.Decimal, date time.Time, description string, account *domain.Account) (*domain.Transaction, error) {
	txID, movementID := s.nextTransactionID, s.nextMovementID
	s.nextTransactionID++
	s.nextMovementID++

	tx := domain.NewTransaction(txID)
	m, err := domain.NewMovement(movementID, movementType, amount, date, description, tx, account)
	if err != nil {
		s.nextTransactionID, s.nextMovementID = txID, movementID
		s.LogWarn(ctx, err, "Rejected movement", slog.Int("transaction_id", txID))
		return nil, err
	}
	if err := s.ledger.AddTransaction(tx); err != nil {
		domain.DiscardMovement(m)
		s.nextTransactionID, s.nextMovementID = txID, movementID
		s.LogWarn(ctx, err, "Rejected transaction", slog.Int("transaction_id", txID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction created",
		slog.Int("transaction_id", txID),
		slog.Int("movement_id", movementID),
		slog.Int("account_id", account.ID()))
	return tx, nil
}

// AddMovementToTransaction appends a movement to tx. Both tx and account must
// belong to the ledger.
func (s *LedgerService) AddMovementToTransaction(ctx context.Context, movementType domain.MovementType, amount decimal.Decimal, date time.Time, description string, tx *domain.Transaction, account *domain.Account) (*domain.Movement, error) {
	if !s.ledger.HasTransaction(tx) {
		return nil, fmt.Errorf("%w: transaction is not in the ledger", apperrors.ErrNotFound)
	}
	if !s.ledger.HasAccount(account) {
		return nil, fmt.Errorf("%w: account is not in the ledger", apperrors.ErrNotFound)
	}

	movementID := s.nextMovementID
	s.nextMovementID++
	m, err := domain.NewMovement(movementID, movementType, amount, date, description, tx, account)
	if err != nil {
		s.nextMovementID = movementID
		s.LogWarn(ctx, err, "Rejected movement", slog.Int("transaction_id", tx.ID()))
		return nil, err
	}

	s.LogInfo(ctx, "Movement added",
		slog.Int("transaction_id", tx.ID()),
		slog.Int("movement_id", movementID),
		slog.Int("account_id", account.ID()))
	return m, nil
}

// ImportMovement registers the transaction of an already linked movement if it
// is new, and keeps both counters ahead of the imported ids.
func (s *LedgerService) ImportMovement(ctx context.Context, m *domain.Movement) error {
	if m == nil || m.Transaction() == nil || m.Account() == nil {
		return fmt.Errorf("%w: movement is not linked", apperrors.ErrInvalidMovement)
	}
	tx := m.Transaction()
	if !s.ledger.HasTransaction(tx) {
		if err := s.ledger.AddTransaction(tx); err != nil {
			s.LogWarn(ctx, err, "Rejected imported movement", slog.Int("movement_id", m.ID()))
			return err
		}
	}
	s.nextMovementID = max(s.nextMovementID, m.ID()+1)
	s.nextTransactionID = max(s.nextTransactionID, tx.ID()+1)
	return nil
}

// RemoveMovement detaches m from its account and its transaction, removing the
// transaction when m was its only movement.
func (s *LedgerService) RemoveMovement(ctx context.Context, m *domain.Movement) bool {
	if m == nil {
		return false
	}
	id := m.ID()
	removed := s.ledger.RemoveMovement(m)
	s.LogInfo(ctx, "Movement removal", slog.Int("movement_id", id), slog.Bool("removed", removed))
	return removed
}

func (s *LedgerService) RemoveAccount(ctx context.Context, a *domain.Account) bool {
	if a == nil {
		return false
	}
	removed := s.ledger.RemoveAccount(a)
	s.LogInfo(ctx, "Account removal", slog.Int("account_id", a.ID()), slog.Bool("removed", removed))
	return removed
}

func (s *LedgerService) RemoveCategory(ctx context.Context, c *domain.Category) bool {
	if c == nil {
		return false
	}
	removed := s.ledger.RemoveCategory(c)
	s.LogInfo(ctx, "Category removal", slog.Int("category_id", c.ID()), slog.Bool("removed", removed))
	return removed
}

func (s *LedgerService) RemoveTransaction(ctx context.Context, tx *domain.Transaction) bool {
	if tx == nil {
		return false
	}
	removed := s.ledger.RemoveTransaction(tx)
	s.LogInfo(ctx, "Transaction removal", slog.Int("transaction_id", tx.ID()), slog.Bool("removed", removed))
	return removed
}

// --- Category links ---

func (s *LedgerService) LinkCategoryToMovement(ctx context.Context, c *domain.Category, m *domain.Movement) error {
	if !s.ledger.HasCategory(c) {
		return fmt.Errorf("%w: category is not in the ledger", apperrors.ErrNotFound)
	}
	if !s.ledger.HasMovement(m) {
		return fmt.Errorf("%w: movement is not in the ledger", apperrors.ErrNotFound)
	}
	if m.AddCategory(c) {
		s.LogDebug(ctx, "Category linked to movement", slog.Int("category_id", c.ID()), slog.Int("movement_id", m.ID()))
	}
	return nil
}

func (s *LedgerService) UnlinkCategoryFromMovement(ctx context.Context, c *domain.Category, m *domain.Movement) bool {
	if !s.ledger.HasCategory(c) || !s.ledger.HasMovement(m) {
		return false
	}
	return m.RemoveCategory(c)
}

// LinkCategoryToTransaction tags tx and all of its movements.
func (s *LedgerService) LinkCategoryToTransaction(ctx context.Context, c *domain.Category, tx *domain.Transaction) error {
	if !s.ledger.HasCategory(c) {
		return fmt.Errorf("%w: category is not in the ledger", apperrors.ErrNotFound)
	}
	if !s.ledger.HasTransaction(tx) {
		return fmt.Errorf("%w: transaction is not in the ledger", apperrors.ErrNotFound)
	}
	if tx.AddCategory(c) {
		s.LogDebug(ctx, "Category linked to transaction", slog.Int("category_id", c.ID()), slog.Int("transaction_id", tx.ID()))
	}
	return nil
}

// UnlinkCategoryFromTransaction untags tx and all of its movements.
func (s *LedgerService) UnlinkCategoryFromTransaction(ctx context.Context, c *domain.Category, tx *domain.Transaction) bool {
	if !s.ledger.HasCategory(c) || !s.ledger.HasTransaction(tx) {
		return false
	}
	return tx.RemoveCategory(c)
}

// RestoreTransactionCategory tags tx alone, leaving each movement's own
// categories as they were stored.
func (s *LedgerService) RestoreTransactionCategory(ctx context.Context, tx *domain.Transaction, c *domain.Category) error {
	if !s.ledger.HasCategory(c) {
		return fmt.Errorf("%w: category is not in the ledger", apperrors.ErrNotFound)
	}
	if !s.ledger.HasTransaction(tx) {
		return fmt.Errorf("%w: transaction is not in the ledger", apperrors.ErrNotFound)
	}
	tx.AttachCategory(c)
	return nil
}

// --- Lookups ---

func (s *LedgerService) GetAccount(ctx context.Context, id int) (*domain.Account, error) {
	a, ok := s.ledger.Account(id)
	if !ok {
		return nil, fmt.Errorf("%w: account %d", apperrors.ErrNotFound, id)
	}
	return a, nil
}

func (s *LedgerService) GetCategory(ctx context.Context, id int) (*domain.Category, error) {
	c, ok := s.ledger.Category(id)
	if !ok {
		return nil, fmt.Errorf("%w: category %d", apperrors.ErrNotFound, id)
	}
	return c, nil
}

func (s *LedgerService) GetTransaction(ctx context.Context, id int) (*domain.Transaction, error) {
	tx, ok := s.ledger.Transaction(id)
	if !ok {
		return nil, fmt.Errorf("%w: transaction %d", apperrors.ErrNotFound, id)
	}
	return tx, nil
}

func (s *LedgerService) GetMovement(ctx context.Context, id int) (*domain.Movement, error) {
	m, ok := s.ledger.Movement(id)
	if !ok {
		return nil, fmt.Errorf("%w: movement %d", apperrors.ErrNotFound, id)
	}
	return m, nil
}

func (s *LedgerService) ListAccounts(ctx context.Context) []*domain.Account {
	return s.ledger.Accounts()
}

func (s *LedgerService) ListCategories(ctx context.Context) []*domain.Category {
	return s.ledger.Categories()
}

func (s *LedgerService) ListTransactions(ctx context.Context) []*domain.Transaction {
	return s.ledger.Transactions()
}

func (s *LedgerService) ListMovements(ctx context.Context) []*domain.Movement {
	return s.ledger.Movements()
}

// --- Persistence ---

// ImportData loads from an importer in dependency order. A failure stops the
// import; what was loaded before it stays in the ledger.
func (s *LedgerService) ImportData(ctx context.Context, from portsrepo.Importer) error {
	steps := []struct {
		name string
		run  func(context.Context, portsrepo.LedgerLoader) error
	}{
		{"accounts", from.ImportAccounts},
		{"categories", from.ImportCategories},
		{"movements", from.ImportMovements},
		{"transaction categories", from.ImportTransactionCategories},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := step.run(ctx, s); err != nil {
			s.LogError(ctx, err, "Import failed", slog.String("step", step.name))
			return fmt.Errorf("import %s: %w", step.name, err)
		}
	}
	s.LogInfo(ctx, "Ledger imported",
		slog.Int("accounts", len(s.ledger.Accounts())),
		slog.Int("categories", len(s.ledger.Categories())),
		slog.Int("transactions", len(s.ledger.Transactions())))
	return nil
}

// SaveData writes the ledger through a saver.
func (s *LedgerService) SaveData(ctx context.Context, to portsrepo.Saver) error {
	steps := []struct {
		name string
		run  func(context.Context, portsrepo.LedgerSnapshot) error
	}{
		{"accounts", to.SaveAccounts},
		{"movements", to.SaveMovements},
		{"categories", to.SaveCategories},
		{"transaction categories", to.SaveTransactionCategories},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := step.run(ctx, s); err != nil {
			s.LogError(ctx, err, "Save failed", slog.String("step", step.name))
			return fmt.Errorf("save %s: %w", step.name, err)
		}
	}
	s.LogInfo(ctx, "Ledger saved", slog.Int("transactions", len(s.ledger.Transactions())))
	return nil
}

// Restore imports into a fresh ledger and swaps it in only when the whole
// import succeeded.
func (s *LedgerService) Restore(ctx context.Context, from portsrepo.Importer) error {
	staging := NewLedgerService()
	if err := staging.ImportData(ctx, from); err != nil {
		return err
	}
	s.ledger = staging.ledger
	s.nextMovementID = staging.nextMovementID
	s.nextTransactionID = staging.nextTransactionID
	return nil
}
