package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/money_ledger/internal/apperrors"
	"github.com/SscSPs/money_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/money_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/money_ledger/internal/models"
	"github.com/SscSPs/money_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxSnapshotRepository stores a whole ledger in PostgreSQL. Every Save step
// replaces the rows of its tables inside a single database transaction.
type PgxSnapshotRepository struct {
	BaseRepository
}

func newPgxSnapshotRepository(pool *pgxpool.Pool) *PgxSnapshotRepository {
	return &PgxSnapshotRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SnapshotRepositoryFacade = (*PgxSnapshotRepository)(nil)

const (
	insertAccount = `
		INSERT INTO ledger_accounts (account_id, account_type, name, description, opening_balance)
		VALUES ($1, $2, $3, $4, $5);`
	insertCategory = `
		INSERT INTO ledger_categories (category_id, name, description)
		VALUES ($1, $2, $3);`
	insertMovement = `
		INSERT INTO ledger_movements (movement_id, movement_type, amount, movement_date, description, transaction_id, account_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7);`
	insertMovementCategory = `
		INSERT INTO ledger_movement_categories (movement_id, category_id)
		VALUES ($1, $2);`
	insertTransactionCategory = `
		INSERT INTO ledger_transaction_categories (transaction_id, category_id)
		VALUES ($1, $2);`

	selectAccounts = `
		SELECT account_id, account_type, name, description, opening_balance
		FROM ledger_accounts
		ORDER BY account_id;`
	selectCategories = `
		SELECT category_id, name, description
		FROM ledger_categories
		ORDER BY category_id;`
	selectMovements = `
		SELECT m.movement_id, m.movement_type, m.amount, m.movement_date, m.description, m.transaction_id, m.account_id,
			COALESCE(array_agg(mc.category_id ORDER BY mc.category_id) FILTER (WHERE mc.category_id IS NOT NULL), '{}') AS category_ids
		FROM ledger_movements m
		LEFT JOIN ledger_movement_categories mc ON mc.movement_id = m.movement_id
		GROUP BY m.movement_id
		ORDER BY m.movement_id;`
	selectTransactionCategories = `
		SELECT transaction_id, category_id
		FROM ledger_transaction_categories
		ORDER BY transaction_id, category_id;`
)

// replace clears tables and runs batch in one transaction.
func (r *PgxSnapshotRepository) replace(ctx context.Context, op string, batch *pgx.Batch, tables ...string) (err error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if rbErr := r.Rollback(ctx, tx); rbErr != nil && err == nil {
			err = rbErr
		}
	}()

	for _, table := range tables {
		if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
			return classify(op, err)
		}
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return classify(op, err)
		}
	}
	return r.Commit(ctx, tx)
}

func (r *PgxSnapshotRepository) SaveAccounts(ctx context.Context, from portsrepo.LedgerSnapshot) error {
	batch := &pgx.Batch{}
	for _, a := range mapping.ToModelAccountSlice(from.ListAccounts(ctx)) {
		batch.Queue(insertAccount, a.AccountID, a.AccountType, a.Name, a.Description, a.OpeningBalance)
	}
	return r.replace(ctx, "save accounts", batch, "ledger_accounts")
}

func (r *PgxSnapshotRepository) SaveMovements(ctx context.Context, from portsrepo.LedgerSnapshot) error {
	batch := &pgx.Batch{}
	for _, d := range from.ListMovements(ctx) {
		if d.IsDeleted() {
			continue
		}
		m := mapping.ToModelMovement(d)
		batch.Queue(insertMovement, m.MovementID, m.MovementType, m.Amount, m.MovementDate, m.Description, m.TransactionID, m.AccountID)
		for _, categoryID := range m.CategoryIDs {
			batch.Queue(insertMovementCategory, m.MovementID, categoryID)
		}
	}
	return r.replace(ctx, "save movements", batch, "ledger_movement_categories", "ledger_movements")
}

func (r *PgxSnapshotRepository) SaveCategories(ctx context.Context, from portsrepo.LedgerSnapshot) error {
	batch := &pgx.Batch{}
	for _, c := range mapping.ToModelCategorySlice(from.ListCategories(ctx)) {
		batch.Queue(insertCategory, c.CategoryID, c.Name, c.Description)
	}
	return r.replace(ctx, "save categories", batch, "ledger_categories")
}

func (r *PgxSnapshotRepository) SaveTransactionCategories(ctx context.Context, from portsrepo.LedgerSnapshot) error {
	batch := &pgx.Batch{}
	for _, link := range mapping.ToModelTransactionCategories(from.ListTransactions(ctx)) {
		batch.Queue(insertTransactionCategory, link.TransactionID, link.CategoryID)
	}
	return r.replace(ctx, "save transaction categories", batch, "ledger_transaction_categories")
}

func collect[T any](ctx context.Context, pool *pgxpool.Pool, op, query string) ([]T, error) {
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, classify(op, err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, classify(op, err)
	}
	return items, nil
}

func (r *PgxSnapshotRepository) ImportAccounts(ctx context.Context, into portsrepo.LedgerLoader) error {
	rows, err := collect[models.Account](ctx, r.Pool, "import accounts", selectAccounts)
	if err != nil {
		return err
	}
	for _, row := range rows {
		accountType, err := mapping.ToDomainAccountType(row.AccountType)
		if err != nil {
			return fmt.Errorf("account %d: %w", row.AccountID, err)
		}
		if _, err := into.AddAccountWithID(ctx, accountType, row.Name, row.Description, row.AccountID, row.OpeningBalance); err != nil {
			return fmt.Errorf("account %d: %w", row.AccountID, err)
		}
	}
	return nil
}

func (r *PgxSnapshotRepository) ImportCategories(ctx context.Context, into portsrepo.LedgerLoader) error {
	rows, err := collect[models.Category](ctx, r.Pool, "import categories", selectCategories)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := into.AddCategoryWithID(ctx, row.Name, row.Description, row.CategoryID); err != nil {
			return fmt.Errorf("category %d: %w", row.CategoryID, err)
		}
	}
	return nil
}

func (r *PgxSnapshotRepository) ImportMovements(ctx context.Context, into portsrepo.LedgerLoader) error {
	rows, err := collect[models.Movement](ctx, r.Pool, "import movements", selectMovements)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := loadMovement(ctx, into, row); err != nil {
			return fmt.Errorf("movement %d: %w", row.MovementID, err)
		}
	}
	return nil
}

func loadMovement(ctx context.Context, into portsrepo.LedgerLoader, row models.Movement) error {
	if _, err := into.GetMovement(ctx, row.MovementID); err == nil {
		return apperrors.ErrDuplicateID
	}
	movementType, err := mapping.ToDomainMovementType(row.MovementType)
	if err != nil {
		return err
	}
	account, err := into.GetAccount(ctx, row.AccountID)
	if err != nil {
		return err
	}
	tx, err := into.GetTransaction(ctx, row.TransactionID)
	if errors.Is(err, apperrors.ErrNotFound) {
		tx = domain.NewTransaction(row.TransactionID)
	} else if err != nil {
		return err
	}

	m, err := domain.NewMovement(row.MovementID, movementType, row.Amount, row.MovementDate, row.Description, tx, account)
	if err != nil {
		return err
	}
	if err := into.ImportMovement(ctx, m); err != nil {
		domain.DiscardMovement(m)
		return err
	}
	for _, categoryID := range row.CategoryIDs {
		c, err := into.GetCategory(ctx, int(categoryID))
		if err != nil {
			return err
		}
		if err := into.LinkCategoryToMovement(ctx, c, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *PgxSnapshotRepository) ImportTransactionCategories(ctx context.Context, into portsrepo.LedgerLoader) error {
	rows, err := collect[models.TransactionCategory](ctx, r.Pool, "import transaction categories", selectTransactionCategories)
	if err != nil {
		return err
	}
	for _, row := range rows {
		tx, err := into.GetTransaction(ctx, row.TransactionID)
		if err != nil {
			return fmt.Errorf("transaction %d: %w", row.TransactionID, err)
		}
		c, err := into.GetCategory(ctx, row.CategoryID)
		if err != nil {
			return fmt.Errorf("transaction %d: %w", row.TransactionID, err)
		}
		if err := into.RestoreTransactionCategory(ctx, tx, c); err != nil {
			return fmt.Errorf("transaction %d: %w", row.TransactionID, err)
		}
	}
	return nil
}
