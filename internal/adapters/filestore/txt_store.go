// Package filestore keeps a ledger in four ';'-separated text files.
//
//	Account.txt      id;TYPE;name;description;openingBalance
//	Category.txt     id;description;name
//	Movement.txt     id;TYPE;amount;YYYY-MM-DD;description;transactionId;accountId;catId-catId-
//	Transaction.txt  transactionId;catId-catId-
//
// Transaction.txt only lists transactions that carry at least one category.
package filestore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/money_ledger/internal/apperrors"
	"github.com/SscSPs/money_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/money_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/money_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

const (
	AccountFile     = "Account.txt"
	CategoryFile    = "Category.txt"
	MovementFile    = "Movement.txt"
	TransactionFile = "Transaction.txt"

	fieldSep = ";"
	idSep    = "-"
)

// TxtStore reads and writes the text files of one directory.
type TxtStore struct {
	dir string
}

// NewTxtStore creates a store rooted at dir. The directory is created on first save.
func NewTxtStore(dir string) *TxtStore {
	return &TxtStore{dir: dir}
}

var _ portsrepo.SnapshotRepositoryFacade = (*TxtStore)(nil)

// Dir returns the directory the store works in.
func (s *TxtStore) Dir() string {
	return s.dir
}

// --- Import ---

func (s *TxtStore) ImportAccounts(ctx context.Context, into portsrepo.LedgerLoader) error {
	return s.eachRecord(ctx, AccountFile, func(line int, fields []string) error {
		if len(fields) != 5 {
			return parseError(AccountFile, line, "expected 5 fields, got %d", len(fields))
		}
		id, err := parseID(AccountFile, line, fields[0])
		if err != nil {
			return err
		}
		accountType, err := domain.ParseAccountType(fields[1])
		if err != nil {
			return parseError(AccountFile, line, "%v", err)
		}
		opening, err := decimal.NewFromString(strings.TrimSpace(fields[4]))
		if err != nil {
			return parseError(AccountFile, line, "bad opening balance %q", fields[4])
		}
		_, err = into.AddAccountWithID(ctx, accountType, fields[2], fields[3], id, opening)
		return lineError(AccountFile, line, err)
	})
}

func (s *TxtStore) ImportCategories(ctx context.Context, into portsrepo.LedgerLoader) error {
	return s.eachRecord(ctx, CategoryFile, func(line int, fields []string) error {
		if len(fields) != 3 {
			return parseError(CategoryFile, line, "expected 3 fields, got %d", len(fields))
		}
		id, err := parseID(CategoryFile, line, fields[0])
		if err != nil {
			return err
		}
		_, err = into.AddCategoryWithID(ctx, fields[2], fields[1], id)
		return lineError(CategoryFile, line, err)
	})
}

func (s *TxtStore) ImportMovements(ctx context.Context, into portsrepo.LedgerLoader) error {
	return s.eachRecord(ctx, MovementFile, func(line int, fields []string) error {
		if len(fields) != 7 && len(fields) != 8 {
			return parseError(MovementFile, line, "expected 7 or 8 fields, got %d", len(fields))
		}
		id, err := parseID(MovementFile, line, fields[0])
		if err != nil {
			return err
		}
		if _, err := into.GetMovement(ctx, id); err == nil {
			return lineError(MovementFile, line, fmt.Errorf("%w: movement %d", apperrors.ErrDuplicateID, id))
		}
		movementType, err := domain.ParseMovementType(fields[1])
		if err != nil {
			return parseError(MovementFile, line, "%v", err)
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(fields[2]))
		if err != nil {
			return parseError(MovementFile, line, "bad amount %q", fields[2])
		}
		date, err := time.Parse(dto.DateLayout, strings.TrimSpace(fields[3]))
		if err != nil {
			return parseError(MovementFile, line, "bad date %q", fields[3])
		}
		txID, err := parseID(MovementFile, line, fields[5])
		if err != nil {
			return err
		}
		accountID, err := parseID(MovementFile, line, fields[6])
		if err != nil {
			return err
		}
		var categoryIDs []int
		if len(fields) == 8 {
			if categoryIDs, err = parseIDList(MovementFile, line, fields[7]); err != nil {
				return err
			}
		}

		account, err := into.GetAccount(ctx, accountID)
		if err != nil {
			return lineError(MovementFile, line, err)
		}
		tx, err := into.GetTransaction(ctx, txID)
		if errors.Is(err, apperrors.ErrNotFound) {
			tx = domain.NewTransaction(txID)
		} else if err != nil {
			return lineError(MovementFile, line, err)
		}

		m, err := domain.NewMovement(id, movementType, amount, date, fields[4], tx, account)
		if err != nil {
			return lineError(MovementFile, line, err)
		}
		if err := into.ImportMovement(ctx, m); err != nil {
			domain.DiscardMovement(m)
			return lineError(MovementFile, line, err)
		}
		for _, categoryID := range categoryIDs {
			c, err := into.GetCategory(ctx, categoryID)
			if err != nil {
				return lineError(MovementFile, line, err)
			}
			if err := into.LinkCategoryToMovement(ctx, c, m); err != nil {
				return lineError(MovementFile, line, err)
			}
		}
		return nil
	})
}

func (s *TxtStore) ImportTransactionCategories(ctx context.Context, into portsrepo.LedgerLoader) error {
	return s.eachRecord(ctx, TransactionFile, func(line int, fields []string) error {
		if len(fields) != 2 {
			return parseError(TransactionFile, line, "expected 2 fields, got %d", len(fields))
		}
		txID, err := parseID(TransactionFile, line, fields[0])
		if err != nil {
			return err
		}
		categoryIDs, err := parseIDList(TransactionFile, line, fields[1])
		if err != nil {
			return err
		}
		tx, err := into.GetTransaction(ctx, txID)
		if err != nil {
			return lineError(TransactionFile, line, err)
		}
		for _, categoryID := range categoryIDs {
			c, err := into.GetCategory(ctx, categoryID)
			if err != nil {
				return lineError(TransactionFile, line, err)
			}
			if err := into.RestoreTransactionCategory(ctx, tx, c); err != nil {
				return lineError(TransactionFile, line, err)
			}
		}
		return nil
	})
}

// eachRecord feeds every non-empty line of name, split on ';', to fn. The
// open error wraps os.ErrNotExist only when the directory holds no ledger file.
func (s *TxtStore) eachRecord(ctx context.Context, name string, fn func(line int, fields []string) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !s.holdsAny() {
			return fmt.Errorf("%w: nothing stored in %s: %w", apperrors.ErrIO, s.dir, err)
		}
		return fmt.Errorf("%w: open %s: %v", apperrors.ErrIO, name, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		if err := fn(line, strings.Split(text, fieldSep)); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: read %s: %v", apperrors.ErrIO, name, err)
	}
	return nil
}

// holdsAny reports whether any ledger file exists in the store directory.
func (s *TxtStore) holdsAny() bool {
	for _, name := range []string{AccountFile, CategoryFile, MovementFile, TransactionFile} {
		if _, err := os.Stat(filepath.Join(s.dir, name)); !errors.Is(err, os.ErrNotExist) {
			return true
		}
	}
	return false
}

func parseError(file string, line int, format string, args ...any) error {
	return fmt.Errorf("%w: %s:%d: %s", apperrors.ErrParse, file, line, fmt.Sprintf(format, args...))
}

// lineError annotates a ledger error with its position. nil stays nil.
func lineError(file string, line int, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s:%d: %w", file, line, err)
}

func parseID(file string, line int, field string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(field))
	if err != nil || id < 0 {
		return 0, parseError(file, line, "bad id %q", field)
	}
	return id, nil
}

// parseIDList accepts "1-2-", "1-2" and "".
func parseIDList(file string, line int, field string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(strings.TrimSpace(field), idSep) {
		if part == "" {
			continue
		}
		id, err := parseID(file, line, part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// --- Save ---

func (s *TxtStore) SaveAccounts(ctx context.Context, from portsrepo.LedgerSnapshot) error {
	accounts := from.ListAccounts(ctx)
	return s.writeRecords(ctx, AccountFile, func(emit func(...string) error) error {
		for _, a := range accounts {
			err := emit(strconv.Itoa(a.ID()), string(a.Type()), a.Name(), a.Description(), a.OpeningBalance().String())
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *TxtStore) SaveCategories(ctx context.Context, from portsrepo.LedgerSnapshot) error {
	categories := from.ListCategories(ctx)
	return s.writeRecords(ctx, CategoryFile, func(emit func(...string) error) error {
		for _, c := range categories {
			if err := emit(strconv.Itoa(c.ID()), c.Description(), c.Name()); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *TxtStore) SaveMovements(ctx context.Context, from portsrepo.LedgerSnapshot) error {
	movements := from.ListMovements(ctx)
	return s.writeRecords(ctx, MovementFile, func(emit func(...string) error) error {
		for _, m := range movements {
			if m.Transaction() == nil || m.Account() == nil {
				continue
			}
			err := emit(
				strconv.Itoa(m.ID()),
				string(m.Type()),
				m.Amount().String(),
				m.Date().Format(dto.DateLayout),
				m.Description(),
				strconv.Itoa(m.Transaction().ID()),
				strconv.Itoa(m.Account().ID()),
				formatIDList(m.Categories()),
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *TxtStore) SaveTransactionCategories(ctx context.Context, from portsrepo.LedgerSnapshot) error {
	txs := from.ListTransactions(ctx)
	return s.writeRecords(ctx, TransactionFile, func(emit func(...string) error) error {
		for _, tx := range txs {
			categories := tx.Categories()
			if len(categories) == 0 {
				continue
			}
			if err := emit(strconv.Itoa(tx.ID()), formatIDList(categories)); err != nil {
				return err
			}
		}
		return nil
	})
}

func formatIDList(categories []*domain.Category) string {
	var b strings.Builder
	for _, c := range categories {
		b.WriteString(strconv.Itoa(c.ID()))
		b.WriteString(idSep)
	}
	return b.String()
}

// writeRecords writes name through a temporary file that replaces the target
// only after every record was written.
func (s *TxtStore) writeRecords(ctx context.Context, name string, produce func(emit func(...string) error) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %v", apperrors.ErrIO, s.dir, err)
	}
	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp for %s: %v", apperrors.ErrIO, name, err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	w := bufio.NewWriter(tmp)
	emit := func(fields ...string) error {
		for _, f := range fields {
			if !dto.IsStorableText(f) {
				return fmt.Errorf("%w: %s: field %q contains ';' or a line break", apperrors.ErrValidation, name, f)
			}
		}
		_, err := w.WriteString(strings.Join(fields, fieldSep) + "\n")
		return err
	}
	if err := produce(emit); err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			return err
		}
		return fmt.Errorf("%w: write %s: %v", apperrors.ErrIO, name, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("%w: write %s: %v", apperrors.ErrIO, name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", apperrors.ErrIO, name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("%w: replace %s: %v", apperrors.ErrIO, name, err)
	}
	return nil
}
