package filestore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/SscSPs/money_ledger/internal/adapters/filestore"
	"github.com/SscSPs/money_ledger/internal/apperrors"
	"github.com/SscSPs/money_ledger/internal/core/domain"
	"github.com/SscSPs/money_ledger/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

// populate builds a ledger with two accounts, two categories and three transactions.
func populate(t *testing.T, ctx context.Context, svc *services.LedgerService) {
	t.Helper()
	checking, err := svc.AddAccount(ctx, domain.Assets, "Checking", "main account", decimal.RequireFromString("100.50"))
	require.NoError(t, err)
	card, err := svc.AddAccount(ctx, domain.Liabilities, "Card", "", decimal.Zero)
	require.NoError(t, err)
	food, err := svc.AddCategory(ctx, "Food", "groceries")
	require.NoError(t, err)
	rent, err := svc.AddCategory(ctx, "Rent", "")
	require.NoError(t, err)

	tx1, err := svc.AddMovement(ctx, domain.Debits, decimal.RequireFromString("12.30"), day(2023, time.January, 5), "market", checking)
	require.NoError(t, err)
	require.NoError(t, svc.LinkCategoryToTransaction(ctx, food, tx1))

	tx2, err := svc.AddMovement(ctx, domain.Credits, decimal.NewFromInt(800), day(2023, time.February, 1), "rent", card)
	require.NoError(t, err)
	m, err := svc.AddMovementToTransaction(ctx, domain.Debits, decimal.NewFromInt(800), day(2023, time.February, 1), "rent paid", tx2, checking)
	require.NoError(t, err)
	require.NoError(t, svc.LinkCategoryToMovement(ctx, rent, m))

	_, err = svc.AddMovement(ctx, domain.Credits, decimal.NewFromInt(5), day(2023, time.March, 3), "", checking)
	require.NoError(t, err)
}

func TestTxtStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := filestore.NewTxtStore(filepath.Join(t.TempDir(), "data"))

	original := services.NewLedgerService()
	populate(t, ctx, original)
	require.NoError(t, original.SaveData(ctx, store))

	restored := services.NewLedgerService()
	require.NoError(t, restored.ImportData(ctx, store))

	require.Len(t, restored.ListAccounts(ctx), len(original.ListAccounts(ctx)))
	for i, want := range original.ListAccounts(ctx) {
		got := restored.ListAccounts(ctx)[i]
		assert.Equal(t, want.ID(), got.ID())
		assert.Equal(t, want.Type(), got.Type())
		assert.Equal(t, want.Name(), got.Name())
		assert.Equal(t, want.Description(), got.Description())
		assert.True(t, want.OpeningBalance().Equal(got.OpeningBalance()))
		assert.True(t, want.Balance().Equal(got.Balance()))
	}

	require.Len(t, restored.ListCategories(ctx), 2)
	for i, want := range original.ListCategories(ctx) {
		got := restored.ListCategories(ctx)[i]
		assert.Equal(t, want.ID(), got.ID())
		assert.Equal(t, want.Name(), got.Name())
		assert.Equal(t, want.Description(), got.Description())
	}

	wantMovements, gotMovements := original.ListMovements(ctx), restored.ListMovements(ctx)
	require.Len(t, gotMovements, len(wantMovements))
	for i, want := range wantMovements {
		got := gotMovements[i]
		assert.Equal(t, want.ID(), got.ID())
		assert.Equal(t, want.Type(), got.Type())
		assert.True(t, want.Amount().Equal(got.Amount()))
		assert.Equal(t, want.Date(), got.Date())
		assert.Equal(t, want.Description(), got.Description())
		assert.Equal(t, want.Transaction().ID(), got.Transaction().ID())
		assert.Equal(t, want.Account().ID(), got.Account().ID())
		assert.Equal(t, len(want.Categories()), len(got.Categories()), "movement %d categories", want.ID())
	}

	wantTxs, gotTxs := original.ListTransactions(ctx), restored.ListTransactions(ctx)
	require.Len(t, gotTxs, len(wantTxs))
	for i, want := range wantTxs {
		assert.Equal(t, want.ID(), gotTxs[i].ID())
		assert.Equal(t, len(want.Categories()), len(gotTxs[i].Categories()))
	}

	tx, err := restored.AddMovement(ctx, domain.Credits, decimal.NewFromInt(1), day(2023, time.April, 1), "", restored.ListAccounts(ctx)[0])
	require.NoError(t, err)
	assert.Equal(t, 4, tx.ID(), "counters continue after the imported ids")
	assert.Equal(t, 5, tx.Movements()[0].ID())
}

func TestTxtStore_SaveFormat(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := filestore.NewTxtStore(dir)

	svc := services.NewLedgerService()
	populate(t, ctx, svc)
	require.NoError(t, svc.SaveData(ctx, store))

	read := func(name string) string {
		b, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		return string(b)
	}
	assert.Equal(t, "1;ASSETS;Checking;main account;100.5\n2;LIABILITIES;Card;;0\n", read(filestore.AccountFile))
	assert.Equal(t, "1;groceries;Food\n2;;Rent\n", read(filestore.CategoryFile))
	assert.Equal(t,
		"1;DEBITS;12.3;2023-01-05;market;1;1;1-\n"+
			"2;CREDITS;800;2023-02-01;rent;2;2;\n"+
			"3;DEBITS;800;2023-02-01;rent paid;2;1;2-\n"+
			"4;CREDITS;5;2023-03-03;;3;1;\n",
		read(filestore.MovementFile))
	assert.Equal(t, "1;1-\n", read(filestore.TransactionFile))
}

func TestTxtStore_ImportTolerantFormat(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		filestore.AccountFile:     "3;assets;Wallet;;10\r\n\n",
		filestore.CategoryFile:    "7;;Fun\n8;misc;Other\n",
		filestore.MovementFile:    "5;CREDITS;2.5;2022-05-01;first;9;3\n6;DEBITS;1;2022-05-02;second;9;3;7-8\n",
		filestore.TransactionFile: "9;8\n",
	})

	svc := services.NewLedgerService()
	require.NoError(t, svc.ImportData(ctx, filestore.NewTxtStore(dir)))

	tx, err := svc.GetTransaction(ctx, 9)
	require.NoError(t, err)
	assert.Len(t, tx.Movements(), 2)
	require.Len(t, tx.Categories(), 1)
	assert.Equal(t, 8, tx.Categories()[0].ID())

	m, err := svc.GetMovement(ctx, 6)
	require.NoError(t, err)
	assert.Len(t, m.Categories(), 2)

	first, err := svc.GetMovement(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, first.Categories(), "transaction categories are not pushed onto stored movements")

	wallet, err := svc.GetAccount(ctx, 3)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("11.5").Equal(wallet.Balance()))
}

func TestTxtStore_ImportErrors(t *testing.T) {
	ctx := context.Background()
	base := map[string]string{
		filestore.AccountFile:     "1;ASSETS;Wallet;;0\n",
		filestore.CategoryFile:    "",
		filestore.MovementFile:    "",
		filestore.TransactionFile: "",
	}

	tests := []struct {
		name     string
		override map[string]string
		missing  string
		wantErr  error
		wantText string
	}{
		{
			name:     "bad amount",
			override: map[string]string{filestore.MovementFile: "1;CREDITS;1;2022-01-01;;1;1;\n2;CREDITS;abc;2022-01-01;;1;1;\n"},
			wantErr:  apperrors.ErrParse,
			wantText: "Movement.txt:2",
		},
		{
			name:     "duplicate movement id",
			override: map[string]string{filestore.MovementFile: "1;CREDITS;1;2022-01-01;;1;1;\n1;DEBITS;1;2022-01-01;;2;1;\n"},
			wantErr:  apperrors.ErrDuplicateID,
		},
		{
			name:     "duplicate account id",
			override: map[string]string{filestore.AccountFile: "1;ASSETS;Wallet;;0\n1;ASSETS;Again;;0\n"},
			wantErr:  apperrors.ErrDuplicateID,
		},
		{
			name:     "unknown account",
			override: map[string]string{filestore.MovementFile: "1;CREDITS;1;2022-01-01;;1;4;\n"},
			wantErr:  apperrors.ErrNotFound,
		},
		{
			name:     "negative amount",
			override: map[string]string{filestore.MovementFile: "1;CREDITS;-1;2022-01-01;;1;1;\n"},
			wantErr:  apperrors.ErrInvalidMovement,
		},
		{
			name:     "negative id",
			override: map[string]string{filestore.MovementFile: "-1;CREDITS;1;2022-01-01;;1;1;\n"},
			wantErr:  apperrors.ErrParse,
		},
		{
			name:     "wrong field count",
			override: map[string]string{filestore.CategoryFile: "1;Food\n"},
			wantErr:  apperrors.ErrParse,
		},
		{
			name:    "missing file",
			missing: filestore.CategoryFile,
			wantErr: apperrors.ErrIO,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			files := map[string]string{}
			for k, v := range base {
				files[k] = v
			}
			for k, v := range tt.override {
				files[k] = v
			}
			delete(files, tt.missing)
			writeFiles(t, dir, files)

			err := services.NewLedgerService().ImportData(ctx, filestore.NewTxtStore(dir))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.NotErrorIs(t, err, os.ErrNotExist, "a partly stored ledger is not an empty store")
			if tt.wantText != "" {
				assert.Contains(t, err.Error(), tt.wantText)
			}
		})
	}
}

func TestTxtStore_ImportEmptyStore(t *testing.T) {
	ctx := context.Background()
	store := filestore.NewTxtStore(filepath.Join(t.TempDir(), "never-saved"))

	err := services.NewLedgerService().ImportData(ctx, store)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrIO)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTxtStore_ImportZeroBasedIDs(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		filestore.AccountFile:     "0;ASSETS;Checking;main;0.0\n1;LIABILITIES;Card;;0.0\n",
		filestore.CategoryFile:    "0;groceries;Food\n",
		filestore.MovementFile:    "0;DEBITS;20.0;2020-01-01;market;0;0;0-\n1;CREDITS;20.0;2020-01-01;market;0;1;0-\n",
		filestore.TransactionFile: "0;0-\n",
	})

	svc := services.NewLedgerService()
	require.NoError(t, svc.ImportData(ctx, filestore.NewTxtStore(dir)))

	checking, err := svc.GetAccount(ctx, 0)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(-20).Equal(checking.Balance()))
	food, err := svc.GetCategory(ctx, 0)
	require.NoError(t, err)
	tx, err := svc.GetTransaction(ctx, 0)
	require.NoError(t, err)
	assert.True(t, tx.HasCategory(food))
	m, err := svc.GetMovement(ctx, 0)
	require.NoError(t, err)
	assert.True(t, m.HasCategory(food))

	next, err := svc.AddMovement(ctx, domain.Credits, decimal.NewFromInt(1), day(2020, time.January, 2), "", checking)
	require.NoError(t, err)
	assert.Equal(t, 1, next.ID(), "counters continue after the imported ids")
	assert.Equal(t, 2, next.Movements()[0].ID())

	out := t.TempDir()
	require.NoError(t, svc.SaveData(ctx, filestore.NewTxtStore(out)))
	reloaded := services.NewLedgerService()
	require.NoError(t, reloaded.ImportData(ctx, filestore.NewTxtStore(out)))
	_, err = reloaded.GetAccount(ctx, 0)
	assert.NoError(t, err)
}

func TestTxtStore_SaveRejectsSeparator(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	svc := services.NewLedgerService()
	_, err := svc.AddAccount(ctx, domain.Assets, "Cash;Wallet", "", decimal.Zero)
	require.NoError(t, err)

	err = svc.SaveData(ctx, filestore.NewTxtStore(dir))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, statErr := os.Stat(filepath.Join(dir, filestore.AccountFile))
	assert.True(t, os.IsNotExist(statErr), "a failed save leaves no partial file")
}
