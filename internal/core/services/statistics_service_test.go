package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/money_ledger/internal/apperrors"
	"github.com/SscSPs/money_ledger/internal/core/domain"
	"github.com/SscSPs/money_ledger/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statsFixture struct {
	account *domain.Account
	catA    *domain.Category
	catB    *domain.Category
	tx      *domain.Transaction
	nextID  int
}

func newStatsFixture(t *testing.T) *statsFixture {
	t.Helper()
	a, err := domain.NewAccount(1, domain.Assets, "Checking", "", decimal.Zero)
	require.NoError(t, err)
	catA, err := domain.NewCategory(1, "catA", "")
	require.NoError(t, err)
	catB, err := domain.NewCategory(2, "catB", "")
	require.NoError(t, err)
	return &statsFixture{account: a, catA: catA, catB: catB, tx: domain.NewTransaction(1), nextID: 1}
}

func (f *statsFixture) add(t *testing.T, mt domain.MovementType, amount int64, categories ...*domain.Category) *domain.Movement {
	t.Helper()
	m, err := domain.NewMovement(f.nextID, mt, decimal.NewFromInt(amount), pastDay, "", f.tx, f.account)
	require.NoError(t, err)
	f.nextID++
	for _, c := range categories {
		m.AddCategory(c)
	}
	return m
}

func TestCategoryTotals(t *testing.T) {
	f := newStatsFixture(t)
	f.add(t, domain.Credits, 10, f.catA)
	f.add(t, domain.Credits, 20, f.catA)
	f.add(t, domain.Credits, 10, f.catB, f.catA)
	f.add(t, domain.Debits, 99)

	totals, err := services.NewStatisticsService().CategoryTotals(context.Background(), f.account)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, f.catA, totals[0].Category)
	assert.True(t, decimal.NewFromInt(40).Equal(totals[0].Total), "got %s", totals[0].Total)
	assert.Equal(t, f.catB, totals[1].Category)
	assert.True(t, decimal.NewFromInt(10).Equal(totals[1].Total), "got %s", totals[1].Total)
}

func TestCategoryTotals_DebitsAreNotNegated(t *testing.T) {
	f := newStatsFixture(t)
	f.add(t, domain.Credits, 10, f.catA)
	f.add(t, domain.Debits, 5, f.catA)

	totals, err := services.NewStatisticsService().CategoryTotals(context.Background(), f.account)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.True(t, decimal.NewFromInt(15).Equal(totals[0].Total))
}

func TestExtremes(t *testing.T) {
	ctx := context.Background()
	svc := services.NewStatisticsService()
	f := newStatsFixture(t)
	firstBigCredit := f.add(t, domain.Credits, 50)
	f.add(t, domain.Credits, 50)
	smallCredit := f.add(t, domain.Credits, 5)
	bigDebit := f.add(t, domain.Debits, 70)
	smallDebit := f.add(t, domain.Debits, 1)

	got, err := svc.MaxCredit(ctx, f.account)
	require.NoError(t, err)
	assert.Same(t, firstBigCredit, got, "ties resolve to the first movement")

	got, err = svc.MinCredit(ctx, f.account)
	require.NoError(t, err)
	assert.Same(t, smallCredit, got)

	got, err = svc.MaxDebit(ctx, f.account)
	require.NoError(t, err)
	assert.Same(t, bigDebit, got)

	got, err = svc.MinDebit(ctx, f.account)
	require.NoError(t, err)
	assert.Same(t, smallDebit, got)
}

func TestExtremes_Errors(t *testing.T) {
	ctx := context.Background()
	svc := services.NewStatisticsService()

	_, err := svc.MaxCredit(ctx, nil)
	assert.ErrorIs(t, err, apperrors.ErrNoAccount)
	_, err = svc.CategoryTotals(ctx, nil)
	assert.ErrorIs(t, err, apperrors.ErrNoAccount)

	f := newStatsFixture(t)
	f.add(t, domain.Credits, 10)
	_, err = svc.MinDebit(ctx, f.account)
	assert.ErrorIs(t, err, apperrors.ErrNoMovements)
}

func TestSummary(t *testing.T) {
	f := newStatsFixture(t)
	credit := f.add(t, domain.Credits, 30, f.catA)
	f.add(t, domain.Credits, 10)

	summary, err := services.NewStatisticsService().Summary(context.Background(), f.account)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(40).Equal(summary.Balance))
	assert.Same(t, credit, summary.MaxCredit)
	assert.Nil(t, summary.MaxDebit)
	assert.Nil(t, summary.MinDebit)
	require.Len(t, summary.CategoryTotals, 1)
	assert.True(t, decimal.NewFromInt(30).Equal(summary.CategoryTotals[0].Total))

	_, err = services.NewStatisticsService().Summary(context.Background(), nil)
	assert.ErrorIs(t, err, apperrors.ErrNoAccount)
}
