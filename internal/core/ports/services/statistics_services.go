package services

import (
	"context"

	"github.com/SscSPs/money_ledger/internal/core/domain"
)

// StatisticsSvc derives aggregates over a single account's movements.
type StatisticsSvc interface {
	// CategoryTotals sums, per category, the unsigned amounts of the categorised movements.
	CategoryTotals(ctx context.Context, account *domain.Account) ([]domain.CategoryTotal, error)

	MaxCredit(ctx context.Context, account *domain.Account) (*domain.Movement, error)
	MinCredit(ctx context.Context, account *domain.Account) (*domain.Movement, error)
	MaxDebit(ctx context.Context, account *domain.Account) (*domain.Movement, error)
	MinDebit(ctx context.Context, account *domain.Account) (*domain.Movement, error)

	// Summary gathers balance, category totals and extremes in one call.
	Summary(ctx context.Context, account *domain.Account) (*domain.AccountSummary, error)
}
