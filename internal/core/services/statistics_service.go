package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/SscSPs/money_ledger/internal/apperrors"
	"github.com/SscSPs/money_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/money_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// statisticsService implements the StatisticsSvc interface
type statisticsService struct {
	BaseService
}

// NewStatisticsService creates a new statistics service
func NewStatisticsService() portssvc.StatisticsSvc {
	return &statisticsService{}
}

// Ensure statisticsService implements the StatisticsSvc interface
var _ portssvc.StatisticsSvc = (*statisticsService)(nil)

// CategoryTotals walks the categorised movements of account. Categories come out
// in id order; each total adds amounts as they are, credits and debits alike.
func (s *statisticsService) CategoryTotals(ctx context.Context, account *domain.Account) ([]domain.CategoryTotal, error) {
	if account == nil {
		return nil, apperrors.ErrNoAccount
	}

	var order []*domain.Category
	sums := make(map[*domain.Category]decimal.Decimal)
	for _, m := range account.Movements() {
		for _, c := range m.Categories() {
			sum, seen := sums[c]
			if !seen {
				order = append(order, c)
			}
			sums[c] = sum.Add(m.Amount())
		}
	}
	sortCategoriesByID(order)

	totals := make([]domain.CategoryTotal, len(order))
	for i, c := range order {
		totals[i] = domain.CategoryTotal{Category: c, Total: sums[c]}
	}
	s.LogDebug(ctx, "Category totals computed", slog.Int("account_id", account.ID()), slog.Int("categories", len(totals)))
	return totals, nil
}

func (s *statisticsService) MaxCredit(ctx context.Context, account *domain.Account) (*domain.Movement, error) {
	return extreme(account, domain.Credits, decimal.Decimal.GreaterThan)
}

func (s *statisticsService) MinCredit(ctx context.Context, account *domain.Account) (*domain.Movement, error) {
	return extreme(account, domain.Credits, decimal.Decimal.LessThan)
}

func (s *statisticsService) MaxDebit(ctx context.Context, account *domain.Account) (*domain.Movement, error) {
	return extreme(account, domain.Debits, decimal.Decimal.GreaterThan)
}

func (s *statisticsService) MinDebit(ctx context.Context, account *domain.Account) (*domain.Movement, error) {
	return extreme(account, domain.Debits, decimal.Decimal.LessThan)
}

func sortCategoriesByID(categories []*domain.Category) {
	slices.SortFunc(categories, func(a, b *domain.Category) int {
		return cmp.Compare(a.ID(), b.ID())
	})
}

// extreme returns the first movement of type t that no later movement beats
// under the strict comparison better.
func extreme(account *domain.Account, t domain.MovementType, better func(decimal.Decimal, decimal.Decimal) bool) (*domain.Movement, error) {
	if account == nil {
		return nil, apperrors.ErrNoAccount
	}
	var best *domain.Movement
	for _, m := range account.Movements() {
		if m.Type() != t {
			continue
		}
		if best == nil || better(m.Amount(), best.Amount()) {
			best = m
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: no %s in account %d", apperrors.ErrNoMovements, t, account.ID())
	}
	return best, nil
}

// Summary computes the account statistics concurrently. The account must not
// be mutated while Summary runs.
func (s *statisticsService) Summary(ctx context.Context, account *domain.Account) (*domain.AccountSummary, error) {
	if account == nil {
		return nil, apperrors.ErrNoAccount
	}
	summary := &domain.AccountSummary{Account: account}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary.Balance = account.Balance()
		return nil
	})
	g.Go(func() error {
		totals, err := s.CategoryTotals(gctx, account)
		summary.CategoryTotals = totals
		return err
	})

	extremes := []struct {
		dst **domain.Movement
		fn  func(context.Context, *domain.Account) (*domain.Movement, error)
	}{
		{&summary.MaxCredit, s.MaxCredit},
		{&summary.MinCredit, s.MinCredit},
		{&summary.MaxDebit, s.MaxDebit},
		{&summary.MinDebit, s.MinDebit},
	}
	for _, e := range extremes {
		g.Go(func() error {
			m, err := e.fn(gctx, account)
			if errors.Is(err, apperrors.ErrNoMovements) {
				return nil
			}
			*e.dst = m
			return err
		})
	}

	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to compute account summary", slog.Int("account_id", account.ID()))
		return nil, err
	}
	s.LogInfo(ctx, "Account summary computed", slog.Int("account_id", account.ID()))
	return summary, nil
}
