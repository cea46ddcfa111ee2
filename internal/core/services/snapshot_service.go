package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	portsrepo "github.com/SscSPs/money_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/money_ledger/internal/core/ports/services"
)

type snapshotService struct {
	BaseService
	ledger portssvc.LedgerPersistenceSvc
	repo   portsrepo.SnapshotRepositoryFacade
}

// NewSnapshotService binds the ledger to a storage backend.
func NewSnapshotService(ledger portssvc.LedgerPersistenceSvc, repo portsrepo.SnapshotRepositoryFacade) portssvc.SnapshotSvc {
	return &snapshotService{ledger: ledger, repo: repo}
}

var _ portssvc.SnapshotSvc = (*snapshotService)(nil)

func (s *snapshotService) Export(ctx context.Context) error {
	start := time.Now()
	if err := s.ledger.SaveData(ctx, s.repo); err != nil {
		return fmt.Errorf("failed to export ledger: %w", err)
	}
	s.LogInfo(ctx, "Ledger exported", slog.Duration("took", time.Since(start)))
	return nil
}

func (s *snapshotService) Import(ctx context.Context) error {
	start := time.Now()
	if err := s.ledger.Restore(ctx, s.repo); err != nil {
		return fmt.Errorf("failed to import ledger: %w", err)
	}
	s.LogInfo(ctx, "Ledger imported", slog.Duration("took", time.Since(start)))
	return nil
}
