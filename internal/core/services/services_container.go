package services

import (
	portsrepo "github.com/SscSPs/money_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/money_ledger/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, options ...LedgerServiceOption) *portssvc.ServiceContainer {
	ledger := NewLedgerService(options...)

	container := &portssvc.ServiceContainer{
		Ledger:     ledger,
		Statistics: NewStatisticsService(),
	}
	if repos.SnapshotRepo != nil {
		container.Snapshot = NewSnapshotService(ledger, repos.SnapshotRepo)
	}
	return container
}
