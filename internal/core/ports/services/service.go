package services

import "context"

// SnapshotSvc persists the ledger through the configured storage backend.
type SnapshotSvc interface {
	// Export writes the current ledger to the backend.
	Export(ctx context.Context) error

	// Import replaces the current ledger with the backend's content.
	Import(ctx context.Context) error
}

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Ledger     LedgerSvcFacade
	Statistics StatisticsSvc
	Snapshot   SnapshotSvc
}
