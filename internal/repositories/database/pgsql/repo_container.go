package pgsql

import (
	portsrepo "github.com/SscSPs/money_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		SnapshotRepo: newPgxSnapshotRepository(dbPool),
	}
}
