package pgsql

import (
	portsrepo "github.com/finkit/bulk_payout_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:  NewAccountRepository(dbPool),
		LedgerRepo:   NewLedgerRepository(dbPool),
		BulkTaskRepo: NewBulkTaskRepository(dbPool),
		Transactor:   NewBaseRepository(dbPool),
	}
}
