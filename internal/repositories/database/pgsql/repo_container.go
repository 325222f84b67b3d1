package pgsql

import (
	portsrepo "github.com/SscSPs/exchange_sync_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the pgx repositories over one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool, ratesTable, reservationsTable string) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		RateRepo:        NewPgxRateRepository(dbPool, ratesTable),
		ReservationRepo: NewPgxReservationRepository(dbPool, reservationsTable),
	}
}
