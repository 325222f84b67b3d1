package postgrest

import (
	portsrepo "github.com/SscSPs/exchange_sync_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the PostgREST repositories over one client.
func NewRepositoryProvider(client *Client, ratesTable, reservationsTable string) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		RateRepo:        NewRateRepository(client, ratesTable),
		ReservationRepo: NewReservationRepository(client, reservationsTable),
	}
}
