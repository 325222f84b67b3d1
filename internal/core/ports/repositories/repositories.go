package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// Both storage backends (PostgREST and direct PostgreSQL) fill it.
type RepositoryProvider struct {
	RateRepo        RateRepositoryFacade
	ReservationRepo ReservationRepositoryFacade
}
