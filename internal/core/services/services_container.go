package services

import (
	"time"

	"github.com/SscSPs/exchange_sync_app/internal/core/ports/providers"
	portsrepo "github.com/SscSPs/exchange_sync_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/exchange_sync_app/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(location *time.Location, repos portsrepo.RepositoryProvider, source providers.RateSource) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The sync service goes first since the reader heals stale storage through it
	container.RateSync = NewSyncService(repos.RateRepo, source, location)
	container.RateReader = NewRatePresenter(
		repos.RateRepo,
		location,
		WithSelfHealingSync(container.RateSync),
	)
	container.Reservation = NewReservationService(repos.ReservationRepo, location)

	return container
}
