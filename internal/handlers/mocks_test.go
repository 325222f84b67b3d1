package handlers_test

import (
	"context"

	"github.com/SscSPs/exchange_sync_app/internal/core/domain"
	portssvc "github.com/SscSPs/exchange_sync_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_sync_app/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock RateSyncService ---
type MockRateSyncService struct {
	mock.Mock
}

func (m *MockRateSyncService) Sync(ctx context.Context) *domain.SyncRunResult {
	args := m.Called(ctx)
	return args.Get(0).(*domain.SyncRunResult)
}

func (m *MockRateSyncService) Execute(ctx context.Context, plan domain.SyncPlan) *domain.SyncRunResult {
	args := m.Called(ctx, plan)
	return args.Get(0).(*domain.SyncRunResult)
}

var _ portssvc.RateSyncSvc = (*MockRateSyncService)(nil)

// --- Mock RateReaderService ---
type MockRateReaderService struct {
	mock.Mock
}

func (m *MockRateReaderService) GetRates(ctx context.Context, format string, days *int) (*domain.WebRatesView, *domain.ComparisonView, error) {
	args := m.Called(ctx, format, days)
	var web *domain.WebRatesView
	if v := args.Get(0); v != nil {
		web = v.(*domain.WebRatesView)
	}
	var chat *domain.ComparisonView
	if v := args.Get(1); v != nil {
		chat = v.(*domain.ComparisonView)
	}
	return web, chat, args.Error(2)
}

func (m *MockRateReaderService) GetWebRates(ctx context.Context, days int) (*domain.WebRatesView, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WebRatesView), args.Error(1)
}

func (m *MockRateReaderService) GetChatRates(ctx context.Context, days int) (*domain.ComparisonView, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ComparisonView), args.Error(1)
}

func (m *MockRateReaderService) GetRateHealth(ctx context.Context) (*domain.RateHealth, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateHealth), args.Error(1)
}

var _ portssvc.RateReaderSvc = (*MockRateReaderService)(nil)

// --- Mock ReservationService ---
type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) ListReservations(ctx context.Context, params dto.ListReservationsParams) (*domain.ReservationPage, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReservationPage), args.Error(1)
}

func (m *MockReservationService) GetReservation(ctx context.Context, id int64) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationService) CreateReservation(ctx context.Context, req dto.CreateReservationRequest) (*domain.Reservation, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationService) UpdateReservation(ctx context.Context, id int64, req dto.UpdateReservationRequest) (*domain.Reservation, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationService) DeleteReservation(ctx context.Context, id int64) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

var _ portssvc.ReservationSvcFacade = (*MockReservationService)(nil)
