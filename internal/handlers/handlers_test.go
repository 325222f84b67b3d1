package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/exchange_sync_app/internal/apperrors"
	"github.com/SscSPs/exchange_sync_app/internal/core/domain"
	portssvc "github.com/SscSPs/exchange_sync_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_sync_app/internal/dto"
	"github.com/SscSPs/exchange_sync_app/internal/handlers"
	"github.com/SscSPs/exchange_sync_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var kst = time.FixedZone("KST", 9*60*60)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type HandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	syncSvc     *MockRateSyncService
	readerSvc   *MockRateReaderService
	reservation *MockReservationService
}

func (s *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.syncSvc = new(MockRateSyncService)
	s.readerSvc = new(MockRateReaderService)
	s.reservation = new(MockReservationService)

	cfg := &config.Config{
		IsProduction:   false,
		Location:       kst,
		StorageBackend: config.StoragePostgREST,
		SyncRateLimit:  "100-M",
	}
	s.router = gin.New()
	err := handlers.RegisterRoutes(s.router, cfg, &portssvc.ServiceContainer{
		RateSync:    s.syncSvc,
		RateReader:  s.readerSvc,
		Reservation: s.reservation,
	})
	s.Require().NoError(err)
}

func (s *HandlerTestSuite) TearDownTest() {
	s.syncSvc.AssertExpectations(s.T())
	s.readerSvc.AssertExpectations(s.T())
	s.reservation.AssertExpectations(s.T())
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerTestSuite) decode(w *httptest.ResponseRecorder, out any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

// --- Sync ---

func (s *HandlerTestSuite) TestSync_Success() {
	s.syncSvc.On("Sync", mock.Anything).Return(&domain.SyncRunResult{
		Success: true,
		Steps: []domain.SyncStep{
			{Step: 1, Name: "Check rate source configuration and storage connection", Status: domain.SyncStepDone},
		},
		Summary:     "1 of 2 business days updated",
		FailedDates: []time.Time{day(2024, 3, 15)},
		Planned:     2,
		Inserted:    1,
	}).Once()

	w := s.do(http.MethodGet, "/sync", "")

	s.Equal(http.StatusOK, w.Code)
	var resp dto.SyncResponse
	s.decode(w, &resp)
	s.True(resp.Success)
	s.Equal("1 of 2 business days updated", resp.Summary)
	s.Equal([]string{"2024-03-15"}, resp.FailedDates)
	s.Require().Len(resp.Steps, 1)
	s.Equal("done", resp.Steps[0].Status)
}

func (s *HandlerTestSuite) TestSync_PreconditionFailure() {
	s.syncSvc.On("Sync", mock.Anything).Return(&domain.SyncRunResult{
		Success: false,
		Error:   "storage connection failed: connection refused",
		Steps: []domain.SyncStep{
			{Step: 1, Name: "Check rate source configuration and storage connection", Status: domain.SyncStepFailed, Error: "connection refused"},
		},
	}).Once()

	w := s.do(http.MethodGet, "/api/exchange_api2db", "")

	s.Equal(http.StatusInternalServerError, w.Code)
	var resp dto.SyncResponse
	s.decode(w, &resp)
	s.False(resp.Success)
	s.Contains(resp.Error, "storage connection failed")
}

// --- Rates ---

func (s *HandlerTestSuite) TestRates_Web() {
	view := &domain.WebRatesView{
		Rows: []domain.WebRateRow{{
			Date: day(2024, 3, 18),
			Rates: map[domain.Currency]decimal.Decimal{
				domain.CurrencyUSD:    decimal.RequireFromString("1331.5"),
				domain.CurrencyEUR:    decimal.Zero,
				domain.CurrencyJPY100: decimal.RequireFromString("897.39"),
				domain.CurrencyCNH:    decimal.RequireFromString("184.6"),
			},
		}},
		RequestedDays: 5,
		LatestDate:    day(2024, 3, 18),
	}
	s.readerSvc.On("GetRates", mock.Anything, "web", mock.MatchedBy(func(d *int) bool { return d != nil && *d == 5 })).
		Return(view, nil, nil).Once()

	w := s.do(http.MethodGet, "/rates?format=web&days=5", "")

	s.Equal(http.StatusOK, w.Code)
	var resp dto.WebRatesResponse
	s.decode(w, &resp)
	s.True(resp.Success)
	s.Require().Len(resp.Data, 1)
	s.Equal("2024-03-18", resp.Data[0].Date)
	s.InDelta(1331.5, resp.Data[0].USD, 1e-9)
	s.Equal(0.0, resp.Data[0].EUR)
	s.Equal(5, resp.Metadata.RequestedDays)
	s.Equal("2024-03-18", resp.Metadata.LatestDate)
	s.Equal("web", resp.Metadata.Format)
}

func (s *HandlerTestSuite) TestRates_ChatDefaultsDays() {
	view := &domain.ComparisonView{
		Today:     day(2024, 3, 18),
		Yesterday: day(2024, 3, 15),
		Currencies: map[domain.Currency]domain.CurrencyComparison{
			domain.CurrencyUSD:    {Rate: decimal.RequireFromString("1336.8"), Trend: decimal.RequireFromString("0.4")},
			domain.CurrencyEUR:    {},
			domain.CurrencyJPY100: {},
			domain.CurrencyCNH:    {},
		},
		RequestedDays: 2,
	}
	s.readerSvc.On("GetRates", mock.Anything, "chat", (*int)(nil)).Return(nil, view, nil).Once()

	w := s.do(http.MethodGet, "/api/exchange_db2api?format=chat", "")

	s.Equal(http.StatusOK, w.Code)
	var resp dto.ChatRatesResponse
	s.decode(w, &resp)
	s.Require().Len(resp.Data, 1)
	s.InDelta(1336.8, resp.Data[0]["USD"], 1e-9)
	s.InDelta(0.4, resp.Data[0]["USD_trend"], 1e-9)
	s.Equal("2024-03-15", resp.Metadata.ComparisonDates.Yesterday)
}

func (s *HandlerTestSuite) TestRates_Errors() {
	tests := []struct {
		name   string
		format string
		err    error
		want   int
	}{
		{name: "validation", format: "xml", err: apperrors.NewValidationError("format must be 'web' or 'chat'"), want: http.StatusBadRequest},
		{name: "not found", format: "web", err: apperrors.NewNotFoundError("no exchange rate data"), want: http.StatusNotFound},
		{name: "upstream", format: "web", err: apperrors.NewUpstreamError("rate sync before read failed", errors.New("quota exhausted")), want: http.StatusBadGateway},
		{name: "internal", format: "chat", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.readerSvc.On("GetRates", mock.Anything, tt.format, (*int)(nil)).Return(nil, nil, tt.err).Once()

			w := s.do(http.MethodGet, "/rates?format="+tt.format, "")

			s.Equal(tt.want, w.Code)
			var body map[string]string
			s.decode(w, &body)
			s.NotEmpty(body["error"])
			if tt.want == http.StatusInternalServerError {
				s.NotContains(body["error"], "boom")
			}
		})
	}
}

func (s *HandlerTestSuite) TestRates_NonNumericDays() {
	w := s.do(http.MethodGet, "/rates?format=web&days=ten", "")

	s.Equal(http.StatusBadRequest, w.Code)
	s.readerSvc.AssertNotCalled(s.T(), "GetRates", mock.Anything, mock.Anything, mock.Anything)
}

// --- Health ---

func (s *HandlerTestSuite) TestHealth() {
	latest := day(2024, 3, 18)
	s.readerSvc.On("GetRateHealth", mock.Anything).Return(&domain.RateHealth{
		StorageReachable: true,
		LatestDate:       &latest,
		TotalRecords:     42,
	}, nil).Once()

	w := s.do(http.MethodGet, "/health", "")

	s.Equal(http.StatusOK, w.Code)
	var resp dto.HealthResponse
	s.decode(w, &resp)
	s.Equal("healthy", resp.Status)
	s.Equal("postgrest", resp.StorageBackend)
	s.Equal("2024-03-18", resp.DataInfo.LatestData)
	s.Equal(42, resp.DataInfo.TotalRecords)
	s.Equal([]string{"USD", "EUR", "JPY100", "CNH"}, resp.SupportedCurrencies)
	s.True(strings.HasSuffix(resp.Timestamp, "+09:00"))
}

func (s *HandlerTestSuite) TestHealth_StorageDown() {
	s.readerSvc.On("GetRateHealth", mock.Anything).Return(&domain.RateHealth{
		StorageReachable: false,
		StorageError:     "dial tcp: connection refused",
	}, nil).Once()

	w := s.do(http.MethodGet, "/health", "")

	s.Equal(http.StatusServiceUnavailable, w.Code)
	var resp dto.HealthResponse
	s.decode(w, &resp)
	s.Equal("unhealthy", resp.Status)
	s.Equal("disconnected", resp.Storage)
	s.Equal("no data", resp.DataInfo.LatestData)
}

// --- Reservations ---

func sampleReservation() *domain.Reservation {
	return &domain.Reservation{
		ID:           7,
		Type:         "meeting-room",
		Target:       "Room A",
		EmailAddress: "kim@example.com",
		Session:      "morning",
		Reason:       "weekly sync",
		Time:         time.Date(2024, 3, 18, 10, 0, 0, 0, kst),
	}
}

func (s *HandlerTestSuite) TestListReservations() {
	params := dto.ListReservationsParams{Type: "meeting-room", Page: 2, Limit: 1, SortBy: "time", SortOrder: "desc"}
	s.reservation.On("ListReservations", mock.Anything, params).
		Return(&domain.ReservationPage{Reservations: []domain.Reservation{*sampleReservation()}, Total: 3}, nil).Once()

	w := s.do(http.MethodGet, "/api/reservations?type=meeting-room&page=2&limit=1", "")

	s.Equal(http.StatusOK, w.Code)
	var resp dto.ListReservationsResponse
	s.decode(w, &resp)
	s.Require().Len(resp.Data, 1)
	s.Equal(dto.Pagination{Total: 3, Page: 2, Limit: 1, Pages: 3, HasNext: true, HasPrev: true}, resp.Pagination)
}

func (s *HandlerTestSuite) TestListReservations_InvalidQuery() {
	w := s.do(http.MethodGet, "/api/reservations?limit=500", "")

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestCreateReservation() {
	req := dto.CreateReservationRequest{
		Type:         "meeting-room",
		Target:       "Room A",
		EmailAddress: "kim@example.com",
		Session:      "morning",
		Reason:       "weekly sync",
	}
	s.reservation.On("CreateReservation", mock.Anything, req).Return(sampleReservation(), nil).Once()

	w := s.do(http.MethodPost, "/api/reservations",
		`{"type":"meeting-room","target":"Room A","emailaddress":"kim@example.com","session":"morning","reason":"weekly sync"}`)

	s.Equal(http.StatusCreated, w.Code)
	var resp dto.ReservationEnvelope
	s.decode(w, &resp)
	s.True(resp.Success)
	s.Equal(int64(7), resp.Data.ID)
}

func (s *HandlerTestSuite) TestCreateReservation_MissingField() {
	w := s.do(http.MethodPost, "/api/reservations", `{"type":"meeting-room","target":"Room A"}`)

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestGetReservation() {
	s.reservation.On("GetReservation", mock.Anything, int64(7)).Return(sampleReservation(), nil).Once()
	s.reservation.On("GetReservation", mock.Anything, int64(404)).
		Return(nil, apperrors.NewNotFoundError("reservation 404")).Once()

	w := s.do(http.MethodGet, "/api/reservations/7", "")
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/reservations/404", "")
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/reservations/abc", "")
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestUpdateReservation() {
	session := "afternoon"
	s.reservation.On("UpdateReservation", mock.Anything, int64(7), dto.UpdateReservationRequest{Session: &session}).
		Return(sampleReservation(), nil).Once()

	w := s.do(http.MethodPatch, "/api/reservations/7", `{"session":"afternoon"}`)

	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlerTestSuite) TestUpdateReservation_EmptyPatch() {
	s.reservation.On("UpdateReservation", mock.Anything, int64(7), dto.UpdateReservationRequest{}).
		Return(nil, apperrors.NewValidationError("no fields to update")).Once()

	w := s.do(http.MethodPatch, "/api/reservations/7", `{}`)

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestDeleteReservation() {
	s.reservation.On("DeleteReservation", mock.Anything, int64(7)).Return(sampleReservation(), nil).Once()

	w := s.do(http.MethodDelete, "/api/reservations/7", "")

	s.Equal(http.StatusOK, w.Code)
	var resp dto.ReservationEnvelope
	s.decode(w, &resp)
	s.Equal("Room A", resp.Data.Target)
}

func (s *HandlerTestSuite) TestSwaggerOutsideProduction() {
	w := s.do(http.MethodGet, "/swagger/doc.json", "")

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "/rates")
}
