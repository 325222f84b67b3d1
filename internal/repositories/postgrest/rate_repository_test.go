package postgrest_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/exchange_sync_app/internal/apperrors"
	"github.com/SscSPs/exchange_sync_app/internal/core/domain"
	"github.com/SscSPs/exchange_sync_app/internal/repositories/postgrest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ratesTable = "exchange_rates"

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rate(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

// fakeRatesTable serves a tiny subset of PostgREST for one table keyed by date.
type fakeRatesTable struct {
	mu   sync.Mutex
	rows map[string]map[string]any
}

func newFakeRatesServer(t *testing.T) (*fakeRatesTable, *httptest.Server) {
	t.Helper()
	fake := &fakeRatesTable{rows: map[string]map[string]any{}}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	return fake, server
}

func (f *fakeRatesTable) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.URL.Path == "/" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.URL.Path != "/"+ratesTable {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"42P01","message":"relation does not exist"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodGet:
		var out []map[string]any
		filter := r.URL.Query().Get("date")
		for d, row := range f.rows {
			if strings.HasPrefix(filter, "in.(") && !strings.Contains(filter, d) {
				continue
			}
			out = append(out, row)
		}
		sort.Slice(out, func(i, j int) bool { return out[i]["date"].(string) > out[j]["date"].(string) })
		if r.URL.Query().Get("limit") == "1" && len(out) > 1 {
			out = out[:1]
		}
		if strings.Contains(r.Header.Get("Prefer"), "count=exact") {
			w.Header().Set("Content-Range", "0-0/"+itoa(len(f.rows)))
		}
		_ = json.NewEncoder(w).Encode(out)
	case http.MethodPost:
		var rows []map[string]any
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &rows)
		for _, row := range rows {
			if _, ok := f.rows[row["date"].(string)]; ok {
				w.WriteHeader(http.StatusConflict)
				_, _ = w.Write([]byte(`{"code":"23505","message":"duplicate key value violates unique constraint"}`))
				return
			}
		}
		for _, row := range rows {
			f.rows[row["date"].(string)] = row
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(rows)
	case http.MethodPatch:
		d := strings.TrimPrefix(r.URL.Query().Get("date"), "eq.")
		var row map[string]any
		_ = json.NewDecoder(r.Body).Decode(&row)
		if _, ok := f.rows[d]; !ok {
			_ = json.NewEncoder(w).Encode([]map[string]any{})
			return
		}
		f.rows[d] = row
		_ = json.NewEncoder(w).Encode([]map[string]any{row})
	}
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func TestRateRepository_InsertThenRead(t *testing.T) {
	ctx := context.Background()
	_, server := newFakeRatesServer(t)
	repo := postgrest.NewRateRepository(postgrest.NewClient(server.URL, time.Second), ratesTable)

	records := []domain.RateRecord{
		{Date: date(2024, 3, 14), USD: rate("1330.2"), EUR: rate("1450.75")},
		{Date: date(2024, 3, 15), USD: rate("1331.5"), JPY100: rate("897.39")},
	}
	n, err := repo.InsertRates(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := repo.FindRatesByDates(ctx, []time.Time{date(2024, 3, 14), date(2024, 3, 15), date(2024, 3, 18)})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, date(2024, 3, 15), got[0].Date, "newest first")
	assert.True(t, rate("1331.5").Decimal.Equal(got[0].USD.Decimal))
	assert.False(t, got[0].EUR.Valid, "null rates survive the round trip")
	assert.True(t, rate("1450.75").Decimal.Equal(got[1].EUR.Decimal))

	latest, found, err := repo.FindLatestRateDate(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, date(2024, 3, 15), latest)

	count, err := repo.CountRates(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRateRepository_InsertDuplicate(t *testing.T) {
	ctx := context.Background()
	_, server := newFakeRatesServer(t)
	repo := postgrest.NewRateRepository(postgrest.NewClient(server.URL, time.Second), ratesTable)
	records := []domain.RateRecord{{Date: date(2024, 3, 15), USD: rate("1331.5")}}

	_, err := repo.InsertRates(ctx, records)
	require.NoError(t, err)
	_, err = repo.InsertRates(ctx, records)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	var apiErr *postgrest.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
}

func TestRateRepository_UpdateRate(t *testing.T) {
	ctx := context.Background()
	_, server := newFakeRatesServer(t)
	repo := postgrest.NewRateRepository(postgrest.NewClient(server.URL, time.Second), ratesTable)
	_, err := repo.InsertRates(ctx, []domain.RateRecord{{Date: date(2024, 3, 15), USD: rate("1331.5")}})
	require.NoError(t, err)

	updated, err := repo.UpdateRate(ctx, domain.RateRecord{Date: date(2024, 3, 15), USD: rate("1340")})
	require.NoError(t, err)
	assert.True(t, rate("1340").Decimal.Equal(updated.USD.Decimal))

	_, err = repo.UpdateRate(ctx, domain.RateRecord{Date: date(2024, 3, 18), USD: rate("1340")})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRateRepository_EmptyStorage(t *testing.T) {
	ctx := context.Background()
	_, server := newFakeRatesServer(t)
	repo := postgrest.NewRateRepository(postgrest.NewClient(server.URL, time.Second), ratesTable)

	_, found, err := repo.FindLatestRateDate(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	got, err := repo.FindRatesByDates(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRateRepository_RequestShape(t *testing.T) {
	var gotQuery, gotPrefer string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("date")
		gotPrefer = r.Header.Get("Prefer")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()
	repo := postgrest.NewRateRepository(postgrest.NewClient(server.URL, time.Second), ratesTable)

	_, err := repo.FindRatesByDates(context.Background(), []time.Time{date(2024, 3, 18), date(2024, 3, 15)})

	require.NoError(t, err)
	assert.Equal(t, "in.(2024-03-18,2024-03-15)", gotQuery)
	assert.Empty(t, gotPrefer)
}

func TestRateRepository_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()
	repo := postgrest.NewRateRepository(postgrest.NewClient(url, time.Second), ratesTable)

	err := repo.Ping(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrUpstream)

	_, _, err = repo.FindLatestRateDate(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}

func TestRateRepository_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"code":"XX000","message":"internal error"}`))
	}))
	defer server.Close()
	repo := postgrest.NewRateRepository(postgrest.NewClient(server.URL, time.Second), ratesTable)

	_, err := repo.CountRates(context.Background())

	assert.ErrorIs(t, err, apperrors.ErrUpstream)
	assert.Contains(t, err.Error(), "internal error")
}
