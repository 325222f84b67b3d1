// Package koreaexim fetches daily KRW exchange rates from the Korea Eximbank
// open API (data code AP01).
package koreaexim

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SscSPs/exchange_sync_app/internal/apperrors"
	"github.com/SscSPs/exchange_sync_app/internal/core/domain"
	"github.com/SscSPs/exchange_sync_app/internal/core/ports/providers"
)

const (
	defaultDataCode = "AP01"
	defaultTimeout  = 30 * time.Second
	searchDateFmt   = "20060102"

	// placeholderAuthKey is what the sample env file ships with.
	placeholderAuthKey = "your_api_key_here"
)

// Result codes carried by every item of an AP01 response.
const (
	resultSuccess      = 1
	resultBadDataCode  = 2
	resultBadAuthKey   = 3
	resultQuotaReached = 4
)

// ErrNotConfigured is returned by Validate when the client cannot make calls.
var ErrNotConfigured = errors.New("exchange rate API is not configured")

// Config holds the settings of the Eximbank client.
type Config struct {
	BaseURL            string
	AuthKey            string
	DataCode           string
	Timeout            time.Duration
	InsecureSkipVerify bool // The upstream has served incomplete certificate chains.
}

// Client calls the Eximbank exchange rate API.
type Client struct {
	baseURL    string
	authKey    string
	dataCode   string
	httpClient *http.Client
}

var _ providers.RateSource = (*Client)(nil)

// item is one currency row of the AP01 response.
type item struct {
	Result   int    `json:"result"`
	CurUnit  string `json:"cur_unit"`
	CurName  string `json:"cur_nm"`
	DealBasR string `json:"deal_bas_r"`
}

// NewClient creates a new Eximbank API client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.DataCode == "" {
		cfg.DataCode = defaultDataCode
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}
	return &Client{
		baseURL:  strings.TrimSpace(cfg.BaseURL),
		authKey:  strings.TrimSpace(cfg.AuthKey),
		dataCode: cfg.DataCode,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
	}
}

// Validate checks that a base URL and a real auth key are configured.
func (c *Client) Validate() error {
	if c.baseURL == "" {
		return fmt.Errorf("%w: base URL is empty", ErrNotConfigured)
	}
	if c.authKey == "" || c.authKey == placeholderAuthKey {
		return fmt.Errorf("%w: auth key is not set", ErrNotConfigured)
	}
	return nil
}

// FetchRates returns the rates published for date. An empty slice means the
// bank published nothing for that day.
func (c *Client) FetchRates(ctx context.Context, date time.Time) ([]domain.SourceRate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(date), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: exchange rate request failed: %w", apperrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read exchange rate response: %w", apperrors.ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: exchange rate API returned status %d", apperrors.ErrUpstream, resp.StatusCode)
	}

	var items []item
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("%w: failed to decode exchange rate response: %w", apperrors.ErrUpstream, err)
		}
	}

	rates := make([]domain.SourceRate, 0, len(items))
	for _, it := range items {
		if it.Result != resultSuccess {
			return nil, resultError(it.Result)
		}
		rates = append(rates, domain.SourceRate{CurrencyUnit: it.CurUnit, Rate: it.DealBasR})
	}
	return rates, nil
}

func (c *Client) requestURL(date time.Time) string {
	q := url.Values{}
	q.Set("authkey", c.authKey)
	q.Set("searchdate", date.Format(searchDateFmt))
	q.Set("data", c.dataCode)

	sep := "?"
	if strings.Contains(c.baseURL, "?") {
		sep = "&"
	}
	return c.baseURL + sep + q.Encode()
}

func resultError(code int) error {
	switch code {
	case resultBadDataCode:
		return fmt.Errorf("%w: exchange rate API rejected the data code", apperrors.ErrUpstream)
	case resultBadAuthKey:
		return fmt.Errorf("%w: exchange rate API rejected the auth key", apperrors.ErrUpstream)
	case resultQuotaReached:
		return fmt.Errorf("%w: exchange rate API daily request limit reached", apperrors.ErrUpstream)
	}
	return fmt.Errorf("%w: exchange rate API returned result code %d", apperrors.ErrUpstream, code)
}
