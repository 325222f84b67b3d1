// Package postgrest implements the storage ports on top of a PostgREST API.
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/exchange_sync_app/internal/apperrors"
)

const defaultTimeout = 30 * time.Second

// Prefer header values understood by PostgREST.
const (
	preferReturnRepresentation = "return=representation"
	preferCountExact           = "count=exact"
)

// APIError is the error body PostgREST returns for failed requests.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details"`
	Hint       string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("postgrest returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("postgrest returned status %d: %s (%s)", e.StatusCode, e.Message, e.Code)
}

// Unwrap classifies the failure so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	switch {
	case e.Code == "23505" || e.StatusCode == http.StatusConflict:
		return apperrors.ErrDuplicate
	case e.Code == "PGRST116":
		return apperrors.ErrNotFound
	case strings.HasPrefix(e.Code, "22") || strings.HasPrefix(e.Code, "23"):
		return apperrors.ErrValidation
	}
	return apperrors.ErrUpstream
}

// Client performs HTTP requests against a PostgREST server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new PostgREST client for baseURL, e.g. http://localhost:3010.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// request describes one call to a table endpoint.
type request struct {
	method string
	table  string
	query  url.Values
	body   any
	prefer []string
}

// response carries the parts of a PostgREST reply the repositories use.
type response struct {
	body   []byte
	header http.Header
}

// Ping checks that the PostgREST root endpoint answers.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: postgrest is unreachable: %w", apperrors.ErrUpstream, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: postgrest returned status %d", apperrors.ErrUpstream, resp.StatusCode)
	}
	return nil
}

// do performs the request and returns the raw body on a 2xx status.
func (c *Client) do(ctx context.Context, r request) (*response, error) {
	endpoint := c.baseURL + "/" + url.PathEscape(r.table)
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if len(r.prefer) > 0 {
		req.Header.Set("Prefer", strings.Join(r.prefer, ","))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: postgrest request failed: %w", apperrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read postgrest response: %w", apperrors.ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(respBody, apiErr); err != nil {
			apiErr.Message = strings.TrimSpace(string(respBody))
		}
		return nil, apiErr
	}
	return &response{body: respBody, header: resp.Header}, nil
}

// doJSON performs the request and decodes the body into out.
func (c *Client) doJSON(ctx context.Context, r request, out any) (http.Header, error) {
	resp, err := c.do(ctx, r)
	if err != nil {
		return nil, err
	}
	if out != nil && len(bytes.TrimSpace(resp.body)) > 0 {
		if err := json.Unmarshal(resp.body, out); err != nil {
			return nil, fmt.Errorf("%w: failed to decode postgrest response: %w", apperrors.ErrUpstream, err)
		}
	}
	return resp.header, nil
}

// errInvalidContentRange is returned when a count was requested but not reported.
var errInvalidContentRange = errors.New("missing or invalid Content-Range header")

// totalFromContentRange parses the total of a "0-9/42" or "*/0" Content-Range.
func totalFromContentRange(header http.Header) (int, error) {
	cr := header.Get("Content-Range")
	i := strings.LastIndex(cr, "/")
	if i < 0 || cr[i+1:] == "*" {
		return 0, fmt.Errorf("%w: %q", errInvalidContentRange, cr)
	}
	total, err := strconv.Atoi(cr[i+1:])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errInvalidContentRange, cr)
	}
	return total, nil
}

// inFilter renders values as a PostgREST in.(...) filter.
func inFilter(values []string) string {
	return "in.(" + strings.Join(values, ",") + ")"
}
