// Package supabase stores accounts and bookings through a Supabase project's
// PostgREST data API.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Elking123mi/vanelux-web/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Config captures the settings for reaching the data API.
type Config struct {
	URL     string
	Key     string
	Timeout time.Duration
	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client is a minimal PostgREST client. It never retries.
type Client struct {
	base *url.URL
	key  string
	http *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" || cfg.Key == "" {
		return nil, fmt.Errorf("supabase: url and key are required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.URL, "/"))
	if err != nil {
		return nil, fmt.Errorf("supabase: parse url: %w", err)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{base: base, key: cfg.Key, http: hc}, nil
}

// Ping asks the REST root for its OpenAPI description.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodHead, "", nil, nil, nil)
	return err
}

// do sends one request to /rest/v1/<table>. On 2xx the body is decoded into out
// when out is non-nil.
func (c *Client) do(ctx context.Context, method, table string, query url.Values, body, out any) (int, error) {
	req, err := c.newRequest(ctx, method, table, query, body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Prefer", "return=representation")

	status, _, payload, err := c.send(req, table)
	if err != nil {
		return status, err
	}
	if out != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, out); err != nil {
			return status, fmt.Errorf("supabase %s %s: decode: %w: %w", method, table, domain.ErrStoreUnavailable, err)
		}
	}
	return status, nil
}

// count asks for an exact row count of table and reads it from Content-Range.
func (c *Client) count(ctx context.Context, table string, query url.Values) (int64, error) {
	req, err := c.newRequest(ctx, http.MethodHead, table, query, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Prefer", "count=exact")

	_, header, _, err := c.send(req, table)
	if err != nil {
		return 0, err
	}
	cr := header.Get("Content-Range")
	i := strings.LastIndexByte(cr, '/')
	if i < 0 {
		return 0, fmt.Errorf("supabase count %s: content-range %q: %w", table, cr, domain.ErrStoreUnavailable)
	}
	n, err := strconv.ParseInt(cr[i+1:], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("supabase count %s: content-range %q: %w", table, cr, domain.ErrStoreUnavailable)
	}
	return n, nil
}

func (c *Client) newRequest(ctx context.Context, method, table string, query url.Values, body any) (*http.Request, error) {
	u := *c.base
	u.Path += "/rest/v1/" + table
	u.RawQuery = query.Encode()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("supabase: encode %s body: %w", table, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("supabase: build request: %w", err)
	}
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// send executes req and maps non-2xx answers into the domain taxonomy.
func (c *Client) send(req *http.Request, table string) (int, http.Header, []byte, error) {
	method := req.Method
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("supabase %s %s: %w: %w", method, table, domain.ErrStoreUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, nil, nil, fmt.Errorf("supabase %s %s: read body: %w: %w", method, table, domain.ErrStoreUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusConflict:
		return resp.StatusCode, nil, nil, fmt.Errorf("supabase %s %s: %w", method, table, conflictError(payload))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return resp.StatusCode, nil, nil, fmt.Errorf("supabase %s %s: status %d: %s: %w",
			method, table, resp.StatusCode, apiMessage(payload), domain.ErrStoreUnavailable)
	}
	return resp.StatusCode, resp.Header, payload, nil
}

// PostgreSQL error codes PostgREST answers with 409.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// conflictError distinguishes a dangling reference from a uniqueness
// violation. Unknown codes are treated as duplicates.
func conflictError(payload []byte) error {
	var e struct {
		Code string `json:"code"`
	}
	_ = json.Unmarshal(payload, &e)
	switch e.Code {
	case pgForeignKeyViolation:
		return domain.Errorf(domain.ErrInvalidBooking, "unknown owner")
	case pgUniqueViolation:
		return domain.ErrDuplicateIdentifier
	default:
		return domain.ErrDuplicateIdentifier
	}
}

// apiMessage extracts PostgREST's error message, falling back to the raw body.
func apiMessage(payload []byte) string {
	var e struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	if json.Unmarshal(payload, &e) == nil && e.Message != "" {
		if e.Code != "" {
			return e.Code + " " + e.Message
		}
		return e.Message
	}
	s := strings.TrimSpace(string(payload))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

// quote renders a PostgREST filter value that may contain reserved characters.
func quote(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `"`, `\"`)
	return `"` + v + `"`
}
