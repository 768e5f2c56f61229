// Package client is a typed Go client for the VaneLux HTTP API.
//
// Every call takes a context and performs exactly one request; failed calls are
// never retried. Non-2xx answers are returned as *APIError.
package client

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
)

const defaultTimeout = 15 * time.Second

// Client talks to one deployment of the API.
type Client struct {
	base  *url.URL
	http  *http.Client
	token string
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sets the bearer token sent on authenticated calls.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New returns a client for the API rooted at baseURL, e.g. https://api.example.com.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("client: empty base url")
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("client: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("client: base url must be http or https, got %q", baseURL)
	}

	c := &Client{base: u, http: &http.Client{Timeout: defaultTimeout}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Token returns the bearer token currently in use.
func (c *Client) Token() string { return c.token }

// Login authenticates and, on success, keeps the returned token for later calls.
func (c *Client) Login(ctx context.Context, username, password, app string) (*LoginResponse, error) {
	var out LoginResponse
	body := loginRequest{Username: username, Password: password, App: app}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", nil, body, false, &out); err != nil {
		return nil, err
	}
	c.token = out.AccessToken
	return &out, nil
}

// Logout revokes the current token.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil, true, nil)
}

// CreateBooking books a ride for the authenticated account.
func (c *Client) CreateBooking(ctx context.Context, req BookingRequest) (*Booking, error) {
	var out struct {
		Booking Booking `json:"booking"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/vlx/bookings", nil, req, true, &out); err != nil {
		return nil, err
	}
	return &out.Booking, nil
}

// ListBookings returns one page of the authenticated account's bookings.
// Zero values leave the server defaults in place.
func (c *Client) ListBookings(ctx context.Context, opts ListOptions) ([]Booking, error) {
	q := url.Values{}
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	if opts.Page != 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PageSize != 0 {
		q.Set("page_size", strconv.Itoa(opts.PageSize))
	}

	var out struct {
		Bookings []Booking `json:"bookings"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/vlx/bookings", q, nil, true, &out); err != nil {
		return nil, err
	}
	if out.Bookings == nil {
		out.Bookings = []Booking{}
	}
	return out.Bookings, nil
}

// Health calls the liveness probe.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ready calls the readiness probe. A degraded service answers 503 with the
// per-dependency report, which is returned together with the *APIError.
func (c *Client) Ready(ctx context.Context) (*Health, error) {
	var out Health
	err := c.do(ctx, http.MethodGet, "/health/ready", nil, nil, false, &out)
	var apiErr *APIError
	if errors.As(err, &apiErr) && len(apiErr.body) > 0 {
		_ = json.Unmarshal(apiErr.body, &out)
		return &out, err
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, authed bool, out any) error {
	u := *c.base
	u.Path += path
	u.RawQuery = query.Encode()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encode body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed && c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("client: %s %s: read body: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(method, path, resp.StatusCode, payload)
	}
	if out != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, out); err != nil {
			return fmt.Errorf("client: %s %s: decode: %w", method, path, err)
		}
	}
	return nil
}
