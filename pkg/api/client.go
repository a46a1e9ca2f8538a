// Copyright (C) 2025 Mi-Insurtech
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package api is the typed HTTP client for the mi-insurtech brokerage
// backend.
//
// Every method takes a context and returns errors from pkg/apierr:
// transport failures become *apierr.NetworkError, non-2xx responses
// become *apierr.APIError with the server's `detail` extracted, and a
// 2xx body that does not parse becomes an *apierr.APIError with
// Malformed set. Callers never see a raw *url.Error or a half-decoded
// struct.
//
// Authentication is not this package's job: the http.Client handed to
// New carries the session transport, which injects the bearer token
// and intercepts 401/403.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/miinsurtech/corredor/pkg/apierr"
	"github.com/miinsurtech/corredor/pkg/entity"
)

// DefaultTimeout bounds a single request when the caller's context has
// no earlier deadline.
const DefaultTimeout = 30 * time.Second

// Config configures a Client.
type Config struct {
	// BaseURL is the backend root, e.g. "http://localhost:8000".
	// Trailing slashes are trimmed.
	BaseURL string

	// HTTPClient performs the requests. Required; the session manager
	// supplies one wrapped with its auth transport.
	HTTPClient *http.Client

	// RequestsPerSecond throttles outgoing requests. Zero disables
	// throttling. The invalidation bus can fan out several refreshes
	// at once; a small limit keeps the backend comfortable.
	RequestsPerSecond float64

	// Logger receives one debug line per request. Nil discards.
	Logger *slog.Logger
}

// Client talks to the brokerage backend. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// New creates a Client from cfg.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
		limiter: limiter,
		logger:  logger,
	}, nil
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string { return c.baseURL }

// ListQuery selects a page of a collection. Offset and Limit are
// mandatory on the wire; filters with empty values are omitted
// entirely rather than sent as empty parameters.
type ListQuery struct {
	Offset  int
	Limit   int
	Filters map[string]string
}

// Encode renders the query string, filters sorted by url.Values for a
// stable order.
func (q ListQuery) Encode() string {
	v := url.Values{}
	v.Set("offset", strconv.Itoa(q.Offset))
	v.Set("limit", strconv.Itoa(q.Limit))
	for key, val := range q.Filters {
		if val == "" {
			continue
		}
		v.Set(key, val)
	}
	return v.Encode()
}

// ListResult is one page of a collection plus the collection's total
// size under the active filters.
type ListResult[T any] struct {
	Items []T
	Total int
}

// listEnvelope matches the backend's pagination wrapper.
type listEnvelope[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
}

// List fetches one page of the collection for typ.
//
// Generic functions cannot be methods, so this is a free function
// taking the client first.
func List[T any](ctx context.Context, c *Client, typ entity.Type, q ListQuery) (ListResult[T], error) {
	var env listEnvelope[T]
	path := typ.CollectionPath() + "?" + q.Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return ListResult[T]{}, err
	}
	if env.Items == nil {
		env.Items = []T{}
	}
	return ListResult[T]{Items: env.Items, Total: env.Total}, nil
}

// Create posts payload as a new record of typ and decodes the created
// record into out (pass nil to discard).
func (c *Client) Create(ctx context.Context, typ entity.Type, payload map[string]any, out any) error {
	return c.do(ctx, http.MethodPost, typ.CollectionPath(), payload, out)
}

// Update puts payload over the record id of typ and decodes the
// updated record into out (pass nil to discard).
func (c *Client) Update(ctx context.Context, typ entity.Type, id int64, payload map[string]any, out any) error {
	return c.do(ctx, http.MethodPut, typ.ItemPath(id), payload, out)
}

// Delete removes the record id of typ.
func (c *Client) Delete(ctx context.Context, typ entity.Type, id int64) error {
	return c.do(ctx, http.MethodDelete, typ.ItemPath(id), nil, nil)
}

// tokenResponse matches the backend token endpoint body.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges credentials for a bearer token. The token endpoint
// is OAuth2-shaped and takes a form body, not JSON.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := c.newRequest(ctx, http.MethodPost, "/auth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var tok tokenResponse
	if err := c.send(req, &tok); err != nil {
		return "", err
	}
	if tok.AccessToken == "" {
		return "", &apierr.APIError{Status: http.StatusOK, Detail: "token response missing access_token", Malformed: true}
	}
	return tok.AccessToken, nil
}

// Register creates a new console user account.
func (c *Client) Register(ctx context.Context, username, email, password string) (*entity.Usuario, error) {
	payload := map[string]any{
		"username": username,
		"email":    email,
		"password": password,
	}
	var u entity.Usuario
	if err := c.do(ctx, http.MethodPost, "/auth/register", payload, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// CurrentUser fetches the account behind the active token.
func (c *Client) CurrentUser(ctx context.Context) (*entity.Usuario, error) {
	var u entity.Usuario
	if err := c.do(ctx, http.MethodGet, "/auth/users/me/", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// StatisticsSummary fetches the dashboard aggregate.
func (c *Client) StatisticsSummary(ctx context.Context) (*entity.StatisticsSummary, error) {
	var s entity.StatisticsSummary
	if err := c.do(ctx, http.MethodGet, "/statistics/summary/", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// DefaultExpirationWindow is the lookahead for UpcomingExpirations
// when the caller passes days <= 0.
const DefaultExpirationWindow = 30

// UpcomingExpirations fetches active policies whose end date falls
// within the next days days.
func (c *Client) UpcomingExpirations(ctx context.Context, days int) ([]entity.Poliza, error) {
	if days <= 0 {
		days = DefaultExpirationWindow
	}
	path := fmt.Sprintf("/polizas/polizas/proximas_a_vencer/?dias_restantes=%d", days)
	var items []entity.Poliza
	if err := c.do(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// LicenseStatus fetches the account's licensing window.
func (c *Client) LicenseStatus(ctx context.Context) (*entity.LicenseStatus, error) {
	var s entity.LicenseStatus
	if err := c.do(ctx, http.MethodGet, "/license/status/user", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ActivateLicense submits a license key and returns the resulting
// status.
func (c *Client) ActivateLicense(ctx context.Context, key string) (*entity.LicenseStatus, error) {
	payload := map[string]any{"license_key": key}
	var s entity.LicenseStatus
	if err := c.do(ctx, http.MethodPost, "/license/activate", payload, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// do runs one JSON request: marshal payload (if any), send, decode the
// response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, payload map[string]any, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

// send waits for the rate limiter, performs the request, and
// normalizes the outcome into the apierr taxonomy.
func (c *Client) send(req *http.Request, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return &apierr.NetworkError{URL: req.URL.String(), Err: err}
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			"method", req.Method,
			"url", req.URL.String(),
			"error", err,
		)
		return &apierr.NetworkError{URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("request",
		"method", req.Method,
		"url", req.URL.String(),
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", req.Header.Get("X-Request-ID"),
	)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apierr.NetworkError{URL: req.URL.String(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &apierr.APIError{
			Status:    resp.StatusCode,
			Detail:    fmt.Sprintf("unexpected response body: %v", err),
			Malformed: true,
		}
	}
	return nil
}

// errorBody matches the backend's error envelope. `detail` is either a
// plain string or a list of {loc, msg} objects (validation errors), so
// it decodes into RawMessage first.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type errorItem struct {
	Loc []json.RawMessage `json:"loc"`
	Msg string            `json:"msg"`
}

// decodeError turns a non-2xx response into an *apierr.APIError,
// extracting whatever detail the body offers and falling back to the
// HTTP status text.
func decodeError(status int, raw []byte) error {
	apiErr := &apierr.APIError{Status: status, Detail: http.StatusText(status)}

	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil || body.Detail == nil {
		return apiErr
	}

	var detail string
	if err := json.Unmarshal(body.Detail, &detail); err == nil {
		if detail != "" {
			apiErr.Detail = detail
		}
		return apiErr
	}

	var items []errorItem
	if err := json.Unmarshal(body.Detail, &items); err == nil && len(items) > 0 {
		fields := make([]apierr.FieldError, 0, len(items))
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			fields = append(fields, apierr.FieldError{
				Field:   lastLoc(it.Loc),
				Message: it.Msg,
			})
			msgs = append(msgs, it.Msg)
		}
		apiErr.Fields = fields
		apiErr.Detail = strings.Join(msgs, "; ")
	}
	return apiErr
}

// lastLoc extracts the field name from a validation error location,
// which looks like ["body", "email"] with occasional numeric indices.
func lastLoc(loc []json.RawMessage) string {
	for i := len(loc) - 1; i >= 0; i-- {
		var s string
		if err := json.Unmarshal(loc[i], &s); err == nil && s != "body" {
			return s
		}
	}
	return ""
}
