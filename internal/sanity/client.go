// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package sanity is the client for the headless CMS query API. It builds
// query URLs, executes GROQ queries and resolves image asset references.
package sanity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// ErrNotFound is returned when a query result is null.
var ErrNotFound = errors.New("sanity: document not found")

// maxResponseSize bounds the body read from the query API.
const maxResponseSize = 16 << 20

// Params are named GROQ parameters; a key "slug" binds $slug.
type Params map[string]any

// Querier executes a GROQ query and returns the raw JSON of its result.
type Querier interface {
	Raw(ctx context.Context, query string, params Params) ([]byte, error)
}

// Config configures a Client.
type Config struct {
	ProjectID  string
	Dataset    string
	APIVersion string // "2024-01-01" or "1"
	Token      string
	UseCDN     bool
	Timeout    time.Duration

	// BaseURL replaces the scheme and host of every query URL when set.
	BaseURL string
}

// Client queries a Sanity project over HTTP.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

// NewClient creates a Client. A nil logger uses slog.Default.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// ProjectID returns the configured project id.
func (c *Client) ProjectID() string { return c.cfg.ProjectID }

// Dataset returns the configured dataset.
func (c *Client) Dataset() string { return c.cfg.Dataset }

// host selects the CDN host only for unauthenticated requests; tokens are
// never sent to the CDN.
func (c *Client) host() string {
	if c.cfg.UseCDN && c.cfg.Token == "" {
		return c.cfg.ProjectID + ".apicdn.sanity.io"
	}
	return c.cfg.ProjectID + ".api.sanity.io"
}

// QueryURL builds the GET URL for query with params encoded as $name=JSON.
func (c *Client) QueryURL(query string, params Params) (string, error) {
	values := url.Values{}
	values.Set("query", query)

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		encoded, err := json.Marshal(params[name])
		if err != nil {
			return "", fmt.Errorf("encoding parameter %q: %w", name, err)
		}
		values.Set("$"+name, string(encoded))
	}

	base := "https://" + c.host()
	if c.cfg.BaseURL != "" {
		base = strings.TrimRight(c.cfg.BaseURL, "/")
	}

	version := strings.TrimPrefix(c.cfg.APIVersion, "v")
	return fmt.Sprintf("%s/v%s/data/query/%s?%s", base, version, url.PathEscape(c.cfg.Dataset), values.Encode()), nil
}

// Raw executes query and returns the JSON of its result field. A null or
// missing result yields ErrNotFound.
func (c *Client) Raw(ctx context.Context, query string, params Params) ([]byte, error) {
	u, err := c.QueryURL(query, params)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating query request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sanity query request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("reading sanity response: %w", err)
	}

	c.logger.Debug("sanity query",
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"bytes", len(body),
	)

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("sanity response is not valid JSON")
	}
	result := gjson.GetBytes(body, "result")
	if !result.Exists() || result.Type == gjson.Null {
		return nil, ErrNotFound
	}
	return []byte(result.Raw), nil
}

// APIError is a non-200 response from the query API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("sanity: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("sanity: HTTP %d: %s", e.StatusCode, e.Message)
}

func errorMessage(body []byte) string {
	for _, path := range []string{"error.description", "message", "error"} {
		if v := gjson.GetBytes(body, path); v.Exists() && v.Type == gjson.String {
			return v.String()
		}
	}
	return ""
}

// Decode runs query through q and unmarshals the result into dest.
func Decode(ctx context.Context, q Querier, query string, params Params, dest any) error {
	raw, err := q.Raw(ctx, query, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decoding sanity result: %w", err)
	}
	return nil
}

var _ Querier = (*Client)(nil)
