// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package sanity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/olegiv/luxora-go/internal/cache"
)

// CacheKeyPrefix namespaces query results in the shared cache.
const CacheKeyPrefix = "sanity:"

// nullMarker records a cached not-found result.
var nullMarker = []byte("null")

// CachedClient memoizes query results in a cache.Cacher.
type CachedClient struct {
	next   Querier
	cache  cache.Cacher
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedClient wraps next. A zero ttl disables caching.
func NewCachedClient(next Querier, c cache.Cacher, ttl time.Duration, logger *slog.Logger) *CachedClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedClient{next: next, cache: c, ttl: ttl, logger: logger}
}

// Raw returns a cached result when present and otherwise queries next.
// Cache failures are logged and bypassed.
func (c *CachedClient) Raw(ctx context.Context, query string, params Params) ([]byte, error) {
	if c.ttl <= 0 {
		return c.next.Raw(ctx, query, params)
	}

	key, err := CacheKey(query, params)
	if err != nil {
		return c.next.Raw(ctx, query, params)
	}

	cached, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		if string(cached) == string(nullMarker) {
			return nil, ErrNotFound
		}
		return cached, nil
	case !errors.Is(err, cache.ErrCacheMiss):
		c.logger.Warn("query cache read failed", "category", "cache", "error", err)
	}

	raw, err := c.next.Raw(ctx, query, params)
	switch {
	case errors.Is(err, ErrNotFound):
		c.store(ctx, key, nullMarker)
		return nil, err
	case err != nil:
		return nil, err
	}

	c.store(ctx, key, raw)
	return raw, nil
}

func (c *CachedClient) store(ctx context.Context, key string, value []byte) {
	if err := c.cache.Set(ctx, key, value, c.ttl); err != nil {
		c.logger.Warn("query cache write failed", "category", "cache", "error", err)
	}
}

// Invalidate drops every cached query result.
func (c *CachedClient) Invalidate(ctx context.Context) error {
	return c.cache.DeleteByPrefix(ctx, CacheKeyPrefix)
}

// CacheKey derives a stable key from a query and its parameters.
func CacheKey(query string, params Params) (string, error) {
	// encoding/json sorts map keys, so equal params hash equally.
	encoded, err := json.Marshal(params)
	if err != nil {
		return "", err
	}
	sum := sha256.New()
	sum.Write([]byte(query))
	sum.Write([]byte{0})
	sum.Write(encoded)
	return CacheKeyPrefix + hex.EncodeToString(sum.Sum(nil)), nil
}

var _ Querier = (*CachedClient)(nil)
