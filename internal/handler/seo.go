// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/olegiv/luxora-go/internal/cache"
	"github.com/olegiv/luxora-go/internal/model"
	"github.com/olegiv/luxora-go/internal/sanity"
	"github.com/olegiv/luxora-go/internal/seo"
)

// SitemapSource lists the published documents for the sitemap.
// *sanity.Repository implements it.
type SitemapSource interface {
	ArticleSlugs(ctx context.Context) ([]sanity.SlugEntry, error)
	ProductSlugs(ctx context.Context) ([]sanity.SlugEntry, error)
	Categories(ctx context.Context) ([]model.Category, error)
}

// SEOHandler serves sitemap.xml and robots.txt. The sitemap is built on
// first request and refreshed by the scheduler.
type SEOHandler struct {
	source     SitemapSource
	siteURL    string
	comingSoon bool
	logger     *slog.Logger

	shared *cache.TypedCache[sitemapSnapshot]

	mu      sync.RWMutex
	sitemap []byte
	builtAt time.Time
}

// sitemapSnapshot is a built sitemap shared between instances.
type sitemapSnapshot struct {
	XML     []byte    `json:"xml"`
	BuiltAt time.Time `json:"built_at"`
}

const sitemapCacheKey = "sitemap:xml"

// NewSEOHandler creates a new SEOHandler.
func NewSEOHandler(source SitemapSource, siteURL string, comingSoon bool, logger *slog.Logger) *SEOHandler {
	return &SEOHandler{
		source:     source,
		siteURL:    siteURL,
		comingSoon: comingSoon,
		logger:     logger,
	}
}

// WithSharedCache publishes every rebuilt sitemap to c so that an instance
// with an empty sitemap can serve a peer's copy before building its own.
func (h *SEOHandler) WithSharedCache(c cache.Cacher, ttl time.Duration) *SEOHandler {
	h.shared = cache.NewTypedCache[sitemapSnapshot](c, ttl)
	return h
}

// Refresh rebuilds the sitemap. A failing source keeps the previous one.
func (h *SEOHandler) Refresh(ctx context.Context) error {
	articles, errA := h.source.ArticleSlugs(ctx)
	products, errP := h.source.ProductSlugs(ctx)
	categories, errC := h.source.Categories(ctx)
	if err := errors.Join(errA, errP, errC); err != nil {
		return err
	}

	b := seo.NewSitemapBuilder(h.siteURL)
	b.AddHomepage()

	sections := []string{"/shop"}
	for _, p := range model.Parents {
		sections = append(sections, "/"+p)
	}
	b.AddSections(sections)
	b.AddArticles(entries("/article/", articles))
	b.AddProducts(entries("/product/", products))

	var cats []seo.Entry
	for i := range categories {
		// Categories without a section have no page of their own.
		if model.IsParent(categories[i].Parent) {
			cats = append(cats, seo.Entry{Path: categories[i].URL()})
		}
	}
	b.AddCategories(cats)

	out, err := b.Build()
	if err != nil {
		return err
	}

	builtAt := time.Now().UTC()
	h.store(out, builtAt)
	if h.shared != nil {
		if err := h.shared.Set(ctx, sitemapCacheKey, &sitemapSnapshot{XML: out, BuiltAt: builtAt}); err != nil {
			h.logger.Warn("failed to share sitemap", "error", err)
		}
	}

	h.logger.Info("sitemap rebuilt", "urls", b.Len())
	return nil
}

func (h *SEOHandler) store(out []byte, builtAt time.Time) {
	h.mu.Lock()
	h.sitemap = out
	h.builtAt = builtAt
	h.mu.Unlock()
}

// load returns the local sitemap, falling back to a shared snapshot.
func (h *SEOHandler) load(ctx context.Context) ([]byte, time.Time) {
	h.mu.RLock()
	out, builtAt := h.sitemap, h.builtAt
	h.mu.RUnlock()
	if out != nil || h.shared == nil {
		return out, builtAt
	}
	snap, ok := h.shared.Get(ctx, sitemapCacheKey)
	if !ok || len(snap.XML) == 0 {
		return nil, time.Time{}
	}
	h.store(snap.XML, snap.BuiltAt)
	return snap.XML, snap.BuiltAt
}

func entries(prefix string, slugs []sanity.SlugEntry) []seo.Entry {
	out := make([]seo.Entry, 0, len(slugs))
	for _, s := range slugs {
		if s.Slug == "" {
			continue
		}
		out = append(out, seo.Entry{Path: prefix + s.Slug, UpdatedAt: s.UpdatedAt})
	}
	return out
}

// Sitemap handles GET /sitemap.xml.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	out, builtAt := h.load(r.Context())
	if out == nil {
		if err := h.Refresh(r.Context()); err != nil {
			h.logger.Error("failed to build sitemap", "error", err, "category", "sanity")
			http.Error(w, "Sitemap temporarily unavailable", http.StatusServiceUnavailable)
			return
		}
		out, builtAt = h.load(r.Context())
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=900")
	w.Header().Set("Last-Modified", builtAt.UTC().Format(http.TimeFormat))
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	_, _ = w.Write(out)
}

// Robots handles GET /robots.txt. While the coming-soon gate is up the
// whole site is disallowed.
func (h *SEOHandler) Robots(w http.ResponseWriter, _ *http.Request) {
	body := seo.BuildRobots(seo.RobotsConfig{
		SiteURL:     h.siteURL,
		DisallowAll: h.comingSoon,
	})
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write([]byte(body))
}
