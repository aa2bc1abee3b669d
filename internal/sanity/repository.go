// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package sanity

import (
	"context"
	"errors"
	"time"

	"github.com/olegiv/luxora-go/internal/model"
)

// SlugEntry is a slug with its last modification time, used for sitemaps.
type SlugEntry struct {
	Slug      string    `json:"slug"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Repository exposes typed document lookups over a Querier.
type Repository struct {
	q Querier
}

// NewRepository creates a Repository.
func NewRepository(q Querier) *Repository {
	return &Repository{q: q}
}

// ArticleBySlug returns a published article or ErrNotFound.
func (r *Repository) ArticleBySlug(ctx context.Context, slug string) (*model.Article, error) {
	var a model.Article
	if err := Decode(ctx, r.q, QueryArticleBySlug, Params{"slug": slug}, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// ArticleSlugs returns every published article slug.
func (r *Repository) ArticleSlugs(ctx context.Context) ([]SlugEntry, error) {
	return list[SlugEntry](ctx, r.q, QueryArticleSlugs, nil)
}

// LatestArticles returns the n most recently published articles.
func (r *Repository) LatestArticles(ctx context.Context, n int) ([]model.Article, error) {
	return list[model.Article](ctx, r.q, QueryLatestArticles, Params{"limit": n})
}

// ArticlesByCategory returns up to n articles tagged with the category slug.
func (r *Repository) ArticlesByCategory(ctx context.Context, slug string, n int) ([]model.Article, error) {
	return list[model.Article](ctx, r.q, QueryArticlesByCategory, Params{"slug": slug, "limit": n})
}

// ArticlesBySection returns up to n articles in any category under parent.
func (r *Repository) ArticlesBySection(ctx context.Context, parent string, n int) ([]model.Article, error) {
	return list[model.Article](ctx, r.q, QueryArticlesBySection, Params{"parent": parent, "limit": n})
}

// Products returns every product, newest first.
func (r *Repository) Products(ctx context.Context) ([]model.Product, error) {
	return list[model.Product](ctx, r.q, QueryProducts, nil)
}

// ProductsByCategory returns products in the category slug.
func (r *Repository) ProductsByCategory(ctx context.Context, slug string) ([]model.Product, error) {
	return list[model.Product](ctx, r.q, QueryProductsByCategory, Params{"slug": slug})
}

// FeaturedProducts returns up to n featured products.
func (r *Repository) FeaturedProducts(ctx context.Context, n int) ([]model.Product, error) {
	return list[model.Product](ctx, r.q, QueryFeaturedProducts, Params{"limit": n})
}

// ProductBySlug returns a product or ErrNotFound.
func (r *Repository) ProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var p model.Product
	if err := Decode(ctx, r.q, QueryProductBySlug, Params{"slug": slug}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ProductSlugs returns every product slug.
func (r *Repository) ProductSlugs(ctx context.Context) ([]SlugEntry, error) {
	return list[SlugEntry](ctx, r.q, QueryProductSlugs, nil)
}

// CategoryBySlug returns a category or ErrNotFound.
func (r *Repository) CategoryBySlug(ctx context.Context, slug string) (*model.Category, error) {
	var c model.Category
	if err := Decode(ctx, r.q, QueryCategoryBySlug, Params{"slug": slug}, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Categories returns every category ordered by name.
func (r *Repository) Categories(ctx context.Context) ([]model.Category, error) {
	return list[model.Category](ctx, r.q, QueryCategories, nil)
}

// list treats a null result as an empty collection.
func list[T any](ctx context.Context, q Querier, query string, params Params) ([]T, error) {
	var out []T
	err := Decode(ctx, q, query, params, &out)
	if errors.Is(err, ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}
