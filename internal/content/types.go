// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"time"

	"github.com/olegiv/luxora-go/internal/model"
	"github.com/olegiv/luxora-go/internal/offers"
)

// ImageView is a resolved image ready for an <img> tag.
type ImageView struct {
	URL    string
	Alt    string
	Width  int
	Height int
}

// Present reports whether the image resolved to a URL.
func (i ImageView) Present() bool {
	return i.URL != ""
}

// Link is a flattened reference to a brand, category or author.
type Link struct {
	Name string
	Slug string
	URL  string
}

// AuthorView is the display subset of an author.
type AuthorView struct {
	Name  string
	Slug  string
	Role  string
	Bio   string
	Image ImageView
}

// SEOView holds resolved search metadata.
type SEOView struct {
	Title       string
	Description string
	NoIndex     bool
	Image       ImageView
}

// ProductCard is the page model for a product on cards, embeds and the
// product page.
type ProductCard struct {
	ID          string
	Name        string
	Slug        string
	URL         string
	Description string

	Brand    *Link
	Category *Link

	Price         float64
	HasPrice      bool
	Currency      string
	PriceLabel    string
	OriginalLabel string
	OnSale        bool

	Featured  bool
	Image     ImageView
	Gallery   []ImageView
	Specs     []model.Spec
	Offers    offers.Composition
	CreatedAt time.Time
}

// ComingSoon reports whether the product has no displayable offer.
func (p *ProductCard) ComingSoon() bool {
	return p.Offers.Empty()
}

// BrandName returns the brand name or "".
func (p *ProductCard) BrandName() string {
	if p.Brand == nil {
		return ""
	}
	return p.Brand.Name
}

// CategoryName returns the category name or "".
func (p *ProductCard) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}

// ArticlePage is the page model for an article and for article cards.
type ArticlePage struct {
	ID          string
	Title       string
	Slug        string
	URL         string
	Excerpt     string
	Hero        ImageView
	Card        ImageView
	Body        []model.Block
	Author      *AuthorView
	Categories  []Link
	Primary     *ProductCard
	Featured    []ProductCard
	PublishedAt time.Time
	UpdatedAt   time.Time
	ReadTime    int
	SEO         SEOView
}

// PrimaryCategory returns the first category or nil.
func (a *ArticlePage) PrimaryCategory() *Link {
	if len(a.Categories) == 0 {
		return nil
	}
	return &a.Categories[0]
}
