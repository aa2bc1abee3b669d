// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package catalog filters and sorts product collections for the shop and
// category pages.
package catalog

import (
	"slices"
	"sort"
	"strings"

	"github.com/olegiv/luxora-go/internal/content"
)

// Engine owns a product collection and the current State. Every change
// recomputes the result from the full collection.
type Engine struct {
	all     []content.ProductCard
	state   State
	results []content.ProductCard
}

// NewEngine creates an Engine in the initial state.
func NewEngine(products []content.ProductCard) *Engine {
	e := &Engine{all: products, state: InitialState()}
	e.recompute()
	return e
}

// State returns the current selection.
func (e *Engine) State() State {
	return e.state
}

// Results returns the filtered and sorted products.
func (e *Engine) Results() []content.ProductCard {
	return e.results
}

// All returns the unfiltered collection.
func (e *Engine) All() []content.ProductCard {
	return e.all
}

// Set replaces the whole state.
func (e *Engine) Set(s State) []content.ProductCard {
	e.state = s
	e.recompute()
	return e.results
}

// SetCategory changes the category filter.
func (e *Engine) SetCategory(name string) []content.ProductCard {
	e.state.Category = name
	e.recompute()
	return e.results
}

// SetBrand changes the brand filter.
func (e *Engine) SetBrand(name string) []content.ProductCard {
	e.state.Brand = name
	e.recompute()
	return e.results
}

// SetPriceRange changes the price bracket.
func (e *Engine) SetPriceRange(r string) []content.ProductCard {
	e.state.PriceRange = r
	e.recompute()
	return e.results
}

// SetSort changes the sort order.
func (e *Engine) SetSort(s string) []content.ProductCard {
	e.state.Sort = s
	e.recompute()
	return e.results
}

// Reset returns to the initial state.
func (e *Engine) Reset() []content.ProductCard {
	return e.Set(InitialState())
}

func (e *Engine) recompute() {
	e.results = Apply(e.all, e.state)
}

// Apply filters and sorts products by s. The input slice is not modified.
func Apply(products []content.ProductCard, s State) []content.ProductCard {
	out := make([]content.ProductCard, 0, len(products))

	priceRange, hasRange := ParsePriceRange(s.PriceRange)
	for _, p := range products {
		if s.Category != "" && !strings.EqualFold(p.CategoryName(), s.Category) {
			continue
		}
		if s.Brand != "" && !strings.EqualFold(p.BrandName(), s.Brand) {
			continue
		}
		if hasRange && !priceRange.Contains(p.Price) {
			continue
		}
		out = append(out, p)
	}

	switch s.Sort {
	case SortFeatured:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Featured && !out[j].Featured
		})
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Price < out[j].Price
		})
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Price > out[j].Price
		})
	}
	// SortNewest and unknown orders keep the collection order, which the
	// product query returns newest first.

	return out
}

// Categories lists the distinct category names, sorted case-insensitively.
func Categories(products []content.ProductCard) []string {
	return distinct(products, (*content.ProductCard).CategoryName)
}

// Brands lists the distinct brand names, sorted case-insensitively.
func Brands(products []content.ProductCard) []string {
	return distinct(products, (*content.ProductCard).BrandName)
}

func distinct(products []content.ProductCard, field func(*content.ProductCard) string) []string {
	seen := make(map[string]bool)
	var out []string
	for i := range products {
		name := field(&products[i])
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	slices.SortFunc(out, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return out
}
