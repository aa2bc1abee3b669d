// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package catalog

import (
	"net/url"
	"strconv"
	"strings"
)

// Sort orders.
const (
	SortFeatured  = "featured"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortNewest    = "newest"
)

// Query parameter names used by the shop page.
const (
	ParamCategory = "category"
	ParamBrand    = "brand"
	ParamPrice    = "price"
	ParamSort     = "sort"
)

// State is the complete filter and sort selection.
type State struct {
	Category   string
	Brand      string
	PriceRange string
	Sort       string
}

// InitialState returns the unfiltered, featured-first state.
func InitialState() State {
	return State{Sort: SortFeatured}
}

// StateFromQuery reads a State from shop page query parameters.
func StateFromQuery(q url.Values) State {
	s := InitialState()
	s.Category = strings.TrimSpace(q.Get(ParamCategory))
	s.Brand = strings.TrimSpace(q.Get(ParamBrand))
	s.PriceRange = strings.TrimSpace(q.Get(ParamPrice))
	if v := strings.TrimSpace(q.Get(ParamSort)); v != "" {
		s.Sort = v
	}
	return s
}

// Query encodes the non-default fields of s.
func (s State) Query() url.Values {
	q := url.Values{}
	if s.Category != "" {
		q.Set(ParamCategory, s.Category)
	}
	if s.Brand != "" {
		q.Set(ParamBrand, s.Brand)
	}
	if s.PriceRange != "" {
		q.Set(ParamPrice, s.PriceRange)
	}
	if s.Sort != "" && s.Sort != SortFeatured {
		q.Set(ParamSort, s.Sort)
	}
	return q
}

// IsFiltered reports whether any filter is active.
func (s State) IsFiltered() bool {
	return s.Category != "" || s.Brand != "" || s.PriceRange != ""
}

// PriceRange is a parsed "{min}-{max}" or "{min}-up" bracket. Min is
// inclusive, Max exclusive.
type PriceRange struct {
	Min  float64
	Max  float64
	Open bool
}

// ParsePriceRange parses a bracket. ok is false for anything malformed.
func ParsePriceRange(s string) (r PriceRange, ok bool) {
	lo, hi, found := strings.Cut(strings.TrimSpace(s), "-")
	if !found {
		return PriceRange{}, false
	}
	minV, err := strconv.ParseFloat(lo, 64)
	if err != nil || minV < 0 {
		return PriceRange{}, false
	}
	if hi == "up" {
		return PriceRange{Min: minV, Open: true}, true
	}
	maxV, err := strconv.ParseFloat(hi, 64)
	if err != nil || maxV < minV {
		return PriceRange{}, false
	}
	return PriceRange{Min: minV, Max: maxV}, true
}

// Contains reports whether price falls in the bracket.
func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && (r.Open || price < r.Max)
}
