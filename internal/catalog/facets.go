// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package catalog

import "github.com/olegiv/luxora-go/internal/offers"

// Option is a selectable filter value.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// PriceBrackets are the brackets offered on the shop page.
var PriceBrackets = []string{"0-500", "500-1000", "1000-2500", "2500-5000", "5000-up"}

// SortOptions are the sort orders offered on the shop page.
var SortOptions = []Option{
	{Value: SortFeatured, Label: "Featured"},
	{Value: SortNewest, Label: "Newest"},
	{Value: SortPriceAsc, Label: "Price: Low to High"},
	{Value: SortPriceDesc, Label: "Price: High to Low"},
}

// Facets are the filter controls for a collection and State.
type Facets struct {
	Categories []Option
	Brands     []Option
	Prices     []Option
	Sorts      []Option
}

// BuildFacets derives the controls from the full collection so choices do
// not disappear as filters narrow the result.
func BuildFacets(e *Engine) Facets {
	s := e.State()
	var f Facets
	for _, name := range Categories(e.All()) {
		f.Categories = append(f.Categories, Option{Value: name, Label: name, Selected: name == s.Category})
	}
	for _, name := range Brands(e.All()) {
		f.Brands = append(f.Brands, Option{Value: name, Label: name, Selected: name == s.Brand})
	}
	for _, v := range PriceBrackets {
		f.Prices = append(f.Prices, Option{Value: v, Label: PriceLabel(v), Selected: v == s.PriceRange})
	}
	for _, o := range SortOptions {
		o.Selected = o.Value == s.Sort
		f.Sorts = append(f.Sorts, o)
	}
	return f
}

// PriceLabel renders a bracket for display, e.g. "$500 to $1,000".
func PriceLabel(bracket string) string {
	r, ok := ParsePriceRange(bracket)
	if !ok {
		return bracket
	}
	if r.Open {
		return offers.FormatPrice(r.Min, "") + "+"
	}
	if r.Min == 0 {
		return "Under " + offers.FormatPrice(r.Max, "")
	}
	return offers.FormatPrice(r.Min, "") + " to " + offers.FormatPrice(r.Max, "")
}
