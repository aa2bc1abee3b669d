// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Supported currencies.
const (
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
	CurrencyGBP = "GBP"
)

// Product is a product document.
type Product struct {
	ID             string    `json:"_id"`
	Name           string    `json:"name"`
	Slug           Slug      `json:"slug"`
	Brand          *Brand    `json:"brand,omitempty"`
	Category       *Category `json:"category,omitempty"`
	Price          *float64  `json:"price,omitempty"`
	OriginalPrice  *float64  `json:"originalPrice,omitempty"`
	Currency       string    `json:"currency,omitempty"`
	Featured       bool      `json:"featured,omitempty"`
	Description    string    `json:"description,omitempty"`
	Images         []Image   `json:"images,omitempty"`
	Specifications []Spec    `json:"specifications,omitempty"`
	Offers         []Offer   `json:"affiliateLinks,omitempty"`
	CreatedAt      time.Time `json:"_createdAt"`
}

// Spec is one label/value specification row.
type Spec struct {
	Key   string `json:"_key,omitempty"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Offer is a retailer offer for a product. InStock is tri-state: nil means
// the editor did not say.
type Offer struct {
	Key          string   `json:"_key,omitempty"`
	Retailer     string   `json:"retailer"`
	RetailerName string   `json:"retailerName,omitempty"`
	URL          string   `json:"url"`
	Price        *float64 `json:"price,omitempty"`
	IsPrimary    bool     `json:"isPrimary,omitempty"`
	IsResale     bool     `json:"isResale,omitempty"`
	InStock      *bool    `json:"inStock,omitempty"`
}

// Eligible reports whether the offer may be displayed.
func (o Offer) Eligible() bool {
	return o.InStock == nil || *o.InStock
}
