// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package redirect

// defaultRules consolidates the pre-relaunch URL structure into the
// parent/subcategory layout.
var defaultRules = []Rule{
	{Source: "/bags", Destination: "/fashion/bags", Permanent: true},
	{Source: "/shoes", Destination: "/fashion/shoes", Permanent: true},
	{Source: "/jewelry", Destination: "/fashion/jewelry", Permanent: true},
	{Source: "/jewellery", Destination: "/fashion/jewelry", Permanent: true},
	{Source: "/watches", Destination: "/fashion/watches", Permanent: true},
	{Source: "/clothing", Destination: "/fashion/clothing", Permanent: true},
	{Source: "/accessories", Destination: "/fashion/accessories", Permanent: true},
	{Source: "/beauty", Destination: "/wellness/beauty", Permanent: true},
	{Source: "/skincare", Destination: "/wellness/skincare", Permanent: true},
	{Source: "/fragrance", Destination: "/wellness/fragrance", Permanent: true},
	{Source: "/fitness", Destination: "/wellness/fitness", Permanent: true},
	{Source: "/travel", Destination: "/lifestyle/travel", Permanent: true},
	{Source: "/home-decor", Destination: "/lifestyle/home", Permanent: true},
	{Source: "/dining", Destination: "/lifestyle/dining", Permanent: true},
	{Source: "/gift-guide", Destination: "/guides/gift-guides", Permanent: true},
	{Source: "/gift-guides", Destination: "/guides/gift-guides", Permanent: true},
	{Source: "/products", Destination: "/shop", Permanent: true},
	{Source: "/store", Destination: "/shop", Permanent: true},
	{Source: "/sale", Destination: "/shop?sort=price-asc", Permanent: false},
	{Source: "/products/*", Destination: "/product/*", Permanent: true},
	{Source: "/blog/*", Destination: "/article/*", Permanent: true},
	{Source: "/posts/*", Destination: "/article/*", Permanent: true},
	{Source: "/category/fashion/*", Destination: "/fashion/*", Permanent: true},
	{Source: "/category/lifestyle/*", Destination: "/lifestyle/*", Permanent: true},
	{Source: "/category/wellness/*", Destination: "/wellness/*", Permanent: true},
	{Source: "/category/guides/*", Destination: "/guides/*", Permanent: true},
}

// Default returns the built-in table.
func Default() *Table {
	t, err := New(DefaultRules())
	if err != nil {
		panic("redirect: invalid built-in table: " + err.Error())
	}
	return t
}

// DefaultRules returns a copy of the built-in rules.
func DefaultRules() []Rule {
	out := make([]Rule, len(defaultRules))
	copy(out, defaultRules)
	return out
}
