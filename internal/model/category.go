// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Top-level parent sections.
const (
	ParentFashion   = "fashion"
	ParentLifestyle = "lifestyle"
	ParentWellness  = "wellness"
	ParentGuides    = "guides"
)

// Parents lists the top-level sections in navigation order.
var Parents = []string{ParentFashion, ParentLifestyle, ParentWellness, ParentGuides}

// IsParent reports whether s names a top-level section.
func IsParent(s string) bool {
	for _, p := range Parents {
		if p == s {
			return true
		}
	}
	return false
}

// Category is a category document. Parent is one of Parents or empty.
type Category struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Slug        Slug   `json:"slug"`
	Parent      string `json:"parent,omitempty"`
	Description string `json:"description,omitempty"`
}

// URL returns the public path of the category. Subcategories live under
// their parent section, a top-level section links to itself, and anything
// else falls back to the generic article path.
func (c *Category) URL() string {
	if c == nil || c.Slug.Current == "" {
		return ""
	}
	slug := c.Slug.Current
	switch {
	case IsParent(c.Parent):
		return "/" + c.Parent + "/" + slug
	case IsParent(slug):
		return "/" + slug
	default:
		return "/article/" + slug
	}
}
