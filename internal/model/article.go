// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Article statuses.
const (
	StatusDraft     = "draft"
	StatusInReview  = "in-review"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Article is an editorial article document. Reference fields arrive
// dereferenced by the query; a dangling reference decodes as nil.
type Article struct {
	ID               string      `json:"_id"`
	Title            string      `json:"title"`
	Slug             Slug        `json:"slug"`
	Excerpt          *string     `json:"excerpt,omitempty"`
	Body             []Block     `json:"body,omitempty"`
	MainImage        *Image      `json:"mainImage,omitempty"`
	PrimaryProduct   *Product    `json:"primaryProduct,omitempty"`
	FeaturedProducts []*Product  `json:"featuredProducts,omitempty"`
	Author           *Author     `json:"author,omitempty"`
	Categories       []*Category `json:"categories,omitempty"`
	PublishedAt      *time.Time  `json:"publishedAt,omitempty"`
	UpdatedAt        time.Time   `json:"_updatedAt"`
	SEO              *SEO        `json:"seo,omitempty"`
	Status           string      `json:"status"`
	ReadTime         *int        `json:"readTime,omitempty"`
}

// IsVisible reports whether readers may see the article.
func (a *Article) IsVisible() bool {
	return a != nil && a.Status == StatusPublished && a.Slug.Current != ""
}
