// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds meta tags, Open Graph data, JSON-LD structured data,
// sitemaps and robots.txt.
package seo

import (
	"encoding/json"
	"html/template"
	"strings"
	"time"

	"github.com/olegiv/luxora-go/internal/content"
)

// Meta holds all SEO meta tag data for a page.
type Meta struct {
	Title         string // <title>
	Description   string
	Canonical     string
	OGTitle       string
	OGDescription string
	OGImage       string // absolute
	OGType        string // website, article, product
	OGSiteName    string
	OGURL         string
	Robots        string // index,follow / noindex,follow
	TwitterCard   string
	TwitterSite   string
}

// PageData is the page-specific input to BuildMeta.
type PageData struct {
	Title       string
	Description string
	Path        string // site-relative, e.g. /article/quiet-luxury
	Image       string
	Type        string
	NoIndex     bool
}

// SiteConfig contains site-wide settings for SEO.
type SiteConfig struct {
	SiteName        string
	SiteURL         string
	SiteDescription string
	DefaultOGImage  string
	TwitterHandle   string
}

// BuildMeta creates a Meta struct from page and site data with fallbacks.
// A nil page yields the homepage defaults.
func BuildMeta(page *PageData, site *SiteConfig) *Meta {
	meta := &Meta{
		OGType:        "website",
		TwitterCard:   "summary_large_image",
		OGSiteName:    site.SiteName,
		TwitterSite:   site.TwitterHandle,
		Title:         site.SiteName,
		OGTitle:       site.SiteName,
		Description:   site.SiteDescription,
		OGDescription: site.SiteDescription,
		Canonical:     site.SiteURL,
		Robots:        "index,follow",
	}
	image := site.DefaultOGImage

	if page != nil {
		if page.Type != "" {
			meta.OGType = page.Type
		}
		if page.Title != "" && page.Title != site.SiteName {
			meta.Title = page.Title + " | " + site.SiteName
			meta.OGTitle = page.Title
		}
		if page.Description != "" {
			meta.Description = truncateText(page.Description, 160)
			meta.OGDescription = meta.Description
		}
		if page.Image != "" {
			image = page.Image
		}
		if page.Path != "" && page.Path != "/" {
			meta.Canonical = site.SiteURL + page.Path
		}
		if page.NoIndex {
			meta.Robots = "noindex,follow"
		}
	}

	meta.OGURL = meta.Canonical
	meta.OGImage = makeAbsoluteURL(image, site.SiteURL)
	return meta
}

// ArticleMeta builds the page data for an article.
func ArticleMeta(a *content.ArticlePage) *PageData {
	image := a.SEO.Image.URL
	if image == "" {
		image = a.Hero.URL
	}
	return &PageData{
		Title:       a.SEO.Title,
		Description: a.SEO.Description,
		Path:        a.URL,
		Image:       image,
		Type:        "article",
		NoIndex:     a.SEO.NoIndex,
	}
}

// ProductMeta builds the page data for a product.
func ProductMeta(p *content.ProductCard) *PageData {
	title := p.Name
	if b := p.BrandName(); b != "" {
		title = b + " " + p.Name
	}
	return &PageData{
		Title:       title,
		Description: stripHTML(p.Description),
		Path:        p.URL,
		Image:       p.Image.URL,
		Type:        "product",
	}
}

// ArticleSchema represents JSON-LD Article structured data.
type ArticleSchema struct {
	Context          string        `json:"@context"`
	Type             string        `json:"@type"`
	Headline         string        `json:"headline"`
	Description      string        `json:"description,omitempty"`
	Image            string        `json:"image,omitempty"`
	DatePublished    string        `json:"datePublished,omitempty"`
	DateModified     string        `json:"dateModified,omitempty"`
	Author           *PersonSchema `json:"author,omitempty"`
	Publisher        *OrgSchema    `json:"publisher,omitempty"`
	MainEntityOfPage string        `json:"mainEntityOfPage,omitempty"`
}

// PersonSchema represents JSON-LD Person structured data.
type PersonSchema struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// OrgSchema represents JSON-LD Organization structured data.
type OrgSchema struct {
	Type string       `json:"@type"`
	Name string       `json:"name"`
	Logo *ImageSchema `json:"logo,omitempty"`
}

// ImageSchema represents JSON-LD ImageObject structured data.
type ImageSchema struct {
	Type string `json:"@type"`
	URL  string `json:"url"`
}

// ProductSchema represents JSON-LD Product structured data.
type ProductSchema struct {
	Context     string       `json:"@context"`
	Type        string       `json:"@type"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Image       []string     `json:"image,omitempty"`
	Brand       *BrandSchema `json:"brand,omitempty"`
	Offers      *OfferSchema `json:"offers,omitempty"`
}

// BrandSchema represents JSON-LD Brand structured data.
type BrandSchema struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// OfferSchema represents a JSON-LD Offer. Seller is the retailer.
type OfferSchema struct {
	Type          string     `json:"@type"`
	URL           string     `json:"url"`
	Price         float64    `json:"price"`
	PriceCurrency string     `json:"priceCurrency"`
	Availability  string     `json:"availability"`
	Seller        *OrgSchema `json:"seller,omitempty"`
}

// BreadcrumbSchema represents JSON-LD BreadcrumbList structured data.
type BreadcrumbSchema struct {
	Context  string           `json:"@context"`
	Type     string           `json:"@type"`
	ItemList []BreadcrumbItem `json:"itemListElement"`
}

// BreadcrumbItem represents a single breadcrumb item.
type BreadcrumbItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item,omitempty"`
}

// Crumb is one breadcrumb step with a site-relative path.
type Crumb struct {
	Name string
	Path string
}

// BuildArticleSchema creates JSON-LD Article structured data.
func BuildArticleSchema(a *content.ArticlePage, site *SiteConfig) template.JS {
	if a == nil {
		return ""
	}

	article := ArticleSchema{
		Context:          "https://schema.org",
		Type:             "Article",
		Headline:         a.Title,
		Description:      a.SEO.Description,
		Image:            makeAbsoluteURL(a.Hero.URL, site.SiteURL),
		MainEntityOfPage: site.SiteURL + a.URL,
		Publisher:        &OrgSchema{Type: "Organization", Name: site.SiteName},
	}
	if !a.PublishedAt.IsZero() {
		article.DatePublished = a.PublishedAt.Format(time.RFC3339)
	}
	if !a.UpdatedAt.IsZero() {
		article.DateModified = a.UpdatedAt.Format(time.RFC3339)
	}
	if a.Author != nil {
		article.Author = &PersonSchema{Type: "Person", Name: a.Author.Name}
	}
	if site.DefaultOGImage != "" {
		article.Publisher.Logo = &ImageSchema{
			Type: "ImageObject",
			URL:  makeAbsoluteURL(site.DefaultOGImage, site.SiteURL),
		}
	}

	return marshalJSONLD(article)
}

// BuildProductSchema creates JSON-LD Product structured data. The offer is
// the primary retail offer; products without one carry no offer.
func BuildProductSchema(p *content.ProductCard, site *SiteConfig) template.JS {
	if p == nil {
		return ""
	}

	product := ProductSchema{
		Context:     "https://schema.org",
		Type:        "Product",
		Name:        p.Name,
		Description: stripHTML(p.Description),
	}
	for _, img := range p.Gallery {
		product.Image = append(product.Image, img.URL)
	}
	if len(product.Image) == 0 && p.Image.Present() {
		product.Image = []string{p.Image.URL}
	}
	if b := p.BrandName(); b != "" {
		product.Brand = &BrandSchema{Type: "Brand", Name: b}
	}
	if primary := p.Offers.Primary; primary != nil && p.HasPrice {
		price := p.Price
		if primary.Price != nil {
			price = *primary.Price
		}
		currency := p.Currency
		if currency == "" {
			currency = "USD"
		}
		product.Offers = &OfferSchema{
			Type:          "Offer",
			URL:           primary.URL,
			Price:         price,
			PriceCurrency: currency,
			Availability:  "https://schema.org/InStock",
			Seller:        &OrgSchema{Type: "Organization", Name: primary.Name},
		}
	}

	return marshalJSONLD(product)
}

// BuildBreadcrumbSchema creates JSON-LD BreadcrumbList structured data.
// The homepage is always the first item.
func BuildBreadcrumbSchema(crumbs []Crumb, site *SiteConfig) template.JS {
	list := BreadcrumbSchema{
		Context: "https://schema.org",
		Type:    "BreadcrumbList",
		ItemList: []BreadcrumbItem{
			{Type: "ListItem", Position: 1, Name: "Home", Item: site.SiteURL},
		},
	}
	for i, c := range crumbs {
		item := BreadcrumbItem{Type: "ListItem", Position: i + 2, Name: c.Name}
		if c.Path != "" {
			item.Item = site.SiteURL + c.Path
		}
		list.ItemList = append(list.ItemList, item)
	}
	return marshalJSONLD(list)
}

// marshalJSONLD marshals structured data to JSON-LD script tag content.
func marshalJSONLD(v any) template.JS {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return template.JS(data)
}

// stripHTML removes HTML tags from a string.
func stripHTML(html string) string {
	var result strings.Builder
	inTag := false
	for _, r := range html {
		if r == '<' {
			inTag = true
			continue
		}
		if r == '>' {
			inTag = false
			result.WriteRune(' ')
			continue
		}
		if !inTag {
			result.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(result.String()), " ")
}

// truncateText truncates text to maxLen bytes at a word boundary.
func truncateText(text string, maxLen int) string {
	text = strings.TrimSpace(text)
	if len(text) <= maxLen {
		return text
	}

	truncated := text[:maxLen]
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > maxLen/2 {
		truncated = truncated[:lastSpace]
	}

	return strings.TrimSpace(truncated) + "..."
}

// makeAbsoluteURL ensures a URL is absolute by prepending the site URL.
func makeAbsoluteURL(url, siteURL string) string {
	if url == "" {
		return ""
	}
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	siteURL = strings.TrimSuffix(siteURL, "/")
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	return siteURL + url
}
