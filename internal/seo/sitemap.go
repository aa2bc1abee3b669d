// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/xml"
	"time"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Valid change frequency values.
const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// Entry is a site-relative path with its last modification time.
type Entry struct {
	Path      string
	UpdatedAt time.Time
}

// SitemapBuilder builds sitemap XML from site paths.
type SitemapBuilder struct {
	siteURL string
	urls    []SitemapURL
	seen    map[string]bool
}

// NewSitemapBuilder creates a new sitemap builder.
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{
		siteURL: siteURL,
		urls:    make([]SitemapURL, 0),
		seen:    make(map[string]bool),
	}
}

// AddHomepage adds the homepage to the sitemap.
func (b *SitemapBuilder) AddHomepage() {
	b.add(Entry{Path: "/"}, ChangeFreqDaily, "1.0")
}

// AddSections adds the shop and the top-level section pages.
func (b *SitemapBuilder) AddSections(paths []string) {
	for _, p := range paths {
		b.add(Entry{Path: p}, ChangeFreqDaily, "0.9")
	}
}

// AddArticles adds article pages.
func (b *SitemapBuilder) AddArticles(entries []Entry) {
	for _, e := range entries {
		b.add(e, ChangeFreqWeekly, "0.8")
	}
}

// AddProducts adds product pages.
func (b *SitemapBuilder) AddProducts(entries []Entry) {
	for _, e := range entries {
		b.add(e, ChangeFreqWeekly, "0.7")
	}
}

// AddCategories adds category archive pages.
func (b *SitemapBuilder) AddCategories(entries []Entry) {
	for _, e := range entries {
		b.add(e, ChangeFreqWeekly, "0.6")
	}
}

// add appends an entry once per path; later duplicates are ignored.
func (b *SitemapBuilder) add(e Entry, freq ChangeFreq, priority string) {
	if e.Path == "" || b.seen[e.Path] {
		return
	}
	b.seen[e.Path] = true

	loc := b.siteURL + e.Path
	if e.Path == "/" {
		loc = b.siteURL
	}
	url := SitemapURL{Loc: loc, ChangeFreq: freq, Priority: priority}
	if !e.UpdatedAt.IsZero() {
		url.LastMod = e.UpdatedAt.UTC().Format(time.RFC3339)
	}
	b.urls = append(b.urls, url)
}

// Len returns the number of URLs added.
func (b *SitemapBuilder) Len() int {
	return len(b.urls)
}

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		URLs:  b.urls,
	}

	output := []byte(xml.Header)
	xmlBytes, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(output, xmlBytes...), nil
}
