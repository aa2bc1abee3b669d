// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package richtext

import (
	"strconv"
	"strings"
)

// buyKeywords mark a heading as the "where to buy" section.
var buyKeywords = []string{"buy", "where to", "shop"}

// IsBuySection reports whether a heading introduces a shopping section.
func IsBuySection(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range buyKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// TOCEntry is one table of contents line.
type TOCEntry struct {
	ID           string
	Text         string
	IsBuySection bool
}

// TOC accumulates level-2 headings during one render pass. Ids come from a
// counter over those headings only, so they are unique and contiguous.
type TOC struct {
	Entries []TOCEntry
}

// Add records a heading and returns its entry.
func (t *TOC) Add(text string) TOCEntry {
	e := TOCEntry{
		ID:           "heading-" + strconv.Itoa(len(t.Entries)),
		Text:         text,
		IsBuySection: IsBuySection(text),
	}
	t.Entries = append(t.Entries, e)
	return e
}

// Len returns the number of entries.
func (t *TOC) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Entries)
}

// Class returns the CSS class for an entry's link.
func (e TOCEntry) Class() string {
	if e.IsBuySection {
		return "toc-link toc-buy"
	}
	return "toc-link"
}
