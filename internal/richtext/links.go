// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package richtext

import (
	"html"
	"html/template"
	"strings"
)

// AffiliateRel is the rel value every outbound retailer link carries.
const AffiliateRel = "noopener noreferrer sponsored"

// TrackAffiliateClick is the data-track value read by the click beacon.
const TrackAffiliateClick = "affiliate_click"

// AffiliateLink renders an outbound retailer link. The label is escaped.
func AffiliateLink(href, label, retailer, product, class string) template.HTML {
	var b strings.Builder
	writeAffiliateOpen(&b, href, retailer, product, class)
	b.WriteString(html.EscapeString(label))
	b.WriteString("</a>")
	return template.HTML(b.String()) //nolint:gosec // attributes and label are escaped
}

func writeAffiliateOpen(b *strings.Builder, href, retailer, product, class string) {
	b.WriteString(`<a href="`)
	b.WriteString(html.EscapeString(href))
	b.WriteString(`" target="_blank" rel="` + AffiliateRel + `" data-track="` + TrackAffiliateClick + `"`)
	if retailer != "" {
		b.WriteString(` data-retailer="`)
		b.WriteString(html.EscapeString(retailer))
		b.WriteString(`"`)
	}
	if product != "" {
		b.WriteString(` data-product="`)
		b.WriteString(html.EscapeString(product))
		b.WriteString(`"`)
	}
	if class != "" {
		b.WriteString(` class="`)
		b.WriteString(html.EscapeString(class))
		b.WriteString(`"`)
	}
	b.WriteString(">")
}

func writeLinkOpen(b *strings.Builder, href string, blank bool) {
	b.WriteString(`<a href="`)
	b.WriteString(html.EscapeString(href))
	b.WriteString(`"`)
	if blank || isExternal(href) {
		b.WriteString(` target="_blank" rel="noopener noreferrer"`)
	}
	b.WriteString(">")
}

func isExternal(href string) bool {
	return strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") || strings.HasPrefix(href, "//")
}
