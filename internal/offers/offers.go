// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package offers composes a product's retailer offers for display: it
// filters out-of-stock offers, splits retail from resale, picks the primary
// offer and formats prices.
package offers

import (
	"math"
	"net/url"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/olegiv/luxora-go/internal/model"
	"github.com/olegiv/luxora-go/internal/util"
)

// retailerNames maps retailer codes to display names.
var retailerNames = map[string]string{
	"net-a-porter":   "Net-a-Porter",
	"mytheresa":      "Mytheresa",
	"farfetch":       "Farfetch",
	"ssense":         "SSENSE",
	"matches":        "MatchesFashion",
	"nordstrom":      "Nordstrom",
	"saks":           "Saks Fifth Avenue",
	"neiman-marcus":  "Neiman Marcus",
	"bergdorf":       "Bergdorf Goodman",
	"harrods":        "Harrods",
	"selfridges":     "Selfridges",
	"mrporter":       "Mr Porter",
	"sephora":        "Sephora",
	"amazon":         "Amazon",
	"therealreal":    "The RealReal",
	"vestiaire":      "Vestiaire Collective",
	"fashionphile":   "Fashionphile",
	"rebag":          "Rebag",
	"brand-boutique": "Brand Boutique",
}

// retailerHosts maps retailer domains to retailer codes. Subdomains match.
var retailerHosts = map[string]string{
	"net-a-porter.com":        "net-a-porter",
	"mytheresa.com":           "mytheresa",
	"farfetch.com":            "farfetch",
	"ssense.com":              "ssense",
	"matchesfashion.com":      "matches",
	"nordstrom.com":           "nordstrom",
	"saksfifthavenue.com":     "saks",
	"neimanmarcus.com":        "neiman-marcus",
	"bergdorfgoodman.com":     "bergdorf",
	"harrods.com":             "harrods",
	"selfridges.com":          "selfridges",
	"mrporter.com":            "mrporter",
	"sephora.com":             "sephora",
	"amazon.com":              "amazon",
	"therealreal.com":         "therealreal",
	"vestiairecollective.com": "vestiaire",
	"fashionphile.com":        "fashionphile",
	"rebag.com":               "rebag",
}

var currencySymbols = map[string]string{
	model.CurrencyUSD: "$",
	model.CurrencyEUR: "€",
	model.CurrencyGBP: "£",
}

// DefaultSymbol is used for missing or unrecognized currencies.
const DefaultSymbol = "$"

// Resolved is an eligible offer with its display name.
type Resolved struct {
	model.Offer
	Name string
}

// Composition is the display-ready split of a product's offers. Retail and
// Resale preserve input order.
type Composition struct {
	Retail  []Resolved
	Resale  []Resolved
	Primary *Resolved
}

// Empty reports whether no offer is eligible for display.
func (c Composition) Empty() bool {
	return len(c.Retail) == 0 && len(c.Resale) == 0
}

// Alternates returns the retail offers other than the primary one.
func (c Composition) Alternates() []Resolved {
	if c.Primary == nil {
		return c.Retail
	}
	out := make([]Resolved, 0, len(c.Retail))
	for i := range c.Retail {
		if &c.Retail[i] != c.Primary {
			out = append(out, c.Retail[i])
		}
	}
	return out
}

// Compose filters offers to eligible ones, partitions them into retail and
// resale, and selects the primary retail offer: the first flagged isPrimary,
// else the first retail offer.
func Compose(in []model.Offer) Composition {
	var c Composition
	for _, o := range in {
		if !o.Eligible() {
			continue
		}
		r := Resolved{Offer: o, Name: RetailerName(o.Retailer, o.RetailerName)}
		if o.IsResale {
			c.Resale = append(c.Resale, r)
		} else {
			c.Retail = append(c.Retail, r)
		}
	}

	for i := range c.Retail {
		if c.Retail[i].IsPrimary {
			c.Primary = &c.Retail[i]
			break
		}
	}
	if c.Primary == nil && len(c.Retail) > 0 {
		c.Primary = &c.Retail[0]
	}
	return c
}

// RetailerName returns override if set, else the known name for code, else
// code capitalized.
func RetailerName(code, override string) string {
	if override != "" {
		return override
	}
	if name, ok := retailerNames[code]; ok {
		return name
	}
	return util.Capitalize(code)
}

// CurrencySymbol returns the symbol for a currency code.
func CurrencySymbol(currency string) string {
	if s, ok := currencySymbols[currency]; ok {
		return s
	}
	return DefaultSymbol
}

// FormatPrice formats amount with US-English digit grouping. Whole amounts
// have no decimals; others show two.
func FormatPrice(amount float64, currency string) string {
	p := message.NewPrinter(language.AmericanEnglish)
	var n any
	if amount == math.Trunc(amount) {
		n = number.Decimal(amount, number.MaxFractionDigits(0))
	} else {
		n = number.Decimal(amount, number.Scale(2))
	}
	return CurrencySymbol(currency) + p.Sprintf("%v", n)
}

// Sale reports the strikethrough price for a product. It is on sale only
// when an original price exists and exceeds the current price.
func Sale(price, original *float64) (was float64, onSale bool) {
	if original == nil {
		return 0, false
	}
	current := 0.0
	if price != nil {
		current = *price
	}
	if *original > current {
		return *original, true
	}
	return 0, false
}

// RetailerForURL reports the retailer code for a link to a known retailer
// domain.
func RetailerForURL(href string) (string, bool) {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", false
	}
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	for host != "" {
		if code, ok := retailerHosts[host]; ok {
			return code, true
		}
		i := strings.IndexByte(host, '.')
		if i < 0 {
			break
		}
		host = host[i+1:]
	}
	return "", false
}
