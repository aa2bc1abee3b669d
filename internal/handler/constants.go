// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the home page.
	RouteRoot = "/"
	// RouteArticle is the article page pattern.
	RouteArticle = "/article/{slug}"
	// RouteProduct is the product page pattern.
	RouteProduct = "/product/{slug}"
	// RouteShop is the filterable catalog.
	RouteShop = "/shop"
	// RouteContact is the contact page.
	RouteContact = "/contact"
	// RouteComingSoon is the launch gate page.
	RouteComingSoon = "/coming-soon"
	// RouteSection is a top-level section archive.
	RouteSection = "/{section}"
	// RouteSectionCategory is a category archive inside its section.
	RouteSectionCategory = "/{section}/{slug}"

	RouteHealth     = "/health"
	RouteHealthLive = "/health/live"
	RouteRobots     = "/robots.txt"
	RouteSitemap    = "/sitemap.xml"
	RouteStatic     = "/static/*"

	// RouteAPI prefixes the JSON endpoints.
	RouteAPI        = "/api"
	RouteAPIContact = "/contact"
	RouteAPISignup  = "/newsletter"
	RouteAPIEvents  = "/events"
)

// Static asset and page cache lifetimes in seconds.
const (
	StaticMaxAge = 86400
	PageMaxAge   = 60
)
