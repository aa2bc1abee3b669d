// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/luxora-go/internal/config"
	"github.com/olegiv/luxora-go/internal/handler"
	"github.com/olegiv/luxora-go/internal/middleware"
)

// app holds the wired handlers the router dispatches to.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	staticFS  fs.FS
	redirects *middleware.Redirects
	frontend  *handler.FrontendHandler
	forms     *handler.FormsHandler
	seo       *handler.SEOHandler
	health    *handler.HealthHandler
	collector http.Handler
	limiter   *middleware.RateLimiter
}

func (a *app) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(a.logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))                        // Gzip compression with level 5
	r.Use(chimw.GetHead)                            // Handle HEAD requests for uptime monitoring
	r.Use(middleware.Timeout(a.cfg.RequestTimeout)) // Per-request deadline
	r.Use(middleware.StripTrailingSlash)            // Redirect /path/ to /path (301)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(a.cfg.IsDevelopment())))
	r.Use(a.redirects.Handler)
	r.Use(middleware.ComingSoon(a.cfg.ComingSoon, http.HandlerFunc(a.frontend.ComingSoon)))

	r.Get(handler.RouteHealth, a.health.Health)
	r.Get(handler.RouteHealthLive, a.health.Liveness)
	r.Get(handler.RouteRobots, a.seo.Robots)
	r.Get(handler.RouteSitemap, a.seo.Sitemap)

	r.With(middleware.StaticCache(handler.StaticMaxAge)).
		Handle(handler.RouteStatic, http.StripPrefix("/static/", http.FileServerFS(a.staticFS)))

	r.Route(handler.RouteAPI, func(r chi.Router) {
		r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(a.cfg.SecretKey), a.cfg.SiteURL, a.cfg.IsDevelopment())))
		r.Use(a.limiter.Middleware())
		r.Post(handler.RouteAPIContact, a.forms.Contact)
		r.Post(handler.RouteAPISignup, a.forms.Newsletter)
		r.Method(http.MethodPost, handler.RouteAPIEvents, a.collector)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.PageCache(handler.PageMaxAge))
		r.Get(handler.RouteRoot, a.frontend.Home)
		r.Get(handler.RouteArticle, a.frontend.Article)
		r.Get(handler.RouteProduct, a.frontend.Product)
		r.Get(handler.RouteShop, a.frontend.Shop)
		r.Get(handler.RouteContact, a.frontend.Contact)
		r.Get(handler.RouteComingSoon, a.frontend.ComingSoon)
		r.Get(handler.RouteSection, a.frontend.Section)
		r.Get(handler.RouteSectionCategory, a.frontend.Category)
	})

	r.NotFound(a.frontend.NotFound)

	return r
}
