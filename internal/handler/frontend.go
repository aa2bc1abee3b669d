// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides HTTP handlers for the application.
package handler

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/luxora-go/internal/catalog"
	"github.com/olegiv/luxora-go/internal/content"
	"github.com/olegiv/luxora-go/internal/model"
	"github.com/olegiv/luxora-go/internal/render"
	"github.com/olegiv/luxora-go/internal/richtext"
	"github.com/olegiv/luxora-go/internal/sanity"
	"github.com/olegiv/luxora-go/internal/seo"
	"github.com/olegiv/luxora-go/internal/util"
)

// Listing sizes.
const (
	homeLatestCount    = 7
	homeFeaturedCount  = 8
	sectionArticles    = 24
	relatedCount       = 3
	notFoundSuggestion = 3
)

// ContentSource is the document lookup surface the pages need.
// *sanity.Repository implements it.
type ContentSource interface {
	ArticleBySlug(ctx context.Context, slug string) (*model.Article, error)
	LatestArticles(ctx context.Context, n int) ([]model.Article, error)
	ArticlesByCategory(ctx context.Context, slug string, n int) ([]model.Article, error)
	ArticlesBySection(ctx context.Context, parent string, n int) ([]model.Article, error)
	Products(ctx context.Context) ([]model.Product, error)
	ProductsByCategory(ctx context.Context, slug string) ([]model.Product, error)
	FeaturedProducts(ctx context.Context, n int) ([]model.Product, error)
	ProductBySlug(ctx context.Context, slug string) (*model.Product, error)
	CategoryBySlug(ctx context.Context, slug string) (*model.Category, error)
	Categories(ctx context.Context) ([]model.Category, error)
}

// HomeData holds data for the homepage template.
type HomeData struct {
	Lead     *content.ArticlePage
	Latest   []content.ArticlePage
	Featured []content.ProductCard
	Sections []content.Link
}

// ArticleData holds data for the article template.
type ArticleData struct {
	Article     *content.ArticlePage
	Body        template.HTML
	TOC         []richtext.TOCEntry
	Related     []content.ArticlePage
	Breadcrumbs []seo.Crumb
	PageViewID  string
}

// ProductData holds data for the product template.
type ProductData struct {
	Product     *content.ProductCard
	Breadcrumbs []seo.Crumb
	PageViewID  string
}

// ShopData holds data for the shop template. Catalog is the full collection
// for the in-browser filter engine; Products is the server-side result for
// the requested State.
type ShopData struct {
	Products []content.ProductCard
	Catalog  []CatalogItem
	Total    int
	Facets   catalog.Facets
	State    catalog.State
	Filtered bool
}

// CatalogItem is the subset of a product the browser filter engine needs.
type CatalogItem struct {
	Slug     string  `json:"slug"`
	Category string  `json:"category"`
	Brand    string  `json:"brand"`
	Price    float64 `json:"price"`
	Featured bool    `json:"featured"`
}

// CategoryData holds data for section and subcategory templates.
type CategoryData struct {
	Title         string
	Description   string
	Section       string
	Articles      []content.ArticlePage
	Products      []content.ProductCard
	Subcategories []content.Link
	Breadcrumbs   []seo.Crumb
}

// NotFoundData holds data for the 404 template.
type NotFoundData struct {
	Suggested []content.ArticlePage
}

// ErrorData holds data for the error template.
type ErrorData struct {
	Status  int
	Message string
}

// FrontendHandler handles public page routes.
type FrontendHandler struct {
	content    ContentSource
	normalizer *content.Normalizer
	richtext   *richtext.Renderer
	renderer   *render.Renderer
	site       seo.SiteConfig
	logger     *slog.Logger
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(src ContentSource, n *content.Normalizer, rt *richtext.Renderer, r *render.Renderer, site seo.SiteConfig, logger *slog.Logger) *FrontendHandler {
	return &FrontendHandler{
		content:    src,
		normalizer: n,
		richtext:   rt,
		renderer:   r,
		site:       site,
		logger:     logger,
	}
}

// Home handles the homepage. Upstream failures render empty listings.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	articles, err := h.content.LatestArticles(ctx, homeLatestCount)
	if err != nil {
		h.logger.Error("failed to load latest articles", "error", err, "category", "sanity")
	}
	products, err := h.content.FeaturedProducts(ctx, homeFeaturedCount)
	if err != nil {
		h.logger.Error("failed to load featured products", "error", err, "category", "sanity")
	}

	data := HomeData{
		Latest:   h.normalizer.NormalizeArticles(articles),
		Featured: h.normalizer.NormalizeProducts(products),
		Sections: sectionLinks(),
	}
	if len(data.Latest) > 0 {
		data.Lead = &data.Latest[0]
		data.Latest = data.Latest[1:]
	}

	h.render(w, r, http.StatusOK, "home", render.TemplateData{
		Meta:      seo.BuildMeta(nil, &h.site),
		Data:      data,
		BodyClass: "home",
	})
}

// Article handles GET /article/{slug}.
func (h *FrontendHandler) Article(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")
	if !h.checkSlug(w, r, "/article/", slug) {
		return
	}

	raw, err := h.content.ArticleBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sanity.ErrNotFound) {
			h.NotFound(w, r)
			return
		}
		h.logger.Error("failed to get article", "slug", slug, "error", err, "category", "sanity")
		h.renderError(w, r, http.StatusInternalServerError, "We could not load this article.")
		return
	}
	if !raw.IsVisible() {
		h.NotFound(w, r)
		return
	}

	article, diags := h.normalizer.NormalizeArticle(raw)
	if article == nil {
		h.logger.Warn("article failed validation", "slug", slug, "missing", diags.MissingFields(), "category", "sanity")
		h.NotFound(w, r)
		return
	}
	if len(diags) > 0 {
		h.logger.Debug("article normalized with omissions", "slug", slug, "diagnostics", diags.String())
	}

	doc := h.richtext.RenderDocument(article.Body)
	data := ArticleData{
		Article:    article,
		Body:       doc.HTML(),
		TOC:        doc.TOC.Entries,
		Related:    h.related(ctx, article),
		PageViewID: newPageViewID(),
	}
	if c := article.PrimaryCategory(); c != nil {
		data.Breadcrumbs = append(data.Breadcrumbs, seo.Crumb{Name: c.Name, Path: c.URL})
	}
	data.Breadcrumbs = append(data.Breadcrumbs, seo.Crumb{Name: article.Title})

	h.render(w, r, http.StatusOK, "article", render.TemplateData{
		Meta: seo.BuildMeta(seo.ArticleMeta(article), &h.site),
		JSONLD: []template.JS{
			seo.BuildArticleSchema(article, &h.site),
			seo.BuildBreadcrumbSchema(data.Breadcrumbs, &h.site),
		},
		Data:      data,
		BodyClass: "single-article",
	})
}

// related returns up to relatedCount other articles from the primary category.
func (h *FrontendHandler) related(ctx context.Context, article *content.ArticlePage) []content.ArticlePage {
	c := article.PrimaryCategory()
	if c == nil || c.Slug == "" {
		return nil
	}
	raw, err := h.content.ArticlesByCategory(ctx, c.Slug, relatedCount+1)
	if err != nil {
		h.logger.Warn("failed to load related articles", "category_slug", c.Slug, "error", err)
		return nil
	}
	var out []content.ArticlePage
	for _, a := range h.normalizer.NormalizeArticles(raw) {
		if a.ID == article.ID {
			continue
		}
		out = append(out, a)
		if len(out) == relatedCount {
			break
		}
	}
	return out
}

// Product handles GET /product/{slug}. A product without eligible offers
// renders its coming-soon state.
func (h *FrontendHandler) Product(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if !h.checkSlug(w, r, "/product/", slug) {
		return
	}

	raw, err := h.content.ProductBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, sanity.ErrNotFound) {
			h.NotFound(w, r)
			return
		}
		h.logger.Error("failed to get product", "slug", slug, "error", err, "category", "sanity")
		h.renderError(w, r, http.StatusInternalServerError, "We could not load this product.")
		return
	}

	product, diags := h.normalizer.NormalizeProduct(raw)
	if product == nil {
		h.logger.Warn("product failed validation", "slug", slug, "missing", diags.MissingFields(), "category", "sanity")
		h.NotFound(w, r)
		return
	}

	data := ProductData{Product: product, PageViewID: newPageViewID()}
	data.Breadcrumbs = append(data.Breadcrumbs, seo.Crumb{Name: "Shop", Path: "/shop"})
	if product.Category != nil {
		data.Breadcrumbs = append(data.Breadcrumbs, seo.Crumb{Name: product.Category.Name, Path: product.Category.URL})
	}
	data.Breadcrumbs = append(data.Breadcrumbs, seo.Crumb{Name: product.Name})

	h.render(w, r, http.StatusOK, "product", render.TemplateData{
		Meta: seo.BuildMeta(seo.ProductMeta(product), &h.site),
		JSONLD: []template.JS{
			seo.BuildProductSchema(product, &h.site),
			seo.BuildBreadcrumbSchema(data.Breadcrumbs, &h.site),
		},
		Data:      data,
		BodyClass: "single-product",
	})
}

// Shop handles GET /shop. The query string selects the filter State so the
// page works without JavaScript; the browser engine takes over from there.
func (h *FrontendHandler) Shop(w http.ResponseWriter, r *http.Request) {
	raw, err := h.content.Products(r.Context())
	if err != nil {
		h.logger.Error("failed to load products", "error", err, "category", "sanity")
	}

	engine := catalog.NewEngine(h.normalizer.NormalizeProducts(raw))
	state := catalog.StateFromQuery(r.URL.Query())
	results := engine.Set(state)

	data := ShopData{
		Products: results,
		Catalog:  catalogItems(engine.All()),
		Total:    len(engine.All()),
		Facets:   catalog.BuildFacets(engine),
		State:    state,
		Filtered: state.IsFiltered(),
	}

	page := &seo.PageData{
		Title:       "Shop",
		Description: "Curated luxury pieces from trusted retailers.",
		Path:        "/shop",
		NoIndex:     state.IsFiltered(),
	}
	h.render(w, r, http.StatusOK, "shop", render.TemplateData{
		Meta:      seo.BuildMeta(page, &h.site),
		Data:      data,
		BodyClass: "shop",
	})
}

func catalogItems(cards []content.ProductCard) []CatalogItem {
	out := make([]CatalogItem, len(cards))
	for i := range cards {
		out[i] = CatalogItem{
			Slug:     cards[i].Slug,
			Category: cards[i].CategoryName(),
			Brand:    cards[i].BrandName(),
			Price:    cards[i].Price,
			Featured: cards[i].Featured,
		}
	}
	return out
}

// Section handles GET /{section} for the top-level sections.
func (h *FrontendHandler) Section(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	section := chi.URLParam(r, "section")
	if !model.IsParent(section) {
		h.NotFound(w, r)
		return
	}

	articles, err := h.content.ArticlesBySection(ctx, section, sectionArticles)
	if err != nil {
		h.logger.Error("failed to load section articles", "section", section, "error", err, "category", "sanity")
	}

	var subcategories []content.Link
	categories, err := h.content.Categories(ctx)
	if err != nil {
		h.logger.Error("failed to load categories", "error", err, "category", "sanity")
	}
	for i := range categories {
		if categories[i].Parent == section {
			subcategories = append(subcategories, content.Link{
				Name: categories[i].Name,
				Slug: categories[i].Slug.Current,
				URL:  categories[i].URL(),
			})
		}
	}

	title := util.Capitalize(section)
	data := CategoryData{
		Title:         title,
		Section:       section,
		Articles:      h.normalizer.NormalizeArticles(articles),
		Subcategories: subcategories,
		Breadcrumbs:   []seo.Crumb{{Name: title}},
	}

	h.render(w, r, http.StatusOK, "category", render.TemplateData{
		Meta:      seo.BuildMeta(&seo.PageData{Title: title, Path: "/" + section}, &h.site),
		JSONLD:    []template.JS{seo.BuildBreadcrumbSchema(data.Breadcrumbs, &h.site)},
		Data:      data,
		BodyClass: "archive section-" + section,
	})
}

// Category handles GET /{section}/{slug}. A category filed under another
// section is not found at this path.
func (h *FrontendHandler) Category(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	section := chi.URLParam(r, "section")
	slug := chi.URLParam(r, "slug")
	if !model.IsParent(section) {
		h.NotFound(w, r)
		return
	}
	if !h.checkSlug(w, r, "/"+section+"/", slug) {
		return
	}

	category, err := h.content.CategoryBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sanity.ErrNotFound) {
			h.NotFound(w, r)
			return
		}
		h.logger.Error("failed to get category", "slug", slug, "error", err, "category", "sanity")
		h.renderError(w, r, http.StatusInternalServerError, "We could not load this category.")
		return
	}
	if category.Parent != section {
		h.NotFound(w, r)
		return
	}

	articles, err := h.content.ArticlesByCategory(ctx, slug, sectionArticles)
	if err != nil {
		h.logger.Error("failed to load category articles", "slug", slug, "error", err, "category", "sanity")
	}
	products, err := h.content.ProductsByCategory(ctx, slug)
	if err != nil {
		h.logger.Error("failed to load category products", "slug", slug, "error", err, "category", "sanity")
	}

	sectionTitle := util.Capitalize(section)
	data := CategoryData{
		Title:       category.Name,
		Description: category.Description,
		Section:     section,
		Articles:    h.normalizer.NormalizeArticles(articles),
		Products:    h.normalizer.NormalizeProducts(products),
		Breadcrumbs: []seo.Crumb{
			{Name: sectionTitle, Path: "/" + section},
			{Name: category.Name},
		},
	}

	page := &seo.PageData{Title: category.Name, Description: category.Description, Path: category.URL()}
	h.render(w, r, http.StatusOK, "category", render.TemplateData{
		Meta:      seo.BuildMeta(page, &h.site),
		JSONLD:    []template.JS{seo.BuildBreadcrumbSchema(data.Breadcrumbs, &h.site)},
		Data:      data,
		BodyClass: "archive category",
	})
}

// Contact handles GET /contact.
func (h *FrontendHandler) Contact(w http.ResponseWriter, r *http.Request) {
	page := &seo.PageData{Title: "Contact", Description: "Get in touch with the editors.", Path: "/contact"}
	h.render(w, r, http.StatusOK, "contact", render.TemplateData{
		Meta:      seo.BuildMeta(page, &h.site),
		BodyClass: "contact",
	})
}

// ComingSoon renders the launch gate page.
func (h *FrontendHandler) ComingSoon(w http.ResponseWriter, r *http.Request) {
	page := &seo.PageData{Title: "Coming soon", Path: "/coming-soon", NoIndex: true}
	h.render(w, r, http.StatusOK, "coming_soon", render.TemplateData{
		Meta:      seo.BuildMeta(page, &h.site),
		BodyClass: "coming-soon",
	})
}

// NotFound renders the 404 page with a few recent articles.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	articles, err := h.content.LatestArticles(r.Context(), notFoundSuggestion)
	if err != nil {
		h.logger.Warn("failed to load 404 suggestions", "error", err)
	}

	page := &seo.PageData{Title: "Page not found", NoIndex: true}
	h.render(w, r, http.StatusNotFound, "404", render.TemplateData{
		Meta:      seo.BuildMeta(page, &h.site),
		Data:      NotFoundData{Suggested: h.normalizer.NormalizeArticles(articles)},
		BodyClass: "error-404",
	})
}

// checkSlug reports whether slug is canonical. A slug that normalizes to a
// canonical one is redirected there; anything else is not found.
func (h *FrontendHandler) checkSlug(w http.ResponseWriter, r *http.Request, prefix, slug string) bool {
	if util.IsValidSlug(slug) {
		return true
	}
	if canonical := util.Slugify(slug); util.IsValidSlug(canonical) {
		target := prefix + canonical
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusMovedPermanently)
		return false
	}
	h.NotFound(w, r)
	return false
}

// renderError renders the error page.
func (h *FrontendHandler) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	page := &seo.PageData{Title: http.StatusText(status), NoIndex: true}
	h.render(w, r, status, "error", render.TemplateData{
		Meta:      seo.BuildMeta(page, &h.site),
		Data:      ErrorData{Status: status, Message: message},
		BodyClass: "error",
	})
}

// render renders a page and falls back to plain text when templates fail.
func (h *FrontendHandler) render(w http.ResponseWriter, r *http.Request, status int, name string, data render.TemplateData) {
	if err := h.renderer.Render(w, r, status, name, data); err != nil {
		h.logger.Error("failed to render template", "template", name, "error", err)
		http.Error(w, "Template rendering error", http.StatusInternalServerError)
	}
}

// sectionLinks returns the top-level section navigation.
func sectionLinks() []content.Link {
	out := make([]content.Link, len(model.Parents))
	for i, p := range model.Parents {
		out[i] = content.Link{Name: util.Capitalize(p), Slug: p, URL: "/" + p}
	}
	return out
}
