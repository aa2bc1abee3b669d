// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/luxora-go/internal/content"
	"github.com/olegiv/luxora-go/internal/model"
	"github.com/olegiv/luxora-go/internal/render"
	"github.com/olegiv/luxora-go/internal/richtext"
	"github.com/olegiv/luxora-go/internal/sanity"
	"github.com/olegiv/luxora-go/internal/seo"
)

type fakeContent struct {
	articles   []model.Article
	products   []model.Product
	categories []model.Category
	err        error
}

func (f *fakeContent) ArticleBySlug(_ context.Context, slug string) (*model.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.articles {
		if f.articles[i].Slug.Current == slug {
			return &f.articles[i], nil
		}
	}
	return nil, sanity.ErrNotFound
}

func (f *fakeContent) LatestArticles(_ context.Context, n int) ([]model.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	return limit(f.articles, n), nil
}

func (f *fakeContent) ArticlesByCategory(_ context.Context, slug string, n int) ([]model.Article, error) {
	var out []model.Article
	for _, a := range f.articles {
		for _, c := range a.Categories {
			if c != nil && c.Slug.Current == slug {
				out = append(out, a)
				break
			}
		}
	}
	return limit(out, n), f.err
}

func (f *fakeContent) ArticlesBySection(_ context.Context, parent string, n int) ([]model.Article, error) {
	var out []model.Article
	for _, a := range f.articles {
		for _, c := range a.Categories {
			if c != nil && c.Parent == parent {
				out = append(out, a)
				break
			}
		}
	}
	return limit(out, n), f.err
}

func (f *fakeContent) Products(context.Context) ([]model.Product, error) {
	return f.products, f.err
}

func (f *fakeContent) ProductsByCategory(_ context.Context, slug string) ([]model.Product, error) {
	var out []model.Product
	for _, p := range f.products {
		if p.Category != nil && p.Category.Slug.Current == slug {
			out = append(out, p)
		}
	}
	return out, f.err
}

func (f *fakeContent) FeaturedProducts(_ context.Context, n int) ([]model.Product, error) {
	var out []model.Product
	for _, p := range f.products {
		if p.Featured {
			out = append(out, p)
		}
	}
	return limit(out, n), f.err
}

func (f *fakeContent) ProductBySlug(_ context.Context, slug string) (*model.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.products {
		if f.products[i].Slug.Current == slug {
			return &f.products[i], nil
		}
	}
	return nil, sanity.ErrNotFound
}

func (f *fakeContent) CategoryBySlug(_ context.Context, slug string) (*model.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.categories {
		if f.categories[i].Slug.Current == slug {
			return &f.categories[i], nil
		}
	}
	return nil, sanity.ErrNotFound
}

func (f *fakeContent) Categories(context.Context) ([]model.Category, error) {
	return f.categories, f.err
}

func limit[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}

var (
	bags    = model.Category{Name: "Bags", Slug: model.Slug{Current: "bags"}, Parent: model.ParentFashion}
	rituals = model.Category{Name: "Rituals", Slug: model.Slug{Current: "rituals"}, Parent: model.ParentWellness}
)

func price(v float64) *float64 { return &v }

func testContent() *fakeContent {
	published := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return &fakeContent{
		categories: []model.Category{bags, rituals},
		articles: []model.Article{
			{
				ID:          "art-1",
				Title:       "The Quiet Luxury Edit",
				Slug:        model.Slug{Current: "quiet-luxury-edit"},
				Status:      model.StatusPublished,
				PublishedAt: &published,
				Categories:  []*model.Category{&bags},
				Body: []model.Block{
					{Type: model.TypeBlock, Style: "h2", Children: []model.Span{{Type: "span", Text: "Why it matters"}}},
					{Type: model.TypeBlock, Style: "normal", Children: []model.Span{{Type: "span", Text: "Understated pieces last."}}},
					{Type: model.TypeBlock, Style: "h2", Children: []model.Span{{Type: "span", Text: "Where to buy"}}},
				},
			},
			{
				ID:         "art-2",
				Title:      "Bags Worth the Wait",
				Slug:       model.Slug{Current: "bags-worth-the-wait"},
				Status:     model.StatusPublished,
				Categories: []*model.Category{&bags},
			},
			{
				ID:     "art-3",
				Title:  "Unfinished Draft",
				Slug:   model.Slug{Current: "unfinished-draft"},
				Status: model.StatusDraft,
			},
			{
				ID:     "art-4",
				Slug:   model.Slug{Current: "untitled"},
				Status: model.StatusPublished,
			},
		},
		products: []model.Product{
			{
				ID:       "prod-1",
				Name:     "Le 5 à 7 Bag",
				Slug:     model.Slug{Current: "le-5-a-7"},
				Brand:    &model.Brand{Name: "Saint Laurent", Slug: model.Slug{Current: "saint-laurent"}},
				Category: &bags,
				Price:    price(2450),
				Currency: model.CurrencyUSD,
				Featured: true,
				Offers:   []model.Offer{{Retailer: "mytheresa", URL: "https://mytheresa.example/p", IsPrimary: true}},
			},
			{
				ID:       "prod-2",
				Name:     "Silk Scarf",
				Slug:     model.Slug{Current: "silk-scarf"},
				Brand:    &model.Brand{Name: "Hermès", Slug: model.Slug{Current: "hermes"}},
				Category: &bags,
				Price:    price(450),
				Currency: model.CurrencyUSD,
			},
		},
	}
}

func testTemplates() fstest.MapFS {
	page := func(body string) *fstest.MapFile {
		return &fstest.MapFile{Data: []byte(`{{define "content"}}` + body + `{{end}}`)}
	}
	return fstest.MapFS{
		"layouts/base.html": {Data: []byte(
			`{{define "base"}}<title>{{.Meta.Title}}</title><meta name="robots" content="{{.Meta.Robots}}">` +
				`{{range .JSONLD}}<script type="application/ld+json">{{.}}</script>{{end}}` +
				`{{template "content" .}}{{end}}`)},
		"partials/card.html":     {Data: []byte(`{{define "card"}}[{{.Title}}]{{end}}`)},
		"pages/home.html":        page(`{{with .Data.Lead}}lead={{.Title}}{{end}}{{range .Data.Latest}}{{template "card" .}}{{end}}{{range .Data.Featured}}featured={{.Name}}{{end}}`),
		"pages/article.html":     page(`<h1>{{.Data.Article.Title}}</h1>{{range .Data.TOC}}toc={{.ID}};{{end}}{{.Data.Body}}{{range .Data.Related}}related={{.Title}}{{end}} pv={{.Data.PageViewID}}`),
		"pages/product.html":     page(`<h1>{{.Data.Product.Name}}</h1>{{if .Data.Product.ComingSoon}}coming-soon{{end}}`),
		"pages/shop.html":        page(`total={{.Data.Total}}{{range .Data.Products}} item={{.Slug}}{{end}}`),
		"pages/category.html":    page(`<h1>{{.Data.Title}}</h1>{{range .Data.Subcategories}}sub={{.Slug}};{{end}}{{range .Data.Articles}}{{template "card" .}}{{end}}{{range .Data.Products}}product={{.Slug}};{{end}}`),
		"pages/contact.html":     page(`contact form`),
		"pages/coming_soon.html": page(`launching soon`),
		"pages/404.html":         page(`not found{{range .Data.Suggested}}{{template "card" .}}{{end}}`),
		"pages/error.html":       page(`error {{.Data.Status}}: {{.Data.Message}}`),
	}
}

func newTestFrontend(t *testing.T, src ContentSource) *FrontendHandler {
	t.Helper()
	r, err := render.New(render.Config{TemplatesFS: testTemplates(), Site: render.Site{Name: "Luxora"}})
	require.NoError(t, err)
	n := content.NewNormalizer(sanity.Images{ProjectID: "proj", Dataset: "production"})
	site := seo.SiteConfig{SiteName: "Luxora", SiteURL: "https://luxora.example"}
	return NewFrontendHandler(src, n, richtext.New(n), r, site, testLogger())
}

// serve routes a request through the same patterns the server registers.
func serve(h *FrontendHandler, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Get(RouteRoot, h.Home)
	r.Get(RouteArticle, h.Article)
	r.Get(RouteProduct, h.Product)
	r.Get(RouteShop, h.Shop)
	r.Get(RouteContact, h.Contact)
	r.Get(RouteSection, h.Section)
	r.Get(RouteSectionCategory, h.Category)
	r.NotFound(h.NotFound)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHome(t *testing.T) {
	w := serve(newTestFrontend(t, testContent()), "/")

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "lead=The Quiet Luxury Edit")
	assert.Contains(t, body, "[Bags Worth the Wait]")
	assert.Contains(t, body, "featured=Le 5 à 7 Bag")
	assert.NotContains(t, body, "featured=Silk Scarf")
}

func TestHome_UpstreamFailureRendersEmpty(t *testing.T) {
	w := serve(newTestFrontend(t, &fakeContent{err: errors.New("cms down")}), "/")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "lead=")
}

func TestArticle(t *testing.T) {
	w := serve(newTestFrontend(t, testContent()), "/article/quiet-luxury-edit")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<title>The Quiet Luxury Edit | Luxora</title>")
	assert.Contains(t, body, "toc=heading-0;toc=heading-1;")
	assert.Contains(t, body, `data-buy-section="true"`)
	assert.Contains(t, body, "related=Bags Worth the Wait")
	assert.NotContains(t, body, "related=The Quiet Luxury Edit")
	assert.Contains(t, body, `"@type": "BreadcrumbList"`)
	assert.Regexp(t, `pv=[0-9a-f-]{36}`, body)
}

func TestArticle_NotFound(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"unknown slug", "/article/missing"},
		{"draft", "/article/unfinished-draft"},
		{"fails validation", "/article/untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(newTestFrontend(t, testContent()), tt.path)

			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Contains(t, w.Body.String(), "not found")
			assert.Contains(t, w.Body.String(), "noindex")
		})
	}
}

func TestSlugCanonicalization(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		location string
	}{
		{"article case", "/article/Quiet-Luxury-Edit?utm_source=x", "/article/quiet-luxury-edit?utm_source=x"},
		{"product accents", "/product/Le-5-%C3%A0-7", "/product/le-5-a-7"},
		{"category", "/fashion/Bags", "/fashion/bags"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(newTestFrontend(t, testContent()), tt.path)

			assert.Equal(t, http.StatusMovedPermanently, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))
		})
	}

	// Nothing to salvage: not found without asking the document store.
	w := serve(newTestFrontend(t, &fakeContent{err: errors.New("timeout")}), "/article/!!")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestArticle_UpstreamError(t *testing.T) {
	w := serve(newTestFrontend(t, &fakeContent{err: errors.New("timeout")}), "/article/anything")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "error 500")
}

func TestProduct(t *testing.T) {
	h := newTestFrontend(t, testContent())

	w := serve(h, "/product/le-5-a-7")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<h1>Le 5 à 7 Bag</h1>")
	assert.Contains(t, w.Body.String(), `"@type": "Product"`)
	assert.NotContains(t, w.Body.String(), "coming-soon")

	w = serve(h, "/product/silk-scarf")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "coming-soon")

	w = serve(h, "/product/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestShop(t *testing.T) {
	h := newTestFrontend(t, testContent())

	w := serve(h, "/shop")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "total=2")
	assert.Contains(t, body, "item=le-5-a-7")
	assert.Contains(t, body, "item=silk-scarf")
	assert.NotContains(t, body, "noindex")

	w = serve(h, "/shop?brand=Herm%C3%A8s")
	require.Equal(t, http.StatusOK, w.Code)
	body = w.Body.String()
	assert.Contains(t, body, "total=2")
	assert.Contains(t, body, "item=silk-scarf")
	assert.NotContains(t, body, "item=le-5-a-7")
	assert.Contains(t, body, "noindex")
}

func TestShop_PriceSort(t *testing.T) {
	w := serve(newTestFrontend(t, testContent()), "/shop?sort=price-asc")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "total=2 item=silk-scarf item=le-5-a-7", extractContent(w.Body.String(), "total="))
}

func extractContent(body, from string) string {
	if i := strings.Index(body, from); i >= 0 {
		return body[i:]
	}
	return ""
}

func TestSection(t *testing.T) {
	h := newTestFrontend(t, testContent())

	w := serve(h, "/fashion")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<h1>Fashion</h1>")
	assert.Contains(t, body, "sub=bags;")
	assert.NotContains(t, body, "sub=rituals;")
	assert.Contains(t, body, "[The Quiet Luxury Edit]")

	w = serve(h, "/handbags")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCategory(t *testing.T) {
	h := newTestFrontend(t, testContent())

	w := serve(h, "/fashion/bags")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<h1>Bags</h1>")
	assert.Contains(t, body, "product=le-5-a-7;")
	assert.Contains(t, body, "[Bags Worth the Wait]")

	tests := []struct {
		name string
		path string
	}{
		{"wrong section", "/wellness/bags"},
		{"unknown section", "/outlet/bags"},
		{"unknown category", "/fashion/shoes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, http.StatusNotFound, serve(h, tt.path).Code)
		})
	}
}

func TestContactPage(t *testing.T) {
	w := serve(newTestFrontend(t, testContent()), "/contact")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "contact form")
	assert.Contains(t, w.Body.String(), "<title>Contact | Luxora</title>")
}

func TestComingSoonPage(t *testing.T) {
	h := newTestFrontend(t, testContent())
	w := httptest.NewRecorder()
	h.ComingSoon(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "launching soon")
	assert.Contains(t, w.Body.String(), "noindex")
}

func TestNotFound_Suggestions(t *testing.T) {
	w := serve(newTestFrontend(t, testContent()), "/no/such/page")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "[The Quiet Luxury Edit]")
}
