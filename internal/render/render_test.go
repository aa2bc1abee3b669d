// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/luxora-go/internal/seo"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html": {Data: []byte(
			`{{define "base"}}<title>{{.Meta.Title}}</title>` +
				`{{if .Site.ComingSoon}}[gate]{{end}}` +
				`{{template "content" .}}{{template "footer" .}}{{end}}`)},
		"partials/footer.html": {Data: []byte(`{{define "footer"}}<footer>{{.Site.Name}} {{.CurrentYear}}</footer>{{end}}`)},
		"pages/home.html":      {Data: []byte(`{{define "content"}}<main>{{.Data}} at {{.CurrentPath}}</main>{{end}}`)},
		"pages/product.html":   {Data: []byte(`{{define "content"}}<script>var p = {{toJSON .Data}};</script>{{end}}`)},
	}
}

func TestNew(t *testing.T) {
	r, err := New(Config{TemplatesFS: testFS(), Site: Site{Name: "Luxora"}})
	require.NoError(t, err)

	assert.True(t, r.Has("home"))
	assert.True(t, r.Has("product"))
	assert.False(t, r.Has("footer"))
}

func TestNew_MissingPages(t *testing.T) {
	_, err := New(Config{TemplatesFS: fstest.MapFS{
		"layouts/base.html":    {Data: []byte(`{{define "base"}}{{end}}`)},
		"partials/footer.html": {Data: []byte(`{{define "footer"}}{{end}}`)},
	}})
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	r, err := New(Config{TemplatesFS: testFS(), Site: Site{Name: "Luxora", ComingSoon: true}})
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/fashion", nil)
	err = r.Render(rr, req, http.StatusNotFound, "home", TemplateData{
		Meta: &seo.Meta{Title: "Fashion | Luxora"},
		Data: "hello",
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	body := rr.Body.String()
	assert.Contains(t, body, "<title>Fashion | Luxora</title>")
	assert.Contains(t, body, "[gate]")
	assert.Contains(t, body, "<main>hello at /fashion</main>")
	assert.Contains(t, body, "Luxora 2")
}

func TestRender_UnknownTemplate(t *testing.T) {
	r, err := New(Config{TemplatesFS: testFS()})
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	err = r.Render(rr, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, "missing", TemplateData{Meta: &seo.Meta{}})
	assert.Error(t, err)
	assert.Empty(t, rr.Body.String())
}

func TestRender_DevReparse(t *testing.T) {
	fsys := testFS()
	r, err := New(Config{TemplatesFS: fsys, IsDev: true})
	require.NoError(t, err)

	fsys["pages/home.html"] = &fstest.MapFile{Data: []byte(`{{define "content"}}edited{{end}}`)}

	rr := httptest.NewRecorder()
	require.NoError(t, r.Render(rr, nil, http.StatusOK, "home", TemplateData{Meta: &seo.Meta{}}))
	assert.Contains(t, rr.Body.String(), "edited")
}

func TestTemplateFuncs(t *testing.T) {
	funcs := TemplateFuncs()

	formatDate := funcs["formatDate"].(func(time.Time) string)
	assert.Equal(t, "March 1, 2026", formatDate(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", formatDate(time.Time{}))

	truncate := funcs["truncate"].(func(string, int) string)
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abc...", truncate("abc def", 4))

	price := funcs["price"].(func(float64, string) string)
	assert.Equal(t, "$1,234", price(1234, "USD"))
}
