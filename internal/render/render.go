// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render parses the page templates and renders them inside the
// site layout.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/olegiv/luxora-go/internal/model"
	"github.com/olegiv/luxora-go/internal/offers"
	"github.com/olegiv/luxora-go/internal/richtext"
	"github.com/olegiv/luxora-go/internal/seo"
	"github.com/olegiv/luxora-go/internal/util"
)

const (
	baseLayout  = "layouts/base.html"
	partialsDir = "partials"
	pagesDir    = "pages"
)

// Renderer handles template rendering with caching.
type Renderer struct {
	mu        sync.RWMutex
	templates map[string]*template.Template
	fsys      fs.FS
	isDev     bool
	site      Site
}

// Site is the layout data shared by every page.
type Site struct {
	Name           string
	ComingSoon     bool
	CaptchaSiteKey string
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS fs.FS
	IsDev       bool // re-parse templates on every render
	Site        Site
}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		fsys:  cfg.TemplatesFS,
		isDev: cfg.IsDev,
		site:  cfg.Site,
	}

	templates, err := r.parseTemplates()
	if err != nil {
		return nil, err
	}
	r.templates = templates
	return r, nil
}

// parseTemplates parses every page template together with the base layout
// and all partials.
func (r *Renderer) parseTemplates() (map[string]*template.Template, error) {
	partials, err := templateFiles(r.fsys, partialsDir)
	if err != nil {
		return nil, fmt.Errorf("getting partials: %w", err)
	}
	pages, err := templateFiles(r.fsys, pagesDir)
	if err != nil {
		return nil, fmt.Errorf("getting pages: %w", err)
	}

	out := make(map[string]*template.Template, len(pages))
	for _, tmplPath := range pages {
		name := strings.TrimSuffix(path.Base(tmplPath), ".html")

		files := []string{baseLayout}
		files = append(files, partials...)
		files = append(files, tmplPath)

		tmpl, err := template.New("").Funcs(TemplateFuncs()).ParseFS(r.fsys, files...)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		out[name] = tmpl
	}
	return out, nil
}

// templateFiles returns all .html files in a directory.
func templateFiles(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// Has reports whether a page template exists.
func (r *Renderer) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.templates[name]
	return ok
}

// TemplateFuncs returns the custom template functions.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("January 2, 2006")
		},
		"isoDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.UTC().Format(time.RFC3339)
		},
		"truncate": func(s string, length int) string {
			if len(s) <= length {
				return s
			}
			return strings.TrimSpace(s[:length]) + "..."
		},
		"add": func(a, b int) int {
			return a + b
		},
		"capitalize":    util.Capitalize,
		"affiliateLink": richtext.AffiliateLink,
		"price":         offers.FormatPrice,
		"sections": func() []string {
			return model.Parents
		},
		"toJSON": func(v any) (template.JS, error) {
			data, err := json.Marshal(v)
			if err != nil {
				return "", err
			}
			return template.JS(data), nil //nolint:gosec // json.Marshal escapes <, > and &
		},
	}
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Meta        *seo.Meta
	JSONLD      []template.JS
	Data        any
	Site        Site
	CurrentPath string
	CurrentYear int
	BodyClass   string
}

// Render renders a page template with the given status code.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	if r.isDev {
		templates, err := r.parseTemplates()
		if err != nil {
			return err
		}
		r.mu.Lock()
		r.templates = templates
		r.mu.Unlock()
	}

	r.mu.RLock()
	tmpl, ok := r.templates[name]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.Site = r.site
	data.CurrentYear = time.Now().Year()
	if req != nil {
		data.CurrentPath = req.URL.Path
	}

	// Render to buffer first to catch errors
	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
