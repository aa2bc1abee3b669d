// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/olegiv/luxora-go/internal/redirect"
)

// Redirects evaluates the redirect table before routing. The table can be
// swapped at runtime, e.g. after the redirects file is edited.
type Redirects struct {
	table atomic.Pointer[redirect.Table]
}

// NewRedirects creates the middleware over t.
func NewRedirects(t *redirect.Table) *Redirects {
	rm := &Redirects{}
	rm.table.Store(t)
	return rm
}

// Replace swaps in a new table.
func (rm *Redirects) Replace(t *redirect.Table) {
	rm.table.Store(t)
	slog.Info("redirect table replaced", "rules", t.Len())
}

// Handler returns the middleware handler function.
func (rm *Redirects) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/static/") {
			next.ServeHTTP(w, r)
			return
		}

		rule, target, ok := rm.table.Load().Match(path)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		if r.URL.RawQuery != "" {
			if strings.Contains(target, "?") {
				target += "&" + r.URL.RawQuery
			} else {
				target += "?" + r.URL.RawQuery
			}
		}

		status := rule.Status(r.Method)
		slog.Debug("redirect matched", "source", path, "target", target, "status", status)
		http.Redirect(w, r, target, status)
	})
}
