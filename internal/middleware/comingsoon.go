// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"strings"
)

type comingSoonKey struct{}

// comingSoonPassthrough are path prefixes served while the gate is up.
var comingSoonPassthrough = []string{"/static/", "/api/", "/health", "/robots.txt", "/coming-soon"}

// ComingSoon stores the launch gate flag in the request context and, when
// enabled, serves page for every page route. The flag is fixed at startup.
func ComingSoon(enabled bool, page http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r = r.WithContext(context.WithValue(r.Context(), comingSoonKey{}, enabled))
			if !enabled || isPassthrough(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("Cache-Control", "no-store")
			page.ServeHTTP(w, r)
		})
	}
}

// IsComingSoon reports the gate flag stored by ComingSoon.
func IsComingSoon(ctx context.Context) bool {
	v, _ := ctx.Value(comingSoonKey{}).(bool)
	return v
}

func isPassthrough(path string) bool {
	for _, p := range comingSoonPassthrough {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
