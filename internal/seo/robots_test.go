// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
	"testing"
)

func TestBuildRobotsDefault(t *testing.T) {
	content := BuildRobots(RobotsConfig{SiteURL: "https://luxora.example/"})

	for _, want := range []string{
		"User-agent: *",
		"Disallow: /api/",
		"Allow: /",
		"Sitemap: https://luxora.example/sitemap.xml",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("BuildRobots() missing %q:\n%s", want, content)
		}
	}
}

func TestBuildRobotsExtraPaths(t *testing.T) {
	content := BuildRobots(RobotsConfig{DisallowPaths: []string{"/preview"}})

	if !strings.Contains(content, "Disallow: /preview") {
		t.Error("BuildRobots() should include extra disallow paths")
	}
	if strings.Contains(content, "Sitemap:") {
		t.Error("BuildRobots() without site URL should not reference a sitemap")
	}
}

func TestBuildRobotsDisallowAll(t *testing.T) {
	content := BuildRobots(RobotsConfig{SiteURL: "https://luxora.example", DisallowAll: true})

	if !strings.Contains(content, "Disallow: /\n") {
		t.Error("DisallowAll should block everything")
	}
	if strings.Contains(content, "Allow: /") || strings.Contains(content, "Sitemap:") {
		t.Error("DisallowAll should not allow paths or reference the sitemap")
	}
}
