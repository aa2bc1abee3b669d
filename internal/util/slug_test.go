// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "simple title", input: "Hello World", expected: "hello-world"},
		{name: "with special characters", input: "Hello, World!", expected: "hello-world"},
		{name: "with numbers", input: "Page 123", expected: "page-123"},
		{name: "with accents", input: "Café résumé", expected: "cafe-resume"},
		{name: "with multiple spaces", input: "Hello   World", expected: "hello-world"},
		{name: "with hyphens", input: "Hello - World", expected: "hello-world"},
		{name: "with leading/trailing spaces", input: "  Hello World  ", expected: "hello-world"},
		{name: "all special characters", input: "!@#$%^&*()", expected: ""},
		{name: "german umlauts", input: "Über München", expected: "uber-munchen"},
		{name: "retailer name", input: "Net-a-Porter", expected: "net-a-porter"},
		{name: "empty string", input: "", expected: ""},
		{name: "mixed case", input: "HeLLo WoRLd", expected: "hello-world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Slugify(tt.input)
			if result != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSlugify_Transliterates(t *testing.T) {
	// Non-Latin input must still produce a usable slug.
	got := Slugify("Москва")
	if got == "" || !IsValidSlug(got) {
		t.Errorf("Slugify(Москва) = %q, want a non-empty valid slug", got)
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "valid simple slug", input: "hello-world", expected: true},
		{name: "valid slug with numbers", input: "page-123", expected: true},
		{name: "valid numbers only", input: "123", expected: true},
		{name: "invalid - empty", input: "", expected: false},
		{name: "invalid - uppercase", input: "Hello-World", expected: false},
		{name: "invalid - spaces", input: "hello world", expected: false},
		{name: "invalid - path traversal", input: "../etc", expected: false},
		{name: "invalid - starts with hyphen", input: "-hello", expected: false},
		{name: "invalid - ends with hyphen", input: "hello-", expected: false},
		{name: "invalid - consecutive hyphens", input: "hello--world", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidSlug(tt.input)
			if result != tt.expected {
				t.Errorf("IsValidSlug(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestCapitalize(t *testing.T) {
	tests := map[string]string{
		"":        "",
		"ssense":  "Ssense",
		"Rebag":   "Rebag",
		"écru":    "Écru",
		"x":       "X",
	}
	for in, want := range tests {
		if got := Capitalize(in); got != want {
			t.Errorf("Capitalize(%q) = %q, want %q", in, got, want)
		}
	}
}
