// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package redirect holds the legacy URL table evaluated before routing.
package redirect

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/olegiv/luxora-go/internal/util"
)

// Validation errors.
var (
	ErrDuplicateSource = errors.New("duplicate redirect source")
	ErrInvalidSource   = errors.New("invalid redirect source")
	ErrInvalidTarget   = errors.New("invalid redirect destination")
	ErrSelfRedirect    = errors.New("redirect points at itself")
)

// Rule maps a source path to a destination. Source segments "*" and "**"
// capture one or any number of segments; each "*" or "**" in Destination
// is replaced by the next capture.
type Rule struct {
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`
	Permanent   bool   `yaml:"permanent"`
}

// IsWildcard reports whether the source contains wildcard segments.
func (r Rule) IsWildcard() bool {
	return strings.Contains(r.Source, "*")
}

// Status returns the HTTP status for a request method. GET and HEAD get
// the classic 301/302 codes; other methods get 308/307 so the method and
// body are kept.
func (r Rule) Status(method string) int {
	safe := method == http.MethodGet || method == http.MethodHead
	switch {
	case r.Permanent && safe:
		return http.StatusMovedPermanently
	case r.Permanent:
		return http.StatusPermanentRedirect
	case safe:
		return http.StatusFound
	default:
		return http.StatusTemporaryRedirect
	}
}

// Table is an immutable, validated set of rules.
type Table struct {
	rules    []Rule
	exact    map[string]int
	wildcard []int
}

// New validates rules and builds a Table.
func New(rules []Rule) (*Table, error) {
	if err := Validate(rules); err != nil {
		return nil, err
	}
	t := &Table{rules: rules, exact: make(map[string]int, len(rules))}
	for i, r := range rules {
		if r.IsWildcard() {
			t.wildcard = append(t.wildcard, i)
			continue
		}
		t.exact[normalize(r.Source)] = i
	}
	return t, nil
}

// file is the YAML document layout.
type file struct {
	Redirects []Rule `yaml:"redirects"`
}

// Parse reads a YAML redirect document.
func Parse(data []byte) (*Table, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing redirects: %w", err)
	}
	return New(f.Redirects)
}

// Load reads the table from path, or returns Default when path is empty.
func Load(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied config path
	if err != nil {
		return nil, fmt.Errorf("reading redirects: %w", err)
	}
	return Parse(data)
}

// Validate reports every problem in rules, joined.
func Validate(rules []Rule) error {
	var errs []error
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		src := normalize(r.Source)
		switch {
		case !util.IsLocalPath(r.Source):
			errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidSource, r.Source))
			continue
		case seen[src]:
			errs = append(errs, fmt.Errorf("%w: %q", ErrDuplicateSource, r.Source))
			continue
		}
		seen[src] = true

		if !validDestination(r.Destination) {
			errs = append(errs, fmt.Errorf("%w: %q -> %q", ErrInvalidTarget, r.Source, r.Destination))
			continue
		}
		if !r.IsWildcard() && normalize(r.Destination) == src {
			errs = append(errs, fmt.Errorf("%w: %q", ErrSelfRedirect, r.Source))
		}
	}
	return errors.Join(errs...)
}

func validDestination(d string) bool {
	if util.IsLocalPath(d) {
		return true
	}
	u, err := url.Parse(d)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// normalize drops a trailing slash except on the root path.
func normalize(p string) string {
	if len(p) > 1 {
		return strings.TrimRight(p, "/")
	}
	return p
}

// Rules returns a copy of the rules in table order.
func (t *Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Len returns the number of rules.
func (t *Table) Len() int {
	return len(t.rules)
}

// Match finds the rule for path and returns it with the resolved
// destination. Exact sources win over wildcard ones; wildcard rules are
// tried in table order.
func (t *Table) Match(path string) (Rule, string, bool) {
	if t == nil {
		return Rule{}, "", false
	}
	if i, ok := t.exact[normalize(path)]; ok {
		return t.rules[i], t.rules[i].Destination, true
	}
	for _, i := range t.wildcard {
		r := t.rules[i]
		if captures, ok := matchWildcard(path, r.Source); ok {
			return r, substitute(r.Destination, captures), true
		}
	}
	return Rule{}, "", false
}
