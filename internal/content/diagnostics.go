// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"fmt"
	"strings"
)

// Severity classifies a diagnostic.
type Severity int

const (
	// SeverityInfo marks data that was omitted or defaulted; the page still renders.
	SeverityInfo Severity = iota
	// SeverityError marks a missing required field; no page model is produced.
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "info"
}

// Diagnostic describes one problem found while normalizing a document.
type Diagnostic struct {
	Field    string
	Severity Severity
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s (%s)", d.Field, d.Message, d.Severity)
}

// Diagnostics is the list of problems for one document.
type Diagnostics []Diagnostic

// HasErrors reports whether any diagnostic is an error.
func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns only the error diagnostics.
func (ds Diagnostics) Errors() Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Severity == SeverityError {
			out = append(out, d)
		}
	}
	return out
}

// MissingFields lists the fields named by error diagnostics.
func (ds Diagnostics) MissingFields() []string {
	var out []string
	for _, d := range ds.Errors() {
		out = append(out, d.Field)
	}
	return out
}

func (ds Diagnostics) String() string {
	parts := make([]string, len(ds))
	for i, d := range ds {
		parts[i] = d.String()
	}
	return strings.Join(parts, "; ")
}

func (ds *Diagnostics) info(field, msg string) {
	*ds = append(*ds, Diagnostic{Field: field, Severity: SeverityInfo, Message: msg})
}

func (ds *Diagnostics) fail(field, msg string) {
	*ds = append(*ds, Diagnostic{Field: field, Severity: SeverityError, Message: msg})
}
