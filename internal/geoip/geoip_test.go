// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package geoip

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_EmptyPathDisabled(t *testing.T) {
	l, err := Open("")
	require.NoError(t, err)

	assert.False(t, l.Enabled())
	assert.Equal(t, "", l.Country("8.8.8.8"))
	assert.NoError(t, l.Reload())
	assert.NoError(t, l.Close())
}

func TestOpen_MissingFile(t *testing.T) {
	l, err := Open(filepath.Join(t.TempDir(), "missing.mmdb"))
	assert.Error(t, err)
	require.NotNil(t, l)
	assert.False(t, l.Enabled())
}

func TestCountry_LocalAndInvalid(t *testing.T) {
	var l Lookup

	tests := map[string]string{
		"127.0.0.1":   CountryLocal,
		"10.1.2.3":    CountryLocal,
		"192.168.0.4": CountryLocal,
		"::1":         CountryLocal,
		"not-an-ip":   "",
		"":            "",
		"8.8.8.8":     "",
	}
	for ip, want := range tests {
		assert.Equal(t, want, l.Country(ip), ip)
	}
}
