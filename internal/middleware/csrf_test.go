// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

var testAuthKey = []byte("12345678901234567890123456789012")

func TestDefaultCSRFConfig(t *testing.T) {
	prod := DefaultCSRFConfig(testAuthKey, "https://luxora.example", false)
	assert.Equal(t, []string{"luxora.example"}, prod.TrustedOrigins)

	dev := DefaultCSRFConfig(testAuthKey, "http://localhost:8080", true)
	assert.Contains(t, dev.TrustedOrigins, "localhost:8080")
	assert.Contains(t, dev.TrustedOrigins, "127.0.0.1:8080")
	for _, o := range dev.TrustedOrigins {
		assert.NotContains(t, o, "://", "origins must be host-only")
	}

	bad := DefaultCSRFConfig(testAuthKey, "", false)
	assert.Empty(t, bad.TrustedOrigins)
}

func TestCSRF_CrossSitePostRejected(t *testing.T) {
	handler := CSRF(DefaultCSRFConfig(testAuthKey, "https://luxora.example", false))(okHandler())

	req := httptest.NewRequest(http.MethodPost, "https://luxora.example/api/contact", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	req.Header.Set("Origin", "https://evil.example")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), `"success":false`)
}

func TestCSRF_SameOriginPostAllowed(t *testing.T) {
	handler := CSRF(DefaultCSRFConfig(testAuthKey, "https://luxora.example", false))(okHandler())

	req := httptest.NewRequest(http.MethodPost, "https://luxora.example/api/contact", nil)
	req.Header.Set("Sec-Fetch-Site", "same-origin")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCSRF_SafeMethodsPass(t *testing.T) {
	handler := CSRF(DefaultCSRFConfig(testAuthKey, "https://luxora.example", false))(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}
