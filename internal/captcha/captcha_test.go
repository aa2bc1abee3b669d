// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package captcha

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func verifyServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, TestSecretKey, r.PostForm.Get("secret"))
		assert.Equal(t, "203.0.113.9", r.PostForm.Get("remoteip"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVerify_Disabled(t *testing.T) {
	v := New("", "", nil)
	assert.False(t, v.Enabled())
	assert.NoError(t, v.Verify(context.Background(), "", ""))

	var nilVerifier *Verifier
	assert.False(t, nilVerifier.Enabled())
	assert.Equal(t, "", nilVerifier.SiteKey())
}

func TestVerify_MissingToken(t *testing.T) {
	v := New(TestSiteKey, TestSecretKey, nil)
	assert.ErrorIs(t, v.Verify(context.Background(), "", "203.0.113.9"), ErrMissingToken)
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		status  int
		wantErr error
		anyErr  bool
	}{
		{name: "success", body: `{"success":true,"hostname":"luxora.example"}`, status: http.StatusOK},
		{name: "rejected", body: `{"success":false,"error-codes":["invalid-input-response"]}`, status: http.StatusOK, wantErr: ErrRejected},
		{name: "server error", body: `oops`, status: http.StatusBadGateway, anyErr: true},
		{name: "malformed json", body: `{`, status: http.StatusOK, anyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := verifyServer(t, tt.body, tt.status)
			v := New(TestSiteKey, TestSecretKey, nil).WithEndpoint(srv.URL)

			err := v.Verify(context.Background(), "token-abc", "203.0.113.9")
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
		})
	}
}
