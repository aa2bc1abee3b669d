// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package captcha verifies hCaptcha response tokens submitted with the
// contact and newsletter forms.
package captcha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultVerifyURL is the hCaptcha verification endpoint.
	DefaultVerifyURL = "https://api.hcaptcha.com/siteverify"
	verifyTimeout    = 10 * time.Second
)

// hCaptcha integration-test keys. They always pass without a challenge.
const (
	TestSiteKey   = "10000000-ffff-ffff-ffff-000000000001"
	TestSecretKey = "0x0000000000000000000000000000000000000000"
)

var (
	// ErrMissingToken is returned when the form carried no token.
	ErrMissingToken = errors.New("captcha: missing response token")
	// ErrRejected is returned when hCaptcha rejected the token.
	ErrRejected = errors.New("captcha: verification failed")
)

// VerifyResponse represents the hCaptcha API response.
type VerifyResponse struct {
	Success     bool      `json:"success"`
	ChallengeTS time.Time `json:"challenge_ts"`
	Hostname    string    `json:"hostname"`
	ErrorCodes  []string  `json:"error-codes"`
}

// Verifier checks response tokens against the hCaptcha API.
type Verifier struct {
	siteKey   string
	secretKey string
	verifyURL string
	client    *http.Client
	logger    *slog.Logger
}

// New creates a Verifier. With an empty secret the verifier is disabled and
// every token passes.
func New(siteKey, secretKey string, logger *slog.Logger) *Verifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{
		siteKey:   siteKey,
		secretKey: secretKey,
		verifyURL: DefaultVerifyURL,
		client:    &http.Client{Timeout: verifyTimeout},
		logger:    logger,
	}
}

// WithEndpoint points the verifier at another siteverify URL.
func (v *Verifier) WithEndpoint(u string) *Verifier {
	v.verifyURL = u
	return v
}

// Enabled reports whether tokens are verified.
func (v *Verifier) Enabled() bool {
	return v != nil && v.siteKey != "" && v.secretKey != ""
}

// SiteKey returns the public site key for the widget.
func (v *Verifier) SiteKey() string {
	if v == nil {
		return ""
	}
	return v.siteKey
}

// Verify checks token for the visitor at remoteIP. A disabled verifier
// accepts everything.
func (v *Verifier) Verify(ctx context.Context, token, remoteIP string) error {
	if !v.Enabled() {
		return nil
	}
	if token == "" {
		return ErrMissingToken
	}

	data := url.Values{}
	data.Set("secret", v.secretKey)
	data.Set("response", token)
	data.Set("sitekey", v.siteKey)
	if remoteIP != "" {
		data.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("building captcha request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("captcha verification request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("captcha verification returned status %d", resp.StatusCode)
	}

	var result VerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to parse captcha response: %w", err)
	}

	if !result.Success {
		v.logger.Warn("captcha verification failed",
			"error_codes", result.ErrorCodes,
			"remote_ip", remoteIP,
		)
		return ErrRejected
	}
	return nil
}
