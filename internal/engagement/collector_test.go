// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package engagement

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/luxora-go/internal/cache"
)

const (
	testPageView  = "3f1c2a3e-8d4b-4b8f-9a0e-1f2d3c4b5a69"
	desktopUA     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"
	iphoneUA      = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	googlebotUA   = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
	scrollPayload = `{"kind":"scroll_depth","pageViewId":"` + testPageView + `","path":"/article/x","milestone":50,"elapsedSeconds":12}`
)

type stubGeo map[string]string

func (s stubGeo) Country(ip string) string { return s[ip] }

func newTestCollector(rec Emitter) *Collector {
	c := NewCollector(rec, cache.NewSimpleMemoryCache(time.Hour), stubGeo{"203.0.113.9": "FR"}, nil)
	c.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return c
}

func post(t *testing.T, c *Collector, body, ua string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "text/plain;charset=UTF-8")
	req.Header.Set("User-Agent", ua)
	req.Header.Set("X-Real-IP", "203.0.113.9")
	rr := httptest.NewRecorder()
	c.ServeHTTP(rr, req)
	return rr
}

func TestCollector_ScrollDepthEnrichedAndDeduplicated(t *testing.T) {
	rec := &Recorder{}
	c := newTestCollector(rec)

	rr := post(t, c, scrollPayload, iphoneUA)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = post(t, c, scrollPayload, iphoneUA)
	require.Equal(t, http.StatusNoContent, rr.Code)

	events := rec.Events()
	require.Len(t, events, 1)
	e := events[0]
	assert.Equal(t, KindScrollDepth, e.Kind)
	assert.Equal(t, 50, e.Milestone)
	assert.Equal(t, int64(12), e.ElapsedSeconds)
	assert.Equal(t, DeviceMobile, e.DeviceType)
	assert.Equal(t, "FR", e.Country)
	assert.Equal(t, 2026, e.At.Year())
}

func TestCollector_AffiliateClickNotDeduplicated(t *testing.T) {
	rec := &Recorder{}
	c := newTestCollector(rec)
	body := `{"kind":"affiliate_click","pageViewId":"` + testPageView + `","path":"/product/bag","retailer":"farfetch","targetUrl":"https://www.farfetch.com/item"}`

	require.Equal(t, http.StatusNoContent, post(t, c, body, desktopUA).Code)
	require.Equal(t, http.StatusNoContent, post(t, c, body, desktopUA).Code)

	events := rec.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "farfetch", events[0].Retailer)
	assert.Equal(t, DeviceDesktop, events[0].DeviceType)
}

func TestCollector_IgnoresBots(t *testing.T) {
	rec := &Recorder{}
	rr := post(t, newTestCollector(rec), scrollPayload, googlebotUA)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rec.Events())
}

func TestCollector_RejectsInvalidBeacons(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"kind":`},
		{"unknown kind", `{"kind":"hover","pageViewId":"` + testPageView + `","path":"/"}`},
		{"bad page view id", `{"kind":"scroll_depth","pageViewId":"nope","path":"/","milestone":25}`},
		{"absolute path", `{"kind":"scroll_depth","pageViewId":"` + testPageView + `","path":"https://evil.example/","milestone":25}`},
		{"protocol relative path", `{"kind":"scroll_depth","pageViewId":"` + testPageView + `","path":"//evil.example","milestone":25}`},
		{"bad milestone", `{"kind":"scroll_depth","pageViewId":"` + testPageView + `","path":"/","milestone":30}`},
		{"negative elapsed", `{"kind":"scroll_depth","pageViewId":"` + testPageView + `","path":"/","milestone":25,"elapsedSeconds":-1}`},
		{"click without url", `{"kind":"affiliate_click","pageViewId":"` + testPageView + `","path":"/"}`},
		{"click with js url", `{"kind":"affiliate_click","pageViewId":"` + testPageView + `","path":"/","targetUrl":"javascript:alert(1)"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &Recorder{}
			rr := post(t, newTestCollector(rec), tt.body, desktopUA)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, rr.Body.String(), `"success":false`)
			assert.Empty(t, rec.Events())
		})
	}
}

func TestCollector_TooLarge(t *testing.T) {
	body := `{"kind":"scroll_depth","path":"/` + strings.Repeat("a", maxBeaconBytes) + `"}`
	rr := post(t, newTestCollector(&Recorder{}), body, desktopUA)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestCollector_MethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	rr := httptest.NewRecorder()
	newTestCollector(&Recorder{}).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestCollector_EmitFailure(t *testing.T) {
	failing := EmitterFunc(func(context.Context, Event) error { return errors.New("db down") })
	rr := post(t, newTestCollector(failing), scrollPayload, desktopUA)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestCollector_RetryAfterEmitFailure(t *testing.T) {
	rec := &Recorder{}
	failed := false
	flaky := EmitterFunc(func(ctx context.Context, e Event) error {
		if !failed {
			failed = true
			return errors.New("db down")
		}
		return rec.Emit(ctx, e)
	})
	c := newTestCollector(flaky)

	assert.Equal(t, http.StatusInternalServerError, post(t, c, scrollPayload, desktopUA).Code)
	assert.Equal(t, http.StatusNoContent, post(t, c, scrollPayload, desktopUA).Code)
	require.Len(t, rec.Events(), 1)

	// Once recorded, the milestone is deduplicated again.
	assert.Equal(t, http.StatusNoContent, post(t, c, scrollPayload, desktopUA).Code)
	assert.Len(t, rec.Events(), 1)
}

func TestDeviceClass(t *testing.T) {
	assert.Equal(t, DeviceDesktop, DeviceClass(desktopUA))
	assert.Equal(t, DeviceMobile, DeviceClass(iphoneUA))
	assert.Equal(t, DeviceBot, DeviceClass(googlebotUA))
}
