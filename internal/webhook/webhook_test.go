// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/olegiv/luxora-go/internal/engagement"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGenerateSignature(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		secret  string
	}{
		{name: "empty payload", payload: []byte{}, secret: "secret"},
		{name: "simple payload", payload: []byte(`{"type":"webhook.test"}`), secret: "mysecret"},
		{name: "engagement payload", payload: []byte(`{"type":"engagement.scroll_depth","data":{"milestone":50}}`), secret: "webhook-secret-key"},
		{name: "empty secret", payload: []byte(`test`), secret: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GenerateSignature(tt.payload, tt.secret)
			// SHA256 = 32 bytes = 64 hex chars
			if len(result) != 64 {
				t.Errorf("GenerateSignature() returned signature with length %d, expected 64", len(result))
			}
			if result2 := GenerateSignature(tt.payload, tt.secret); result != result2 {
				t.Errorf("GenerateSignature() not consistent: %s != %s", result, result2)
			}
		})
	}

	if GenerateSignature([]byte("x"), "a") == GenerateSignature([]byte("x"), "b") {
		t.Error("different secrets should produce different signatures")
	}
}

func TestVerifySignature(t *testing.T) {
	payload := []byte(`{"title":"Тест","content":"日本語"}`)
	sig := GenerateSignature(payload, "secret")

	tests := []struct {
		name      string
		payload   []byte
		signature string
		secret    string
		want      bool
	}{
		{"valid", payload, sig, "secret", true},
		{"wrong secret", payload, sig, "other", false},
		{"tampered payload", []byte(`{}`), sig, "secret", false},
		{"empty signature", payload, "", "secret", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifySignature(tt.payload, tt.signature, tt.secret); got != tt.want {
				t.Errorf("VerifySignature() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 2 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{5, 32 * time.Second},
		{6, time.Minute},
		{20, time.Minute},
	}
	for _, tt := range tests {
		if got := calculateBackoff(tt.attempt, InitialBackoff, MaxBackoff); got != tt.want {
			t.Errorf("calculateBackoff(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestFromEngagement(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	ev := FromEngagement(engagement.Event{
		Kind:       engagement.KindAffiliateClick,
		PageViewID: "pv-1",
		Path:       "/article/quiet-luxury",
		Retailer:   "ssense",
		TargetURL:  "https://ssense.example/bag",
		At:         at,
	})
	if ev == nil {
		t.Fatal("FromEngagement() = nil")
	}
	if ev.Type != EventAffiliateClick {
		t.Errorf("Type = %q", ev.Type)
	}
	if !ev.Timestamp.Equal(at) {
		t.Errorf("Timestamp = %v, want %v", ev.Timestamp, at)
	}
	data, ok := ev.Data.(EngagementData)
	if !ok || data.Retailer != "ssense" || data.Milestone != 0 {
		t.Errorf("Data = %#v", ev.Data)
	}

	if ev := FromEngagement(engagement.Event{Kind: engagement.KindScrollDepth, Milestone: 75}); ev == nil || ev.Type != EventScrollDepth {
		t.Errorf("scroll event = %#v", ev)
	}
	if ev := FromEngagement(engagement.Event{Kind: "hover"}); ev != nil {
		t.Errorf("unknown kind should be dropped, got %#v", ev)
	}
}

type received struct {
	mu       sync.Mutex
	bodies   [][]byte
	headers  []http.Header
	attempts atomic.Int32
}

func (r *received) last() ([]byte, http.Header) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.bodies) == 0 {
		return nil, nil
	}
	return r.bodies[len(r.bodies)-1], r.headers[len(r.headers)-1]
}

// sink answers with statuses in order, repeating the last one.
func sink(t *testing.T, rec *received, statuses ...int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(rec.attempts.Add(1))
		body, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.bodies = append(rec.bodies, body)
		rec.headers = append(rec.headers, r.Header.Clone())
		rec.mu.Unlock()

		status := statuses[len(statuses)-1]
		if n <= len(statuses) {
			status = statuses[n-1]
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestDispatcher(t *testing.T, url string) *Dispatcher {
	t.Helper()
	d := NewDispatcher(Config{
		URL:            url,
		Secret:         "s3cret",
		Headers:        map[string]string{"X-Site": "luxora"},
		Workers:        1,
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
	}, testLogger())
	d.Start(context.Background())
	t.Cleanup(d.Stop)
	return d
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestDispatcherDelivers(t *testing.T) {
	rec := &received{}
	srv := sink(t, rec, http.StatusNoContent)
	d := newTestDispatcher(t, srv.URL)

	err := d.Emit(context.Background(), engagement.Event{
		Kind:       engagement.KindScrollDepth,
		PageViewID: "pv-9",
		Path:       "/article/a",
		Milestone:  50,
	})
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}

	waitFor(t, func() bool { return rec.attempts.Load() == 1 })
	body, hdr := rec.last()

	if got := hdr.Get("X-Webhook-Event"); got != EventScrollDepth {
		t.Errorf("X-Webhook-Event = %q", got)
	}
	if !VerifySignature(body, hdr.Get("X-Webhook-Signature"), "s3cret") {
		t.Error("signature does not verify")
	}
	if hdr.Get("X-Site") != "luxora" || hdr.Get("User-Agent") != UserAgent {
		t.Errorf("headers = %v", hdr)
	}
	if hdr.Get("X-Webhook-Delivery-ID") == "" {
		t.Error("missing delivery id")
	}

	var payload struct {
		Type string         `json:"type"`
		Data EngagementData `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if payload.Data.Milestone != 50 || payload.Data.PageViewID != "pv-9" {
		t.Errorf("payload = %+v", payload)
	}
}

func TestDispatcherRetries(t *testing.T) {
	tests := []struct {
		name     string
		statuses []int
		want     int32
	}{
		{"server error then success", []int{500, 503, 200}, 3},
		{"gives up after max attempts", []int{502}, 3},
		{"client error is final", []int{400}, 1},
		{"rate limited is retried", []int{429, 200}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &received{}
			srv := sink(t, rec, tt.statuses...)
			d := newTestDispatcher(t, srv.URL)

			if err := d.Dispatch(context.Background(), NewEvent(EventTest, TestEventData{Message: "hi"})); err != nil {
				t.Fatalf("Dispatch() error = %v", err)
			}
			waitFor(t, func() bool { return rec.attempts.Load() >= tt.want })
			time.Sleep(30 * time.Millisecond)
			if got := rec.attempts.Load(); got != tt.want {
				t.Errorf("attempts = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDispatchNotRunning(t *testing.T) {
	d := NewDispatcher(Config{URL: "http://127.0.0.1:1"}, testLogger())
	if err := d.Dispatch(context.Background(), NewEvent(EventTest, nil)); err != nil {
		t.Errorf("Dispatch() on stopped dispatcher = %v, want nil", err)
	}
	if len(d.queue) != 0 {
		t.Error("event should not be queued")
	}
}

func TestDispatchQueueFull(t *testing.T) {
	d := NewDispatcher(Config{URL: "http://127.0.0.1:1", QueueSize: 1}, testLogger())
	// Mark running without workers so nothing drains the queue.
	d.running = true

	if err := d.Dispatch(context.Background(), NewEvent(EventTest, nil)); err != nil {
		t.Fatalf("first Dispatch() = %v", err)
	}
	if err := d.Dispatch(context.Background(), NewEvent(EventTest, nil)); !errors.Is(err, ErrQueueFull) {
		t.Errorf("second Dispatch() = %v, want ErrQueueFull", err)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	d := NewDispatcher(Config{URL: "http://127.0.0.1:1"}, testLogger())
	d.Start(context.Background())
	d.Start(context.Background())
	d.Stop()
	d.Stop()
}

func TestEmitDropsWhenQueueFull(t *testing.T) {
	d := NewDispatcher(Config{URL: "http://127.0.0.1:1", QueueSize: 1}, testLogger())
	d.running = true

	e := engagement.Event{Kind: engagement.KindAffiliateClick, PageViewID: "pv", Path: "/p"}
	for i := 0; i < 3; i++ {
		if err := d.Emit(context.Background(), e); err != nil {
			t.Fatalf("Emit() #%d = %v, want nil", i, err)
		}
	}
	if len(d.queue) != 1 {
		t.Errorf("queued = %d, want 1", len(d.queue))
	}
}
