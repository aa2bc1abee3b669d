// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/olegiv/luxora-go/internal/redirect"
	"github.com/olegiv/luxora-go/internal/store"
	"github.com/olegiv/luxora-go/internal/testutil"
)

type fakeRefresher struct{ calls int }

func (f *fakeRefresher) Refresh(context.Context) error {
	f.calls++
	return nil
}

type fakeReloader struct{ err error }

func (f fakeReloader) Reload() error { return f.err }

type tableHolder struct{ t *redirect.Table }

func (h *tableHolder) Replace(t *redirect.Table) { h.t = t }

func TestSitemapJob(t *testing.T) {
	r := &fakeRefresher{}
	job := SitemapJob(r, "*/15 * * * *")

	if job.Name != "sitemap" || job.Schedule != "*/15 * * * *" {
		t.Errorf("job = %+v", job)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if r.calls != 1 {
		t.Errorf("Refresh called %d times, want 1", r.calls)
	}
}

func TestReloadJob(t *testing.T) {
	job := ReloadJob("geoip", "Reload GeoIP database", fakeReloader{err: errors.New("missing file")}, "@daily")
	if err := job.Run(context.Background()); err == nil {
		t.Error("Run() should surface the reload error")
	}
}

func TestRetentionJob(t *testing.T) {
	db := testutil.TestDB(t)

	ctx := context.Background()
	q := store.New(db)
	now := time.Now().UTC()
	for _, at := range []time.Time{now.Add(-100 * 24 * time.Hour), now.Add(-time.Hour)} {
		err := q.CreateEngagementEvent(ctx, store.CreateEngagementEventParams{
			Kind:       "scroll_depth",
			PageViewID: "5f0c2a52-8e2e-4a57-9d39-2a8f1a4d3c11",
			Path:       "/article/quiet-luxury-edit",
			Milestone:  50,
			DeviceType: "desktop",
			CreatedAt:  at,
		})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := q.CreateEvent(ctx, store.CreateEventParams{Level: "info", Category: "mail", Message: "sent", CreatedAt: at}); err != nil {
			t.Fatal(err)
		}
	}

	job := RetentionJob(q, 90*24*time.Hour, "0 3 * * *", testLogger())
	if err := job.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	remaining, err := q.ListEngagementEventsByPath(ctx, "/article/quiet-luxury-edit")
	if err != nil {
		t.Fatal(err)
	}
	if len(remaining) != 1 {
		t.Errorf("engagement events left = %d, want 1", len(remaining))
	}
	events, err := q.ListEvents(ctx, store.ListEventsParams{Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Errorf("events left = %d, want 1", len(events))
	}
}

func TestRedirectsJob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "redirects.yaml")
	doc := "redirects:\n  - source: /old-bags\n    destination: /fashion/bags\n    permanent: true\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	holder := &tableHolder{}
	job := RedirectsJob(path, holder, "@every 5m", testLogger())
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if holder.t == nil || holder.t.Len() != 1 {
		t.Fatal("table should be replaced with the file contents")
	}
	previous := holder.t

	if err := os.WriteFile(path, []byte("redirects: [\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Error("Run() with an invalid file should fail")
	}
	if holder.t != previous {
		t.Error("an invalid file should keep the current table")
	}
}
