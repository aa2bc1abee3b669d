// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/luxora-go/internal/redirect"
	"github.com/olegiv/luxora-go/internal/store"
)

// Refresher rebuilds a derived artifact, such as the sitemap.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// SitemapJob rebuilds the sitemap from the content store.
func SitemapJob(r Refresher, schedule string) Job {
	return Job{
		Name:        "sitemap",
		Description: "Rebuild sitemap.xml from published documents",
		Schedule:    schedule,
		Timeout:     time.Minute,
		Run:         r.Refresh,
	}
}

// RetentionJob deletes engagement events and event log rows older than
// maxAge.
func RetentionJob(q *store.Queries, maxAge time.Duration, schedule string, logger *slog.Logger) Job {
	return Job{
		Name:        "retention",
		Description: "Delete engagement and event log rows past the retention window",
		Schedule:    schedule,
		Run: func(ctx context.Context) error {
			cutoff := time.Now().UTC().Add(-maxAge)
			engagement, errE := q.DeleteEngagementEventsBefore(ctx, cutoff)
			events, errL := q.DeleteEventsBefore(ctx, cutoff)
			if err := errors.Join(errE, errL); err != nil {
				return fmt.Errorf("pruning rows before %s: %w", cutoff.Format(time.RFC3339), err)
			}
			if engagement > 0 || events > 0 {
				logger.Info("pruned old rows", "engagement_events", engagement, "events", events, "cutoff", cutoff)
			}
			return nil
		},
	}
}

// Reloader re-reads a file-backed resource in place.
type Reloader interface {
	Reload() error
}

// ReloadJob calls Reload on schedule, for example to pick up a refreshed
// GeoIP database.
func ReloadJob(name, description string, r Reloader, schedule string) Job {
	return Job{
		Name:        name,
		Description: description,
		Schedule:    schedule,
		Run: func(context.Context) error {
			return r.Reload()
		},
	}
}

// RedirectTarget receives a reloaded redirect table.
// *middleware.Redirects implements it.
type RedirectTarget interface {
	Replace(t *redirect.Table)
}

// RedirectsJob reloads the redirect table from path. An invalid file keeps
// the current table.
func RedirectsJob(path string, target RedirectTarget, schedule string, logger *slog.Logger) Job {
	return Job{
		Name:        "redirects",
		Description: "Reload the redirect table from " + path,
		Schedule:    schedule,
		Run: func(context.Context) error {
			t, err := redirect.Load(path)
			if err != nil {
				return fmt.Errorf("loading redirects: %w", err)
			}
			target.Replace(t)
			logger.Debug("redirect table reloaded", "rules", t.Len())
			return nil
		},
	}
}
