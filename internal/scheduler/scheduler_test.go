// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	logger := testLogger()

	s := New(logger)
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.cron == nil {
		t.Error("New() scheduler has nil cron")
	}
	if s.Registry() == nil {
		t.Error("New() scheduler has nil registry")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(testLogger())
	if err := s.Add(Job{Name: "noop", Schedule: "@daily", Run: func(context.Context) error { return nil }}); err != nil {
		t.Fatal(err)
	}

	s.Start()
	s.Stop()
}

func TestScheduler_RunRecordsOutcome(t *testing.T) {
	s := New(testLogger())
	fail := errors.New("cms unavailable")
	calls := 0
	err := s.Add(Job{
		Name:     "sitemap",
		Schedule: "@daily",
		Run: func(ctx context.Context) error {
			calls++
			if _, ok := ctx.Deadline(); !ok {
				t.Error("job context should carry a deadline")
			}
			if calls == 1 {
				return fail
			}
			return nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Registry().TriggerNow("sitemap"); err != nil {
		t.Fatal(err)
	}
	info := s.Registry().List()[0]
	if info.LastError != fail.Error() || info.Runs != 1 {
		t.Errorf("after failed run: LastError = %q, Runs = %d", info.LastError, info.Runs)
	}

	if err := s.Registry().TriggerNow("sitemap"); err != nil {
		t.Fatal(err)
	}
	info = s.Registry().List()[0]
	if info.LastError != "" || info.Runs != 2 {
		t.Errorf("after successful run: LastError = %q, Runs = %d", info.LastError, info.Runs)
	}
}

func TestScheduler_StopCancelsJobs(t *testing.T) {
	s := New(testLogger())
	s.Stop()

	var got error
	if err := s.Add(Job{
		Name:     "slow",
		Schedule: "@daily",
		Timeout:  time.Hour,
		Run: func(ctx context.Context) error {
			got = ctx.Err()
			return got
		},
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.Registry().TriggerNow("slow"); err != nil {
		t.Fatal(err)
	}
	if !errors.Is(got, context.Canceled) {
		t.Errorf("ctx.Err() = %v, want context.Canceled", got)
	}
}
