// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the site's background jobs on cron schedules.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// defaultJobTimeout bounds a single job run.
const defaultJobTimeout = 5 * time.Minute

// Job is a unit of background work.
type Job struct {
	Name        string
	Description string
	Schedule    string
	Timeout     time.Duration // defaults to five minutes
	Run         func(ctx context.Context) error
}

// Scheduler runs registered jobs. A run that is still going when the next
// one is due is skipped, and panics are recovered.
type Scheduler struct {
	cron     *cron.Cron
	registry *Registry
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new scheduler instance.
func New(logger *slog.Logger) *Scheduler {
	cl := cronLogger{logger: logger}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:     c,
		registry: NewRegistry(c, logger),
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Registry returns the job registry.
func (s *Scheduler) Registry() *Registry {
	return s.registry
}

// Add registers a job.
func (s *Scheduler) Add(job Job) error {
	return s.registry.Register(job.Name, job.Description, job.Schedule, func() {
		s.run(job)
	})
}

// run executes one job with its timeout and records the outcome.
func (s *Scheduler) run(job Job) {
	timeout := job.Timeout
	if timeout <= 0 {
		timeout = defaultJobTimeout
	}
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	start := time.Now()
	err := job.Run(ctx)
	elapsed := time.Since(start)
	s.registry.record(job.Name, elapsed, err)

	if err != nil {
		s.logger.Error("scheduled job failed", "job", job.Name, "error", err, "duration", elapsed, "category", "scheduler")
		return
	}
	s.logger.Debug("scheduled job finished", "job", job.Name, "duration", elapsed)
}

// Start begins running jobs on their schedules.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append([]any{"error", err}, keysAndValues...)...)
}
