// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// parser accepts standard five-field expressions and descriptors such as
// "@every 1h" or "@daily".
var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ValidateSchedule reports whether spec is a cron expression the scheduler
// accepts.
func ValidateSchedule(spec string) error {
	if _, err := parser.Parse(spec); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}
	return nil
}

// registeredJob holds metadata about a registered cron job.
type registeredJob struct {
	name            string
	description     string
	defaultSchedule string
	schedule        string // effective schedule
	entryID         cron.EntryID
	jobFunc         func()

	lastErr      error
	lastDuration time.Duration
	runs         int
}

// JobInfo is the public view of a registered job.
type JobInfo struct {
	Name            string
	Description     string
	DefaultSchedule string
	Schedule        string
	IsOverridden    bool
	LastRun         time.Time
	NextRun         time.Time
	LastError       string
	LastDuration    time.Duration
	Runs            int
}

// Registry tracks the jobs added to one cron instance.
type Registry struct {
	cron   *cron.Cron
	logger *slog.Logger
	mu     sync.RWMutex
	jobs   map[string]*registeredJob
}

// NewRegistry creates a registry over cronInst.
func NewRegistry(cronInst *cron.Cron, logger *slog.Logger) *Registry {
	return &Registry{
		cron:   cronInst,
		logger: logger,
		jobs:   make(map[string]*registeredJob),
	}
}

// Register adds jobFunc to the cron instance under name.
func (r *Registry) Register(name, description, schedule string, jobFunc func()) error {
	if err := ValidateSchedule(schedule); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jobs[name]; ok {
		return fmt.Errorf("job already registered: %s", name)
	}
	entryID, err := r.cron.AddFunc(schedule, jobFunc)
	if err != nil {
		return fmt.Errorf("adding job %s: %w", name, err)
	}

	r.jobs[name] = &registeredJob{
		name:            name,
		description:     description,
		defaultSchedule: schedule,
		schedule:        schedule,
		entryID:         entryID,
		jobFunc:         jobFunc,
	}

	r.logger.Debug("registered scheduled job", "name", name, "schedule", schedule)
	return nil
}

// record stores the outcome of one run.
func (r *Registry) record(name string, d time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job, ok := r.jobs[name]; ok {
		job.lastErr = err
		job.lastDuration = d
		job.runs++
	}
}

// List returns all registered jobs sorted by name.
func (r *Registry) List() []JobInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]JobInfo, 0, len(r.jobs))
	for _, job := range r.jobs {
		info := JobInfo{
			Name:            job.name,
			Description:     job.description,
			DefaultSchedule: job.defaultSchedule,
			Schedule:        job.schedule,
			IsOverridden:    job.schedule != job.defaultSchedule,
			LastDuration:    job.lastDuration,
			Runs:            job.runs,
		}
		if job.lastErr != nil {
			info.LastError = job.lastErr.Error()
		}

		entry := r.cron.Entry(job.entryID)
		info.NextRun = entry.Next
		info.LastRun = entry.Prev

		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// TriggerNow runs a job immediately on the calling goroutine.
func (r *Registry) TriggerNow(name string) error {
	r.mu.RLock()
	job, ok := r.jobs[name]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("job not found: %s", name)
	}

	r.logger.Info("manually triggering job", "name", name)
	job.jobFunc()
	return nil
}

// UpdateSchedule moves a job to a new schedule. The old schedule is kept
// when the new one cannot be applied.
func (r *Registry) UpdateSchedule(name, newSchedule string) error {
	if err := ValidateSchedule(newSchedule); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[name]
	if !ok {
		return fmt.Errorf("job not found: %s", name)
	}

	r.cron.Remove(job.entryID)
	newEntryID, err := r.cron.AddFunc(newSchedule, job.jobFunc)
	if err != nil {
		fallbackID, fallbackErr := r.cron.AddFunc(job.schedule, job.jobFunc)
		if fallbackErr != nil {
			return fmt.Errorf("critical: failed to restore schedule after update failure: %w (original: %w)", fallbackErr, err)
		}
		job.entryID = fallbackID
		return fmt.Errorf("failed to apply new schedule: %w", err)
	}

	job.entryID = newEntryID
	job.schedule = newSchedule

	r.logger.Info("updated job schedule", "name", name, "schedule", newSchedule)
	return nil
}

// ResetSchedule restores the schedule the job was registered with.
func (r *Registry) ResetSchedule(name string) error {
	r.mu.RLock()
	job, ok := r.jobs[name]
	var def, cur string
	if ok {
		def, cur = job.defaultSchedule, job.schedule
	}
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("job not found: %s", name)
	}
	if def == cur {
		return nil
	}
	return r.UpdateSchedule(name, def)
}

// Unregister removes a job and its cron entry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[name]
	if !ok {
		return
	}
	r.cron.Remove(job.entryID)
	delete(r.jobs, name)

	r.logger.Debug("unregistered scheduled job", "name", name)
}
