// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package engagement tracks scroll depth and affiliate clicks. The Tracker
// models one page view; the Collector ingests beacons sent by the browser
// copy of the same state machine.
package engagement

import (
	"context"
	"errors"
	"math"
	"time"
)

// Milestones are the scroll depths reported, in ascending order.
var Milestones = []int{25, 50, 75, 100}

// IsMilestone reports whether p is one of Milestones.
func IsMilestone(p int) bool {
	for _, m := range Milestones {
		if m == p {
			return true
		}
	}
	return false
}

// Metrics is one scroll observation in CSS pixels.
type Metrics struct {
	ScrollTop      float64
	ScrollHeight   float64
	ViewportHeight float64
}

// Percent returns the scroll depth as a whole percentage in [0, 100]. A
// page that fits the viewport counts as fully read.
func Percent(m Metrics) int {
	scrollable := m.ScrollHeight - m.ViewportHeight
	if scrollable <= 0 {
		return 100
	}
	p := int(math.Round(m.ScrollTop / scrollable * 100))
	return max(0, min(100, p))
}

// Tracker holds the milestones reached during one page view.
type Tracker struct {
	emitter    Emitter
	pageViewID string
	path       string

	start   time.Time
	reached map[int]bool
	pending *Metrics
}

// NewTracker creates a Tracker that reports through e.
func NewTracker(e Emitter, pageViewID, path string) *Tracker {
	return &Tracker{emitter: e, pageViewID: pageViewID, path: path, reached: make(map[int]bool)}
}

// Mount starts a page view, forgetting earlier milestones.
func (t *Tracker) Mount(now time.Time) {
	t.start = now
	t.reached = make(map[int]bool)
	t.pending = nil
}

// OnScroll records the latest metrics. Evaluation waits for Frame so a
// burst of scroll events costs one evaluation.
func (t *Tracker) OnScroll(m Metrics) {
	t.pending = &m
}

// Frame evaluates the pending metrics, if any.
func (t *Tracker) Frame(ctx context.Context, now time.Time) error {
	if t.pending == nil {
		return nil
	}
	m := *t.pending
	t.pending = nil
	return t.Observe(ctx, m, now)
}

// Observe evaluates m immediately and emits every newly reached milestone
// in ascending order.
func (t *Tracker) Observe(ctx context.Context, m Metrics, now time.Time) error {
	pct := Percent(m)
	elapsed := int64(now.Sub(t.start).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}

	var errs []error
	for _, milestone := range Milestones {
		if pct < milestone || t.reached[milestone] {
			continue
		}
		t.reached[milestone] = true
		err := t.emitter.Emit(ctx, Event{
			Kind:           KindScrollDepth,
			PageViewID:     t.pageViewID,
			Path:           t.path,
			Milestone:      milestone,
			ElapsedSeconds: elapsed,
			At:             now,
		})
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Reached returns the milestones emitted since Mount, ascending.
func (t *Tracker) Reached() []int {
	var out []int
	for _, m := range Milestones {
		if t.reached[m] {
			out = append(out, m)
		}
	}
	return out
}
