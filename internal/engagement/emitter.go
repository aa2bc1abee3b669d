// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package engagement

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/olegiv/luxora-go/internal/store"
)

// Event kinds.
const (
	KindScrollDepth    = "scroll_depth"
	KindAffiliateClick = "affiliate_click"
)

// Event is one engagement signal.
type Event struct {
	Kind           string
	PageViewID     string
	Path           string
	Milestone      int
	ElapsedSeconds int64
	Retailer       string
	TargetURL      string
	DeviceType     string
	Country        string
	At             time.Time
}

// Emitter receives engagement events.
type Emitter interface {
	Emit(ctx context.Context, e Event) error
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(ctx context.Context, e Event) error

// Emit calls f.
func (f EmitterFunc) Emit(ctx context.Context, e Event) error {
	return f(ctx, e)
}

// LogEmitter writes events to a structured logger.
type LogEmitter struct {
	Logger *slog.Logger
}

// Emit logs e at info level.
func (l LogEmitter) Emit(ctx context.Context, e Event) error {
	attrs := []any{
		"kind", e.Kind,
		"page_view_id", e.PageViewID,
		"path", e.Path,
	}
	switch e.Kind {
	case KindScrollDepth:
		attrs = append(attrs, "milestone", e.Milestone, "elapsed_seconds", e.ElapsedSeconds)
	case KindAffiliateClick:
		attrs = append(attrs, "retailer", e.Retailer, "target_url", e.TargetURL)
	}
	if e.DeviceType != "" {
		attrs = append(attrs, "device", e.DeviceType)
	}
	if e.Country != "" {
		attrs = append(attrs, "country", e.Country)
	}
	l.Logger.InfoContext(ctx, "engagement event", attrs...)
	return nil
}

// StoreEmitter persists events to the engagement_events table.
type StoreEmitter struct {
	queries *store.Queries
}

// NewStoreEmitter creates a StoreEmitter over db.
func NewStoreEmitter(db store.DBTX) *StoreEmitter {
	return &StoreEmitter{queries: store.New(db)}
}

// Emit inserts e.
func (s *StoreEmitter) Emit(ctx context.Context, e Event) error {
	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	return s.queries.CreateEngagementEvent(ctx, store.CreateEngagementEventParams{
		Kind:           e.Kind,
		PageViewID:     e.PageViewID,
		Path:           e.Path,
		Milestone:      int64(e.Milestone),
		ElapsedSeconds: e.ElapsedSeconds,
		Retailer:       e.Retailer,
		TargetUrl:      e.TargetURL,
		DeviceType:     e.DeviceType,
		CountryCode:    e.Country,
		CreatedAt:      at.UTC(),
	})
}

// MultiEmitter fans an event out to every emitter and joins their errors.
type MultiEmitter []Emitter

// Emit sends e to each emitter in order.
func (m MultiEmitter) Emit(ctx context.Context, e Event) error {
	var errs []error
	for _, em := range m {
		if err := em.Emit(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Recorder keeps events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Emit appends e.
func (r *Recorder) Emit(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Milestones returns the milestones of recorded scroll events.
func (r *Recorder) Milestones() []int {
	var out []int
	for _, e := range r.Events() {
		if e.Kind == KindScrollDepth {
			out = append(out, e.Milestone)
		}
	}
	return out
}
