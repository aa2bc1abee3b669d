// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package webhook forwards engagement events to an external analytics
// endpoint as signed JSON POSTs.
package webhook

import (
	"time"

	"github.com/olegiv/luxora-go/internal/engagement"
)

// Event types.
const (
	EventScrollDepth    = "engagement.scroll_depth"
	EventAffiliateClick = "engagement.affiliate_click"
	EventTest           = "webhook.test"
)

// Event represents a webhook event to be dispatched.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// NewEvent creates a new webhook event.
func NewEvent(eventType string, data any) *Event {
	return &Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EngagementData is the payload of the engagement.* events.
type EngagementData struct {
	PageViewID     string `json:"page_view_id"`
	Path           string `json:"path"`
	Milestone      int    `json:"milestone,omitempty"`
	ElapsedSeconds int64  `json:"elapsed_seconds,omitempty"`
	Retailer       string `json:"retailer,omitempty"`
	TargetURL      string `json:"target_url,omitempty"`
	DeviceType     string `json:"device_type,omitempty"`
	Country        string `json:"country,omitempty"`
}

// TestEventData contains data for test webhook events.
type TestEventData struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// FromEngagement converts an engagement event. Unknown kinds return nil.
func FromEngagement(e engagement.Event) *Event {
	var eventType string
	switch e.Kind {
	case engagement.KindScrollDepth:
		eventType = EventScrollDepth
	case engagement.KindAffiliateClick:
		eventType = EventAffiliateClick
	default:
		return nil
	}

	ev := NewEvent(eventType, EngagementData{
		PageViewID:     e.PageViewID,
		Path:           e.Path,
		Milestone:      e.Milestone,
		ElapsedSeconds: e.ElapsedSeconds,
		Retailer:       e.Retailer,
		TargetURL:      e.TargetURL,
		DeviceType:     e.DeviceType,
		Country:        e.Country,
	})
	if !e.At.IsZero() {
		ev.Timestamp = e.At.UTC()
	}
	return ev
}
