// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

// Submission statuses.
const (
	SubmissionReceived  = "received"
	SubmissionDelivered = "delivered"
	SubmissionFailed    = "failed"
)

type Event struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	Metadata  string    `json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
}

type ContactSubmission struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Subject     string       `json:"subject"`
	Message     string       `json:"message"`
	IpAddress   string       `json:"ip_address"`
	UserAgent   string       `json:"user_agent"`
	Status      string       `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	DeliveredAt sql.NullTime `json:"delivered_at"`
}

type NewsletterSubscriber struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

type EngagementEvent struct {
	ID             int64     `json:"id"`
	Kind           string    `json:"kind"`
	PageViewID     string    `json:"page_view_id"`
	Path           string    `json:"path"`
	Milestone      int64     `json:"milestone"`
	ElapsedSeconds int64     `json:"elapsed_seconds"`
	Retailer       string    `json:"retailer"`
	TargetUrl      string    `json:"target_url"`
	DeviceType     string    `json:"device_type"`
	CountryCode    string    `json:"country_code"`
	CreatedAt      time.Time `json:"created_at"`
}
