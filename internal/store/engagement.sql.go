// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const createEngagementEvent = `
INSERT INTO engagement_events (
    kind, page_view_id, path, milestone, elapsed_seconds,
    retailer, target_url, device_type, country_code, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateEngagementEventParams struct {
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

func (q *Queries) CreateEngagementEvent(ctx context.Context, arg CreateEngagementEventParams) error {
	_, err := q.db.ExecContext(ctx, createEngagementEvent,
		arg.Kind,
		arg.PageViewID,
		arg.Path,
		arg.Milestone,
		arg.ElapsedSeconds,
		arg.Retailer,
		arg.TargetUrl,
		arg.DeviceType,
		arg.CountryCode,
		arg.CreatedAt,
	)
	return err
}

const listEngagementEventsByPath = `
SELECT id, kind, page_view_id, path, milestone, elapsed_seconds,
       retailer, target_url, device_type, country_code, created_at
FROM engagement_events
WHERE path = ?
ORDER BY id
`

func (q *Queries) ListEngagementEventsByPath(ctx context.Context, path string) ([]EngagementEvent, error) {
	rows, err := q.db.QueryContext(ctx, listEngagementEventsByPath, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []EngagementEvent
	for rows.Next() {
		var i EngagementEvent
		if err := rows.Scan(
			&i.ID,
			&i.Kind,
			&i.PageViewID,
			&i.Path,
			&i.Milestone,
			&i.ElapsedSeconds,
			&i.Retailer,
			&i.TargetUrl,
			&i.DeviceType,
			&i.CountryCode,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countEngagementEventsByKind = `
SELECT kind, COUNT(*) FROM engagement_events
WHERE created_at >= ?
GROUP BY kind
`

// CountEngagementEventsByKind returns per-kind totals recorded since the given time.
func (q *Queries) CountEngagementEventsByKind(ctx context.Context, since time.Time) (map[string]int64, error) {
	rows, err := q.db.QueryContext(ctx, countEngagementEventsByKind, since)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	counts := make(map[string]int64)
	for rows.Next() {
		var kind string
		var n int64
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}

const deleteEngagementEventsBefore = `
DELETE FROM engagement_events WHERE created_at < ?
`

func (q *Queries) DeleteEngagementEventsBefore(ctx context.Context, before time.Time) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteEngagementEventsBefore, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
