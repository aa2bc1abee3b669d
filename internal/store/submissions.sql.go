// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const createContactSubmission = `
INSERT INTO contact_submissions (id, name, email, subject, message, ip_address, user_agent, status, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id, name, email, subject, message, ip_address, user_agent, status, created_at, delivered_at
`

type CreateContactSubmissionParams struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	IpAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func (q *Queries) CreateContactSubmission(ctx context.Context, arg CreateContactSubmissionParams) (ContactSubmission, error) {
	row := q.db.QueryRowContext(ctx, createContactSubmission,
		arg.ID,
		arg.Name,
		arg.Email,
		arg.Subject,
		arg.Message,
		arg.IpAddress,
		arg.UserAgent,
		arg.Status,
		arg.CreatedAt,
	)
	return scanContactSubmission(row)
}

const getContactSubmission = `
SELECT id, name, email, subject, message, ip_address, user_agent, status, created_at, delivered_at
FROM contact_submissions WHERE id = ?
`

func (q *Queries) GetContactSubmission(ctx context.Context, id string) (ContactSubmission, error) {
	row := q.db.QueryRowContext(ctx, getContactSubmission, id)
	return scanContactSubmission(row)
}

const markContactSubmissionDelivered = `
UPDATE contact_submissions SET status = 'delivered', delivered_at = ? WHERE id = ?
`

func (q *Queries) MarkContactSubmissionDelivered(ctx context.Context, id string, at time.Time) error {
	_, err := q.db.ExecContext(ctx, markContactSubmissionDelivered, at, id)
	return err
}

const markContactSubmissionFailed = `
UPDATE contact_submissions SET status = 'failed' WHERE id = ?
`

func (q *Queries) MarkContactSubmissionFailed(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, markContactSubmissionFailed, id)
	return err
}

const countContactSubmissionsByStatus = `
SELECT COUNT(*) FROM contact_submissions WHERE status = ?
`

func (q *Queries) CountContactSubmissionsByStatus(ctx context.Context, status string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countContactSubmissionsByStatus, status)
	var count int64
	err := row.Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanContactSubmission(row rowScanner) (ContactSubmission, error) {
	var i ContactSubmission
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.Subject,
		&i.Message,
		&i.IpAddress,
		&i.UserAgent,
		&i.Status,
		&i.CreatedAt,
		&i.DeliveredAt,
	)
	return i, err
}

const upsertNewsletterSubscriber = `
INSERT INTO newsletter_subscribers (id, email, source, created_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(email) DO UPDATE SET email = excluded.email
RETURNING id, email, source, created_at
`

type UpsertNewsletterSubscriberParams struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// UpsertNewsletterSubscriber inserts a subscriber or returns the existing row
// for the same address; re-subscribing keeps the original id and source.
func (q *Queries) UpsertNewsletterSubscriber(ctx context.Context, arg UpsertNewsletterSubscriberParams) (NewsletterSubscriber, error) {
	row := q.db.QueryRowContext(ctx, upsertNewsletterSubscriber,
		arg.ID,
		arg.Email,
		arg.Source,
		arg.CreatedAt,
	)
	var i NewsletterSubscriber
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.Source,
		&i.CreatedAt,
	)
	return i, err
}

const countNewsletterSubscribers = `
SELECT COUNT(*) FROM newsletter_subscribers
`

func (q *Queries) CountNewsletterSubscribers(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countNewsletterSubscribers)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const deleteNewsletterSubscriber = `
DELETE FROM newsletter_subscribers WHERE id = ?
`

// DeleteNewsletterSubscriber removes a subscriber whose signup could not be
// delivered, so a later resubmit is treated as new.
func (q *Queries) DeleteNewsletterSubscriber(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, deleteNewsletterSubscriber, id)
	return err
}
