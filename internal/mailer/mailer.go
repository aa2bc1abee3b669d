// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mailer delivers contact messages and newsletter signups to the
// editorial inbox over SMTP.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gopkg.in/gomail.v2"
)

// ErrNotConfigured is returned when no SMTP relay is configured.
var ErrNotConfigured = errors.New("mailer: smtp not configured")

// Config configures the SMTP relay and the recipients.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string

	From         string
	ContactTo    string
	NewsletterTo string // defaults to ContactTo
	SiteName     string
}

// Sender delivers composed messages. *gomail.Dialer implements it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// ContactMessage is a validated contact form submission.
type ContactMessage struct {
	ID      string
	Name    string
	Email   string
	Subject string
	Message string
}

// Signup is a validated newsletter signup.
type Signup struct {
	ID     string
	Email  string
	Source string
}

// Mailer composes and sends notification emails.
type Mailer struct {
	cfg    Config
	sender Sender
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Mailer that dials cfg.Host. Without a host every send
// returns ErrNotConfigured.
func New(cfg Config, logger *slog.Logger) *Mailer {
	var sender Sender
	if cfg.Host != "" {
		sender = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return NewWithSender(cfg, sender, logger)
}

// NewWithSender creates a Mailer over an explicit Sender.
func NewWithSender(cfg Config, sender Sender, logger *slog.Logger) *Mailer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.NewsletterTo == "" {
		cfg.NewsletterTo = cfg.ContactTo
	}
	if cfg.SiteName == "" {
		cfg.SiteName = "Luxora"
	}
	return &Mailer{cfg: cfg, sender: sender, logger: logger, now: time.Now}
}

// Enabled reports whether messages can be delivered.
func (m *Mailer) Enabled() bool {
	return m.sender != nil
}

// SendContact forwards a contact message. Replies go to the visitor.
func (m *Mailer) SendContact(ctx context.Context, c ContactMessage) error {
	subject := c.Subject
	if subject == "" {
		subject = "Website enquiry from " + c.Name
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Name: %s\n", c.Name)
	fmt.Fprintf(&body, "Email: %s\n", c.Email)
	fmt.Fprintf(&body, "Received: %s\n", m.now().UTC().Format(time.RFC1123))
	if c.ID != "" {
		fmt.Fprintf(&body, "Reference: %s\n", c.ID)
	}
	body.WriteString("\n")
	body.WriteString(c.Message)
	body.WriteString("\n")

	msg := m.message(m.cfg.ContactTo, fmt.Sprintf("[%s] %s", m.cfg.SiteName, subject), body.String())
	msg.SetAddressHeader("Reply-To", c.Email, c.Name)
	return m.send(ctx, msg, "contact", c.ID)
}

// SendSignup notifies the newsletter inbox of a new subscriber.
func (m *Mailer) SendSignup(ctx context.Context, s Signup) error {
	source := s.Source
	if source == "" {
		source = "website"
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Email: %s\n", s.Email)
	fmt.Fprintf(&body, "Source: %s\n", source)
	fmt.Fprintf(&body, "Received: %s\n", m.now().UTC().Format(time.RFC1123))
	if s.ID != "" {
		fmt.Fprintf(&body, "Reference: %s\n", s.ID)
	}

	msg := m.message(m.cfg.NewsletterTo, fmt.Sprintf("[%s] New newsletter subscriber", m.cfg.SiteName), body.String())
	return m.send(ctx, msg, "newsletter", s.ID)
}

func (m *Mailer) message(to, subject, body string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.cfg.From, m.cfg.SiteName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetDateHeader("Date", m.now())
	msg.SetBody("text/plain", body)
	return msg
}

func (m *Mailer) send(ctx context.Context, msg *gomail.Message, kind, id string) error {
	if m.sender == nil {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.sender.DialAndSend(msg); err != nil {
		m.logger.Error("mail delivery failed", "kind", kind, "id", id, "error", err)
		return fmt.Errorf("sending %s mail: %w", kind, err)
	}
	m.logger.Info("mail delivered", "kind", kind, "id", id)
	return nil
}

// LogSender logs messages instead of delivering them. It stands in for
// SMTP in development.
type LogSender struct {
	Logger *slog.Logger
}

// DialAndSend implements Sender.
func (s LogSender) DialAndSend(msgs ...*gomail.Message) error {
	for _, msg := range msgs {
		s.Logger.Info("mail not sent (no SMTP host configured)",
			"to", strings.Join(msg.GetHeader("To"), ", "),
			"subject", strings.Join(msg.GetHeader("Subject"), " "),
		)
	}
	return nil
}
