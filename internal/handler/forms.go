// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/olegiv/luxora-go/internal/captcha"
	"github.com/olegiv/luxora-go/internal/mailer"
	"github.com/olegiv/luxora-go/internal/store"
	"github.com/olegiv/luxora-go/internal/util"
)

// maxFormBytes bounds a contact or newsletter request body.
const maxFormBytes = 16 << 10

// Submission statuses.
const (
	StatusReceived = "received"
)

// ContactRequest is the JSON body of POST /api/contact. Website is a
// honeypot that humans never fill in.
type ContactRequest struct {
	Name         string `json:"name" validate:"required,max=120"`
	Email        string `json:"email" validate:"required,email,max=254"`
	Subject      string `json:"subject" validate:"max=200"`
	Message      string `json:"message" validate:"required,min=10,max=5000"`
	Website      string `json:"website"`
	CaptchaToken string `json:"captchaToken"`
}

// NewsletterRequest is the JSON body of POST /api/newsletter.
type NewsletterRequest struct {
	Email        string `json:"email" validate:"required,email,max=254"`
	Source       string `json:"source" validate:"max=64"`
	Website      string `json:"website"`
	CaptchaToken string `json:"captchaToken"`
}

// Mailer delivers validated submissions. *mailer.Mailer implements it.
type Mailer interface {
	SendContact(ctx context.Context, c mailer.ContactMessage) error
	SendSignup(ctx context.Context, s mailer.Signup) error
}

// CaptchaVerifier checks captcha tokens. *captcha.Verifier implements it.
type CaptchaVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

// FormsHandler handles the contact and newsletter endpoints.
type FormsHandler struct {
	queries  *store.Queries
	mailer   Mailer
	captcha  CaptchaVerifier
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

// NewFormsHandler creates a new FormsHandler. captcha may be nil.
func NewFormsHandler(db store.DBTX, m Mailer, cv CaptchaVerifier, logger *slog.Logger) *FormsHandler {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	return &FormsHandler{
		queries:  store.New(db),
		mailer:   m,
		captcha:  cv,
		validate: v,
		logger:   logger,
		now:      time.Now,
	}
}

// Contact handles POST /api/contact.
func (h *FormsHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Website != "" {
		h.logger.Info("contact honeypot triggered", "ip", util.ClientIP(r))
		writeJSONSuccess(w, map[string]any{"message": contactThanks})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)

	if msg := h.validationMessage(req); msg != "" {
		writeJSONError(w, http.StatusBadRequest, msg)
		return
	}
	if !h.verifyCaptcha(w, r, req.CaptchaToken) {
		return
	}

	ctx := r.Context()
	sub, err := h.queries.CreateContactSubmission(ctx, store.CreateContactSubmissionParams{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Subject:   req.Subject,
		Message:   req.Message,
		IpAddress: util.ClientIP(r),
		UserAgent: r.UserAgent(),
		Status:    StatusReceived,
		CreatedAt: h.now().UTC(),
	})
	if err != nil {
		h.logger.Error("failed to store contact submission", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to send message. Please try again later.")
		return
	}

	err = h.mailer.SendContact(ctx, mailer.ContactMessage{
		ID:      sub.ID,
		Name:    sub.Name,
		Email:   sub.Email,
		Subject: sub.Subject,
		Message: sub.Message,
	})
	if err != nil {
		if markErr := h.queries.MarkContactSubmissionFailed(ctx, sub.ID); markErr != nil {
			h.logger.Error("failed to mark contact submission failed", "id", sub.ID, "error", markErr)
		}
		h.logger.Error("contact delivery failed", "id", sub.ID, "error", err, "category", "mail")
		writeJSONError(w, http.StatusInternalServerError, "Failed to send message. Please try again later.")
		return
	}
	if err := h.queries.MarkContactSubmissionDelivered(ctx, sub.ID, h.now().UTC()); err != nil {
		h.logger.Error("failed to mark contact submission delivered", "id", sub.ID, "error", err)
	}

	writeJSONSuccess(w, map[string]any{"message": contactThanks})
}

const (
	contactThanks    = "Thank you for your message. We'll be in touch soon."
	newsletterThanks = "Thank you for subscribing!"
)

// Newsletter handles POST /api/newsletter. Subscribing an address twice
// succeeds without a second notification. A signup whose notification
// fails is removed so the user can resubmit.
func (h *FormsHandler) Newsletter(w http.ResponseWriter, r *http.Request) {
	var req NewsletterRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Website != "" {
		h.logger.Info("newsletter honeypot triggered", "ip", util.ClientIP(r))
		writeJSONSuccess(w, map[string]any{"message": newsletterThanks})
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Source = strings.TrimSpace(req.Source)

	if msg := h.validationMessage(req); msg != "" {
		writeJSONError(w, http.StatusBadRequest, msg)
		return
	}
	if !h.verifyCaptcha(w, r, req.CaptchaToken) {
		return
	}

	ctx := r.Context()
	id := uuid.NewString()
	sub, err := h.queries.UpsertNewsletterSubscriber(ctx, store.UpsertNewsletterSubscriberParams{
		ID:        id,
		Email:     req.Email,
		Source:    req.Source,
		CreatedAt: h.now().UTC(),
	})
	if err != nil {
		h.logger.Error("failed to store newsletter subscriber", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Subscription failed. Please try again later.")
		return
	}
	if sub.ID != id {
		writeJSONSuccess(w, map[string]any{"message": newsletterThanks})
		return
	}

	if err := h.mailer.SendSignup(ctx, mailer.Signup{ID: sub.ID, Email: sub.Email, Source: sub.Source}); err != nil {
		h.logger.Error("newsletter delivery failed", "id", sub.ID, "error", err, "category", "mail")
		if delErr := h.queries.DeleteNewsletterSubscriber(ctx, sub.ID); delErr != nil {
			h.logger.Error("failed to remove undelivered subscriber", "id", sub.ID, "error", delErr)
		}
		writeJSONError(w, http.StatusInternalServerError, "Subscription failed. Please try again later.")
		return
	}

	writeJSONSuccess(w, map[string]any{"message": newsletterThanks})
}

// decode reads a JSON body into dst and writes the error response on failure.
func (h *FormsHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFormBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			writeJSONError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		case errors.Is(err, io.EOF):
			writeJSONError(w, http.StatusBadRequest, "Request body is required")
		default:
			writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		}
		return false
	}
	return true
}

// validationMessage returns a message for the first failing field, or "".
func (h *FormsHandler) validationMessage(v any) string {
	err := h.validate.Struct(v)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return util.Capitalize(fe.Field()) + " is required"
	case "email":
		return "Please enter a valid email address"
	case "min":
		return util.Capitalize(fe.Field()) + " must be at least " + fe.Param() + " characters"
	case "max":
		return util.Capitalize(fe.Field()) + " must be at most " + fe.Param() + " characters"
	}
	return util.Capitalize(fe.Field()) + " is invalid"
}

// verifyCaptcha writes a 400 when the token is missing or rejected and a
// 500 when the verification service failed.
func (h *FormsHandler) verifyCaptcha(w http.ResponseWriter, r *http.Request, token string) bool {
	if h.captcha == nil {
		return true
	}
	err := h.captcha.Verify(r.Context(), token, util.ClientIP(r))
	switch {
	case err == nil:
		return true
	case errors.Is(err, captcha.ErrMissingToken):
		writeJSONError(w, http.StatusBadRequest, "Please complete the captcha")
	case errors.Is(err, captcha.ErrRejected):
		writeJSONError(w, http.StatusBadRequest, "Captcha verification failed")
	default:
		h.logger.Error("captcha verification error", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Captcha verification failed. Please try again later.")
	}
	return false
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}
