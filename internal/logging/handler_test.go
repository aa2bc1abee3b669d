// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/olegiv/luxora-go/internal/store"
	"github.com/olegiv/luxora-go/internal/testutil"
)

func testDB(t *testing.T) *sql.DB {
	return testutil.TestDB(t)
}

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

func listEvents(t *testing.T, db *sql.DB) []store.Event {
	t.Helper()
	events, err := store.New(db).ListEvents(context.Background(), store.ListEventsParams{Limit: 10})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	return events
}

func TestEventLogHandler_ErrorLevel(t *testing.T) {
	db := testDB(t)
	logger := slog.New(NewEventLogHandler(discardHandler{}, db))

	logger.Error("sanity query failed", "status", 502)

	events := listEvents(t, db)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Level != LevelError {
		t.Errorf("Level = %q, want %q", events[0].Level, LevelError)
	}
	if events[0].Category != CategorySanity {
		t.Errorf("Category = %q, want %q", events[0].Category, CategorySanity)
	}

	var meta map[string]string
	if err := json.Unmarshal([]byte(events[0].Metadata), &meta); err != nil {
		t.Fatalf("metadata is not JSON: %v", err)
	}
	if meta["status"] != "502" {
		t.Errorf("metadata status = %q, want 502", meta["status"])
	}
}

func TestEventLogHandler_BelowThresholdNotCaptured(t *testing.T) {
	db := testDB(t)
	logger := slog.New(NewEventLogHandler(discardHandler{}, db))

	logger.Info("server started", "port", 8080)
	logger.Debug("rendering page")

	if events := listEvents(t, db); len(events) != 0 {
		t.Errorf("expected 0 events below WARN, got %d", len(events))
	}
}

func TestEventLogHandler_CustomLevel(t *testing.T) {
	db := testDB(t)
	logger := slog.New(NewEventLogHandlerWithLevel(discardHandler{}, db, slog.LevelInfo))

	logger.Info("cache warmed")

	events := listEvents(t, db)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Category != CategoryCache {
		t.Errorf("Category = %q, want %q", events[0].Category, CategoryCache)
	}
}

func TestEventLogHandler_ExplicitCategoryAndWithAttrs(t *testing.T) {
	db := testDB(t)
	logger := slog.New(NewEventLogHandler(discardHandler{}, db)).With("component", "contact")

	logger.Warn("delivery slow", "category", CategoryMail)

	events := listEvents(t, db)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Category != CategoryMail {
		t.Errorf("Category = %q, want %q", events[0].Category, CategoryMail)
	}
	if strings.Contains(events[0].Metadata, "category") {
		t.Errorf("metadata should not repeat the category: %s", events[0].Metadata)
	}
	if !strings.Contains(events[0].Metadata, `"component":"contact"`) {
		t.Errorf("metadata should carry logger attrs: %s", events[0].Metadata)
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	slog.New(New(&buf, slog.LevelInfo, false)).Info("hello", "k", "v")
	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("production handler should emit JSON, got %q", buf.String())
	}

	buf.Reset()
	slog.New(New(&buf, slog.LevelInfo, true)).Info("hello", "k", "v")
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("development handler should emit text, got %q", buf.String())
	}

	buf.Reset()
	slog.New(New(&buf, slog.LevelWarn, true)).Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info should be filtered at warn level, got %q", buf.String())
	}
}
