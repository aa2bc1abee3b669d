// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package engagement

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/mileusna/useragent"

	"github.com/olegiv/luxora-go/internal/cache"
	"github.com/olegiv/luxora-go/internal/util"
)

// Device classes.
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceBot     = "bot"
)

const (
	maxBeaconBytes = 4 << 10
	maxElapsed     = 24 * time.Hour
	dedupeTTL      = 6 * time.Hour
	dedupePrefix   = "engagement:"
)

// CountryLookup resolves an IP to an ISO country code.
type CountryLookup interface {
	Country(ip string) string
}

// Beacon is the JSON body posted by the browser tracker.
type Beacon struct {
	Kind           string `json:"kind"`
	PageViewID     string `json:"pageViewId"`
	Path           string `json:"path"`
	Milestone      int    `json:"milestone,omitempty"`
	ElapsedSeconds int64  `json:"elapsedSeconds,omitempty"`
	Retailer       string `json:"retailer,omitempty"`
	TargetURL      string `json:"targetUrl,omitempty"`
}

// Validate checks a beacon's fields for its kind.
func (b Beacon) Validate() error {
	if _, err := uuid.Parse(b.PageViewID); err != nil {
		return errors.New("pageViewId must be a UUID")
	}
	if !util.IsLocalPath(b.Path) {
		return errors.New("path must be a site-relative path")
	}
	switch b.Kind {
	case KindScrollDepth:
		if !IsMilestone(b.Milestone) {
			return fmt.Errorf("milestone %d is not one of %v", b.Milestone, Milestones)
		}
		if b.ElapsedSeconds < 0 || time.Duration(b.ElapsedSeconds)*time.Second > maxElapsed {
			return errors.New("elapsedSeconds out of range")
		}
	case KindAffiliateClick:
		u, err := url.Parse(b.TargetURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.New("targetUrl must be an absolute http(s) URL")
		}
	default:
		return fmt.Errorf("unknown kind %q", b.Kind)
	}
	return nil
}

// Collector is the HTTP ingest for browser beacons. Scroll milestones are
// de-duplicated per page view through the cache, bots are ignored, and
// accepted events are enriched with device class and country.
type Collector struct {
	emitter Emitter
	dedupe  cache.Cacher
	geo     CountryLookup
	logger  *slog.Logger
	now     func() time.Time
}

// NewCollector creates a Collector. dedupe and geo may be nil.
func NewCollector(e Emitter, dedupe cache.Cacher, geo CountryLookup, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{emitter: e, dedupe: dedupe, geo: geo, logger: logger, now: time.Now}
}

// ServeHTTP accepts one beacon. Responses carry no body on success.
func (c *Collector) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBeaconBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}
	if len(body) > maxBeaconBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "beacon too large")
		return
	}

	var b Beacon
	if err := json.Unmarshal(body, &b); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := b.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	device := DeviceClass(r.UserAgent())
	if device == DeviceBot {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	ctx := r.Context()
	var dedupeKey string
	if b.Kind == KindScrollDepth && c.dedupe != nil {
		key := dedupePrefix + b.PageViewID + ":" + strconv.Itoa(b.Milestone)
		fresh, err := c.dedupe.Add(ctx, key, []byte{1}, dedupeTTL)
		switch {
		case err != nil:
			c.logger.Warn("engagement dedupe failed", "error", err)
		case !fresh:
			w.WriteHeader(http.StatusNoContent)
			return
		default:
			dedupeKey = key
		}
	}

	e := Event{
		Kind:           b.Kind,
		PageViewID:     b.PageViewID,
		Path:           b.Path,
		Milestone:      b.Milestone,
		ElapsedSeconds: b.ElapsedSeconds,
		Retailer:       b.Retailer,
		TargetURL:      b.TargetURL,
		DeviceType:     device,
		At:             c.now(),
	}
	if c.geo != nil {
		e.Country = c.geo.Country(util.ClientIP(r))
	}

	if err := c.emitter.Emit(ctx, e); err != nil {
		c.logger.Error("emitting engagement event", "error", err, "kind", e.Kind)
		// Release the milestone so the client's retry is accepted.
		if dedupeKey != "" {
			if delErr := c.dedupe.Delete(ctx, dedupeKey); delErr != nil {
				c.logger.Warn("engagement dedupe release failed", "error", delErr)
			}
		}
		writeError(w, http.StatusInternalServerError, "could not record event")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeviceClass maps a User-Agent to a device class.
func DeviceClass(ua string) string {
	parsed := useragent.Parse(ua)
	switch {
	case parsed.Bot:
		return DeviceBot
	case parsed.Tablet:
		return DeviceTablet
	case parsed.Mobile:
		return DeviceMobile
	default:
		return DeviceDesktop
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": msg})
}
