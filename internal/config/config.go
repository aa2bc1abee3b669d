// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/robfig/cron/v3"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

var (
	projectIDPattern  = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)
	datasetPattern    = regexp.MustCompile(`^[a-z0-9_][a-z0-9_-]*$`)
	apiVersionPattern = regexp.MustCompile(`^(1|\d{4}-\d{2}-\d{2})$`)
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"LUXORA_DB_PATH" envDefault:"./data/luxora.db"`
	SecretKey  string `env:"LUXORA_SECRET_KEY,required"`
	ServerHost string `env:"LUXORA_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"LUXORA_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"LUXORA_ENV" envDefault:"development"`
	LogLevel   string `env:"LUXORA_LOG_LEVEL" envDefault:"info"`

	// Site identity
	SiteName        string `env:"LUXORA_SITE_NAME" envDefault:"Luxora"`
	SiteURL         string `env:"LUXORA_SITE_URL" envDefault:"http://localhost:8080"`
	SiteDescription string `env:"LUXORA_SITE_DESCRIPTION" envDefault:"Luxury fashion, lifestyle and wellness, curated."`
	TwitterHandle   string `env:"LUXORA_TWITTER_HANDLE"`

	// Sanity document store
	SanityProjectID  string        `env:"LUXORA_SANITY_PROJECT_ID,required"`
	SanityDataset    string        `env:"LUXORA_SANITY_DATASET" envDefault:"production"`
	SanityAPIVersion string        `env:"LUXORA_SANITY_API_VERSION" envDefault:"2024-01-01"`
	SanityToken      string        `env:"LUXORA_SANITY_TOKEN"`
	SanityUseCDN     bool          `env:"LUXORA_SANITY_USE_CDN" envDefault:"true"`
	SanityTimeout    time.Duration `env:"LUXORA_SANITY_TIMEOUT" envDefault:"10s"`

	// Cache configuration. RedisURL is optional; without it the query cache
	// is in-memory. A CacheTTL of 0 disables query caching.
	RedisURL     string `env:"LUXORA_REDIS_URL"`
	CachePrefix  string `env:"LUXORA_CACHE_PREFIX" envDefault:"luxora:"`
	CacheTTL     int    `env:"LUXORA_CACHE_TTL" envDefault:"300"`
	CacheMaxSize int    `env:"LUXORA_CACHE_MAX_SIZE" envDefault:"10000"`

	// Feature flags, resolved once at startup
	ComingSoon bool `env:"LUXORA_COMING_SOON" envDefault:"false"`

	// Routing. RedirectsFile optionally replaces the built-in redirect table.
	RedirectsFile  string        `env:"LUXORA_REDIRECTS_FILE"`
	RequestTimeout time.Duration `env:"LUXORA_REQUEST_TIMEOUT" envDefault:"30s"`
	RateLimitRPS   float64       `env:"LUXORA_RATE_LIMIT_RPS" envDefault:"2"`
	RateLimitBurst int           `env:"LUXORA_RATE_LIMIT_BURST" envDefault:"10"`

	// Outbound mail for contact and newsletter forms
	SMTPHost            string `env:"LUXORA_SMTP_HOST"`
	SMTPPort            int    `env:"LUXORA_SMTP_PORT" envDefault:"587"`
	SMTPUsername        string `env:"LUXORA_SMTP_USERNAME"`
	SMTPPassword        string `env:"LUXORA_SMTP_PASSWORD"`
	MailFrom            string `env:"LUXORA_MAIL_FROM"`
	ContactRecipient    string `env:"LUXORA_CONTACT_RECIPIENT"`
	NewsletterRecipient string `env:"LUXORA_NEWSLETTER_RECIPIENT"`

	// hCaptcha configuration
	HCaptchaSiteKey   string `env:"LUXORA_HCAPTCHA_SITE_KEY"`
	HCaptchaSecretKey string `env:"LUXORA_HCAPTCHA_SECRET_KEY"`

	// GeoIP configuration
	GeoIPDBPath string `env:"LUXORA_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	// Engagement forwarding
	WebhookURL    string `env:"LUXORA_WEBHOOK_URL"`
	WebhookSecret string `env:"LUXORA_WEBHOOK_SECRET"`

	// Background jobs
	SitemapSchedule     string `env:"LUXORA_SITEMAP_SCHEDULE" envDefault:"*/15 * * * *"`
	MaintenanceSchedule string `env:"LUXORA_MAINTENANCE_SCHEDULE" envDefault:"0 3 * * *"`
	RetentionDays       int    `env:"LUXORA_RETENTION_DAYS" envDefault:"90"` // engagement and event log rows
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// MailEnabled returns true if an SMTP relay is configured.
func (c Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

// HCaptchaEnabled returns true if hCaptcha is configured.
func (c Config) HCaptchaEnabled() bool {
	return c.HCaptchaSiteKey != "" && c.HCaptchaSecretKey != ""
}

// GeoIPEnabled returns true if GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// WebhookEnabled returns true if engagement events are forwarded to a webhook.
func (c Config) WebhookEnabled() bool {
	return c.WebhookURL != ""
}

// Retention returns how long engagement and event log rows are kept.
func (c Config) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// CacheDuration returns the query cache TTL.
func (c Config) CacheDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// SlogLevel maps LogLevel onto a slog.Level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MinSecretKeyLength is the minimum required length for the secret key.
const MinSecretKeyLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if !hasMinimumEntropy(cfg.SecretKey) {
		slog.Warn("LUXORA_SECRET_KEY has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.SecretKey) < MinSecretKeyLength {
		return fmt.Errorf("LUXORA_SECRET_KEY must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSecretKeyLength, len(c.SecretKey))
	}
	for _, weak := range knownWeakSecrets {
		if c.SecretKey == weak {
			return fmt.Errorf("LUXORA_SECRET_KEY is a known default value and must not be used")
		}
	}

	if !projectIDPattern.MatchString(c.SanityProjectID) {
		return fmt.Errorf("LUXORA_SANITY_PROJECT_ID %q is not a valid project id", c.SanityProjectID)
	}
	if !datasetPattern.MatchString(c.SanityDataset) {
		return fmt.Errorf("LUXORA_SANITY_DATASET %q is not a valid dataset name", c.SanityDataset)
	}
	if !apiVersionPattern.MatchString(c.SanityAPIVersion) {
		return fmt.Errorf("LUXORA_SANITY_API_VERSION %q must be \"1\" or a YYYY-MM-DD date", c.SanityAPIVersion)
	}

	if c.MailEnabled() && (c.MailFrom == "" || c.ContactRecipient == "") {
		return fmt.Errorf("LUXORA_MAIL_FROM and LUXORA_CONTACT_RECIPIENT are required when LUXORA_SMTP_HOST is set")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("LUXORA_CACHE_TTL must not be negative")
	}
	if c.RetentionDays < 1 {
		return fmt.Errorf("LUXORA_RETENTION_DAYS must be at least 1")
	}
	for name, spec := range map[string]string{
		"LUXORA_SITEMAP_SCHEDULE":     c.SitemapSchedule,
		"LUXORA_MAINTENANCE_SCHEDULE": c.MaintenanceSchedule,
	} {
		if _, err := cron.ParseStandard(spec); err != nil {
			return fmt.Errorf("%s %q is not a valid cron expression: %w", name, spec, err)
		}
	}

	if c.WebhookEnabled() {
		u, err := url.Parse(c.WebhookURL)
		if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
			return fmt.Errorf("LUXORA_WEBHOOK_URL %q must be an absolute http(s) URL", c.WebhookURL)
		}
	}

	c.SiteURL = strings.TrimRight(c.SiteURL, "/")
	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
