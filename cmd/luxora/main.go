// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/luxora-go/internal/cache"
	"github.com/olegiv/luxora-go/internal/captcha"
	"github.com/olegiv/luxora-go/internal/config"
	"github.com/olegiv/luxora-go/internal/content"
	"github.com/olegiv/luxora-go/internal/engagement"
	"github.com/olegiv/luxora-go/internal/geoip"
	"github.com/olegiv/luxora-go/internal/handler"
	"github.com/olegiv/luxora-go/internal/logging"
	"github.com/olegiv/luxora-go/internal/mailer"
	"github.com/olegiv/luxora-go/internal/middleware"
	"github.com/olegiv/luxora-go/internal/redirect"
	"github.com/olegiv/luxora-go/internal/render"
	"github.com/olegiv/luxora-go/internal/richtext"
	"github.com/olegiv/luxora-go/internal/sanity"
	"github.com/olegiv/luxora-go/internal/scheduler"
	"github.com/olegiv/luxora-go/internal/seo"
	"github.com/olegiv/luxora-go/internal/store"
	"github.com/olegiv/luxora-go/internal/version"
	"github.com/olegiv/luxora-go/internal/webhook"
	"github.com/olegiv/luxora-go/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Luxora - luxury editorial and affiliate storefront\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LUXORA_SECRET_KEY          Cross-origin protection key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LUXORA_SANITY_PROJECT_ID   Sanity project id (required)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LUXORA_SANITY_DATASET      Sanity dataset (default: production)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LUXORA_SANITY_TOKEN        Sanity read token (optional, disables the CDN)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LUXORA_DB_PATH             SQLite database path (default: ./data/luxora.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LUXORA_SERVER_PORT         Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LUXORA_ENV                 Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LUXORA_REDIS_URL           Redis URL for the query cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LUXORA_COMING_SOON         Serve the launch gate instead of pages (default: false)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LUXORA_SMTP_HOST           SMTP relay for contact and newsletter mail (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LUXORA_WEBHOOK_URL         Forward engagement events to this endpoint (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	if *showVersion {
		_, _ = fmt.Println(versionInfo.String())
		os.Exit(0)
	}

	if err := run(versionInfo); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(versionInfo version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(logging.New(os.Stdout, cfg.SlogLevel(), cfg.IsDevelopment()))
	slog.SetDefault(logger)

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o750); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the event log table
	logger = slog.New(logging.NewEventLogHandler(logging.New(os.Stdout, cfg.SlogLevel(), cfg.IsDevelopment()), db))
	slog.SetDefault(logger)

	cacheResult, err := cache.NewCacheWithInfo(cache.Config{
		RedisURL:         cfg.RedisURL,
		Prefix:           cfg.CachePrefix,
		DefaultTTL:       cfg.CacheDuration(),
		MaxSize:          cfg.CacheMaxSize,
		FallbackToMemory: true,
	})
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() { _ = cacheResult.Cache.Close() }()
	slog.Info("cache ready", "backend", cacheResult.Backend, "fallback", cacheResult.IsFallback)

	geo, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		slog.Warn("geoip database unavailable, countries will be empty", "path", cfg.GeoIPDBPath, "error", err)
	}
	defer func() { _ = geo.Close() }()

	redirectTable, err := redirect.Load(cfg.RedirectsFile)
	if err != nil {
		return fmt.Errorf("loading redirects: %w", err)
	}
	slog.Info("redirect table loaded", "rules", redirectTable.Len())

	// Document store
	sanityClient := sanity.NewClient(sanity.Config{
		ProjectID:  cfg.SanityProjectID,
		Dataset:    cfg.SanityDataset,
		APIVersion: cfg.SanityAPIVersion,
		Token:      cfg.SanityToken,
		UseCDN:     cfg.SanityUseCDN,
		Timeout:    cfg.SanityTimeout,
	}, logger)
	repo := sanity.NewRepository(sanity.NewCachedClient(sanityClient, cacheResult.Cache, cfg.CacheDuration(), logger))
	normalizer := content.NewNormalizer(sanity.Images{ProjectID: cfg.SanityProjectID, Dataset: cfg.SanityDataset})

	verifier := captcha.New(cfg.HCaptchaSiteKey, cfg.HCaptchaSecretKey, logger)

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS: templatesFS,
		IsDev:       cfg.IsDevelopment(),
		Site: render.Site{
			Name:           cfg.SiteName,
			ComingSoon:     cfg.ComingSoon,
			CaptchaSiteKey: verifier.SiteKey(),
		},
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("loading static files: %w", err)
	}

	mailCfg := mailer.Config{
		Host:         cfg.SMTPHost,
		Port:         cfg.SMTPPort,
		Username:     cfg.SMTPUsername,
		Password:     cfg.SMTPPassword,
		From:         cfg.MailFrom,
		ContactTo:    cfg.ContactRecipient,
		NewsletterTo: cfg.NewsletterRecipient,
		SiteName:     cfg.SiteName,
	}
	var mail *mailer.Mailer
	if !cfg.MailEnabled() && cfg.IsDevelopment() {
		mail = mailer.NewWithSender(mailCfg, mailer.LogSender{Logger: logger}, logger)
	} else {
		mail = mailer.New(mailCfg, logger)
	}
	if !mail.Enabled() {
		slog.Warn("mail delivery is not configured; contact and newsletter submissions will fail")
	}

	site := seo.SiteConfig{
		SiteName:        cfg.SiteName,
		SiteURL:         cfg.SiteURL,
		SiteDescription: cfg.SiteDescription,
		TwitterHandle:   cfg.TwitterHandle,
	}

	redirects := middleware.NewRedirects(redirectTable)
	seoHandler := handler.NewSEOHandler(repo, cfg.SiteURL, cfg.ComingSoon, logger).
		WithSharedCache(cacheResult.Cache, 24*time.Hour)

	emitter := engagement.MultiEmitter{engagement.NewStoreEmitter(db), engagement.LogEmitter{Logger: logger}}
	if cfg.WebhookEnabled() {
		dispatcher := webhook.NewDispatcher(webhook.Config{URL: cfg.WebhookURL, Secret: cfg.WebhookSecret}, logger)
		dispatcher.Start(context.Background())
		defer dispatcher.Stop()
		emitter = append(emitter, dispatcher)
	}

	a := &app{
		cfg:       cfg,
		logger:    logger,
		staticFS:  staticFS,
		redirects: redirects,
		frontend:  handler.NewFrontendHandler(repo, normalizer, richtext.New(normalizer), renderer, site, logger),
		forms:     handler.NewFormsHandler(db, mail, verifier, logger),
		seo:       seoHandler,
		health:    handler.NewHealthHandler(db, cacheResult.Cache, versionInfo),
		collector: engagement.NewCollector(emitter, cacheResult.Cache, geo, logger),
		limiter:   middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	}

	sched := scheduler.New(logger)
	jobs := []scheduler.Job{
		scheduler.SitemapJob(seoHandler, cfg.SitemapSchedule),
		scheduler.RetentionJob(store.New(db), cfg.Retention(), cfg.MaintenanceSchedule, logger),
	}
	if cfg.GeoIPEnabled() {
		jobs = append(jobs, scheduler.ReloadJob("geoip", "Reload the GeoIP database when the file changes", geo, cfg.MaintenanceSchedule))
	}
	if cfg.RedirectsFile != "" {
		jobs = append(jobs, scheduler.RedirectsJob(cfg.RedirectsFile, redirects, "@every 5m", logger))
	}
	for _, job := range jobs {
		if err := sched.Add(job); err != nil {
			return fmt.Errorf("scheduling %s: %w", job.Name, err)
		}
	}
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           a.routes(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", versionInfo.String(), "coming_soon", cfg.ComingSoon)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Warm the sitemap without delaying startup.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := seoHandler.Refresh(ctx); err != nil {
			slog.Warn("initial sitemap build failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
