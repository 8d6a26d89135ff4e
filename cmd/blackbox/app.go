package main

import (
	"context"

	"blackbox/internal/adapters/config"
	"blackbox/internal/adapters/errors/noop"
	"blackbox/internal/adapters/errors/sentry"
	"blackbox/internal/adapters/postgres"
	repository "blackbox/internal/repository/postgres"
	"blackbox/internal/scraper"
	calendarsvc "blackbox/internal/services/calendar"
	"blackbox/internal/services/scoring"
	"blackbox/pkg/errors"
	"blackbox/pkg/logger"
)

// app wires configuration, storage, scraping and scoring together for the
// CLI commands
type app struct {
	cfg     *config.Config
	tracker errors.Tracker
	db      *postgres.Client
	repo    *repository.EventRepository
	scraper *scraper.Scraper
	service *calendarsvc.Service
	engine  *scoring.Engine
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		return nil, err
	}

	tracker := initErrorTracker(cfg)
	logger.SetErrorTracker(tracker)

	db, err := postgres.NewClient(cfg.Postgres)
	if err != nil {
		return nil, err
	}

	if err := repository.InitSchema(ctx, db.DB()); err != nil {
		db.Close()
		return nil, err
	}

	repo := repository.NewEventRepository(db.DB())

	browser, err := scraper.NewBrowser(cfg.Scraper)
	if err != nil {
		db.Close()
		return nil, err
	}
	scr := scraper.New(browser, cfg.Scraper)

	engine, err := scoring.NewEngine(repo, scoring.Config{
		HalfLifeHours:    cfg.Scoring.HalfLifeHours,
		LookbackDays:     cfg.Scoring.LookbackDays,
		MinBiasThreshold: cfg.Scoring.MinBiasThreshold,
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &app{
		cfg:     cfg,
		tracker: tracker,
		db:      db,
		repo:    repo,
		scraper: scr,
		service: calendarsvc.NewService(scr, repo),
		engine:  engine,
	}, nil
}

func (a *app) Close() {
	if a.scraper != nil {
		_ = a.scraper.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
	if a.tracker != nil {
		_ = a.tracker.Flush(context.Background())
	}
	_ = logger.Sync()
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		logger.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		logger.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	logger.Info("Error tracking initialized (Sentry)")
	return tracker
}
