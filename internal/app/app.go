// Package app wires configuration, storage, and services together. All
// dependencies are constructed once here and injected; no service reaches
// for a global.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/optionsintel/internal/common"
	"github.com/ternarybob/optionsintel/internal/interfaces"
	"github.com/ternarybob/optionsintel/internal/services/cache"
	"github.com/ternarybob/optionsintel/internal/services/intelligence"
	"github.com/ternarybob/optionsintel/internal/services/orchestrator"
	"github.com/ternarybob/optionsintel/internal/services/patterns"
	"github.com/ternarybob/optionsintel/internal/services/research"
	"github.com/ternarybob/optionsintel/internal/services/router"
	badgerstorage "github.com/ternarybob/optionsintel/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	IntelligenceService interfaces.IntelligenceService
	CacheService        interfaces.CacheService
	PatternService      interfaces.PatternService
	ResearchClient      interfaces.ResearchProvider
	Router              interfaces.ResearchRouter
	Orchestrator        interfaces.OrchestratorService

	cleanupCron *cron.Cron
}

// New creates and initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	storageManager, err := badgerstorage.NewManager(logger, &cfg.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage manager: %w", err)
	}
	app.StorageManager = storageManager

	app.IntelligenceService = intelligence.NewService(storageManager.IntelligenceStorage(), logger)

	app.CacheService = cache.NewService(
		storageManager.CacheStorage(),
		app.IntelligenceService,
		cache.Options{
			MaxEarningsQuarters: cfg.Cache.MaxEarningsQuarters,
			MaxNewsArticles:     cfg.Cache.MaxNewsArticles,
			NewsMaxAgeDays:      cfg.Cache.NewsMaxAgeDays,
		},
		logger,
	)

	app.PatternService = patterns.NewService(storageManager.PatternStorage(), logger)

	researchOpts := []research.ClientOption{
		research.WithLogger(logger),
		research.WithRateLimit(cfg.Research.RateLimit),
	}
	if cfg.Research.BaseURL != "" {
		researchOpts = append(researchOpts, research.WithBaseURL(cfg.Research.BaseURL))
	}
	if cfg.Research.RequestTimeout > 0 {
		researchOpts = append(researchOpts, research.WithHTTPClient(&http.Client{Timeout: cfg.Research.RequestTimeout}))
	}
	app.ResearchClient = research.NewClient(cfg.Research.APIKey, researchOpts...)

	app.Router = router.NewService(
		app.PatternService,
		app.ResearchClient,
		router.Options{
			MaxRAGAgeDays:      cfg.Router.MaxRAGAgeDays,
			RelevanceThreshold: cfg.Router.RelevanceThreshold,
			HybridAgeDays:      cfg.Router.HybridAgeDays,
			EnableHybrid:       cfg.Router.EnableHybrid,
			ResearchDepth:      cfg.Research.Depth,
			ResearchMaxResults: cfg.Research.MaxResults,
		},
		logger,
	)

	app.Orchestrator = orchestrator.NewService(
		app.PatternService,
		app.CacheService,
		app.Router,
		orchestrator.Timeouts{
			Internal: cfg.Orchestrator.InternalTimeout,
			Intel:    cfg.Orchestrator.IntelTimeout,
			Research: cfg.Orchestrator.ResearchTimeout,
		},
		logger,
	)

	logger.Info().
		Str("environment", cfg.Environment).
		Str("storage_path", cfg.Storage.Badger.Path).
		Bool("research_configured", cfg.Research.APIKey != "").
		Msg("Application initialization complete")

	return app, nil
}

// StartCleanupScheduler runs the cache expiry sweep on the configured cron
// schedule. Call Close to stop it.
func (a *App) StartCleanupScheduler() error {
	if a.Config.Cache.CleanupSchedule == "" {
		a.Logger.Debug().Msg("Cleanup scheduler disabled (no schedule configured)")
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(a.Config.Cache.CleanupSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		removed, err := a.CacheService.Cleanup(ctx)
		if err != nil {
			a.Logger.Warn().Err(err).Msg("Scheduled cache cleanup failed")
			return
		}
		if err := a.StorageManager.RunValueLogGC(); err != nil {
			a.Logger.Warn().Err(err).Msg("Value log GC failed")
		}
		a.Logger.Info().Int("removed", removed).Msg("Scheduled cache cleanup complete")
	})
	if err != nil {
		return fmt.Errorf("invalid cleanup schedule %q: %w", a.Config.Cache.CleanupSchedule, err)
	}

	c.Start()
	a.cleanupCron = c
	a.Logger.Info().Str("schedule", a.Config.Cache.CleanupSchedule).Msg("Cleanup scheduler started")
	return nil
}

// Close stops the scheduler and closes storage.
func (a *App) Close() error {
	if a.cleanupCron != nil {
		ctx := a.cleanupCron.Stop()
		select {
		case <-ctx.Done():
		case <-time.After(5 * time.Second):
			a.Logger.Warn().Msg("Timed out waiting for cleanup job to finish")
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
	}

	a.Logger.Info().Msg("Application shutdown complete")
	return nil
}
