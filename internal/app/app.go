package app

import (
	"context"
	"fmt"

	"github.com/content-synth/internal/agent/generator"
	"github.com/content-synth/internal/ai"
	"github.com/content-synth/internal/catalog"
	"github.com/content-synth/internal/config"
	"github.com/content-synth/internal/media/unsplash"
	"github.com/content-synth/internal/storage"
	"github.com/content-synth/internal/storage/sqlite"
	"github.com/content-synth/internal/tracker"
	"github.com/content-synth/pkg/logger"
	"github.com/content-synth/pkg/ratelimit"
)

// App holds the wired components shared by the CLI and the server
type App struct {
	Config     *config.Config
	Catalog    *catalog.Catalog
	Limiter    *ratelimit.MultiLimiter
	Repository storage.Repository
	Tracker    *tracker.SheetsTracker
	Agent      *generator.Agent
	Log        *logger.Logger
}

// OpenRepository opens and migrates the configured database, or returns nil when disabled
func OpenRepository(cfg *config.Config) (storage.Repository, error) {
	if !cfg.Database.Enabled {
		return nil, nil
	}
	repo, err := sqlite.New(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := repo.Migrate(); err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return repo, nil
}

// New validates the configuration and wires every component for generation
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cat, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}

	limiter := ratelimit.New(cfg.Limits())

	repo, err := OpenRepository(cfg)
	if err != nil {
		return nil, err
	}

	aiClient := ai.NewClient(cfg.Anthropic, limiter, log)
	agent, err := generator.NewAgent(cat, aiClient, log)
	if err != nil {
		return nil, err
	}
	if repo != nil {
		agent.SetRepository(repo)
	}

	if cfg.Media.Enabled && cfg.Media.Provider == "unsplash" {
		images := unsplash.NewClient(cfg.Media.UnsplashAPIKey, log, unsplash.WithRateLimiter(limiter))
		agent.SetImageFinder(images, cfg.Media)
	}

	a := &App{
		Config:     cfg,
		Catalog:    cat,
		Limiter:    limiter,
		Repository: repo,
		Agent:      agent,
		Log:        log,
	}

	t, err := tracker.NewSheetsTracker(ctx, cfg.Tracker, limiter, log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize tracker: %w", err)
	}
	if t != nil {
		a.Tracker = t
		agent.SetTracker(t)
	}

	return a, nil
}

// Close releases the database connection
func (a *App) Close() error {
	if a.Repository == nil {
		return nil
	}
	return a.Repository.Close()
}
