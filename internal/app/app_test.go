package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/content-synth/internal/config"
	"github.com/content-synth/internal/models"
	"github.com/content-synth/pkg/logger"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Database:  config.DatabaseConfig{Enabled: true, Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "app.db")},
		Anthropic: config.AnthropicConfig{APIKey: "key", Model: "claude-sonnet-4-20250514", MaxTokens: 512},
		Media:     config.MediaConfig{Enabled: true, Provider: "unsplash", UnsplashAPIKey: "access", FallbackToText: true},
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	cfg := testConfig(t)
	cfg.Anthropic.APIKey = ""

	_, err := New(context.Background(), cfg, logger.Nop())
	assert.ErrorIs(t, err, models.ErrConfigurationMissing)
}

func TestNewWiresComponents(t *testing.T) {
	a, err := New(context.Background(), testConfig(t), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	assert.NotNil(t, a.Agent)
	assert.NotNil(t, a.Repository)
	assert.Nil(t, a.Tracker)
	assert.NotEmpty(t, a.Catalog.Platforms())
}

func TestOpenRepositoryDisabled(t *testing.T) {
	repo, err := OpenRepository(&config.Config{})
	assert.NoError(t, err)
	assert.Nil(t, repo)
}
