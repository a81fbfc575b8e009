package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/content-synth/internal/catalog"
	"github.com/content-synth/internal/models"
	"github.com/content-synth/pkg/logger"
	"github.com/content-synth/pkg/ratelimit"
)

// Config represents the application configuration
type Config struct {
	Database   DatabaseConfig             `mapstructure:"database"`
	Anthropic  AnthropicConfig            `mapstructure:"anthropic"`
	RateLimit  RateLimitConfig            `mapstructure:"rate_limit"`
	Logging    LoggingConfig              `mapstructure:"logging"`
	Generation GenerationConfig           `mapstructure:"generation"`
	Platforms  []catalog.PlatformOverride `mapstructure:"platforms"`
	Media      MediaConfig                `mapstructure:"media"`
	Tracker    TrackerConfig              `mapstructure:"tracker"`
	Server     ServerConfig               `mapstructure:"server"`
	Scheduler  SchedulerConfig            `mapstructure:"scheduler"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Driver  string `mapstructure:"driver"` // only sqlite is supported
	DSN     string `mapstructure:"dsn"`
}

// AnthropicConfig holds Claude API settings
type AnthropicConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

// RateLimitConfig holds rate limiting settings
type RateLimitConfig struct {
	AnthropicRequestsPerMinute int `mapstructure:"anthropic_requests_per_minute"`
	UnsplashRequestsPerHour    int `mapstructure:"unsplash_requests_per_hour"`
	SheetsRequestsPerMinute    int `mapstructure:"sheets_requests_per_minute"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or console
	Output string `mapstructure:"output"` // stdout, stderr or file path
}

// GenerationConfig holds defaults for hashtag assembly and length checks
type GenerationConfig struct {
	DefaultHashtagCount int `mapstructure:"default_hashtag_count"` // used for unknown platforms
	LengthTolerance     int `mapstructure:"length_tolerance"`      // chars past the limit still reported as a warning
}

// MediaConfig holds image settings
type MediaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Provider       string `mapstructure:"provider"` // "unsplash" or "none"
	UnsplashAPIKey string `mapstructure:"unsplash_api_key"`
	FallbackToText bool   `mapstructure:"fallback_to_text"` // If the image fails, keep the text-only result
	Width          int    `mapstructure:"width"`
	Height         int    `mapstructure:"height"`
}

// TrackerConfig holds Google Sheets tracker settings
type TrackerConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	SpreadsheetID      string `mapstructure:"spreadsheet_id"`
	SheetName          string `mapstructure:"sheet_name"`
	CredentialsFile    string `mapstructure:"credentials_file"`
	ServiceAccountJSON string `mapstructure:"service_account_json"`
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Port               int           `mapstructure:"port"`
	Mode               string        `mapstructure:"mode"` // gin mode: debug, release or test
	SessionIdleTimeout time.Duration `mapstructure:"session_idle_timeout"`
}

// SchedulerConfig holds background job schedules
type SchedulerConfig struct {
	SessionCleanupCron string `mapstructure:"session_cleanup_cron"`
	TrackerSyncCron    string `mapstructure:"tracker_sync_cron"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	// Load .env file if present (ignore errors if not found)
	_ = godotenv.Load()
	_ = godotenv.Load(".env.local")

	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".content-synth"))
		}
	}

	v.SetEnvPrefix("SYNTH")
	v.AutomaticEnv()

	// Explicit bindings for nested keys (Viper doesn't auto-bind underscored nested keys)
	v.BindEnv("anthropic.api_key", "SYNTH_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	v.BindEnv("anthropic.model", "SYNTH_ANTHROPIC_MODEL")
	v.BindEnv("database.enabled", "SYNTH_DATABASE_ENABLED")
	v.BindEnv("database.dsn", "SYNTH_DATABASE_DSN")
	v.BindEnv("logging.level", "SYNTH_LOGGING_LEVEL")
	v.BindEnv("tracker.enabled", "SYNTH_TRACKER_ENABLED")
	v.BindEnv("tracker.spreadsheet_id", "SYNTH_TRACKER_SPREADSHEET_ID")
	v.BindEnv("tracker.credentials_file", "SYNTH_TRACKER_CREDENTIALS_FILE")
	v.BindEnv("tracker.service_account_json", "SYNTH_TRACKER_SERVICE_ACCOUNT_JSON")
	v.BindEnv("media.enabled", "SYNTH_MEDIA_ENABLED")
	v.BindEnv("media.unsplash_api_key", "SYNTH_MEDIA_UNSPLASH_API_KEY")
	v.BindEnv("server.port", "SYNTH_SERVER_PORT", "PORT")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.enabled", true)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./data/content-synth.db")

	// Anthropic defaults
	v.SetDefault("anthropic.model", "claude-sonnet-4-20250514")
	v.SetDefault("anthropic.max_tokens", 512)
	v.SetDefault("anthropic.temperature", 0.7)

	// Rate limit defaults
	v.SetDefault("rate_limit.anthropic_requests_per_minute", 10)
	v.SetDefault("rate_limit.unsplash_requests_per_hour", 50)
	v.SetDefault("rate_limit.sheets_requests_per_minute", 60)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stdout")

	// Generation defaults
	v.SetDefault("generation.default_hashtag_count", catalog.DefaultHashtagCount)
	v.SetDefault("generation.length_tolerance", catalog.DefaultTolerance)

	// Media defaults
	v.SetDefault("media.enabled", false)
	v.SetDefault("media.provider", "unsplash")
	v.SetDefault("media.fallback_to_text", true)
	v.SetDefault("media.width", 1024)
	v.SetDefault("media.height", 1024)

	// Tracker defaults
	v.SetDefault("tracker.enabled", false)
	v.SetDefault("tracker.sheet_name", "Generations")

	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.session_idle_timeout", "2h")

	// Scheduler defaults
	v.SetDefault("scheduler.session_cleanup_cron", "*/15 * * * *") // Every 15 minutes
	v.SetDefault("scheduler.tracker_sync_cron", "0 * * * *")       // Hourly
}

// Validate checks that generation can run with this configuration
func (c *Config) Validate() error {
	if c.Anthropic.APIKey == "" {
		return fmt.Errorf("%w: anthropic.api_key is required", models.ErrConfigurationMissing)
	}
	if c.Media.Enabled && c.Media.Provider == "unsplash" && c.Media.UnsplashAPIKey == "" {
		return fmt.Errorf("%w: media.unsplash_api_key is required when media is enabled", models.ErrConfigurationMissing)
	}
	if c.Tracker.Enabled {
		if c.Tracker.SpreadsheetID == "" {
			return fmt.Errorf("%w: tracker.spreadsheet_id is required when the tracker is enabled", models.ErrConfigurationMissing)
		}
		if c.Tracker.CredentialsFile == "" && c.Tracker.ServiceAccountJSON == "" {
			return fmt.Errorf("%w: tracker credentials are required when the tracker is enabled", models.ErrConfigurationMissing)
		}
	}
	if c.Database.Enabled && c.Database.Driver != "sqlite" {
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	return nil
}

// Catalog builds the persona, hashtag and platform tables with the configured overrides
func (c *Config) Catalog() (*catalog.Catalog, error) {
	cat, err := catalog.New(
		catalog.WithDefaultHashtagCount(c.Generation.DefaultHashtagCount),
		catalog.WithDefaultTolerance(c.Generation.LengthTolerance),
		catalog.WithPlatformOverrides(c.Platforms...),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrConfigurationMissing, err)
	}
	return cat, nil
}

// LoggerConfig converts the logging section for pkg/logger
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:  c.Logging.Level,
		Format: c.Logging.Format,
		Output: c.Logging.Output,
	}
}

// Limits converts the rate limit section for pkg/ratelimit
func (c *Config) Limits() ratelimit.Limits {
	return ratelimit.Limits{
		AnthropicPerMinute: c.RateLimit.AnthropicRequestsPerMinute,
		UnsplashPerHour:    c.RateLimit.UnsplashRequestsPerHour,
		SheetsPerMinute:    c.RateLimit.SheetsRequestsPerMinute,
	}
}
