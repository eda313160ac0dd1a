package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName              string        `mapstructure:"app_name"`
	Env                  string        `mapstructure:"app_env"`
	LogLevel             string        `mapstructure:"log_level"`
	OsuAPIKey            string        `mapstructure:"osu_api_key"`
	PlayersFile          string        `mapstructure:"players_file"`
	PublishersFile       string        `mapstructure:"publishers_file"`
	WatchIntervalSeconds int64         `mapstructure:"watch_interval"`
	WatchInterval        time.Duration `mapstructure:"-"`
	WatchConcurrency     int           `mapstructure:"watch_concurrency"`
	BestLimit            int           `mapstructure:"best_limit"`
	ProfileScrape        bool          `mapstructure:"profile_scrape"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	SQLitePath             string        `mapstructure:"sqlite_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "osu-watch")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("osu_api_key", "")
	v.SetDefault("players_file", "./configs/players.yaml")
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("watch_interval", 600) // seconds
	v.SetDefault("watch_concurrency", 4)
	v.SetDefault("best_limit", 10)
	v.SetDefault("profile_scrape", false)
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/snapshots.db")
	v.SetDefault("sqlite_path", "./data/snapshots.sqlite")
	v.SetDefault("storage_ttl_seconds", int64((7*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.OsuAPIKey = strings.TrimSpace(cfg.OsuAPIKey)

	if cfg.WatchIntervalSeconds <= 0 {
		return nil, fmt.Errorf("invalid watch_interval (must be positive seconds)")
	}
	cfg.WatchInterval = time.Duration(cfg.WatchIntervalSeconds) * time.Second

	if cfg.WatchConcurrency <= 0 {
		return nil, fmt.Errorf("invalid watch_concurrency (must be positive)")
	}
	if cfg.BestLimit < 0 {
		return nil, fmt.Errorf("invalid best_limit (must not be negative)")
	}

	if cfg.StorageTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return &cfg, nil
}

// StoragePath returns the file path for the configured storage backend.
func (c *Config) StoragePath() string {
	if c == nil {
		return ""
	}
	switch strings.ToLower(strings.TrimSpace(c.StorageType)) {
	case "sqlite", "sqlite3":
		return c.SQLitePath
	case "bbolt":
		return c.BBoltPath
	default:
		return ""
	}
}

// Redacted returns a copy safe to log; the API key is masked.
func (c *Config) Redacted() Config {
	if c == nil {
		return Config{}
	}
	out := *c
	if out.OsuAPIKey != "" {
		out.OsuAPIKey = "***"
	}
	return out
}
