package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OSU_API_KEY", "  abc123  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OsuAPIKey != "abc123" {
		t.Fatalf("expected trimmed api key, got %q", cfg.OsuAPIKey)
	}
	if cfg.WatchInterval != 10*time.Minute {
		t.Fatalf("unexpected watch interval %v", cfg.WatchInterval)
	}
	if cfg.WatchConcurrency != 4 || cfg.BestLimit != 10 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.StorageTTL != 7*24*time.Hour {
		t.Fatalf("unexpected storage ttl %v", cfg.StorageTTL)
	}
	if cfg.StoragePath() != "./data/snapshots.db" {
		t.Fatalf("unexpected storage path %q", cfg.StoragePath())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("WATCH_INTERVAL", "30")
	t.Setenv("STORAGE_TYPE", "sqlite")
	t.Setenv("PROFILE_SCRAPE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.WatchInterval != 30*time.Second {
		t.Fatalf("expected 30s interval, got %v", cfg.WatchInterval)
	}
	if !cfg.ProfileScrape {
		t.Fatalf("expected profile_scrape enabled")
	}
	if cfg.StoragePath() != "./data/snapshots.sqlite" {
		t.Fatalf("unexpected sqlite path %q", cfg.StoragePath())
	}
}

func TestLoadRejectsInvalidInterval(t *testing.T) {
	t.Setenv("WATCH_INTERVAL", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero watch_interval")
	}
}

func TestLoadRejectsInvalidConcurrency(t *testing.T) {
	t.Setenv("WATCH_CONCURRENCY", "-2")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for negative watch_concurrency")
	}
}

func TestRedactedMasksAPIKey(t *testing.T) {
	cfg := &Config{OsuAPIKey: "secret", AppName: "osu-watch"}
	red := cfg.Redacted()
	if red.OsuAPIKey != "***" {
		t.Fatalf("expected masked key, got %q", red.OsuAPIKey)
	}
	if cfg.OsuAPIKey != "secret" {
		t.Fatalf("Redacted must not modify the receiver")
	}
	if red.AppName != "osu-watch" {
		t.Fatalf("expected other fields preserved")
	}
}
