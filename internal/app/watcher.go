// Package app wires configuration, the osu! client, storage and publishers into the watcher runtime.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Adda-Baaj/osu-watch/internal/config"
	"github.com/Adda-Baaj/osu-watch/internal/logger"
	"github.com/Adda-Baaj/osu-watch/internal/storage"
	"github.com/Adda-Baaj/osu-watch/internal/tracker"
	"github.com/Adda-Baaj/osu-watch/pkg/httpclient"
	"github.com/Adda-Baaj/osu-watch/pkg/osu"
	"github.com/Adda-Baaj/osu-watch/pkg/players"
	"github.com/Adda-Baaj/osu-watch/pkg/publishers"
)

// Watcher represents the osu! watcher runtime. It runs the tracking loop over
// the player roster and owns the storage and publisher lifecycles.
type Watcher struct {
	cfg           *config.Config
	roster        *players.Registry
	fanout        *publishers.Fanout
	tracker       *tracker.Service
	watchInterval time.Duration
	log           logger.Logger
	store         storage.Store
}

// NewWatcher builds a watcher runtime from config files.
func NewWatcher(ctx context.Context, cfg *config.Config, log logger.Logger) (*Watcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	httpClient := httpclient.NewRestyClient(osu.DefaultTimeout)
	client, err := osu.New(cfg.OsuAPIKey, httpClient)
	if err != nil {
		return nil, fmt.Errorf("init osu client: %w", err)
	}

	roster, err := players.LoadRegistry(cfg.PlayersFile)
	if err != nil {
		return nil, fmt.Errorf("load players roster: %w", err)
	}
	playerIDs := make([]string, 0, len(roster.All()))
	for _, p := range roster.All() {
		playerIDs = append(playerIDs, p.ID)
	}
	log.InfoObj("players roster loaded", "players_meta", map[string]any{
		"count":   len(playerIDs),
		"ids":     playerIDs,
		"targets": len(roster.Targets()),
	})

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	storeOpts := storage.Options{
		SnapshotTTL:     cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	}
	store, err := storage.NewStore(cfg.StorageType, cfg.StoragePath(), storeOpts)
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.StoragePath(),
		"snapshot_ttl_seconds":     int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	var scraper tracker.ProfileScraper
	if cfg.ProfileScrape {
		scraper = tracker.NewScraper(httpClient)
	}

	svc := tracker.NewService(client, scraper, fanout, log, store, tracker.Options{
		Concurrency: cfg.WatchConcurrency,
		BestLimit:   cfg.BestLimit,
	})

	return &Watcher{
		cfg:           cfg,
		roster:        roster,
		fanout:        fanout,
		tracker:       svc,
		watchInterval: cfg.WatchInterval,
		log:           log,
		store:         store,
	}, nil
}

// Run starts the tracking loop until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if w == nil || w.tracker == nil {
		return fmt.Errorf("watcher is not initialized")
	}
	defer w.shutdown()

	targets := w.roster.Targets()
	if len(targets) == 0 {
		w.log.WarnObj("no players configured; watcher idle", "players_file", w.cfg.PlayersFile)
		<-ctx.Done()
		return ctx.Err()
	}

	w.log.InfoObj("watcher loop starting", "watcher_state", map[string]any{
		"targets_count":    len(targets),
		"publishers_count": w.fanout.Size(),
		"watch_interval":   w.watchInterval.String(),
	})

	if err := w.runOnce(ctx, targets); err != nil {
		w.log.ErrorObj("initial tracking pass failed", "error", err)
	}

	ticker := time.NewTicker(w.watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.InfoObj("watcher loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := w.runOnce(ctx, targets); err != nil {
				w.log.ErrorObj("scheduled tracking pass failed", "error", err)
			}
		}
	}
}

// runOnce performs a single tracking pass across all targets.
func (w *Watcher) runOnce(ctx context.Context, targets []players.Target) error {
	start := time.Now()
	w.log.InfoObj("tracking pass started", "pass_meta", map[string]any{
		"targets_count": len(targets),
		"started_at":    start.UTC(),
	})
	if err := w.tracker.Run(ctx, targets); err != nil {
		return err
	}
	w.log.InfoObj("tracking pass completed", "pass_meta", map[string]any{
		"targets_count": len(targets),
		"elapsed_ms":    time.Since(start).Milliseconds(),
	})
	return nil
}

// shutdown closes the storage backend and publisher connections, logging any errors.
func (w *Watcher) shutdown() {
	if w == nil {
		return
	}
	if err := w.fanout.Close(); err != nil {
		w.log.ErrorObj("publisher close failed", "error", err)
	}
	if w.store == nil {
		return
	}
	if err := w.store.Close(); err != nil {
		w.log.ErrorObj("storage close failed", "error", err)
	}
}
