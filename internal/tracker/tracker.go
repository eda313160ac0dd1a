// Package tracker collects player snapshots from the osu! API and publishes the ones that changed.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Adda-Baaj/osu-watch/internal/domain"
	"github.com/Adda-Baaj/osu-watch/internal/logger"
	"github.com/Adda-Baaj/osu-watch/pkg/osu"
	"github.com/Adda-Baaj/osu-watch/pkg/players"
	"github.com/Adda-Baaj/osu-watch/pkg/publishers"
)

// Options tunes a tracker pass.
type Options struct {
	Concurrency int
	BestLimit   int
}

// Service coordinates lookups across every roster target.
type Service struct {
	processor   *PlayerProcessor
	concurrency int
	log         logger.Logger
}

// NewService wires a tracker. scraper and store may be nil.
func NewService(lookup UserLookup, scraper ProfileScraper, pub EventPublisher, log logger.Logger, store SnapshotDeduper, opts Options) *Service {
	if log == nil {
		log = &logger.NopLogger{}
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &Service{
		processor:   NewPlayerProcessor(lookup, scraper, pub, log, store, opts.BestLimit),
		concurrency: opts.Concurrency,
		log:         log,
	}
}

// Run executes a tracking pass over the given targets.
func (s *Service) Run(ctx context.Context, targets []players.Target) error {
	if s == nil || s.processor == nil || s.processor.lookup == nil {
		return fmt.Errorf("tracker service is not initialized")
	}
	if len(targets) == 0 {
		return fmt.Errorf("no players configured for tracking")
	}

	errs := s.runAll(ctx, targets)
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// runAll stops scheduling once ctx is done; in-flight lookups finish.
func (s *Service) runAll(ctx context.Context, targets []players.Target) []error {
	var (
		mu   sync.Mutex
		errs []error
	)

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)

	for _, t := range targets {
		if ctx.Err() != nil {
			break
		}
		t := t
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if err := s.processor.Process(ctx, t); err != nil {
				s.log.ErrorObj("player tracking failed", "player_error", map[string]any{
					"player_id": t.Player.ID,
					"mode":      t.Mode.String(),
					"error":     err.Error(),
				})
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return errs
}

// PlayerProcessor builds, deduplicates and publishes the snapshot of one target.
type PlayerProcessor struct {
	lookup    UserLookup
	scraper   ProfileScraper
	publisher EventPublisher
	log       logger.Logger
	store     SnapshotDeduper
	bestLimit int
}

// NewPlayerProcessor wires a processor. A bestLimit of zero skips best-score lookups.
func NewPlayerProcessor(lookup UserLookup, scraper ProfileScraper, pub EventPublisher, log logger.Logger, store SnapshotDeduper, bestLimit int) *PlayerProcessor {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &PlayerProcessor{
		lookup:    lookup,
		scraper:   scraper,
		publisher: pub,
		log:       log,
		store:     store,
		bestLimit: bestLimit,
	}
}

// Process handles one player/mode pair.
func (p *PlayerProcessor) Process(ctx context.Context, t players.Target) error {
	snap, err := p.collect(ctx, t)
	if err != nil {
		return err
	}

	key := snapshotKey(snap)
	if p.seen(snap, key) {
		p.log.DebugObj("snapshot unchanged", "snapshot_meta", snapshotFields(snap))
		return nil
	}

	if p.publisher == nil {
		p.log.InfoObj("snapshot collected", "snapshot_meta", snapshotFields(snap))
		return p.mark(key)
	}

	delivered, pubErr := p.publisher.Publish(ctx, publishers.NewEvent(snap))
	if delivered == 0 && pubErr != nil {
		return fmt.Errorf("publish snapshot %s/%s: %w", snap.PlayerID, snap.Mode, pubErr)
	}

	fields := snapshotFields(snap)
	fields["delivered"] = delivered
	p.log.InfoObj("snapshot published", "snapshot_meta", fields)

	markErr := p.mark(key)
	if pubErr != nil {
		pubErr = fmt.Errorf("publish snapshot %s/%s: %w", snap.PlayerID, snap.Mode, pubErr)
	}
	return errors.Join(pubErr, markErr)
}

// collect performs the API lookups and optional page scrape.
func (p *PlayerProcessor) collect(ctx context.Context, t players.Target) (domain.Snapshot, error) {
	user := t.Player.User
	profile, err := p.lookup.GetUser(ctx, user, t.Mode)
	if err != nil {
		if errors.Is(err, osu.ErrNotFound) {
			return domain.Snapshot{}, fmt.Errorf("player %s (%s) not found in %s", t.Player.ID, user, t.Mode)
		}
		return domain.Snapshot{}, fmt.Errorf("get user %s/%s: %w", t.Player.ID, t.Mode, err)
	}

	label, _ := t.Mode.Label()
	snap := domain.Snapshot{
		PlayerID:  t.Player.ID,
		User:      user,
		Label:     t.Player.Label,
		Mode:      t.Mode.String(),
		ModeLabel: label,
		Profile:   profile,
	}

	if p.bestLimit > 0 {
		best, err := p.lookup.GetUserBests(ctx, user, t.Mode)
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("get user best %s/%s: %w", t.Player.ID, t.Mode, err)
		}
		if len(best) > p.bestLimit {
			best = best[:p.bestLimit]
		}
		snap.Best = best
	}

	if p.scraper != nil {
		page, err := p.scraper.Scrape(ctx, snap)
		if err != nil {
			p.log.WarnObj("profile page scrape failed", "metadata_error", map[string]any{
				"player_id": snap.PlayerID,
				"error":     err.Error(),
			})
		} else {
			snap.Page = page
		}
	}

	snap.Fingerprint = Fingerprint(snap)
	return snap, nil
}

// seen treats a failing store as "not seen" so the snapshot still goes out.
func (p *PlayerProcessor) seen(snap domain.Snapshot, key string) bool {
	if p.store == nil {
		return false
	}
	seen, err := p.store.SeenSnapshot(key)
	if err != nil {
		p.log.WarnObj("snapshot dedupe lookup failed", "storage_error", map[string]any{
			"player_id": snap.PlayerID,
			"mode":      snap.Mode,
			"error":     err.Error(),
		})
		return false
	}
	return seen
}

func (p *PlayerProcessor) mark(key string) error {
	if p.store == nil {
		return nil
	}
	if err := p.store.MarkSnapshot(key); err != nil {
		return fmt.Errorf("mark snapshot %s: %w", key, err)
	}
	return nil
}

func snapshotFields(s domain.Snapshot) map[string]any {
	return map[string]any{
		"player_id":   s.PlayerID,
		"mode":        s.Mode,
		"fingerprint": s.Fingerprint,
		"best_count":  len(s.Best),
		"pp_raw":      s.Stat("pp_raw"),
		"pp_rank":     s.Stat("pp_rank"),
	}
}
