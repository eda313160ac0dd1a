package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adda-Baaj/osu-watch/internal/config"
	"github.com/Adda-Baaj/osu-watch/internal/logger"
	"github.com/Adda-Baaj/osu-watch/internal/storage"
	"github.com/Adda-Baaj/osu-watch/internal/tracker"
	"github.com/Adda-Baaj/osu-watch/pkg/osu"
	"github.com/Adda-Baaj/osu-watch/pkg/players"
	"github.com/Adda-Baaj/osu-watch/pkg/publishers"
)

type staticLookup struct {
	calls atomic.Int32
}

func (s *staticLookup) GetUser(_ context.Context, user string, mode osu.Mode) (osu.Record, error) {
	n := s.calls.Add(1)
	label, _ := mode.Label()
	return osu.Record{"user_id": user, "username": user, "playcount": float64(n), osu.ModeKey: label}, nil
}

func (s *staticLookup) GetUserBests(context.Context, string, osu.Mode) ([]osu.Record, error) {
	return nil, nil
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func testConfig(t *testing.T, sinkURL string) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		OsuAPIKey:              "secret",
		PlayersFile:            writeFile(t, dir, "players.yaml", "players:\n  - id: peppy\n    user: \"2\"\n    modes: [standard, taiko]\n"),
		PublishersFile:         writeFile(t, dir, "publishers.yaml", "publishers:\n  - id: sink\n    type: http\n    http:\n      url: "+sinkURL+"\n"),
		WatchInterval:          10 * time.Millisecond,
		WatchConcurrency:       2,
		BestLimit:              5,
		StorageType:            storage.TypeBBolt,
		BBoltPath:              filepath.Join(dir, "snapshots.db"),
		StorageTTL:             time.Hour,
		StorageCleanupInterval: time.Hour,
	}
}

func TestNewWatcherValidatesInputs(t *testing.T) {
	_, err := NewWatcher(context.Background(), nil, nil)
	assert.Error(t, err)

	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.OsuAPIKey = " "
	_, err = NewWatcher(context.Background(), cfg, nil)
	assert.True(t, errors.Is(err, osu.ErrMissingAPIKey), "got %v", err)

	cfg = testConfig(t, "http://127.0.0.1:1")
	cfg.PlayersFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = NewWatcher(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "load players roster")
}

func TestNewWatcherWiresRuntime(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	w, err := NewWatcher(context.Background(), cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, w.fanout.Size())
	assert.Len(t, w.roster.Targets(), 2)
	assert.Equal(t, cfg.WatchInterval, w.watchInterval)
	w.shutdown()

	_, err = os.Stat(cfg.BBoltPath)
	assert.NoError(t, err, "bbolt file should exist")
}

func TestWatcherRunPublishesUntilCancelled(t *testing.T) {
	var hits atomic.Int32
	sink := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer sink.Close()

	cfg := testConfig(t, sink.URL)
	pubReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	require.NoError(t, err)
	pubs, err := publishers.BuildAll(context.Background(), publishers.DefaultRegistry(), pubReg.Enabled(), nil)
	require.NoError(t, err)
	fanout := publishers.NewFanout(pubs)

	roster, err := players.LoadRegistry(cfg.PlayersFile)
	require.NoError(t, err)
	store, err := storage.NewStore(storage.TypeNone, "", storage.Options{})
	require.NoError(t, err)

	lookup := &staticLookup{}
	w := &Watcher{
		cfg:           cfg,
		roster:        roster,
		fanout:        fanout,
		tracker:       tracker.NewService(lookup, nil, fanout, nil, store, tracker.Options{Concurrency: 2}),
		watchInterval: cfg.WatchInterval,
		log:           &logger.NopLogger{},
		store:         store,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()
	require.NoError(t, w.Run(ctx))

	assert.GreaterOrEqual(t, lookup.calls.Load(), int32(4), "initial pass plus at least one tick")
	assert.GreaterOrEqual(t, hits.Load(), int32(4))
}

func TestWatcherRunUninitialized(t *testing.T) {
	var w *Watcher
	assert.Error(t, w.Run(context.Background()))
}
