package tracker

import (
	"context"

	"github.com/Adda-Baaj/osu-watch/internal/domain"
	"github.com/Adda-Baaj/osu-watch/pkg/osu"
	"github.com/Adda-Baaj/osu-watch/pkg/publishers"
)

// UserLookup is the subset of the osu! client the tracker needs.
type UserLookup interface {
	GetUser(ctx context.Context, nameOrID string, mode osu.Mode) (osu.Record, error)
	GetUserBests(ctx context.Context, nameOrID string, mode osu.Mode) ([]osu.Record, error)
}

// ProfileScraper enriches a snapshot with public profile page metadata.
type ProfileScraper interface {
	Scrape(ctx context.Context, snap domain.Snapshot) (*domain.ProfilePage, error)
}

// EventPublisher publishes snapshots downstream and reports how many sinks accepted them.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// SnapshotDeduper remembers fingerprints that were already published.
type SnapshotDeduper interface {
	SeenSnapshot(key string) (bool, error)
	MarkSnapshot(key string) error
}
