package publishers

import (
	"time"

	"github.com/Adda-Baaj/osu-watch/internal/domain"
)

// Event represents the payload published downstream.
type Event struct {
	PlayerID    string          `json:"player_id"`
	Mode        string          `json:"mode"`
	Snapshot    domain.Snapshot `json:"snapshot"`
	CollectedAt time.Time       `json:"collected_at"`
}

// NewEvent constructs an Event for the given snapshot.
func NewEvent(snap domain.Snapshot) Event {
	return Event{
		PlayerID:    snap.PlayerID,
		Mode:        snap.Mode,
		Snapshot:    snap,
		CollectedAt: time.Now().UTC(),
	}
}

// attributes are the routing keys attached to queue and topic messages.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"player_id": e.PlayerID,
		"mode":      e.Mode,
	}
}
