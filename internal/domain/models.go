package domain

import (
	"fmt"
	"strconv"

	"github.com/Adda-Baaj/osu-watch/pkg/osu"
)

// Snapshot is the state of one player in one mode at collection time.
type Snapshot struct {
	PlayerID    string       `json:"player_id"`
	User        string       `json:"user"`
	Label       string       `json:"label"`
	Mode        string       `json:"mode"`
	ModeLabel   string       `json:"mode_label"`
	Profile     osu.Record   `json:"profile"`
	Best        []osu.Record `json:"best,omitempty"`
	Page        *ProfilePage `json:"page,omitempty"`
	Fingerprint string       `json:"fingerprint"`
}

// ProfilePage holds metadata scraped from the public profile page.
type ProfilePage struct {
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// Stat returns a profile field as text. The v1 API encodes numbers as strings.
func (s Snapshot) Stat(key string) string {
	return RecordString(s.Profile, key)
}

// RecordString renders a record field as text, empty when absent or null.
func RecordString(r osu.Record, key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
