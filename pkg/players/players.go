// Package players loads the roster of osu! players the watcher follows.
package players

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/Adda-Baaj/osu-watch/pkg/osu"
)

// Player is a single roster entry.
type Player struct {
	ID    string   `json:"id" yaml:"id"`
	User  string   `json:"user" yaml:"user"`
	Label string   `json:"label" yaml:"label"`
	Modes []string `json:"modes" yaml:"modes"`
}

// Target is one player/mode pair to look up.
type Target struct {
	Player Player
	Mode   osu.Mode
}

type rosterFile struct {
	Players []Player `json:"players" yaml:"players"`
}

// Registry holds a validated roster.
type Registry struct {
	mu      sync.RWMutex
	players []Player
	idx     map[string]Player
}

// LoadRegistry loads the roster from a YAML/JSON file.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("players file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open players file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read players file: %w", err)
	}

	roster, err := parseRoster(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	return NewRegistry(roster.Players)
}

// NewRegistry validates players and indexes them by id.
func NewRegistry(list []Player) (*Registry, error) {
	if len(list) == 0 {
		return nil, errors.New("players file contains no players entries")
	}

	reg := &Registry{
		players: make([]Player, len(list)),
		idx:     make(map[string]Player, len(list)),
	}
	for i := range list {
		p := sanitizePlayer(list[i])
		if err := validatePlayer(p); err != nil {
			return nil, fmt.Errorf("players[%d]: %w", i, err)
		}
		if _, exists := reg.idx[p.ID]; exists {
			return nil, fmt.Errorf("duplicate player id %q", p.ID)
		}
		reg.players[i] = p
		reg.idx[p.ID] = p
	}
	return reg, nil
}

type unmarshalFn func([]byte, any) error

func parseRoster(data []byte, ext string) (rosterFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		if roster, err := unmarshalRoster(d.name, data, d.fn); err == nil {
			return roster, nil
		}
	}

	return rosterFile{}, errors.New("players file format not recognized (expected YAML or JSON)")
}

func unmarshalRoster(name string, data []byte, fn unmarshalFn) (rosterFile, error) {
	var roster rosterFile
	if err := fn(data, &roster); err != nil {
		return rosterFile{}, fmt.Errorf("decode %s players: %w", name, err)
	}
	return roster, nil
}

func sanitizePlayer(p Player) Player {
	p.ID = strings.TrimSpace(p.ID)
	p.User = strings.TrimSpace(p.User)
	p.Label = strings.TrimSpace(p.Label)
	if p.ID == "" {
		p.ID = strings.ToLower(p.User)
	}
	if p.Label == "" {
		p.Label = p.User
	}

	modes := make([]string, 0, len(p.Modes))
	seen := make(map[string]struct{}, len(p.Modes))
	for _, m := range p.Modes {
		m = strings.ToLower(strings.TrimSpace(m))
		if m == "" {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		modes = append(modes, m)
	}
	if len(modes) == 0 {
		modes = []string{string(osu.Standard)}
	}
	p.Modes = modes
	return p
}

func validatePlayer(p Player) error {
	if p.ID == "" {
		return errors.New("id is required")
	}
	if p.User == "" {
		return fmt.Errorf("user is required for player %q", p.ID)
	}
	for _, m := range p.Modes {
		if _, err := osu.ParseMode(m); err != nil {
			return fmt.Errorf("player %q: %w", p.ID, err)
		}
	}
	return nil
}

// ParsedModes returns the player's modes as osu.Mode values.
// Modes are validated on load, so unknown entries are skipped.
func (p Player) ParsedModes() []osu.Mode {
	out := make([]osu.Mode, 0, len(p.Modes))
	for _, m := range p.Modes {
		if mode, err := osu.ParseMode(m); err == nil {
			out = append(out, mode)
		}
	}
	return out
}

// ByID returns the player by id.
func (r *Registry) ByID(id string) (Player, bool) {
	if r == nil {
		return Player{}, false
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Player{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.idx[id]
	return p, ok
}

// All returns all configured players.
func (r *Registry) All() []Player {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Player, len(r.players))
	copy(out, r.players)
	return out
}

// Targets flattens the roster into player/mode lookups in file order.
func (r *Registry) Targets() []Target {
	var out []Target
	for _, p := range r.All() {
		for _, m := range p.ParsedModes() {
			out = append(out, Target{Player: p, Mode: m})
		}
	}
	return out
}
