package osu

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode is a game ruleset understood by the v1 API.
// The zero value selects Standard.
type Mode string

const (
	Standard Mode = "standard"
	Taiko    Mode = "taiko"
	Catch    Mode = "catch"
	Mania    Mode = "mania"
)

type modeInfo struct {
	code  int
	label string
}

// Labels are consumed downstream verbatim; keep them stable.
var modeTable = map[Mode]modeInfo{
	Standard: {code: 0, label: "osu!"},
	Taiko:    {code: 1, label: "osu!taiko"},
	Catch:    {code: 2, label: "osu!catch"},
	Mania:    {code: 3, label: "osu!mania"},
}

var modeOrder = []Mode{Standard, Taiko, Catch, Mania}

// Modes returns every known mode in API code order.
func Modes() []Mode {
	out := make([]Mode, len(modeOrder))
	copy(out, modeOrder)
	return out
}

// ParseMode accepts a mode key ("taiko") or its numeric code ("1").
func ParseMode(s string) (Mode, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return Standard, nil
	}
	if _, ok := modeTable[Mode(key)]; ok {
		return Mode(key), nil
	}
	if n, err := strconv.Atoi(key); err == nil {
		for _, m := range modeOrder {
			if modeTable[m].code == n {
				return m, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Code returns the numeric code sent as the m query parameter.
func (m Mode) Code() (int, bool) {
	info, ok := modeTable[m.orDefault()]
	return info.code, ok
}

// Label returns the display label stamped on returned records.
func (m Mode) Label() (string, bool) {
	info, ok := modeTable[m.orDefault()]
	return info.label, ok
}

func (m Mode) String() string { return string(m.orDefault()) }

func (m Mode) orDefault() Mode {
	if m == "" {
		return Standard
	}
	return m
}
