package publishers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Adda-Baaj/osu-watch/internal/domain"
)

const osuUsersURL = "https://osu.ppy.sh/users/"

// statLine is one labelled value shown by the chat sinks.
type statLine struct {
	name  string
	value string
}

func snapshotTitle(s domain.Snapshot) string {
	name := s.Stat("username")
	if name == "" {
		name = s.Label
	}
	return fmt.Sprintf("%s (%s)", name, s.ModeLabel)
}

func snapshotURL(s domain.Snapshot) string {
	if s.Page != nil && s.Page.URL != "" {
		return s.Page.URL
	}
	if id := s.Stat("user_id"); id != "" {
		return osuUsersURL + id
	}
	return ""
}

func snapshotAvatar(s domain.Snapshot) string {
	if s.Page != nil {
		return s.Page.AvatarURL
	}
	return ""
}

// snapshotStats picks the headline numbers, skipping missing ones.
func snapshotStats(s domain.Snapshot) []statLine {
	candidates := []statLine{
		{"Rank", prefixed("#", s.Stat("pp_rank"))},
		{"Country rank", joinNonEmpty(" ", s.Stat("country"), prefixed("#", s.Stat("pp_country_rank")))},
		{"PP", s.Stat("pp_raw")},
		{"Accuracy", percent(s.Stat("accuracy"))},
		{"Play count", s.Stat("playcount")},
		{"Level", s.Stat("level")},
	}
	if len(s.Best) > 0 {
		top := s.Best[0]
		candidates = append(candidates, statLine{"Top play", joinNonEmpty(" ",
			domain.RecordString(top, "pp")+"pp",
			prefixed("beatmap ", domain.RecordString(top, "beatmap_id")),
			domain.RecordString(top, "rank"),
		)})
	}

	out := make([]statLine, 0, len(candidates))
	for _, c := range candidates {
		if strings.TrimSpace(c.value) == "" || c.value == "pp" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func summaryText(s domain.Snapshot) string {
	parts := []string{snapshotTitle(s)}
	for _, st := range snapshotStats(s) {
		parts = append(parts, st.name+": "+st.value)
	}
	return strings.Join(parts, " | ")
}

func prefixed(prefix, v string) string {
	if v == "" {
		return ""
	}
	return prefix + v
}

func percent(v string) string {
	if v == "" {
		return ""
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return v
	}
	return strconv.FormatFloat(f, 'f', 2, 64) + "%"
}

func joinNonEmpty(sep string, values ...string) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return strings.Join(out, sep)
}
