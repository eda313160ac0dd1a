package tracker

import (
	"crypto/sha1" //nolint:gosec // content fingerprint, not a security boundary
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/Adda-Baaj/osu-watch/internal/domain"
)

// profileKeys are the profile fields that change when a player actually plays.
// Event lists and other volatile fields are left out.
var profileKeys = []string{
	"user_id",
	"username",
	"pp_rank",
	"pp_country_rank",
	"pp_raw",
	"accuracy",
	"level",
	"playcount",
	"ranked_score",
	"total_score",
	"count_rank_ssh",
	"count_rank_ss",
	"count_rank_sh",
	"count_rank_s",
	"count_rank_a",
}

// Fingerprint hashes the stable parts of a snapshot.
func Fingerprint(s domain.Snapshot) string {
	h := sha1.New()
	write := func(parts ...string) {
		h.Write([]byte(strings.Join(parts, "=")))
		h.Write([]byte{'\n'})
	}

	write("mode", s.Mode)
	for _, k := range profileKeys {
		write(k, s.Stat(k))
	}
	for i, b := range s.Best {
		id := domain.RecordString(b, "score_id")
		if id == "" {
			id = domain.RecordString(b, "beatmap_id") + "/" + domain.RecordString(b, "score")
		}
		write("best", strconv.Itoa(i), id, domain.RecordString(b, "pp"))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// snapshotKey is the dedupe key stored for a published snapshot.
func snapshotKey(s domain.Snapshot) string {
	return s.PlayerID + ":" + s.Mode + ":" + s.Fingerprint
}
