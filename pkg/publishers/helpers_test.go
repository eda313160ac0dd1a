package publishers

import (
	"github.com/Adda-Baaj/osu-watch/internal/domain"
	"github.com/Adda-Baaj/osu-watch/pkg/osu"
)

func sampleEvent() Event {
	return NewEvent(domain.Snapshot{
		PlayerID:  "cookiezi",
		User:      "124493",
		Label:     "Cookiezi",
		Mode:      "standard",
		ModeLabel: "osu!",
		Profile: osu.Record{
			"user_id":         "124493",
			"username":        "Cookiezi",
			"pp_rank":         "1",
			"pp_raw":          "12345.6",
			"accuracy":        "98.765432",
			"country":         "KR",
			"pp_country_rank": "1",
			"playcount":       "43210",
			"mode":            "osu!",
		},
		Best: []osu.Record{
			{"beatmap_id": "129891", "pp": "727.5", "rank": "S", "mode": "osu!"},
		},
		Fingerprint: "abc123",
	})
}

var domainPage = domain.ProfilePage{
	URL:         "https://osu.ppy.sh/users/124493",
	Title:       "Cookiezi · player info | osu!",
	Description: "A player from South Korea",
	AvatarURL:   "https://a.ppy.sh/124493",
}
