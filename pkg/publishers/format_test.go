package publishers

import (
	"testing"

	"github.com/Adda-Baaj/osu-watch/internal/domain"
	"github.com/Adda-Baaj/osu-watch/pkg/osu"
)

func TestSnapshotStatsSkipsMissingValues(t *testing.T) {
	snap := domain.Snapshot{
		Label:     "someone",
		ModeLabel: "osu!taiko",
		Profile:   osu.Record{"pp_raw": "0", "accuracy": nil},
	}
	stats := snapshotStats(snap)
	if len(stats) != 1 || stats[0].name != "PP" {
		t.Fatalf("expected only PP, got %+v", stats)
	}
	if got := snapshotTitle(snap); got != "someone (osu!taiko)" {
		t.Fatalf("title should fall back to label, got %q", got)
	}
	if snapshotURL(snap) != "" {
		t.Fatalf("expected no url without user_id")
	}
}

func TestPercent(t *testing.T) {
	if percent("99.1234") != "99.12%" {
		t.Fatalf("unexpected percent %q", percent("99.1234"))
	}
	if percent("n/a") != "n/a" {
		t.Fatalf("non-numeric accuracy must pass through")
	}
}

func TestSummaryText(t *testing.T) {
	got := summaryText(sampleEvent().Snapshot)
	want := "Cookiezi (osu!) | Rank: #1 | Country rank: KR #1 | PP: 12345.6 | Accuracy: 98.77% | Play count: 43210 | Top play: 727.5pp beatmap 129891 S"
	if got != want {
		t.Fatalf("summaryText:\n got %q\nwant %q", got, want)
	}
}
