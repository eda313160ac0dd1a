package tracker

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Adda-Baaj/osu-watch/internal/domain"
	"github.com/Adda-Baaj/osu-watch/pkg/httpclient"
	"github.com/Adda-Baaj/osu-watch/pkg/osu"
)

const (
	maxHTMLBodyBytes = 1 << 20 // 1 MiB
	profileBaseURL   = "https://osu.ppy.sh/users/"
	userAgent        = "osu-watch/1.0 (+https://osu.ppy.sh)"
)

// Scraper fetches public profile pages and extracts metadata from OG tags.
type Scraper struct {
	client  httpclient.Client
	baseURL string
}

// NewScraper constructs a scraper with the provided HTTP client (or default).
func NewScraper(client httpclient.Client) *Scraper {
	if client == nil {
		client = httpclient.NewRestyClient(osu.DefaultTimeout)
	}
	return &Scraper{client: client, baseURL: profileBaseURL}
}

// Scrape loads the profile page for the snapshot's player.
func (s *Scraper) Scrape(ctx context.Context, snap domain.Snapshot) (*domain.ProfilePage, error) {
	target := s.profileURL(snap)
	if target == "" {
		return nil, fmt.Errorf("no user id for player %s", snap.PlayerID)
	}

	resp, err := s.client.Get(ctx, target, map[string]string{
		"User-Agent": userAgent,
		"Accept":     "text/html",
	})
	if err != nil {
		return nil, fmt.Errorf("http fetch: %w", err)
	}
	if resp.StatusCode() != 200 {
		snippet := strings.TrimSpace(string(resp.Body()))
		if len(snippet) > 1024 {
			snippet = snippet[:1024]
		}
		return nil, fmt.Errorf("status %d body: %s", resp.StatusCode(), snippet)
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	meta, err := parseMeta(body)
	if err != nil {
		return nil, err
	}
	return &domain.ProfilePage{
		URL:         target,
		Title:       meta.Title,
		Description: meta.Description,
		AvatarURL:   resolveURL(meta.ImageURL, target),
	}, nil
}

// profileURL prefers the numeric id from the API over the configured name.
func (s *Scraper) profileURL(snap domain.Snapshot) string {
	id := snap.Stat("user_id")
	if id == "" {
		id = strings.TrimSpace(snap.User)
	}
	if id == "" {
		return ""
	}
	return s.baseURL + url.PathEscape(id)
}

func parseMeta(body []byte) (pageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return pageMeta{}, fmt.Errorf("parse html: %w", err)
	}

	extract := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	return pageMeta{
		Title: firstNonEmpty(
			extract(`meta[property="og:title"]`),
			strings.TrimSpace(doc.Find("title").First().Text()),
		),
		Description: firstNonEmpty(
			extract(`meta[property="og:description"]`),
			extract(`meta[name="description"]`),
		),
		ImageURL: extract(`meta[property="og:image"]`),
	}, nil
}

type pageMeta struct {
	Title       string
	Description string
	ImageURL    string
}

func resolveURL(ref, base string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
