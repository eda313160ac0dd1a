package tracker

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adda-Baaj/osu-watch/internal/domain"
	"github.com/Adda-Baaj/osu-watch/pkg/httpclient"
	"github.com/Adda-Baaj/osu-watch/pkg/osu"
)

// stubHTTPResponse implements httpclient.Response.
type stubHTTPResponse struct {
	body       []byte
	statusCode int
}

func (s stubHTTPResponse) Body() []byte    { return s.body }
func (s stubHTTPResponse) StatusCode() int { return s.statusCode }

// stubHTTPClient returns a single response and remembers the last URL.
type stubHTTPClient struct {
	resp    httpclient.Response
	err     error
	lastURL string
}

func (s *stubHTTPClient) Get(ctx context.Context, url string, headers map[string]string) (httpclient.Response, error) {
	return s.Do(ctx, "GET", url, headers)
}

func (s *stubHTTPClient) Do(_ context.Context, _ string, url string, _ map[string]string) (httpclient.Response, error) {
	s.lastURL = url
	return s.resp, s.err
}

const profileHTML = `
<html>
  <head>
    <title>Fallback</title>
    <meta property="og:title" content="Cookiezi · player info | osu!">
    <meta property="og:description" content="osu! player from South Korea">
    <meta property="og:image" content="/images/avatar.png">
  </head>
</html>`

func TestParseMetaPrefersOGTags(t *testing.T) {
	meta, err := parseMeta([]byte(profileHTML))
	require.NoError(t, err)
	assert.Equal(t, "Cookiezi · player info | osu!", meta.Title)
	assert.Equal(t, "osu! player from South Korea", meta.Description)
	assert.Equal(t, "/images/avatar.png", meta.ImageURL)
}

func TestScraperResolvesProfilePage(t *testing.T) {
	client := &stubHTTPClient{resp: stubHTTPResponse{body: []byte(profileHTML), statusCode: 200}}
	s := NewScraper(client)

	page, err := s.Scrape(context.Background(), domain.Snapshot{
		PlayerID: "cookiezi",
		User:     "Cookiezi",
		Profile:  osu.Record{"user_id": "124493"},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://osu.ppy.sh/users/124493", client.lastURL)
	assert.Equal(t, "https://osu.ppy.sh/users/124493", page.URL)
	assert.Equal(t, "https://osu.ppy.sh/images/avatar.png", page.AvatarURL)
}

func TestScraperFallsBackToConfiguredUser(t *testing.T) {
	client := &stubHTTPClient{resp: stubHTTPResponse{body: []byte("<html></html>"), statusCode: 200}}
	s := NewScraper(client)

	_, err := s.Scrape(context.Background(), domain.Snapshot{PlayerID: "x", User: "some player"})
	require.NoError(t, err)
	assert.Equal(t, "https://osu.ppy.sh/users/some%20player", client.lastURL)

	_, err = s.Scrape(context.Background(), domain.Snapshot{PlayerID: "x"})
	assert.Error(t, err)
}

func TestScraperLimitsBodyAndReportsStatus(t *testing.T) {
	body := bytes.Repeat([]byte("a"), maxHTMLBodyBytes+10)
	s := NewScraper(&stubHTTPClient{resp: stubHTTPResponse{body: body, statusCode: 200}})
	page, err := s.Scrape(context.Background(), domain.Snapshot{User: "2"})
	require.NoError(t, err)
	assert.Empty(t, page.Title)

	s = NewScraper(&stubHTTPClient{resp: stubHTTPResponse{body: []byte("nope"), statusCode: 404}})
	_, err = s.Scrape(context.Background(), domain.Snapshot{User: "2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")

	s = NewScraper(&stubHTTPClient{err: errors.New("dial")})
	_, err = s.Scrape(context.Background(), domain.Snapshot{User: "2"})
	assert.ErrorContains(t, err, "dial")
}

func TestResolveURLHandlesRelative(t *testing.T) {
	assert.Equal(t, "https://example.com/img.png", resolveURL("/img.png", "https://example.com/users/1"))
	assert.Equal(t, "", resolveURL("", "https://example.com"))
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "foo", firstNonEmpty("", " ", "foo", "bar"))
}
