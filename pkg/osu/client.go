// Package osu is a small client for the legacy osu! v1 web API.
// See https://github.com/ppy/osu-api/wiki for the remote contract.
package osu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Adda-Baaj/osu-watch/pkg/httpclient"
)

const (
	// BaseURL is the root of the v1 API.
	BaseURL = "https://osu.ppy.sh/api"

	// DefaultTimeout bounds each request made by the default transport.
	DefaultTimeout = 15 * time.Second

	endpointUser     = "/get_user"
	endpointUserBest = "/get_user_best"
)

// Record is a raw object returned by the API plus the "mode" label added by the client.
type Record map[string]any

// ModeKey is the field stamped on every returned record.
const ModeKey = "mode"

// Client talks to the osu! v1 API with a static key.
// It holds no per-call state and is safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	http    httpclient.Client
}

// New builds a Client. A nil client selects a resty transport with DefaultTimeout.
func New(apiKey string, client httpclient.Client) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if client == nil {
		client = httpclient.NewRestyClient(DefaultTimeout)
	}
	return &Client{
		baseURL: BaseURL,
		apiKey:  apiKey,
		http:    client,
	}, nil
}

// GetUser fetches a player's profile. An empty mode means Standard.
func (c *Client) GetUser(ctx context.Context, nameOrID string, mode Mode) (Record, error) {
	records, label, err := c.fetch(ctx, endpointUser, nameOrID, mode)
	if err != nil {
		return nil, err
	}
	return first(records, label)
}

// GetUserBest fetches the player's top play. Only the first entry of the
// API's list is returned; use GetUserBests for all of them.
func (c *Client) GetUserBest(ctx context.Context, nameOrID string, mode Mode) (Record, error) {
	records, label, err := c.fetch(ctx, endpointUserBest, nameOrID, mode)
	if err != nil {
		return nil, err
	}
	return first(records, label)
}

// GetUserBests returns every best-performance record the API sends, each
// labelled with the mode. An empty list is not an error.
func (c *Client) GetUserBests(ctx context.Context, nameOrID string, mode Mode) ([]Record, error) {
	records, label, err := c.fetch(ctx, endpointUserBest, nameOrID, mode)
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		r[ModeKey] = label
		out = append(out, r)
	}
	return out, nil
}

func (c *Client) fetch(ctx context.Context, endpoint, nameOrID string, mode Mode) ([]Record, string, error) {
	nameOrID = strings.TrimSpace(nameOrID)
	if nameOrID == "" {
		return nil, "", ErrMissingUser
	}
	code, ok := mode.Code()
	if !ok {
		return nil, "", fmt.Errorf("%w: %q", ErrInvalidMode, string(mode))
	}
	label, _ := mode.Label()

	query := "&u=" + url.QueryEscape(nameOrID) + "&m=" + strconv.Itoa(code)
	resp, err := c.request(ctx, endpoint, query, http.MethodGet)
	if err != nil {
		return nil, "", err
	}

	records, err := decodeRecords(resp.Body())
	if err != nil {
		return nil, "", fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return records, label, nil
}

// request issues one call to BaseURL+endpoint with the key and the query suffix.
// Transport errors are returned as is.
func (c *Client) request(ctx context.Context, endpoint, query, method string) (httpclient.Response, error) {
	if endpoint == "" {
		return nil, ErrMissingEndpoint
	}
	if query == "" {
		return nil, ErrMissingQuery
	}
	if method == "" {
		method = http.MethodGet
	}

	target := c.baseURL + endpoint + "?k=" + url.QueryEscape(c.apiKey) + query
	resp, err := c.http.Do(ctx, method, target, map[string]string{"Accept": "application/json"})
	if err != nil {
		return nil, err
	}
	if !httpclient.IsSuccess(resp) {
		return nil, &StatusError{StatusCode: resp.StatusCode(), Body: bodySnippet(resp.Body())}
	}
	return resp, nil
}

func decodeRecords(body []byte) ([]Record, error) {
	var records []Record
	err := json.Unmarshal(body, &records)
	if err == nil {
		return records, nil
	}

	var apiErr APIError
	if jsonErr := json.Unmarshal(body, &apiErr); jsonErr == nil && apiErr.Message != "" {
		return nil, &apiErr
	}
	return nil, err
}

func first(records []Record, label string) (Record, error) {
	if len(records) == 0 || records[0] == nil {
		return nil, ErrNotFound
	}
	rec := records[0]
	rec[ModeKey] = label
	return rec, nil
}

// IsValidation reports whether err was raised locally before any request was made.
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingUser) ||
		errors.Is(err, ErrInvalidMode) ||
		errors.Is(err, ErrMissingEndpoint) ||
		errors.Is(err, ErrMissingQuery)
}
