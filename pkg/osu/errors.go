package osu

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingAPIKey is returned by New when no API key is supplied.
	ErrMissingAPIKey = errors.New("osu: api key required")

	ErrMissingUser     = errors.New("osu: user name or id required")
	ErrInvalidMode     = errors.New("osu: unknown game mode")
	ErrMissingEndpoint = errors.New("osu: no endpoint specified")
	ErrMissingQuery    = errors.New("osu: no query specified")

	// ErrNotFound is returned when a single-record lookup gets an empty array back.
	ErrNotFound = errors.New("osu: no records returned")
)

// StatusError reports a non-2xx answer from the API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("osu: http status %d", e.StatusCode)
	}
	return fmt.Sprintf("osu: http status %d: %s", e.StatusCode, e.Body)
}

// APIError is the {"error": "..."} object the API sends instead of an array.
type APIError struct {
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	return "osu: api error: " + e.Message
}

func bodySnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
