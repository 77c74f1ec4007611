// Package holidayapi is the HTTP client for the public holiday registry
// (sholiday.faboul.se dagar/v2.1 compatible).
package holidayapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"toll-tracker/core/holiday"
	apperrors "toll-tracker/internal/errors"
)

// maxBodySize bounds how much of a response is read
const maxBodySize = 1 << 20

// Config configures the client
type Config struct {
	// BaseURL is the registry root; the date path is appended to it
	BaseURL string

	// Timeout bounds a single request
	Timeout time.Duration

	// UserAgent is sent with every request
	UserAgent string
}

// DefaultConfig returns production defaults
func DefaultConfig() *Config {
	return &Config{
		BaseURL:   "https://sholiday.faboul.se/dagar/v2.1",
		Timeout:   10 * time.Second,
		UserAgent: "toll-tracker",
	}
}

// Client looks up dates in the holiday registry
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// New creates a client. A nil httpClient gets one with cfg.Timeout.
func New(cfg *Config, httpClient *http.Client) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
	}
}

// URL returns the request URL for date
func (c *Client) URL(date time.Time) string {
	return c.baseURL + "/" + holiday.Query(date)
}

// Lookup fetches the registry entry for date.
// An empty or null body yields (nil, nil).
func (c *Client) Lookup(ctx context.Context, date time.Time) (*holiday.Info, error) {
	url := c.URL(date)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.Transport("failed to build holiday request", err).WithContext("url", url)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Transport("holiday request failed", err).WithContext("url", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, apperrors.Transport("holiday request failed",
			fmt.Errorf("unexpected status %s", resp.Status)).
			WithContext("url", url).
			WithContext("status", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, apperrors.Transport("failed to read holiday response", err).WithContext("url", url)
	}

	return Decode(body)
}

// Decode parses a registry response body.
// An empty, blank or null body yields (nil, nil).
func Decode(body []byte) (*holiday.Info, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil
	}

	var info *holiday.Info
	if err := json.Unmarshal(trimmed, &info); err != nil {
		return nil, apperrors.Malformed("failed to decode holiday response", err)
	}

	return info, nil
}
