package musicbrainz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"platter/internal/config"
	"platter/internal/logging"
	"platter/internal/services"
)

const stageLookup = "lookup"

// releaseInc is the inc parameter for full release lookups.
const releaseInc = "recordings+artist-credits+labels+media+release-groups"

// Client talks to a MusicBrainz ws/2 endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limit      int
	maxRetries int
	quotaFloor int
	logger     *slog.Logger

	mu        sync.Mutex
	waitUntil time.Time
}

// NewClient builds a Client from configuration.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: time.Duration(cfg.MusicBrainz.RequestTimeout) * time.Second},
		baseURL:    cfg.MusicBrainz.BaseURL,
		userAgent:  cfg.MusicBrainz.UserAgent,
		limit:      cfg.MusicBrainz.SearchLimit,
		maxRetries: cfg.MusicBrainz.MaxRetries,
		quotaFloor: cfg.MusicBrainz.QuotaFloor,
		logger:     logging.NewComponentLogger(logger, "musicbrainz"),
	}
}

// SearchByCatalogNumber searches releases by exact catalog number.
func (c *Client) SearchByCatalogNumber(ctx context.Context, catno string) ([]Release, error) {
	query := fmt.Sprintf("catno:%q", catno)
	return c.SearchReleases(ctx, query)
}

// SearchReleases runs a Lucene query against the release search endpoint.
func (c *Client) SearchReleases(ctx context.Context, query string) ([]Release, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", strconv.Itoa(c.limit))
	params.Set("fmt", "json")

	body, err := c.get(ctx, "/release", params)
	if err != nil {
		return nil, err
	}

	var result SearchResult
	if err := strictUnmarshal(body, &result); err != nil {
		return nil, services.Wrap(services.ErrMalformedRecord, stageLookup, "search_releases", "decode search response", err)
	}
	for i, rel := range result.Releases {
		if rel.ID == "" || rel.Title == "" {
			return nil, services.Wrap(services.ErrMalformedRecord, stageLookup, "search_releases",
				fmt.Sprintf("search result %d missing id or title", i), nil)
		}
	}
	return result.Releases, nil
}

// GetRelease fetches a full release document including media, tracks,
// artist credits, labels, and release group.
func (c *Client) GetRelease(ctx context.Context, mbid string) (*Release, error) {
	if strings.TrimSpace(mbid) == "" {
		return nil, services.Wrap(services.ErrValidation, stageLookup, "get_release", "empty release id", nil)
	}
	params := url.Values{}
	params.Set("inc", releaseInc)
	params.Set("fmt", "json")

	body, err := c.get(ctx, "/release/"+url.PathEscape(mbid), params)
	if err != nil {
		return nil, err
	}

	var rel Release
	if err := strictUnmarshal(body, &rel); err != nil {
		return nil, services.Wrap(services.ErrMalformedRecord, stageLookup, "get_release", "decode release", err)
	}
	if rel.ID == "" || rel.Title == "" {
		return nil, services.Wrap(services.ErrMalformedRecord, stageLookup, "get_release", "release missing id or title", nil)
	}
	if len(rel.Media) == 0 {
		return nil, services.Wrap(services.ErrMalformedRecord, stageLookup, "get_release", "release has no media", nil)
	}
	return &rel, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	endpoint := c.baseURL + path + "?" + params.Encode()

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err := c.waitForQuota(ctx); err != nil {
			return nil, err
		}

		body, retryAfter, err := c.doRequest(ctx, endpoint)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !services.Recoverable(err) || errors.Is(err, services.ErrNotFound) {
			return nil, err
		}
		if attempt == c.maxRetries {
			break
		}

		delay := retryAfter
		if delay <= 0 {
			delay = time.Duration(attempt) * time.Second
		}
		c.logger.Warn("request failed, retrying",
			logging.String("endpoint", path),
			logging.Int("attempt", attempt),
			logging.Duration("delay", delay),
			logging.Error(err))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, lastErr
}

func (c *Client) doRequest(ctx context.Context, endpoint string) ([]byte, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, services.Wrap(services.ErrValidation, stageLookup, "request", "build request", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, services.Wrap(services.ErrTransient, stageLookup, "request", "execute request", err)
	}
	defer resp.Body.Close()

	c.noteQuota(resp.Header)

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, 0, services.Wrap(services.ErrTransient, stageLookup, "request", "read response body", err)
		}
		return body, 0, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, 0, services.Wrap(services.ErrNotFound, stageLookup, "request", "release not found", nil)
	case resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode == http.StatusTooManyRequests:
		return nil, retryAfterDelay(resp.Header), services.Wrap(services.ErrRateLimited, stageLookup, "request",
			fmt.Sprintf("server throttled request (status %d)", resp.StatusCode), nil)
	case resp.StatusCode >= 500:
		return nil, 0, services.Wrap(services.ErrTransient, stageLookup, "request",
			fmt.Sprintf("server error (status %d)", resp.StatusCode), nil)
	default:
		return nil, 0, services.Wrap(services.ErrValidation, stageLookup, "request",
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}
}

// noteQuota records the server's reported quota so the next request can
// pause before the limiter kicks in.
func (c *Client) noteQuota(header http.Header) {
	remaining, err := strconv.Atoi(header.Get("X-RateLimit-Remaining"))
	if err != nil || remaining > c.quotaFloor {
		return
	}
	reset, err := strconv.ParseInt(header.Get("X-RateLimit-Reset"), 10, 64)
	if err != nil {
		return
	}
	until := time.Unix(reset, 0)
	c.mu.Lock()
	if until.After(c.waitUntil) {
		c.waitUntil = until
	}
	c.mu.Unlock()
}

func (c *Client) waitForQuota(ctx context.Context) error {
	c.mu.Lock()
	until := c.waitUntil
	c.mu.Unlock()

	delay := time.Until(until)
	if delay <= 0 {
		return nil
	}
	c.logger.Debug("pausing for rate limit quota", logging.Duration("delay", delay))
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

func retryAfterDelay(header http.Header) time.Duration {
	seconds, err := strconv.Atoi(header.Get("Retry-After"))
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// strictUnmarshal decodes JSON and rejects trailing garbage.
func strictUnmarshal(data []byte, v any) error {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("trailing data after JSON document")
	}
	return nil
}
