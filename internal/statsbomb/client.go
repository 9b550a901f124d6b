// Package statsbomb provides a minimal client for StatsBomb open-data match
// and event files.
package statsbomb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/pable/go-pitch-metrics/internal/parser"
)

// DefaultBaseURL is the root of the StatsBomb open-data repository.
const DefaultBaseURL = "https://raw.githubusercontent.com/statsbomb/open-data/master/data"

// ErrNotFound is returned for HTTP 404 responses.
var ErrNotFound = errors.New("statsbomb: not found")

// Client fetches match lists and events. Requests are rate limited and go
// through a circuit breaker so a failing host is not hammered match after match.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[[]byte]
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRateLimit caps requests per second (burst 1). Non-positive disables limiting.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// NewClient returns a client for the given base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(5), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.cb = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "statsbomb",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// Missing files are a normal answer, not a host failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
	})
	return c
}

// get performs a GET against the open-data root and returns the body.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.cb.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("GET %s: %w", path, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("GET %s: read body: %w", path, err)
		}
		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, fmt.Errorf("GET %s: %w", path, ErrNotFound)
		case resp.StatusCode != http.StatusOK:
			snippet := string(body)
			if len(snippet) > 200 {
				snippet = snippet[:200]
			}
			return nil, fmt.Errorf("GET %s: HTTP %d: %s", path, resp.StatusCode, snippet)
		}
		return body, nil
	})
}

// GetMatches returns the match list of a competition season.
func (c *Client) GetMatches(ctx context.Context, competitionID, seasonID int) ([]parser.RawMatch, error) {
	body, err := c.get(ctx, fmt.Sprintf("/matches/%d/%d.json", competitionID, seasonID))
	if err != nil {
		return nil, err
	}
	return parser.ParseMatches(bytes.NewReader(body))
}

// GetEvents returns the raw events of one match.
func (c *Client) GetEvents(ctx context.Context, matchID int64) ([]parser.RawEvent, error) {
	body, err := c.get(ctx, fmt.Sprintf("/events/%d.json", matchID))
	if err != nil {
		return nil, err
	}
	events, err := parser.ParseEvents(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("match %d: %w", matchID, err)
	}
	return events, nil
}
