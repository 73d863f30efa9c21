// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP client used to download record files.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/borngreat26/DSC106-ClusterFunks2/internal/logger"
	"github.com/borngreat26/DSC106-ClusterFunks2/pkg/types"
)

// RetryBaseDelay is the first backoff step when a throttled response
// carries no Retry-After header. Tests lower it.
var RetryBaseDelay = 10 * time.Second

// StatusError is returned for any final response other than 200 OK.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}

// Client issues GET requests with a fixed User-Agent. Throttled responses
// (429, 503) are retried up to MaxRetries times; zero sends each request
// once.
type Client struct {
	HTTP       *http.Client
	UserAgent  string
	MaxRetries int
	Log        *logger.Logger
}

// New returns a Client for cfg. A nil hc gets a client with cfg.Timeout.
func New(cfg types.HTTPConfig, hc *http.Client, log *logger.Logger) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Client{HTTP: hc, UserAgent: cfg.UserAgent, MaxRetries: cfg.MaxRetries, Log: log}
}

// Get fetches url and returns the 200 response; the caller closes its body.
// Any other final status is a *StatusError.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	log := c.Log
	if log == nil {
		log = logger.NewNop()
	}

	for attempt := 0; ; attempt++ {
		resp, err := c.HTTP.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode == http.StatusOK {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if !throttled(resp.StatusCode) || attempt >= c.MaxRetries {
			return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
		}

		wait := retryDelay(resp.Header.Get("Retry-After"), attempt)
		log.Warnw("throttled, retrying",
			"url", url, "status", resp.StatusCode, "attempt", attempt+1, "wait", wait)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

func throttled(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusServiceUnavailable
}

// retryDelay honours a Retry-After value in seconds, otherwise doubles
// RetryBaseDelay per attempt.
func retryDelay(retryAfter string, attempt int) time.Duration {
	if secs, err := strconv.Atoi(retryAfter); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return RetryBaseDelay << attempt
}
