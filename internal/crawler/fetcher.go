package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrFetchFailed classifies transport errors, timeouts, and non-2xx
// responses. These drop the page but never abort the crawl.
var ErrFetchFailed = errors.New("fetch failed")

// Fetcher performs rate-limited page downloads with content-type gating.
type Fetcher struct {
	httpClient *HTTPClient
	limiter    *RateLimiter
}

// NewFetcher creates a fetcher over the shared client and limiter.
func NewFetcher(httpClient *HTTPClient, limiter *RateLimiter) *Fetcher {
	return &Fetcher{
		httpClient: httpClient,
		limiter:    limiter,
	}
}

// FetchedPage is the outcome of one page download.
type FetchedPage struct {
	HTML       string // empty for non-HTML responses and failures
	StatusCode int    // 0 when no response arrived
	FinalURL   string // URL after redirects, empty when no response arrived
}

// Fetch downloads the page at target. Non-HTML responses return an empty
// document and no error (a skip, not a failure). Transport errors and
// non-2xx statuses return ErrFetchFailed. Retry of transient failures is
// the HTTP client's responsibility.
func (f *Fetcher) Fetch(ctx context.Context, target string) (FetchedPage, error) {
	if err := f.limiter.Wait(ctx, target); err != nil {
		return FetchedPage{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	resp, err := f.httpClient.Get(ctx, target)
	if err != nil {
		return FetchedPage{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	page := FetchedPage{StatusCode: resp.StatusCode, FinalURL: resp.FinalURL}

	if !strings.Contains(strings.ToLower(resp.ContentType), "text/html") {
		slog.Debug("skipping non-HTML content", "url", target, "content_type", resp.ContentType)
		return page, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return page, fmt.Errorf("%w: %s returned status %d", ErrFetchFailed, target, resp.StatusCode)
	}

	page.HTML = string(resp.Body)
	return page, nil
}
