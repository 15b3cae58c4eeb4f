package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/temoto/robotstxt"
)

// RobotsGate answers per-URL fetch-allowed queries against the crawl
// domain's robots.txt. The policy is loaded once before workers start
// and is immutable afterwards, so Allowed needs no locking.
type RobotsGate struct {
	httpClient *HTTPClient
	userAgent  string
	group      *robotstxt.Group
	allowAll   bool
}

// NewRobotsGate creates an unloaded gate. Until Load is called the gate
// allows everything.
func NewRobotsGate(httpClient *HTTPClient, userAgent string) *RobotsGate {
	return &RobotsGate{
		httpClient: httpClient,
		userAgent:  userAgent,
		allowAll:   true,
	}
}

// Load fetches and parses robots.txt for the seed URL's host. Any
// failure (network error, unexpected status, malformed body) falls back
// to an allow-all policy with a warning; robots.txt absence never halts
// a crawl.
func (g *RobotsGate) Load(ctx context.Context, seedURL string) {
	parsed, err := url.Parse(seedURL)
	if err != nil || parsed.Host == "" {
		slog.Warn("robots.txt skipped for unparseable seed", "seed", seedURL)
		return
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", parsed.Scheme, parsed.Host)
	resp, err := g.httpClient.Get(ctx, robotsURL)
	if err != nil {
		slog.Warn("robots.txt unavailable, allowing all", "url", robotsURL, "error", err)
		return
	}

	// A 404 parses to an allow-all ruleset here.
	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, resp.Body)
	if err != nil {
		slog.Warn("robots.txt unparseable, allowing all", "url", robotsURL, "error", err)
		return
	}

	g.group = data.FindGroup(g.userAgent)
	g.allowAll = false
	slog.Info("robots.txt loaded", "url", robotsURL, "status", resp.StatusCode)
}

// Allowed reports whether fetching the URL is permitted by the loaded
// policy. Pure and safe for concurrent use; unparseable URLs are
// rejected.
func (g *RobotsGate) Allowed(rawURL string) bool {
	if g.allowAll || g.group == nil {
		return true
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	path := parsed.EscapedPath()
	if path == "" {
		path = "/"
	}

	return g.group.Test(path)
}
