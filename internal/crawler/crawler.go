// Package crawler provides the core deep-search crawling functionality.
// It implements a concurrent, frontier-based crawler confined to the
// seed URL's domain, with rate limiting, robots.txt compliance, and
// search-term snippet extraction.
package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"sagasu/internal/config"
	"sagasu/internal/extract"
	"sagasu/internal/urlkit"
)

// pollTimeout bounds how long an idle worker blocks on the frontier
// before rechecking its exit conditions.
const pollTimeout = 250 * time.Millisecond

// Crawler performs a breadth-first search of a single domain, looking
// for a search term in the visible text of each page. One Crawler
// drives one crawl; all of its state is per-instance, so independent
// crawls can run in the same process.
type Crawler struct {
	cfg        *config.CrawlConfig
	seedURL    string // normalized
	domain     string
	searchTerm string // lowercased

	httpClient *HTTPClient
	fetcher    *Fetcher
	limiter    *RateLimiter
	robots     *RobotsGate

	frontier *frontier
	wg       sync.WaitGroup

	// Shared crawl state. The mutex guards the claim-or-reject critical
	// section and all result writes; fetch and parse work happens
	// outside it.
	mu          sync.Mutex
	visited     map[string]struct{}
	found       map[string][]string
	matchedURLs []string
	pages       []PageVisit
	errorCount  int
	startTime   time.Time
}

// New creates a crawler for the configured seed URL and search term.
// A seed URL that cannot be normalized is a fatal configuration error,
// as are non-positive max_pages or concurrency.
func New(cfg *config.CrawlConfig) (*Crawler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	seedURL, err := urlkit.Normalize(cfg.SeedURL)
	if err != nil {
		return nil, fmt.Errorf("seed URL: %w", err)
	}

	domain, err := urlkit.Host(seedURL)
	if err != nil {
		return nil, fmt.Errorf("seed URL: %w", err)
	}

	httpClient := NewHTTPClient(cfg.UserAgent, cfg.RequestTimeout, cfg.RetryAttempts, cfg.RetryBackoff)
	if headers := cfg.HeaderMap(); len(headers) > 0 {
		httpClient.SetCustomHeaders(headers)
		slog.Info("set custom headers", "count", len(headers))
	}

	limiter := NewRateLimiter(cfg.RequestDelay)

	return &Crawler{
		cfg:        cfg,
		seedURL:    seedURL,
		domain:     domain,
		searchTerm: strings.ToLower(cfg.SearchTerm),
		httpClient: httpClient,
		fetcher:    NewFetcher(httpClient, limiter),
		limiter:    limiter,
		robots:     NewRobotsGate(httpClient, cfg.UserAgent),
		frontier:   newFrontier(),
		visited:    make(map[string]struct{}),
		found:      make(map[string][]string),
	}, nil
}

// Crawl runs the crawl to completion and returns the final results. It
// returns once the frontier is fully drained, the page cap is reached,
// or a stop was requested (via RequestStop or context cancellation) and
// all workers have exited. Per-URL failures are logged and never
// surface here.
func (c *Crawler) Crawl(ctx context.Context) *Result {
	c.startTime = time.Now()

	slog.Info("starting deep scan",
		"domain", c.domain, "term", c.cfg.SearchTerm,
		"max_pages", c.cfg.MaxPages, "concurrency", c.cfg.Concurrency)

	// Robots policy is loaded once, before any worker starts; it is
	// read-only afterwards.
	c.robots.Load(ctx, c.seedURL)

	c.frontier.Push(c.seedURL)

	for i := 0; i < c.cfg.Concurrency; i++ {
		c.wg.Add(1)
		go c.worker(ctx, i)
	}

	done := make(chan struct{})
	go c.watchCancellation(ctx, done)
	go c.reportProgress(done)

	c.wg.Wait()
	close(done)

	// All workers joined; make the draining state terminal.
	c.RequestStop()
	c.httpClient.Close()

	result := c.buildResult()
	slog.Info("deep scan finished",
		"visited", result.VisitedCount, "matches", len(result.Found),
		"errors", result.ErrorCount, "duration", result.Duration)

	return result
}

// RequestStop asks the crawl to stop: workers finish their in-flight
// page but claim no more work. Idempotent and safe from any goroutine,
// including signal-handling adapters at the process boundary.
func (c *Crawler) RequestStop() {
	c.frontier.Stop()
}

// GetStats returns a snapshot of crawl progress.
func (c *Crawler) GetStats() CrawlStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return CrawlStats{
		PagesVisited: len(c.visited),
		PagesQueued:  c.frontier.Len(),
		MatchCount:   len(c.found),
		ErrorCount:   c.errorCount,
		StartTime:    c.startTime,
		Duration:     time.Since(c.startTime),
	}
}

// watchCancellation propagates context cancellation into a stop request.
func (c *Crawler) watchCancellation(ctx context.Context, done <-chan struct{}) {
	select {
	case <-ctx.Done():
		slog.Info("crawl cancelled", "reason", ctx.Err())
		c.RequestStop()
	case <-done:
	}
}

// reportProgress periodically logs crawl statistics.
func (c *Crawler) reportProgress(done <-chan struct{}) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			stats := c.GetStats()
			slog.Info("crawl progress",
				"visited", stats.PagesVisited, "queued", stats.PagesQueued,
				"matches", stats.MatchCount, "errors", stats.ErrorCount,
				"duration", stats.Duration)
		}
	}
}

// worker pulls targets from the frontier until the crawl drains or a
// stop is requested. An idle worker wakes at least every pollTimeout to
// recheck both conditions, so shutdown latency is bounded.
func (c *Crawler) worker(ctx context.Context, id int) {
	defer c.wg.Done()

	slog.Debug("worker started", "worker_id", id)
	defer slog.Debug("worker stopped", "worker_id", id)

	for {
		if c.frontier.Stopping() {
			return
		}
		if c.capReached() {
			// The cap makes all remaining frontier items unclaimable.
			c.RequestStop()
			return
		}

		target, ok := c.frontier.Pop(pollTimeout)
		if !ok {
			if c.frontier.Stopping() || c.frontier.Drained() {
				return
			}
			continue
		}

		c.process(ctx, id, target)
		c.frontier.Done()
	}
}

func (c *Crawler) capReached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.visited) >= c.cfg.MaxPages
}

// process claims a target and runs the fetch-match-discover sequence.
// The claim (visited-set membership plus page-cap check) is a single
// critical section and the sole deduplication point.
func (c *Crawler) process(ctx context.Context, id int, target string) {
	c.mu.Lock()
	if _, seen := c.visited[target]; seen || len(c.visited) >= c.cfg.MaxPages {
		c.mu.Unlock()
		return
	}
	c.visited[target] = struct{}{}
	claimed := len(c.visited)
	c.mu.Unlock()

	slog.Info("scanning page", "worker_id", id, "page", claimed, "max_pages", c.cfg.MaxPages, "url", target)

	visit := PageVisit{URL: target, CrawledAt: time.Now().UTC()}

	page, err := c.fetcher.Fetch(ctx, target)
	visit.StatusCode = page.StatusCode
	visit.FinalURL = page.FinalURL
	if err != nil {
		slog.Error("page dropped", "worker_id", id, "url", target, "error", err)
		c.mu.Lock()
		c.errorCount++
		c.pages = append(c.pages, visit)
		c.mu.Unlock()
		return
	}

	if page.HTML == "" {
		// Non-HTML skip.
		c.recordVisit(visit)
		return
	}

	text := extract.CleanText(page.HTML)
	if extract.ContainsTerm(text, c.searchTerm) {
		snippets := extract.FindSnippets(text, c.cfg.SearchTerm, c.cfg.SnippetRadius)
		visit.Matched = true

		c.mu.Lock()
		if _, dup := c.found[target]; !dup {
			c.found[target] = snippets
			c.matchedURLs = append(c.matchedURLs, target)
		}
		c.mu.Unlock()

		slog.Info("match found", "worker_id", id, "url", target, "occurrences", len(snippets))
	}
	c.recordVisit(visit)

	c.discoverLinks(page.HTML, target)
}

func (c *Crawler) recordVisit(visit PageVisit) {
	c.mu.Lock()
	c.pages = append(c.pages, visit)
	c.mu.Unlock()
}

// discoverLinks extracts in-scope candidates from a fetched page and
// enqueues unseen ones. Discovery is skipped once the cap is reached;
// nothing enqueued now could ever be claimed.
func (c *Crawler) discoverLinks(html, pageURL string) {
	if c.capReached() || c.frontier.Stopping() {
		return
	}

	for _, anchor := range extract.Links(html, pageURL) {
		if !urlkit.IsValid(anchor.URL, c.domain, c.cfg.BannedExtensions) {
			continue
		}
		if !c.robots.Allowed(anchor.URL) {
			slog.Debug("skipping disallowed by robots.txt", "url", anchor.URL)
			continue
		}

		candidate, err := urlkit.Normalize(anchor.URL)
		if err != nil {
			continue
		}

		// Best-effort pre-check; the claim recheck is authoritative.
		c.mu.Lock()
		_, seen := c.visited[candidate]
		c.mu.Unlock()
		if !seen {
			c.frontier.Push(candidate)
		}
	}
}

// buildResult assembles the immutable output surface.
func (c *Crawler) buildResult() *Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	found := make(map[string][]string, len(c.found))
	for url, snippets := range c.found {
		found[url] = append([]string(nil), snippets...)
	}

	return &Result{
		SearchTerm:   c.cfg.SearchTerm,
		VisitedCount: len(c.visited),
		Found:        found,
		MatchedURLs:  append([]string(nil), c.matchedURLs...),
		Pages:        append([]PageVisit(nil), c.pages...),
		ErrorCount:   c.errorCount,
		Duration:     time.Since(c.startTime),
	}
}
