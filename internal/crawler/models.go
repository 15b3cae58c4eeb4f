package crawler

import "time"

// PageVisit records one fetch attempt, terminal regardless of outcome.
type PageVisit struct {
	URL        string    // Normalized URL that was claimed
	FinalURL   string    // URL after redirects, empty when the request never completed
	StatusCode int       // HTTP status code, 0 when the request never completed
	Matched    bool      // Whether the search term was found in the page text
	CrawledAt  time.Time // Timestamp of the fetch attempt (UTC)
}

// Result is the output surface of a crawl. It is never mutated after
// Crawl returns.
type Result struct {
	SearchTerm   string
	VisitedCount int                 // Number of pages claimed for fetching
	Found        map[string][]string // Matched URL -> snippets in match order
	MatchedURLs  []string            // Keys of Found in first-match order
	Pages        []PageVisit         // Every fetch attempt, for export
	ErrorCount   int                 // Pages dropped due to fetch failures
	Duration     time.Duration
}

// CrawlStats is a point-in-time snapshot of crawl progress.
type CrawlStats struct {
	PagesVisited int
	PagesQueued  int
	MatchCount   int
	ErrorCount   int
	StartTime    time.Time
	Duration     time.Duration
}
