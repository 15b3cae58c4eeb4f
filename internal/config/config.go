// Package config provides configuration management for the crawler.
// It defines configuration structures and default values for deep-search
// crawling parameters.
package config

import (
	"strings"
	"time"
)

// CrawlConfig holds the full configuration for one deep-search crawl
type CrawlConfig struct {
	// Search parameters
	SeedURL    string `mapstructure:"seed_url" yaml:"seed_url"`       // Starting URL for the crawl
	SearchTerm string `mapstructure:"search_term" yaml:"search_term"` // Term to search for in page text

	// Crawl limits
	MaxPages      int           `mapstructure:"max_pages" yaml:"max_pages"`           // Stop after visiting N pages
	Concurrency   int           `mapstructure:"concurrency" yaml:"concurrency"`       // Number of concurrent workers
	RequestDelay  time.Duration `mapstructure:"request_delay" yaml:"request_delay"`   // Minimum delay between requests per host
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"` // HTTP request timeout
	SnippetRadius int           `mapstructure:"snippet_radius" yaml:"snippet_radius"` // Characters of context around each match

	// HTTP behaviour
	UserAgent     string        `mapstructure:"user_agent" yaml:"user_agent"`         // HTTP User-Agent header
	Headers       []string      `mapstructure:"headers" yaml:"headers"`               // Static headers in "Name: Value" format
	RetryAttempts int           `mapstructure:"retry_attempts" yaml:"retry_attempts"` // Retries for transient HTTP failures
	RetryBackoff  time.Duration `mapstructure:"retry_backoff" yaml:"retry_backoff"`   // Base backoff between retries

	// URL filtering
	BannedExtensions []string `mapstructure:"banned_extensions" yaml:"banned_extensions"` // Path suffixes never fetched

	// Results export (optional)
	DatabasePath string `mapstructure:"database_path" yaml:"database_path"` // SQLite file for result export, empty disables
}

// DefaultBannedExtensions lists path suffixes that never carry HTML content.
func DefaultBannedExtensions() []string {
	return []string{
		".png", ".jpg", ".jpeg", ".gif", ".pdf", ".doc", ".docx",
		".xls", ".xlsx", ".ppt", ".pptx", ".mp3", ".mp4", ".zip",
		".tar", ".gz", ".exe", ".svg", ".css", ".js", ".ico", ".webp",
	}
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *CrawlConfig {
	return &CrawlConfig{
		MaxPages:         50,
		Concurrency:      10,
		RequestDelay:     200 * time.Millisecond,
		RequestTimeout:   8 * time.Second,
		SnippetRadius:    50,
		UserAgent:        "Sagasu/1.0",
		RetryAttempts:    3,
		RetryBackoff:     100 * time.Millisecond,
		BannedExtensions: DefaultBannedExtensions(),
	}
}

// Validate checks if the configuration is valid. Violations here are the
// only fatal errors of a crawl; everything later is per-URL and non-fatal.
func (c *CrawlConfig) Validate() error {
	if strings.TrimSpace(c.SeedURL) == "" {
		return ErrNoSeedURL
	}

	if strings.TrimSpace(c.SearchTerm) == "" {
		return ErrNoSearchTerm
	}

	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.RequestTimeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.RequestDelay < 0 {
		return ErrInvalidDelay
	}

	if c.SnippetRadius < 0 {
		return ErrInvalidSnippetRadius
	}

	if c.RetryAttempts < 0 {
		c.RetryAttempts = 0
	}

	return nil
}

// HeaderMap parses the configured "Name: Value" header strings.
// Entries without a colon or with an empty name or value are dropped.
func (c *CrawlConfig) HeaderMap() map[string]string {
	headers := make(map[string]string, len(c.Headers))
	for _, header := range c.Headers {
		colonIndex := strings.Index(header, ":")
		if colonIndex <= 0 {
			continue
		}

		key := strings.TrimSpace(header[:colonIndex])
		value := strings.TrimSpace(header[colonIndex+1:])
		if key == "" || value == "" {
			continue
		}

		headers[key] = value
	}
	return headers
}
