package config

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.MaxPages != 50 {
		t.Errorf("MaxPages = %d, expected 50", cfg.MaxPages)
	}
	if cfg.Concurrency != 10 {
		t.Errorf("Concurrency = %d, expected 10", cfg.Concurrency)
	}
	if cfg.RequestDelay != 200*time.Millisecond {
		t.Errorf("RequestDelay = %v, expected 200ms", cfg.RequestDelay)
	}
	if cfg.RequestTimeout != 8*time.Second {
		t.Errorf("RequestTimeout = %v, expected 8s", cfg.RequestTimeout)
	}
	if cfg.SnippetRadius != 50 {
		t.Errorf("SnippetRadius = %d, expected 50", cfg.SnippetRadius)
	}
	if cfg.UserAgent == "" {
		t.Error("UserAgent should have a default")
	}
	if len(cfg.BannedExtensions) == 0 {
		t.Error("BannedExtensions should have defaults")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *CrawlConfig {
		cfg := DefaultConfig()
		cfg.SeedURL = "https://example.com"
		cfg.SearchTerm = "term"
		return cfg
	}

	tests := []struct {
		name     string
		mutate   func(*CrawlConfig)
		expected error
	}{
		{
			name:     "Valid default",
			mutate:   func(c *CrawlConfig) {},
			expected: nil,
		},
		{
			name:     "Missing seed URL",
			mutate:   func(c *CrawlConfig) { c.SeedURL = "" },
			expected: ErrNoSeedURL,
		},
		{
			name:     "Whitespace seed URL",
			mutate:   func(c *CrawlConfig) { c.SeedURL = "   " },
			expected: ErrNoSeedURL,
		},
		{
			name:     "Missing search term",
			mutate:   func(c *CrawlConfig) { c.SearchTerm = "" },
			expected: ErrNoSearchTerm,
		},
		{
			name:     "Whitespace search term",
			mutate:   func(c *CrawlConfig) { c.SearchTerm = "   " },
			expected: ErrNoSearchTerm,
		},
		{
			name:     "Zero max pages",
			mutate:   func(c *CrawlConfig) { c.MaxPages = 0 },
			expected: ErrInvalidMaxPages,
		},
		{
			name:     "Negative max pages",
			mutate:   func(c *CrawlConfig) { c.MaxPages = -5 },
			expected: ErrInvalidMaxPages,
		},
		{
			name:     "Zero concurrency",
			mutate:   func(c *CrawlConfig) { c.Concurrency = 0 },
			expected: ErrInvalidConcurrency,
		},
		{
			name:     "Zero timeout",
			mutate:   func(c *CrawlConfig) { c.RequestTimeout = 0 },
			expected: ErrInvalidTimeout,
		},
		{
			name:     "Negative delay",
			mutate:   func(c *CrawlConfig) { c.RequestDelay = -time.Second },
			expected: ErrInvalidDelay,
		},
		{
			name:     "Zero delay is allowed",
			mutate:   func(c *CrawlConfig) { c.RequestDelay = 0 },
			expected: nil,
		},
		{
			name:     "Negative snippet radius",
			mutate:   func(c *CrawlConfig) { c.SnippetRadius = -1 },
			expected: ErrInvalidSnippetRadius,
		},
		{
			name:     "Zero snippet radius is allowed",
			mutate:   func(c *CrawlConfig) { c.SnippetRadius = 0 },
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.expected == nil {
				if err != nil {
					t.Errorf("Validate() = %v, expected nil", err)
				}
				return
			}
			if !errors.Is(err, tt.expected) {
				t.Errorf("Validate() = %v, expected %v", err, tt.expected)
			}
		})
	}
}

func TestValidateClampsNegativeRetries(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SeedURL = "https://example.com"
	cfg.SearchTerm = "term"
	cfg.RetryAttempts = -3

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v, expected nil", err)
	}
	if cfg.RetryAttempts != 0 {
		t.Errorf("RetryAttempts = %d, expected clamp to 0", cfg.RetryAttempts)
	}
}

func TestHeaderMap(t *testing.T) {
	tests := []struct {
		name     string
		headers  []string
		expected map[string]string
	}{
		{
			name:    "Simple headers",
			headers: []string{"Accept: text/html", "X-Custom: value"},
			expected: map[string]string{
				"Accept":   "text/html",
				"X-Custom": "value",
			},
		},
		{
			name:    "Value containing colon",
			headers: []string{"Referer: https://example.com/page"},
			expected: map[string]string{
				"Referer": "https://example.com/page",
			},
		},
		{
			name:     "Missing colon dropped",
			headers:  []string{"NotAHeader"},
			expected: map[string]string{},
		},
		{
			name:     "Empty name dropped",
			headers:  []string{": value"},
			expected: map[string]string{},
		},
		{
			name:     "Empty value dropped",
			headers:  []string{"Name:   "},
			expected: map[string]string{},
		},
		{
			name:    "Whitespace trimmed",
			headers: []string{"  Accept-Language :  en-US  "},
			expected: map[string]string{
				"Accept-Language": "en-US",
			},
		},
		{
			name:     "No headers",
			headers:  nil,
			expected: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &CrawlConfig{Headers: tt.headers}

			got := cfg.HeaderMap()
			if len(got) != len(tt.expected) {
				t.Fatalf("HeaderMap() = %v, expected %v", got, tt.expected)
			}
			for key, value := range tt.expected {
				if got[key] != value {
					t.Errorf("HeaderMap()[%q] = %q, expected %q", key, got[key], value)
				}
			}
		})
	}
}
