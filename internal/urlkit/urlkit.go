// Package urlkit provides URL normalization and validation for the crawler.
// Normalized URLs are the identity under which pages are deduplicated.
package urlkit

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrMalformedURL is returned when input cannot be interpreted as a URL.
// A malformed discovered link is skipped; a malformed seed URL is fatal.
var ErrMalformedURL = errors.New("malformed URL")

// Normalize canonicalizes a URL into its deduplication key: a missing
// scheme defaults to https, scheme and host are lowercased, trailing
// slashes are stripped from the path (the root path stays "/"), and
// query and fragment are discarded. Normalize is idempotent.
func Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrMalformedURL
	}

	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrMalformedURL, raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: %q has no host", ErrMalformedURL, raw)
	}

	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Host)

	path := strings.TrimRight(u.EscapedPath(), "/")
	if path == "" {
		path = "/"
	}

	return scheme + "://" + host + path, nil
}

// IsValid reports whether a URL belongs to the crawl scope: its host must
// equal domain (no subdomain folding), its scheme must be http or https,
// and its lowercased path must not end with any banned extension. Used to
// prune off-domain links and non-HTML assets before any network call.
func IsValid(raw, domain string, bannedExtensions []string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	if !strings.EqualFold(u.Host, domain) {
		return false
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false
	}

	path := strings.ToLower(u.EscapedPath())
	for _, ext := range bannedExtensions {
		if strings.HasSuffix(path, ext) {
			return false
		}
	}

	return true
}

// Host extracts the lowercased host of a URL.
func Host(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrMalformedURL, raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: %q has no host", ErrMalformedURL, raw)
	}
	return strings.ToLower(u.Host), nil
}
