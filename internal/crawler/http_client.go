package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Statuses considered transient and worth retrying.
var defaultRetryStatuses = map[int]struct{}{
	http.StatusInternalServerError: {},
	http.StatusBadGateway:          {},
	http.StatusServiceUnavailable:  {},
	http.StatusGatewayTimeout:      {},
}

// HTTPClient performs GET requests with a fixed User-Agent, optional
// static headers, and transport-level retries for transient failures.
// The crawl engine never re-drives retries itself.
type HTTPClient struct {
	client        *http.Client
	userAgent     string
	customHeaders map[string]string
	retryAttempts int
	retryBackoff  time.Duration
	retryStatuses map[int]struct{}
}

// HTTPResponse contains the parts of a response the crawler consumes.
type HTTPResponse struct {
	StatusCode  int
	Body        []byte
	ContentType string
	FinalURL    string // After following redirects
}

// NewHTTPClient creates a new HTTP client. retryAttempts transient
// failures (transport errors and retryable status codes) are retried
// with exponential backoff starting at retryBackoff.
func NewHTTPClient(userAgent string, timeout time.Duration, retryAttempts int, retryBackoff time.Duration) *HTTPClient {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}

	return &HTTPClient{
		client:        client,
		userAgent:     userAgent,
		customHeaders: make(map[string]string),
		retryAttempts: retryAttempts,
		retryBackoff:  retryBackoff,
		retryStatuses: defaultRetryStatuses,
	}
}

// SetCustomHeaders sets static headers sent with every request.
func (h *HTTPClient) SetCustomHeaders(headers map[string]string) {
	if h.customHeaders == nil {
		h.customHeaders = make(map[string]string)
	}
	for k, v := range headers {
		h.customHeaders[k] = v
	}
}

// Get performs an HTTP GET request. Transport errors and retryable
// status codes are retried up to the configured attempt count; the
// backoff doubles after each attempt and respects context cancellation.
func (h *HTTPClient) Get(ctx context.Context, url string) (*HTTPResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= h.retryAttempts; attempt++ {
		if attempt > 0 {
			backoff := h.retryBackoff * (1 << (attempt - 1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := h.do(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}

		if _, retryable := h.retryStatuses[resp.StatusCode]; retryable && attempt < h.retryAttempts {
			lastErr = fmt.Errorf("transient status %d from %s", resp.StatusCode, url)
			continue
		}

		return resp, nil
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", h.retryAttempts+1, lastErr)
}

func (h *HTTPClient) do(ctx context.Context, url string) (*HTTPResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	for name, value := range h.customHeaders {
		req.Header.Set(name, value)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &HTTPResponse{
		StatusCode:  resp.StatusCode,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    resp.Request.URL.String(),
	}, nil
}

// Close closes the HTTP client
func (h *HTTPClient) Close() {
	h.client.CloseIdleConnections()
}
