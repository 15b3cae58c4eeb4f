package crawler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestFetcher(t *testing.T) *Fetcher {
	t.Helper()
	client := NewHTTPClient("Sagasu-Test/1.0", 5*time.Second, 0, time.Millisecond)
	return NewFetcher(client, NewRateLimiter(0))
}

func TestFetchHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body>content</body></html>"))
	}))
	defer server.Close()

	page, err := newTestFetcher(t).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if page.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, expected 200", page.StatusCode)
	}
	if !strings.Contains(page.HTML, "content") {
		t.Errorf("HTML = %q, expected page body", page.HTML)
	}
}

func TestFetchRecordsFinalURL(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/home", http.StatusFound)
	})
	mux.HandleFunc("/home", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>home</html>"))
	})

	page, err := newTestFetcher(t).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if page.FinalURL != server.URL+"/home" {
		t.Errorf("FinalURL = %q, expected the post-redirect URL %q", page.FinalURL, server.URL+"/home")
	}
	if page.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, expected the final response status", page.StatusCode)
	}
}

func TestFetchNonHTMLIsSkipNotFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer server.Close()

	page, err := newTestFetcher(t).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Errorf("Non-HTML content should not be an error, got: %v", err)
	}
	if page.HTML != "" {
		t.Errorf("HTML = %q, expected empty string for non-HTML content", page.HTML)
	}
}

func TestFetchNon2xxIsFetchFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("<html>not here</html>"))
	}))
	defer server.Close()

	page, err := newTestFetcher(t).Fetch(context.Background(), server.URL)
	if !errors.Is(err, ErrFetchFailed) {
		t.Errorf("error = %v, expected ErrFetchFailed", err)
	}
	if page.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, expected 404", page.StatusCode)
	}
	if page.HTML != "" {
		t.Errorf("HTML = %q, expected empty string on failure", page.HTML)
	}
}

func TestFetchTransportErrorIsFetchFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestFetcher(t).Fetch(context.Background(), url)
	if !errors.Is(err, ErrFetchFailed) {
		t.Errorf("error = %v, expected ErrFetchFailed", err)
	}
}

func TestFetchAppliesRateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	client := NewHTTPClient("Sagasu-Test/1.0", 5*time.Second, 0, time.Millisecond)
	fetcher := NewFetcher(client, NewRateLimiter(100*time.Millisecond))

	start := time.Now()
	if _, err := fetcher.Fetch(context.Background(), server.URL+"/a"); err != nil {
		t.Fatalf("First fetch failed: %v", err)
	}
	if _, err := fetcher.Fetch(context.Background(), server.URL+"/b"); err != nil {
		t.Fatalf("Second fetch failed: %v", err)
	}

	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Errorf("Two fetches completed in %v, expected rate limiting to apply", elapsed)
	}
}
