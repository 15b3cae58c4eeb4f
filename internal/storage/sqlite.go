// Package storage provides optional persistence of crawl results.
// It implements a SQLite-based export of visited pages and match
// snippets, written after a crawl completes.
package storage

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"sagasu/internal/crawler"
	// SQLite database driver (CGO-free)
	_ "modernc.org/sqlite"
)

// SQLiteStore exports crawl results to a SQLite database
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite results store
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single connection prevents lock conflicts
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 30000",
	}

	for _, pragma := range pragmas {
		if _, err := s.db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute pragma %s: %w", pragma, err)
		}
	}

	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveResult writes the full crawl result in one transaction: every
// visited page, the snippets of each matched page, and run metadata.
func (s *SQLiteStore) SaveResult(result *crawler.Result) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	pageStmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO pages (url, final_url, status_code, matched, crawled_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare page statement: %w", err)
	}
	defer func() { _ = pageStmt.Close() }()

	for _, page := range result.Pages {
		matched := 0
		if page.Matched {
			matched = 1
		}
		if _, err := pageStmt.Exec(page.URL, page.FinalURL, page.StatusCode, matched, page.CrawledAt); err != nil {
			return fmt.Errorf("failed to insert page %s: %w", page.URL, err)
		}
	}

	snippetStmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO snippets (page_id, ordinal, snippet)
		VALUES ((SELECT id FROM pages WHERE url = ?), ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare snippet statement: %w", err)
	}
	defer func() { _ = snippetStmt.Close() }()

	for _, url := range result.MatchedURLs {
		for ordinal, snippet := range result.Found[url] {
			if _, err := snippetStmt.Exec(url, ordinal, snippet); err != nil {
				return fmt.Errorf("failed to insert snippet for %s: %w", url, err)
			}
		}
	}

	meta := map[string]string{
		"search_term":   result.SearchTerm,
		"visited_count": strconv.Itoa(result.VisitedCount),
		"match_count":   strconv.Itoa(len(result.Found)),
		"error_count":   strconv.Itoa(result.ErrorCount),
		"duration_ms":   strconv.FormatInt(result.Duration.Milliseconds(), 10),
		"finished_at":   time.Now().UTC().Format(time.RFC3339),
	}
	for key, value := range meta {
		if _, err := tx.Exec(
			"INSERT OR REPLACE INTO crawl_meta (key, value) VALUES (?, ?)", key, value,
		); err != nil {
			return fmt.Errorf("failed to set meta %s: %w", key, err)
		}
	}

	return tx.Commit()
}

// GetMeta retrieves a metadata value
func (s *SQLiteStore) GetMeta(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM crawl_meta WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get meta: %w", err)
	}
	return value, nil
}

// CountPages returns the number of exported pages, split by match state.
func (s *SQLiteStore) CountPages() (total int, matched int, err error) {
	err = s.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN matched = 1 THEN 1 ELSE 0 END), 0)
		FROM pages
	`).Scan(&total, &matched)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count pages: %w", err)
	}
	return total, matched, nil
}

// GetSnippets returns the exported snippets for a URL in match order.
func (s *SQLiteStore) GetSnippets(url string) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT s.snippet
		FROM snippets s
		JOIN pages p ON p.id = s.page_id
		WHERE p.url = ?
		ORDER BY s.ordinal ASC
	`, url)
	if err != nil {
		return nil, fmt.Errorf("failed to query snippets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snippets []string
	for rows.Next() {
		var snippet string
		if err := rows.Scan(&snippet); err != nil {
			return nil, fmt.Errorf("failed to scan snippet: %w", err)
		}
		snippets = append(snippets, snippet)
	}

	return snippets, rows.Err()
}
