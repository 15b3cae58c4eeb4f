package storage

// schemaSQL defines the results-export schema: every visited page plus
// the snippets of each matched page. The database is written once, after
// a crawl completes; it is never read back to resume a crawl.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS pages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    url TEXT NOT NULL UNIQUE,
    final_url TEXT NOT NULL DEFAULT '',
    status_code INTEGER NOT NULL DEFAULT 0,
    matched INTEGER NOT NULL DEFAULT 0,
    crawled_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS snippets (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    page_id INTEGER NOT NULL,
    ordinal INTEGER NOT NULL,
    snippet TEXT NOT NULL,
    UNIQUE (page_id, ordinal),
    FOREIGN KEY (page_id) REFERENCES pages(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS crawl_meta (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_pages_matched ON pages(matched);
CREATE INDEX IF NOT EXISTS idx_snippets_page_id ON snippets(page_id);
`
