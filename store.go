package inkwell

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested render fragment does not exist.
var ErrNotFound = sql.ErrNoRows

// Fragment is one cached Markdown render. Fragments are keyed by slug and
// source checksum, so editing a post produces a new row and the old render is
// replaced on the next build.
type Fragment struct {
	Slug       string
	Checksum   string
	HTML       string
	RenderedAt string
}

// RenderCache wraps a SQLite database that stores rendered HTML fragments
// between builds.
type RenderCache struct {
	db *sql.DB
}

// OpenRenderCache opens (or creates) the SQLite database at path, ensures
// the data directory exists, and runs schema setup.
func OpenRenderCache(path string) (*RenderCache, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets a preview server read while a build writes; synchronous=NORMAL
	// is safe with WAL and avoids an fsync per transaction.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	c := &RenderCache{db: db}
	if err := c.ensureSchema(); err != nil {
		return nil, err
	}
	return c, nil
}

// Close closes the underlying database connection.
func (c *RenderCache) Close() error {
	return c.db.Close()
}

func (c *RenderCache) ensureSchema() error {
	_, err := c.db.Exec(`
CREATE TABLE IF NOT EXISTS fragments (
    slug TEXT PRIMARY KEY,
    checksum TEXT NOT NULL,
    html TEXT NOT NULL,
    rendered_at TEXT NOT NULL
);
`)
	return err
}

// Lookup returns the cached HTML for slug if it was rendered from a source
// with the given checksum. A row rendered from different source bytes is a
// miss, not a hit.
func (c *RenderCache) Lookup(slug, checksum string) (string, error) {
	var gotChecksum, html string
	err := c.db.QueryRow(`SELECT checksum, html FROM fragments WHERE slug = ?`, slug).
		Scan(&gotChecksum, &html)
	if err != nil {
		return "", err
	}
	if gotChecksum != checksum {
		return "", ErrNotFound
	}
	return html, nil
}

// Save stores (or replaces) the rendered HTML for slug.
func (c *RenderCache) Save(slug, checksum, html string) error {
	_, err := c.db.Exec(`
INSERT INTO fragments (slug, checksum, html, rendered_at) VALUES (?, ?, ?, ?)
ON CONFLICT(slug) DO UPDATE SET checksum = excluded.checksum, html = excluded.html, rendered_at = excluded.rendered_at
`, slug, checksum, html, time.Now().UTC().Format(time.RFC3339))
	return err
}

// Prune removes fragments whose slug is not in keep, so deleted posts do not
// accumulate in the cache.
func (c *RenderCache) Prune(keep map[string]struct{}) (int, error) {
	rows, err := c.db.Query(`SELECT slug FROM fragments`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var stale []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return 0, err
		}
		if _, ok := keep[slug]; !ok {
			stale = append(stale, slug)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	for _, slug := range stale {
		if _, err := c.db.Exec(`DELETE FROM fragments WHERE slug = ?`, slug); err != nil {
			return 0, err
		}
	}
	return len(stale), nil
}

// IsNotFound reports whether err means a cache miss.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
