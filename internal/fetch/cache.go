// SPDX-License-Identifier: GPL-3.0-or-later

package fetch

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure Go driver
)

// DefaultCacheTTL matches the provider guidance of re-fetching listing
// data at most every three hours.
const DefaultCacheTTL = 3 * time.Hour

const cacheSchema = `
CREATE TABLE IF NOT EXISTS responses (
	key        TEXT PRIMARY KEY,
	body       BLOB NOT NULL,
	fetched_at INTEGER NOT NULL
);`

// Cache is a SQLite-backed response cache keyed by request identity.
// Expired entries are purged on open.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// OpenCache opens (creating if needed) the cache database at path. A
// non-positive ttl selects DefaultCacheTTL.
func OpenCache(path string, ttl time.Duration) (*Cache, error) {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cache: open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(cacheSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cache: init schema: %w", err)
	}

	c := &Cache{db: db, ttl: ttl, now: time.Now}
	if err := c.removeExpired(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) removeExpired() error {
	cutoff := c.now().Add(-c.ttl).Unix()
	if _, err := c.db.Exec(`DELETE FROM responses WHERE fetched_at < ?`, cutoff); err != nil {
		return fmt.Errorf("cache: purge: %w", err)
	}
	return nil
}

// Get returns the cached body for key if present and fresh.
func (c *Cache) Get(key string) ([]byte, bool, error) {
	var body []byte
	var fetchedAt int64
	err := c.db.QueryRow(`SELECT body, fetched_at FROM responses WHERE key = ?`, key).
		Scan(&body, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: get: %w", err)
	}
	if time.Unix(fetchedAt, 0).Add(c.ttl).Before(c.now()) {
		return nil, false, nil
	}
	return body, true, nil
}

// Put stores body under key, replacing any previous entry.
func (c *Cache) Put(key string, body []byte) error {
	_, err := c.db.Exec(
		`INSERT INTO responses (key, body, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at`,
		key, body, c.now().Unix())
	if err != nil {
		return fmt.Errorf("cache: put: %w", err)
	}
	return nil
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}
