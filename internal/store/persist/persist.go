// Package persist provides optional on-disk caching of build-file
// package tables, so a server restart does not have to re-run the
// build-runner script for every open project. Grounded on
// lentilus-zeta/internal/cache/filecache.go's embedded-schema SQLite
// wrapper, generalized from a note/link cache to a build-file/package
// table cache. Opened once during initialize; refreshBuildFile reads and
// writes it synchronously when a build file is saved.
package persist

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS build_files (
	uri TEXT PRIMARY KEY,
	last_refreshed INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS packages (
	build_uri TEXT NOT NULL,
	name TEXT NOT NULL,
	root_uri TEXT NOT NULL,
	PRIMARY KEY (build_uri, name),
	FOREIGN KEY (build_uri) REFERENCES build_files(uri) ON DELETE CASCADE
);
`

// Cache is a SQLite-backed store of previously discovered build-file
// package tables, keyed by the build file's URI.
type Cache struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at dbPath and applies the
// schema, enabling WAL mode the way the teacher's filecache does.
func Open(dbPath string) (*Cache, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) withTx(fn func(tx *sql.Tx) error) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Store persists buildURI's package table, replacing whatever was
// previously recorded for it.
func (c *Cache) Store(buildURI string, packages map[string]string) error {
	return c.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`
			INSERT INTO build_files (uri, last_refreshed) VALUES (?, ?)
			ON CONFLICT(uri) DO UPDATE SET last_refreshed = excluded.last_refreshed
		`, buildURI, time.Now().Unix()); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM packages WHERE build_uri = ?`, buildURI); err != nil {
			return err
		}
		for name, rootURI := range packages {
			if _, err := tx.Exec(`
				INSERT OR REPLACE INTO packages (build_uri, name, root_uri) VALUES (?, ?, ?)
			`, buildURI, name, rootURI); err != nil {
				return err
			}
		}
		return nil
	})
}

// Load returns the package table last stored for buildURI, if any.
func (c *Cache) Load(buildURI string) (map[string]string, error) {
	rows, err := c.db.Query(`SELECT name, root_uri FROM packages WHERE build_uri = ?`, buildURI)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	packages := make(map[string]string)
	for rows.Next() {
		var name, rootURI string
		if err := rows.Scan(&name, &rootURI); err != nil {
			return nil, err
		}
		packages[name] = rootURI
	}
	return packages, rows.Err()
}
