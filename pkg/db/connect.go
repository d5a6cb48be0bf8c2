package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// validSyncModes lists the allowed values for the synchronous pragma.
var validSyncModes = map[string]bool{
	"OFF":    true,
	"NORMAL": true,
	"FULL":   true,
	"EXTRA":  true,
}

// Options tunes the SQLite connection of the dataset archive.
type Options struct {
	// WAL sets journal_mode=WAL.
	WAL bool
	// Sync is the synchronous pragma (OFF, NORMAL, FULL, EXTRA). Empty keeps the SQLite default.
	Sync string
	// BusyTimeoutMS makes writers wait for a lock instead of failing immediately.
	BusyTimeoutMS int
}

func buildDSN(path string, opts Options) (string, error) {
	params := url.Values{}

	if opts.WAL {
		params.Add("_journal_mode", "WAL")
	}

	if opts.Sync != "" {
		sync := strings.ToUpper(opts.Sync)
		if !validSyncModes[sync] {
			return "", fmt.Errorf("invalid sync pragma value: %s. Must be one of OFF, NORMAL, FULL, EXTRA", opts.Sync)
		}
		params.Add("_synchronous", sync)
	}

	if opts.BusyTimeoutMS > 0 {
		params.Add("_busy_timeout", fmt.Sprint(opts.BusyTimeoutMS))
	}

	// Foreign keys drive ON DELETE CASCADE from batches to their records.
	params.Add("_foreign_keys", "on")

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + params.Encode(), nil
}

// Open opens and pings the SQLite dataset archive at path.
func Open(path string, opts Options) (*sql.DB, error) {
	dsn, err := buildDSN(path, opts)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database with DSN '%s': %w", dsn, err)
	}

	// A ":memory:" database lives per connection; pin the pool to one so every
	// query sees the same schema.
	if strings.HasPrefix(path, ":memory:") {
		conn.SetMaxOpenConns(1)
	}

	if err = conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database with DSN '%s': %w", dsn, err)
	}

	return conn, nil
}
