package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// MaxConns bounds the number of simultaneous database connections. Excess
// requests queue on the pool instead of failing.
const MaxConns = 10

// connPragmas are per-connection settings. They ride the DSN so every
// connection the pool opens gets them; a plain Exec would only configure
// whichever connection happened to serve it.
const connPragmas = "?_pragma=busy_timeout(5000)" +
	"&_pragma=foreign_keys(1)" +
	"&_pragma=synchronous(NORMAL)"

// Open opens a SQLite database connection and configures pragmas.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", "file:"+path+connPragmas)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(MaxConns)

	// The journal mode is stored in the database file, so setting it once
	// covers all connections.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL: %w", err)
	}

	return db, nil
}
