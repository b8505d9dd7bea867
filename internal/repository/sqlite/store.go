// Package sqlite contains the embedded SQLite implementations of the
// repository interfaces. The database is a single on-device file; the engine
// serializes statement execution, so the store opens one connection and
// relies on that rather than adding its own locking.
package sqlite

import (
	"context"
	"database/sql"
	"errors"

	sqlitedrv "modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
)

// DB wraps the sql.DB handle to satisfy repository constructors and tests.
type DB struct{ SQL *sql.DB }

// Open opens (creating if needed) the database file at path.
func Open(ctx context.Context, path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One writer connection; the file is local and contention-free.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{SQL: db}, nil
}

// Close closes the underlying database handle.
func (db *DB) Close() error { return db.SQL.Close() }

// isUniqueViolation reports whether the error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	var se *sqlitedrv.Error
	return errors.As(err, &se) && se.Code() == sqlitelib.SQLITE_CONSTRAINT_UNIQUE
}
