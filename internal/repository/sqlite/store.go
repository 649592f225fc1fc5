// Package sqlite implements the application store on SQLite.
// It backs local development and hermetic tests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// timeLayout is the stored form of every timestamp, always UTC.
const timeLayout = "2006-01-02 15:04:05.000"

// Store provides SQLite access methods.
type Store struct {
	db           *sql.DB
	queryTimeout time.Duration
}

// Open opens the database at path. ":memory:" gives a private in-memory
// database backed by a single connection.
func Open(ctx context.Context, path string, queryTimeout time.Duration) (*Store, error) {
	if queryTimeout <= 0 {
		queryTimeout = 5 * time.Second
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if isMemory(path) {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &Store{db: db, queryTimeout: queryTimeout}, nil
}

// PathFromURL extracts the file path from a sqlite:// or file: database URL.
func PathFromURL(databaseURL string) (string, bool) {
	switch {
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return strings.TrimPrefix(databaseURL, "sqlite://"), true
	case strings.HasPrefix(databaseURL, "sqlite:"):
		return strings.TrimPrefix(databaseURL, "sqlite:"), true
	case strings.HasPrefix(databaseURL, "file:"):
		return databaseURL, true
	}
	return "", false
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.queryTimeout)
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func isMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}

// isUniqueViolation reports UNIQUE and PRIMARY KEY constraint failures.
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlitedrv.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(timeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// nowUTC is the current time at stored precision.
func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
