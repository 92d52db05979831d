package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver.
)

// open returns a handle on the table's database file limited to one
// connection, so every statement of an operation runs on the same connection.
// The caller must Close it.
func (t *Table) open() (*sql.DB, error) {
	dsn, err := t.dsn()
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", t.path, err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// dsn returns the file: URI for the table's database. The path is made
// absolute and percent-escaped, so '?' and '#' stay part of the file name.
func (t *Table) dsn() (string, error) {
	abs, err := filepath.Abs(t.path)
	if err != nil {
		return "", fmt.Errorf("resolve database path %s: %w", t.path, err)
	}
	u := url.URL{
		Scheme:   "file",
		Path:     filepath.ToSlash(abs),
		RawQuery: fmt.Sprintf("_pragma=busy_timeout(%d)", t.busyTimeoutMS),
	}
	return u.String(), nil
}

// runExec, runQuery and runQueryRow log each statement at debug level before
// handing it to the driver.
func runExec(db *sql.DB, query string, args ...any) (sql.Result, error) {
	slog.Debug("sql exec", "query", query, "args", args)
	return db.Exec(query, args...)
}

func runQuery(db *sql.DB, query string, args ...any) (*sql.Rows, error) {
	slog.Debug("sql query", "query", query, "args", args)
	return db.Query(query, args...)
}

func runQueryRow(db *sql.DB, query string, args ...any) *sql.Row {
	slog.Debug("sql query", "query", query, "args", args)
	return db.QueryRow(query, args...)
}

// generateUUID generates a new UUID v7 for row IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
