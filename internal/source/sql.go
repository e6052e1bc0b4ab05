package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const createTemplatesTable = `
CREATE TABLE IF NOT EXISTS templates (
	path TEXT PRIMARY KEY,
	body TEXT NOT NULL
)`

// SQL reads templates from a templates(path, body) table.
type SQL struct {
	db  *sql.DB
	ctx context.Context
}

// OpenSQLite opens (creating if needed) a SQLite database at dsn and
// prepares the templates table.
func OpenSQLite(ctx context.Context, dsn string) (*SQL, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening template database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("template database ping failed: %w", err)
	}
	s, err := NewSQL(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQL wraps an open database. The templates table is created if missing.
// ctx is used for every later query.
func NewSQL(ctx context.Context, db *sql.DB) (*SQL, error) {
	if _, err := db.ExecContext(ctx, createTemplatesTable); err != nil {
		return nil, fmt.Errorf("creating templates table: %w", err)
	}
	return &SQL{db: db, ctx: ctx}, nil
}

// Name implements Namer.
func (s *SQL) Name() string { return "sqlite" }

// Read implements Source.
func (s *SQL) Read(name string) (string, error) {
	name = path.Clean(name)
	var body string
	err := s.db.QueryRowContext(s.ctx, `SELECT body FROM templates WHERE path = ?`, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", NotFound(name)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s from database: %w", name, err)
	}
	return body, nil
}

// Exists implements Source.
func (s *SQL) Exists(name string) bool {
	var one int
	err := s.db.QueryRowContext(s.ctx, `SELECT 1 FROM templates WHERE path = ?`, path.Clean(name)).Scan(&one)
	return err == nil
}

// List implements Lister. Rows under dir contribute their next path segment.
func (s *SQL) List(dir string) ([]string, error) {
	prefix := path.Clean(dir) + "/"
	rows, err := s.db.QueryContext(s.ctx,
		`SELECT path FROM templates WHERE substr(path, 1, ?) = ? ORDER BY path`, len(prefix), prefix)
	if err != nil {
		return nil, fmt.Errorf("listing %s in database: %w", dir, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("listing %s in database: %w", dir, err)
		}
		rest := strings.TrimPrefix(p, prefix)
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			rest = rest[:i]
		}
		names = append(names, rest)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing %s in database: %w", dir, err)
	}
	if len(names) == 0 {
		return nil, NotFound(dir)
	}
	return sortedUnique(names), nil
}

// Put inserts or replaces the template at name.
func (s *SQL) Put(ctx context.Context, name, body string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO templates (path, body) VALUES (?, ?)
		 ON CONFLICT(path) DO UPDATE SET body = excluded.body`, path.Clean(name), body)
	if err != nil {
		return fmt.Errorf("storing %s: %w", name, err)
	}
	return nil
}

// Delete removes the template at name. Deleting an absent path is not an error.
func (s *SQL) Delete(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM templates WHERE path = ?`, path.Clean(name)); err != nil {
		return fmt.Errorf("deleting %s: %w", name, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQL) Close() error {
	return s.db.Close()
}
