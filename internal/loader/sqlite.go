// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// sqliteSource reads one table per dataset from a SQLite database.
type sqliteSource struct {
	path string
	db   *sql.DB
}

// openSQLite opens path read-only and checks that it is a database.
func openSQLite(ctx context.Context, path string) (*sqliteSource, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", "file:"+filepath.ToSlash(abs)+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	return &sqliteSource{path: path, db: db}, nil
}

func (s *sqliteSource) read(ctx context.Context, name string) ([]string, [][]string, string, error) {
	file := s.path + "#" + name

	var found string
	err := s.db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type IN ('table', 'view') AND name = ?`, name).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, file, fmt.Errorf("%w: %s in %s (no table %q)", ErrNotFound, name, s.path, name)
	}
	if err != nil {
		return nil, nil, file, fmt.Errorf("reading %s: %w", file, err)
	}

	// name is one of the fixed dataset names, never user input.
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM %q`, name))
	if err != nil {
		return nil, nil, file, fmt.Errorf("reading %s: %w", file, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, file, fmt.Errorf("reading %s: %w", file, err)
	}

	var records [][]string
	for rows.Next() {
		cells := make([]sql.NullString, len(columns))
		dest := make([]any, len(columns))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, nil, file, fmt.Errorf("reading %s: %w", file, err)
		}

		rec := make([]string, len(columns))
		for i, c := range cells {
			if c.Valid {
				rec[i] = c.String
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, file, fmt.Errorf("reading %s: %w", file, err)
	}

	return columns, records, file, nil
}

func (s *sqliteSource) close() error {
	return s.db.Close()
}
