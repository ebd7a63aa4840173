// Package duckdb loads decision tables into DuckDB and runs the filter and
// BED interval queries over them.
package duckdb

import (
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages an in-memory DuckDB connection holding decision table rows.
type Store struct {
	db  *sql.DB
	seq int64 // next row sequence number
}

// Open creates an in-memory database with the decision_rows schema.
func Open() (*Store, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS decision_rows (
		seq BIGINT PRIMARY KEY,
		line_no BIGINT,
		mode VARCHAR,
		chrom VARCHAR,
		pos BIGINT,
		consistent BOOLEAN,
		effect VARCHAR,
		line VARCHAR
	)`)
	return err
}
