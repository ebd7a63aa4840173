package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/drosophila-popgen/snpeff-consistency/internal/consistency"
	"github.com/drosophila-popgen/snpeff-consistency/internal/output"
)

// LoadTable bulk-inserts the rows of a decision table using the Appender API.
// Rows keep their table order across repeated loads.
func (s *Store) LoadTable(t *output.Table) error {
	if len(t.Rows) == 0 {
		return nil
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "decision_rows")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, r := range t.Rows {
		if err := appender.AppendRow(
			s.seq, int64(r.Line), string(t.Mode), r.Chrom, r.Pos,
			r.Consistent, r.Effect, strings.Join(r.Fields, "\t"),
		); err != nil {
			return fmt.Errorf("append row at line %d: %w", r.Line, err)
		}
		s.seq++
	}

	return appender.Flush()
}

// Filter returns the consistent rows of mode whose resolved effect is one of
// effects, in load order.
func (s *Store) Filter(mode consistency.Mode, effects []string) ([]output.Row, error) {
	return s.selectRows(mode, effects, "seq")
}

// Intervals returns the BED intervals of the rows Filter would select,
// sorted by chromosome then start.
func (s *Store) Intervals(mode consistency.Mode, effects []string) ([]output.Interval, error) {
	selected, err := s.selectRows(mode, effects, "chrom, pos, seq")
	if err != nil {
		return nil, err
	}
	ivs := make([]output.Interval, len(selected))
	for i, r := range selected {
		ivs[i] = output.RowInterval(r)
	}
	return ivs, nil
}

func (s *Store) selectRows(mode consistency.Mode, effects []string, orderBy string) ([]output.Row, error) {
	if len(effects) == 0 {
		return nil, nil
	}
	where, args := filterClause(mode, effects)

	rows, err := s.db.Query(`SELECT line_no, chrom, pos, consistent, effect, line
		FROM decision_rows WHERE `+where+` ORDER BY `+orderBy, args...)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	var out []output.Row
	for rows.Next() {
		var (
			r    output.Row
			line string
		)
		if err := rows.Scan(&r.Line, &r.Chrom, &r.Pos, &r.Consistent, &r.Effect, &line); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		r.Fields = strings.Split(line, "\t")
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

func filterClause(mode consistency.Mode, effects []string) (string, []any) {
	args := make([]any, 0, len(effects)+1)
	args = append(args, string(mode))
	marks := make([]string, len(effects))
	for i, e := range effects {
		marks[i] = "?"
		args = append(args, e)
	}
	return "mode=? AND consistent AND effect IN (" + strings.Join(marks, ", ") + ")", args
}
