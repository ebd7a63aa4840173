package output

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/drosophila-popgen/snpeff-consistency/internal/consistency"
)

// Row is one data line of a decision table.
type Row struct {
	Line       int // 1-based line number in the source table
	Chrom      string
	Pos        int64
	Consistent bool
	Effect     string
	Fields     []string // every column, as read
}

// Table is a decision table read back from disk.
type Table struct {
	Mode   consistency.Mode
	Header []string
	Rows   []Row
}

// DetectMode finds the mode whose effect columns appear in header.
func DetectMode(header []string) (consistency.Mode, error) {
	for _, m := range consistency.Modes() {
		mode := consistency.Mode(m)
		if slices.Contains(header, BoolColumn(mode)) && slices.Contains(header, EffectColumn(mode)) {
			return mode, nil
		}
	}
	return "", errors.New("header has no <mode>_effect_bool/<mode>_effect_name columns")
}

// ReadTable parses a decision table written by TableWriter.
func ReadTable(r io.Reader) (*Table, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read table header: %w", err)
		}
		return nil, errors.New("empty table")
	}
	header := strings.Split(strings.TrimRight(scanner.Text(), "\r"), "\t")

	mode, err := DetectMode(header)
	if err != nil {
		return nil, err
	}
	idx := func(name string) (int, error) {
		i := slices.Index(header, name)
		if i < 0 {
			return 0, fmt.Errorf("header is missing column %q", name)
		}
		return i, nil
	}
	chromIdx, err := idx(ColChrom)
	if err != nil {
		return nil, err
	}
	posIdx, err := idx(ColPos)
	if err != nil {
		return nil, err
	}
	boolIdx, _ := idx(BoolColumn(mode))
	effectIdx, _ := idx(EffectColumn(mode))

	t := &Table{Mode: mode, Header: header}
	line := 1
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if text == "" {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) != len(header) {
			return nil, fmt.Errorf("table line %d: expected %d columns, found %d", line, len(header), len(fields))
		}
		pos, err := strconv.ParseInt(fields[posIdx], 10, 64)
		if err != nil || pos < 1 {
			return nil, fmt.Errorf("table line %d: invalid position %q", line, fields[posIdx])
		}
		t.Rows = append(t.Rows, Row{
			Line:       line,
			Chrom:      fields[chromIdx],
			Pos:        pos,
			Consistent: strings.EqualFold(fields[boolIdx], True),
			Effect:     fields[effectIdx],
			Fields:     fields,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}

	return t, nil
}

// WriteRows writes header and rows as a tab-delimited table.
func WriteRows(w io.Writer, header []string, rows []Row) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(header, "\t") + "\n"); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := bw.WriteString(strings.Join(r.Fields, "\t") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
