// Package output writes and reads consistency decision tables and BED intervals.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/drosophila-popgen/snpeff-consistency/internal/consistency"
)

// Column names shared by every mode.
const (
	ColChrom            = "chrom"
	ColPos              = "pos"
	ColHasCustom        = "has_custom_annotation"
	ColCustomType       = "custom_annotation_type"
	ColDistanceFiltered = "distance_filtered"
	ColCodonChange      = "codon_change"
	ColCodonConsistent  = "is_codon_change_consistent"
	ColCodonNote        = "codon_change_note"
)

// Cell values.
const (
	True          = "True"
	False         = "False"
	NotApplicable = "not_applicable"
)

// BoolColumn returns the consistency column name of a mode.
func BoolColumn(mode consistency.Mode) string {
	return string(mode) + "_effect_bool"
}

// EffectColumn returns the resolved effect column name of a mode.
func EffectColumn(mode consistency.Mode) string {
	return string(mode) + "_effect_name"
}

// Columns returns the decision table header for mode.
func Columns(mode consistency.Mode) []string {
	cols := []string{ColChrom, ColPos, ColHasCustom, ColCustomType, BoolColumn(mode), EffectColumn(mode)}
	if mode == consistency.ModeRule {
		cols = append(cols, ColDistanceFiltered)
	}
	return append(cols, ColCodonChange, ColCodonConsistent, ColCodonNote)
}

// TableWriter writes verdicts as a tab-delimited decision table.
type TableWriter struct {
	w    *bufio.Writer
	mode consistency.Mode
}

// NewTableWriter creates a decision table writer for mode.
func NewTableWriter(w io.Writer, mode consistency.Mode) *TableWriter {
	return &TableWriter{
		w:    bufio.NewWriter(w),
		mode: mode,
	}
}

// WriteHeader writes the header line.
func (tw *TableWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(Columns(tw.mode), "\t") + "\n")
	return err
}

// Write writes a single verdict row.
func (tw *TableWriter) Write(r consistency.Result) error {
	v := r.Verdict

	values := []string{
		r.Chrom,
		strconv.FormatInt(r.Pos, 10),
		formatBool(v.Custom.Present),
		v.Custom.Type(),
		formatBool(v.Consistent),
		v.Effect,
	}
	if tw.mode == consistency.ModeRule {
		filtered := NotApplicable
		if v.Method == consistency.MethodMajority {
			filtered = formatBool(v.DistanceFiltered)
		}
		values = append(values, filtered)
	}

	codonConsistent := consistency.NoCodon
	switch v.Codon.Status {
	case consistency.CodonConsistent:
		codonConsistent = True
	case consistency.CodonInconsistent:
		codonConsistent = False
	}
	values = append(values, v.Codon.Change, codonConsistent, v.Codon.Note)

	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TableWriter) Flush() error {
	return tw.w.Flush()
}

func formatBool(b bool) string {
	if b {
		return True
	}
	return False
}
