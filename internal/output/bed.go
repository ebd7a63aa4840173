package output

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"
)

// bedHeader is the header vcftools expects on an extended BED file.
var bedHeader = []string{"chr", "start", "end", "effect", "extra_info"}

// extraSep joins the carried table columns of an extended BED line.
const extraSep = "::"

// Interval is a zero-based half-open BED interval.
type Interval struct {
	Chrom  string
	Start  int64
	End    int64
	Effect string // extended BED only
	Extra  string // extended BED only
}

// IntervalAt returns the single-base interval [pos-1, pos) of a 1-based position.
func IntervalAt(chrom string, pos int64) Interval {
	return Interval{Chrom: chrom, Start: pos - 1, End: pos}
}

// Pos returns the 1-based position of a single-base interval.
func (iv Interval) Pos() int64 {
	return iv.Start + 1
}

// RowInterval converts a table row into an interval carrying the resolved
// effect and the remaining columns.
func RowInterval(r Row) Interval {
	iv := IntervalAt(r.Chrom, r.Pos)
	iv.Effect = r.Effect
	if len(r.Fields) > 2 {
		iv.Extra = strings.Join(r.Fields[2:], extraSep)
	}
	return iv
}

// SortIntervals orders intervals by chromosome name, then start.
func SortIntervals(ivs []Interval) {
	sort.SliceStable(ivs, func(i, j int) bool {
		if ivs[i].Chrom != ivs[j].Chrom {
			return ivs[i].Chrom < ivs[j].Chrom
		}
		return ivs[i].Start < ivs[j].Start
	})
}

// BEDWriter writes intervals in BED format.
type BEDWriter struct {
	w        *bufio.Writer
	extended bool
}

// NewBEDWriter creates a BED writer. Extended output adds a header line and
// the effect and extra_info columns.
func NewBEDWriter(w io.Writer, extended bool) *BEDWriter {
	return &BEDWriter{w: bufio.NewWriter(w), extended: extended}
}

// WriteHeader writes the header line of an extended BED file. Plain BED
// files carry no header.
func (bw *BEDWriter) WriteHeader() error {
	if !bw.extended {
		return nil
	}
	_, err := bw.w.WriteString(strings.Join(bedHeader, "\t") + "\n")
	return err
}

// Write writes a single interval.
func (bw *BEDWriter) Write(iv Interval) error {
	values := []string{
		iv.Chrom,
		strconv.FormatInt(iv.Start, 10),
		strconv.FormatInt(iv.End, 10),
	}
	if bw.extended {
		values = append(values, iv.Effect, iv.Extra)
	}
	_, err := bw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (bw *BEDWriter) Flush() error {
	return bw.w.Flush()
}
