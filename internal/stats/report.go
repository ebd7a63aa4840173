package stats

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/drosophila-popgen/snpeff-consistency/internal/consistency"
)

// RenderOptions selects the report sections.
type RenderOptions struct {
	Mode     consistency.Mode
	Detailed bool // custom annotation and effect sections
	Codons   bool // codon sections; implies Detailed
}

// Count is one entry of a rendered distribution.
type Count struct {
	Key string
	N   int
}

// Sorted returns the entries of m ordered by descending count, then key.
func Sorted[K comparable](m map[K]int, key func(K) string) []Count {
	out := make([]Count, 0, len(m))
	for k, n := range m {
		out = append(out, Count{Key: key(k), N: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].N != out[j].N {
			return out[i].N > out[j].N
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func boolKey(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func stringKey(s string) string { return s }

// Render writes the sectioned statistics report.
func (s *Summary) Render(w io.Writer, opts RenderOptions) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "=== Summary of the Analysis ===")
	fmt.Fprintf(bw, "Total SNPs processed: %d\n", s.Total)
	fmt.Fprintf(bw, "Consistent annotations: %d\n", s.Consistent)
	fmt.Fprintf(bw, "Inconsistent annotations: %d\n", s.Inconsistent)
	fmt.Fprintf(bw, "SNPs with custom annotations: %d\n", s.WithCustom)
	if opts.Mode == consistency.ModeRule {
		fmt.Fprintf(bw, "SNPs with distance filtering: %d\n", s.DistanceFiltered)
	}
	fmt.Fprintf(bw, "SNPs skipped (no annotation): %d\n", s.Skipped(consistency.SkipNoAnnotation))
	fmt.Fprintf(bw, "SNPs skipped (malformed): %d\n", s.Skipped(consistency.SkipMalformed))
	fmt.Fprintln(bw)

	if opts.Detailed || opts.Codons {
		consistent := map[bool]int{true: s.Consistent, false: s.Inconsistent}

		fmt.Fprintln(bw, "=== Custom Annotation Stats ===")
		fmt.Fprintf(bw, "Has custom annotations: %s\n", inline(Sorted(s.CustomPresence, boolKey)))
		fmt.Fprintf(bw, "Custom annotation types: %s\n\n", inline(Sorted(s.CustomTypes, stringKey)))
		fmt.Fprintln(bw, "=== Effect Stats ===")
		fmt.Fprintf(bw, "Effect consistency: %s\n\n", inline(Sorted(consistent, boolKey)))
		fmt.Fprintln(bw, "===Effect names distribution===")
		lines(bw, Sorted(s.Effects, stringKey))
		fmt.Fprintln(bw)
	}

	if opts.Codons {
		status := make([]Count, 0, 3)
		for _, st := range []consistency.CodonStatus{
			consistency.CodonConsistent,
			consistency.CodonInconsistent,
			consistency.CodonNotApplicable,
		} {
			status = append(status, Count{Key: string(st), N: s.CodonStatus[st]})
		}

		fmt.Fprintln(bw, "=== Codon Change Stats ===")
		fmt.Fprintf(bw, "Codon consistency: %s\n\n", inline(status))
		fmt.Fprintln(bw, "===Effect with codons===")
		lines(bw, Sorted(s.EffectsWithCodons, stringKey))
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "===Codon Change Distribution===")
		lines(bw, Sorted(s.CodonChanges, stringKey))
	}

	return bw.Flush()
}

// inline renders counts as {key: n, key: n}.
func inline(counts []Count) string {
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = c.Key + ": " + strconv.Itoa(c.N)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func lines(w io.Writer, counts []Count) {
	for _, c := range counts {
		fmt.Fprintf(w, "%s: %d\n", c.Key, c.N)
	}
}
