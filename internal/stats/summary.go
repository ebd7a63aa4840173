// Package stats accumulates run-wide consistency statistics and renders the
// end-of-run report.
package stats

import (
	"fmt"

	"github.com/drosophila-popgen/snpeff-consistency/internal/consistency"
)

// Summary holds the aggregate counters of one run. The zero value is ready to
// use. It is not safe for concurrent use.
type Summary struct {
	Total            int
	Consistent       int
	Inconsistent     int
	WithCustom       int
	DistanceFiltered int

	skips map[consistency.SkipReason]int

	CustomPresence map[bool]int
	CustomTypes    map[string]int
	Effects        map[string]int

	CodonStatus       map[consistency.CodonStatus]int
	EffectsWithCodons map[string]int
	// CodonChanges counts REF>ALT pairs of consistent verdicts whose codon
	// changes agree.
	CodonChanges map[string]int
}

// New returns an empty Summary.
func New() *Summary {
	s := &Summary{}
	s.init()
	return s
}

func (s *Summary) init() {
	if s.skips != nil {
		return
	}
	s.skips = make(map[consistency.SkipReason]int)
	s.CustomPresence = make(map[bool]int)
	s.CustomTypes = make(map[string]int)
	s.Effects = make(map[string]int)
	s.CodonStatus = make(map[consistency.CodonStatus]int)
	s.EffectsWithCodons = make(map[string]int)
	s.CodonChanges = make(map[string]int)
}

// Add records one resolved variant.
func (s *Summary) Add(r consistency.Result) {
	s.init()
	v := r.Verdict

	s.Total++
	if v.Consistent {
		s.Consistent++
	} else {
		s.Inconsistent++
	}
	if v.Custom.Present {
		s.WithCustom++
	}
	if v.DistanceFiltered {
		s.DistanceFiltered++
	}

	s.CustomPresence[v.Custom.Present]++
	s.CustomTypes[v.Custom.Type()]++
	s.Effects[v.Effect]++

	s.CodonStatus[v.Codon.Status]++
	if v.Codon.Change != consistency.NoCodon {
		s.EffectsWithCodons[v.Effect]++
		if v.Consistent && v.Codon.Status == consistency.CodonConsistent {
			s.CodonChanges[v.Codon.Change]++
		}
	}
}

// Skip records a data line that produced no verdict.
func (s *Summary) Skip(reason consistency.SkipReason) {
	s.init()
	s.skips[reason]++
}

// Skipped returns the number of lines skipped for reason.
func (s *Summary) Skipped(reason consistency.SkipReason) int {
	return s.skips[reason]
}

// Lines returns the number of data lines seen, processed or skipped.
func (s *Summary) Lines() int {
	n := s.Total
	for _, c := range s.skips {
		n += c
	}
	return n
}

// Check verifies that every categorical breakdown sums to Total.
func (s *Summary) Check() error {
	if s.Consistent+s.Inconsistent != s.Total {
		return fmt.Errorf("consistent (%d) + inconsistent (%d) != total (%d)", s.Consistent, s.Inconsistent, s.Total)
	}
	if s.WithCustom != s.CustomPresence[true] {
		return fmt.Errorf("custom count %d does not match custom presence %d", s.WithCustom, s.CustomPresence[true])
	}
	breakdowns := []struct {
		name string
		sum  int
	}{
		{"custom presence", sum(s.CustomPresence)},
		{"custom types", sum(s.CustomTypes)},
		{"effect names", sum(s.Effects)},
		{"codon status", sum(s.CodonStatus)},
	}
	for _, b := range breakdowns {
		if b.sum != s.Total {
			return fmt.Errorf("%s sum to %d, want %d", b.name, b.sum, s.Total)
		}
	}
	return nil
}

func sum[K comparable](m map[K]int) int {
	n := 0
	for _, c := range m {
		n += c
	}
	return n
}
