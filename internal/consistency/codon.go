package consistency

import (
	"fmt"

	"github.com/drosophila-popgen/snpeff-consistency/internal/annotate"
)

// CodonStatus classifies the codon changes behind a verdict.
type CodonStatus string

// Codon statuses.
const (
	CodonConsistent    CodonStatus = "consistent"
	CodonInconsistent  CodonStatus = "inconsistent"
	CodonNotApplicable CodonStatus = "not_applicable"
)

// NoCodon is rendered when a verdict has no codon change.
const NoCodon = "NA"

// Codon notes.
const (
	noteConsistent = "consistent"
	noteNoChanges  = "no_codon_changes_found"
)

// CodonResult describes the codon change of the resolved effect.
type CodonResult struct {
	Change string // REF>ALT of the first descriptor with the resolved name, or NoCodon
	Status CodonStatus
	Note   string
}

// CheckCodons compares the codon changes of every descriptor named name.
// Effects that never carry a codon change are not applicable.
func CheckCodons(effects []annotate.Effect, name string) CodonResult {
	if !annotate.CarriesCodon(name) {
		return CodonResult{Change: NoCodon, Status: CodonNotApplicable, Note: NoCodon}
	}

	res := CodonResult{Change: NoCodon}
	seen := make(map[string]bool)
	for _, e := range effects {
		if e.Name != name || e.Codon == nil {
			continue
		}
		c := e.Codon.String()
		if res.Change == NoCodon {
			res.Change = c
		}
		seen[c] = true
	}

	switch n := len(seen); {
	case n == 0:
		res.Status, res.Note = CodonConsistent, noteNoChanges
	case n == 1:
		res.Status, res.Note = CodonConsistent, noteConsistent
	default:
		res.Status, res.Note = CodonInconsistent, fmt.Sprintf("found_%d_different_changes", n)
	}
	return res
}
