package consistency

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/drosophila-popgen/snpeff-consistency/internal/annotate"
)

func TestCheckCodons(t *testing.T) {
	tests := []struct {
		name    string
		effects []annotate.Effect
		effect  string
		want    CodonResult
	}{
		{
			name: "single change",
			effects: []annotate.Effect{
				coding("NON_SYNONYMOUS_CODING", annotate.ImpactModerate, "Cat/Cgt"),
			},
			effect: "NON_SYNONYMOUS_CODING",
			want:   CodonResult{Change: "CAT>CGT", Status: CodonConsistent, Note: "consistent"},
		},
		{
			name: "same change across transcripts",
			effects: []annotate.Effect{
				coding("NON_SYNONYMOUS_CODING", annotate.ImpactModerate, "Cat/Cgt"),
				coding("NON_SYNONYMOUS_CODING", annotate.ImpactModerate, "cAT/cGT"),
			},
			effect: "NON_SYNONYMOUS_CODING",
			want:   CodonResult{Change: "CAT>CGT", Status: CodonConsistent, Note: "consistent"},
		},
		{
			name: "differing changes",
			effects: []annotate.Effect{
				coding("NON_SYNONYMOUS_CODING", annotate.ImpactModerate, "Cat/Cgt"),
				coding("NON_SYNONYMOUS_CODING", annotate.ImpactModerate, "aCa/aGa"),
				coding("NON_SYNONYMOUS_CODING", annotate.ImpactModerate, "Cat/Cgt"),
			},
			effect: "NON_SYNONYMOUS_CODING",
			want:   CodonResult{Change: "CAT>CGT", Status: CodonInconsistent, Note: "found_2_different_changes"},
		},
		{
			name: "only the resolved name counts",
			effects: []annotate.Effect{
				coding("NON_SYNONYMOUS_CODING", annotate.ImpactModerate, "Cat/Cgt"),
				coding("SYNONYMOUS_CODING", annotate.ImpactLow, "ctG/ctA"),
			},
			effect: "SYNONYMOUS_CODING",
			want:   CodonResult{Change: "CTG>CTA", Status: CodonConsistent, Note: "consistent"},
		},
		{
			name: "codon effect without changes",
			effects: []annotate.Effect{
				coding("STOP_GAINED", annotate.ImpactHigh, ""),
			},
			effect: "STOP_GAINED",
			want:   CodonResult{Change: NoCodon, Status: CodonConsistent, Note: "no_codon_changes_found"},
		},
		{
			name:    "position effect",
			effects: []annotate.Effect{near("INTRON", 0)},
			effect:  "INTRON",
			want:    CodonResult{Change: NoCodon, Status: CodonNotApplicable, Note: NoCodon},
		},
		{
			name:    "unresolved",
			effects: named("INTRON", "UPSTREAM"),
			effect:  Undefined,
			want:    CodonResult{Change: NoCodon, Status: CodonNotApplicable, Note: NoCodon},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckCodons(tt.effects, tt.effect))
		})
	}
}
