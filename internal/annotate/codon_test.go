package annotate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslateCodon(t *testing.T) {
	tests := []struct {
		codon string
		want  byte
	}{
		{"ATG", 'M'},
		{"CAT", 'H'},
		{"CGT", 'R'},
		{"TAA", '*'},
		{"TGA", '*'},
		{"NNN", 'X'},
		{"AT", 'X'},
		{"cat", 'X'},
	}

	for _, tt := range tests {
		t.Run(tt.codon, func(t *testing.T) {
			assert.Equal(t, tt.want, TranslateCodon(tt.codon))
		})
	}
}

func TestCodonChange_Synonymous(t *testing.T) {
	tests := []struct {
		change string
		syn    bool
		ok     bool
	}{
		{"ctG/ctA", true, true},
		{"Cat/Cgt", false, true},
		{"Cag/Tag", false, true},
		{"Nat/Cgt", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.change, func(t *testing.T) {
			c, parsed := ParseCodonChange(tt.change)
			assert.True(t, parsed)
			syn, ok := c.Synonymous()
			assert.Equal(t, tt.syn, syn)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestEffect_CodonMismatch(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"synonymous agrees", "SYNONYMOUS_CODING(LOW|SILENT|ctG/ctA|L40|250|CG2672|protein_coding|CODING|FBtr0078101|3|G)", false},
		{"synonymous contradicts", "SYNONYMOUS_CODING(LOW|SILENT|Cat/Cgt|H12|250|CG2672|protein_coding|CODING|FBtr0078101|3|G)", true},
		{"missense agrees", "NON_SYNONYMOUS_CODING(MODERATE|MISSENSE|Cat/Cgt|H12R|300|CG2671|protein_coding|CODING|FBtr0078100|1|G)", false},
		{"missense contradicts", "NON_SYNONYMOUS_CODING(MODERATE|MISSENSE|ctG/ctA|L40L|300|CG2671|protein_coding|CODING|FBtr0078100|1|G)", true},
		{"stop gained not checked", "STOP_GAINED(HIGH|NONSENSE|Cag/Tag|Q5*|300|CG2671|protein_coding|CODING|FBtr0078100|1|T)", false},
		{"no codon", "INTRON(MODIFIER|||||CG11023|protein_coding|CODING|FBtr0300689|2|T)", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseEffect(tt.raw).CodonMismatch())
		})
	}
}
