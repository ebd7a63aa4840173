package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drosophila-popgen/snpeff-consistency/internal/consistency"
)

const ruleTable = `chrom	pos	has_custom_annotation	custom_annotation_type	rule_effect_bool	rule_effect_name	distance_filtered	codon_change	is_codon_change_consistent	codon_change_note
2L	5000	False	NA	True	INTRON	False	NA	NA	NA
2L	6000	True	dm6_short_introns	True	NON_SYNONYMOUS_CODING+SI	not_applicable	CAT>CGT	True	consistent
2L	7000	False	NA	False	tie:DOWNSTREAM=UPSTREAM	False	NA	NA	NA
3R	200	False	NA	False	unclear:INTRON=67%	False	NA	NA	NA
X	900	False	NA	True	INTERGENIC	False	NA	NA	NA
2L	100	False	NA	True	INTRON	False	NA	NA	NA
`

func TestReadTable(t *testing.T) {
	tbl, err := ReadTable(strings.NewReader(ruleTable))
	require.NoError(t, err)

	assert.Equal(t, consistency.ModeRule, tbl.Mode)
	assert.Len(t, tbl.Header, 10)
	require.Len(t, tbl.Rows, 6)

	r := tbl.Rows[1]
	assert.Equal(t, 3, r.Line)
	assert.Equal(t, "2L", r.Chrom)
	assert.Equal(t, int64(6000), r.Pos)
	assert.True(t, r.Consistent)
	assert.Equal(t, "NON_SYNONYMOUS_CODING+SI", r.Effect)
	assert.Len(t, r.Fields, 10)

	assert.False(t, tbl.Rows[2].Consistent)
}

func TestReadTable_DetectsEveryMode(t *testing.T) {
	for _, m := range consistency.Modes() {
		mode := consistency.Mode(m)
		header := strings.Join(Columns(mode), "\t") + "\n"

		tbl, err := ReadTable(strings.NewReader(header))
		require.NoError(t, err)
		assert.Equal(t, mode, tbl.Mode)
		assert.Empty(t, tbl.Rows)
	}
}

func TestReadTable_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"empty", "", "empty table"},
		{"unknown header", "chrom\tpos\tfoo\n", "effect_bool"},
		{"missing pos", "chrom\tstrict_effect_bool\tstrict_effect_name\n", "pos"},
		{"short row", "chrom\tpos\tstrict_effect_bool\tstrict_effect_name\n2L\t5\tTrue\n", "line 2"},
		{"bad position", "chrom\tpos\tstrict_effect_bool\tstrict_effect_name\n2L\tx\tTrue\tINTRON\n", "invalid position"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTable(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWriteRows_RoundTrip(t *testing.T) {
	tbl, err := ReadTable(strings.NewReader(ruleTable))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteRows(&buf, tbl.Header, tbl.Rows))
	assert.Equal(t, ruleTable, buf.String())
}
