package annotate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchCustom(t *testing.T) {
	tests := []struct {
		name        string
		raw         []string
		wantPresent bool
		wantType    string
	}{
		{
			name:     "no custom annotation",
			raw:      []string{"INTRON(MODIFIER||||||||||T)"},
			wantType: NoCustomType,
		},
		{
			name:        "single custom annotation",
			raw:         []string{"INTRON(MODIFIER||||||||||T)", "CUSTOM[dm6_short_introns](MODIFIER||||||NM_1_intron_2||||1)"},
			wantPresent: true,
			wantType:    "dm6_short_introns",
		},
		{
			name: "first match wins",
			raw: []string{
				"CUSTOM[dm6_short_introns](MODIFIER||||||||||1)",
				"CUSTOM[dm6_enhancers](MODIFIER||||||||||1)",
			},
			wantPresent: true,
			wantType:    "dm6_short_introns",
		},
		{
			name:        "bare custom tag",
			raw:         []string{"CUSTOM(MODIFIER||||||||||1)"},
			wantPresent: true,
			wantType:    "CUSTOM",
		},
		{
			name:        "empty brackets",
			raw:         []string{"CUSTOM[](MODIFIER||||||||||1)"},
			wantPresent: true,
			wantType:    "CUSTOM",
		},
		{
			name:     "empty list",
			wantType: NoCustomType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MatchCustom(tt.raw)
			assert.Equal(t, tt.wantPresent, m.Present)
			assert.Equal(t, tt.wantType, m.Type())
		})
	}
}

func TestIsCustom(t *testing.T) {
	assert.True(t, IsCustom("CUSTOM[x](a)"))
	assert.True(t, IsCustom(" CUSTOM[x](a)"))
	assert.False(t, IsCustom("INTRON(CUSTOM)"))
}
