package annotate

// Standard genetic code: DNA codon to amino acid (single letter).
var codonTable = map[string]byte{
	"TTT": 'F', "TTC": 'F', "TTA": 'L', "TTG": 'L',
	"TCT": 'S', "TCC": 'S', "TCA": 'S', "TCG": 'S',
	"TAT": 'Y', "TAC": 'Y', "TAA": '*', "TAG": '*',
	"TGT": 'C', "TGC": 'C', "TGA": '*', "TGG": 'W',

	"CTT": 'L', "CTC": 'L', "CTA": 'L', "CTG": 'L',
	"CCT": 'P', "CCC": 'P', "CCA": 'P', "CCG": 'P',
	"CAT": 'H', "CAC": 'H', "CAA": 'Q', "CAG": 'Q',
	"CGT": 'R', "CGC": 'R', "CGA": 'R', "CGG": 'R',

	"ATT": 'I', "ATC": 'I', "ATA": 'I', "ATG": 'M',
	"ACT": 'T', "ACC": 'T', "ACA": 'T', "ACG": 'T',
	"AAT": 'N', "AAC": 'N', "AAA": 'K', "AAG": 'K',
	"AGT": 'S', "AGC": 'S', "AGA": 'R', "AGG": 'R',

	"GTT": 'V', "GTC": 'V', "GTA": 'V', "GTG": 'V',
	"GCT": 'A', "GCC": 'A', "GCA": 'A', "GCG": 'A',
	"GAT": 'D', "GAC": 'D', "GAA": 'E', "GAG": 'E',
	"GGT": 'G', "GGC": 'G', "GGA": 'G', "GGG": 'G',
}

// TranslateCodon translates an upper-case DNA codon to its amino acid.
// Returns 'X' for unknown codons and '*' for stop codons.
func TranslateCodon(codon string) byte {
	if aa, ok := codonTable[codon]; ok {
		return aa
	}
	return 'X'
}

// AminoAcids returns the reference and alternate amino acids of the change.
func (c CodonChange) AminoAcids() (ref, alt byte) {
	return TranslateCodon(c.Ref), TranslateCodon(c.Alt)
}

// Synonymous reports whether both codons translate to the same amino acid.
// ok is false when either codon cannot be translated.
func (c CodonChange) Synonymous() (synonymous, ok bool) {
	ref, alt := c.AminoAcids()
	if ref == 'X' || alt == 'X' {
		return false, false
	}
	return ref == alt, true
}

// CodonMismatch reports whether the codon change of e contradicts its
// effect name, e.g. a SYNONYMOUS_CODING descriptor whose codons translate to
// different amino acids.
func (e Effect) CodonMismatch() bool {
	if e.Codon == nil {
		return false
	}
	syn, ok := e.Codon.Synonymous()
	if !ok {
		return false
	}
	switch e.Name {
	case EffectSynonymousCoding:
		return !syn
	case EffectNonSynonymousCoding:
		return syn
	}
	return false
}
