package annotate

import (
	"strconv"
	"strings"
)

// Detail-block field indexes in SnpEff classic format:
// Effect ( Impact | Functional_Class | Codon_Change | Amino_Acid_Change | Amino_Acid_Length |
//          Gene_Name | Transcript_BioType | Gene_Coding | Transcript_ID | Exon_Rank | Genotype )
const (
	fieldImpact     = 0
	fieldCodon      = 2 // distance for position-based effects
	fieldGene       = 5
	fieldTranscript = 8

	minDetailFields = 3
)

// Effect is one parsed effect descriptor.
type Effect struct {
	Name        string
	Impact      string
	Distance    int64 // valid when HasDistance
	HasDistance bool
	Codon       *CodonChange // nil unless the effect carries a codon change
	Gene        string
	Transcript  string
	Raw         string
	Malformed   bool // detail block missing or too short
}

// Class returns the effect class derived from the name.
func (e Effect) Class() Class {
	return ClassOf(e.Name)
}

// CodonChange is a reference/alternate codon pair, upper-cased.
type CodonChange struct {
	Ref string
	Alt string
}

// String renders the change as REF>ALT.
func (c CodonChange) String() string {
	return c.Ref + ">" + c.Alt
}

// ParseCodonChange parses a SnpEff codon field such as "Cat/Cgt".
func ParseCodonChange(s string) (CodonChange, bool) {
	ref, alt, ok := strings.Cut(s, "/")
	if !ok || ref == "" || alt == "" || strings.Contains(alt, "/") {
		return CodonChange{}, false
	}
	return CodonChange{Ref: strings.ToUpper(ref), Alt: strings.ToUpper(alt)}, true
}

// ParseEffect parses a single standard (non-custom) effect descriptor.
// It never fails: a descriptor whose detail block is missing or has fewer
// fields than expected keeps its name and is flagged Malformed.
func ParseEffect(raw string) Effect {
	raw = strings.TrimSpace(raw)
	e := Effect{Raw: raw}

	open := strings.IndexByte(raw, '(')
	if open < 0 {
		e.Name = raw
		e.Malformed = true
		return e
	}
	e.Name = strings.TrimSpace(raw[:open])

	body := raw[open+1:]
	if end := strings.LastIndexByte(body, ')'); end >= 0 {
		body = body[:end]
	} else {
		e.Malformed = true
	}

	details := strings.Split(body, "|")
	if len(details) > fieldImpact {
		e.Impact = details[fieldImpact]
	}
	if len(details) < minDetailFields {
		e.Malformed = true
		return e
	}
	e.Gene = detail(details, fieldGene)
	e.Transcript = detail(details, fieldTranscript)

	switch {
	case ClassOf(e.Name) == ClassPosition:
		if d, err := strconv.ParseInt(details[fieldCodon], 10, 64); err == nil && d >= 0 {
			e.Distance = d
			e.HasDistance = true
		}
	case CarriesCodon(e.Name):
		if c, ok := ParseCodonChange(details[fieldCodon]); ok {
			e.Codon = &c
		}
	}

	return e
}

func detail(details []string, i int) string {
	if i < len(details) {
		return details[i]
	}
	return ""
}

// ParseEffects separates raw descriptors into standard effects, in input
// order, and the custom annotation match.
func ParseEffects(raw []string) ([]Effect, CustomMatch) {
	effects := make([]Effect, 0, len(raw))
	for _, r := range raw {
		if IsCustom(r) {
			continue
		}
		effects = append(effects, ParseEffect(r))
	}
	return effects, MatchCustom(raw)
}
