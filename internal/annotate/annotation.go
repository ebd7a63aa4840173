// Package annotate parses and classifies SnpEff classic (EFF) effect descriptors.
package annotate

import "sort"

// Impact levels for variant effects.
const (
	ImpactHigh     = "HIGH"
	ImpactModerate = "MODERATE"
	ImpactLow      = "LOW"
	ImpactModifier = "MODIFIER"
)

// Effect names (SnpEff classic terms) referenced by the resolver.
const (
	EffectNonSynonymousCoding = "NON_SYNONYMOUS_CODING"
	EffectSynonymousCoding    = "SYNONYMOUS_CODING"
	EffectIntron              = "INTRON"
	EffectIntergenic          = "INTERGENIC"
	EffectUpstream            = "UPSTREAM"
	EffectDownstream          = "DOWNSTREAM"
)

// Class separates effects whose meaning depends on the distance to a feature
// from effects describing a consequence inside a feature.
type Class int

const (
	// ClassFeature is a consequence within a feature, e.g. a coding change.
	ClassFeature Class = iota
	// ClassPosition is a location relative to a feature, e.g. upstream of a gene.
	ClassPosition
)

func (c Class) String() string {
	if c == ClassPosition {
		return "position"
	}
	return "feature"
}

type effectInfo struct {
	class    Class
	hasCodon bool
}

// effectTable is the fixed effect name → class mapping. Names not listed here
// are feature-based.
var effectTable = map[string]effectInfo{
	// position-based: field 2 of the detail block holds the distance
	"UPSTREAM":                  {class: ClassPosition},
	"DOWNSTREAM":                {class: ClassPosition},
	"UTR_3_PRIME":               {class: ClassPosition},
	"UTR_5_PRIME":               {class: ClassPosition},
	"EXON":                      {class: ClassPosition},
	"INTERGENIC":                {class: ClassPosition},
	"INTRON":                    {class: ClassPosition},
	"SPLICE_SITE_REGION":        {class: ClassPosition},
	"SPLICE_SITE_REGION+EXON":   {class: ClassPosition},
	"SPLICE_SITE_REGION+INTRON": {class: ClassPosition},

	// feature-based: field 2 holds the codon change where hasCodon is set
	"NON_SYNONYMOUS_CODING":                    {class: ClassFeature, hasCodon: true},
	"NON_SYNONYMOUS_START":                     {class: ClassFeature, hasCodon: true},
	"NON_SYNONYMOUS_CODING+SPLICE_SITE_REGION": {class: ClassFeature, hasCodon: true},
	"NON_SYNONYMOUS_START+SPLICE_SITE_REGION":  {class: ClassFeature, hasCodon: true},
	"SPLICE_SITE_ACCEPTOR+INTRON":              {class: ClassFeature},
	"SPLICE_SITE_DONOR+INTRON":                 {class: ClassFeature},
	"SPLICE_SITE_REGION+SYNONYMOUS_CODING":     {class: ClassFeature, hasCodon: true},
	"SPLICE_SITE_REGION+SYNONYMOUS_STOP":       {class: ClassFeature, hasCodon: true},
	"START_GAINED":                             {class: ClassFeature},
	"START_LOST":                               {class: ClassFeature, hasCodon: true},
	"START_LOST+SPLICE_SITE_REGION":            {class: ClassFeature, hasCodon: true},
	"STOP_GAINED":                              {class: ClassFeature, hasCodon: true},
	"STOP_LOST":                                {class: ClassFeature, hasCodon: true},
	"STOP_LOST+SPLICE_SITE_REGION":             {class: ClassFeature, hasCodon: true},
	"STOP_GAINED+SPLICE_SITE_REGION":           {class: ClassFeature, hasCodon: true},
	"SYNONYMOUS_CODING":                        {class: ClassFeature, hasCodon: true},
	"SYNONYMOUS_STOP":                          {class: ClassFeature, hasCodon: true},
}

// ClassOf returns the class of an effect name.
func ClassOf(name string) Class {
	return effectTable[name].class
}

// CarriesCodon reports whether descriptors of this effect carry a codon change.
func CarriesCodon(name string) bool {
	return effectTable[name].hasCodon
}

// Known reports whether name is listed in the effect table.
func Known(name string) bool {
	_, ok := effectTable[name]
	return ok
}

// PositionEffects returns the position-based effect names, sorted.
func PositionEffects() []string {
	return namesOf(ClassPosition)
}

// FeatureEffects returns the feature-based effect names, sorted.
func FeatureEffects() []string {
	return namesOf(ClassFeature)
}

func namesOf(c Class) []string {
	var names []string
	for name, info := range effectTable {
		if info.class == c {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ImpactRank returns numeric rank for impact comparison (higher = more severe).
func ImpactRank(impact string) int {
	switch impact {
	case ImpactHigh:
		return 3
	case ImpactModerate:
		return 2
	case ImpactLow:
		return 1
	default:
		return 0
	}
}
