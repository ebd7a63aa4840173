package vcf

import "strings"

// DefaultEffectKey is the INFO key written by SnpEff in classic (-classic / -formatEff) mode.
const DefaultEffectKey = "EFF"

// Variant represents a single genomic variant from a VCF file.
type Variant struct {
	Chrom  string                 // Chromosome name (e.g., "2L", "chr2L")
	Pos    int64                  // 1-based genomic position
	ID     string                 // Variant identifier
	Ref    string                 // Reference allele
	Alt    string                 // Alternate allele(s), comma-separated
	Qual   float64                // Quality score
	Filter string                 // Filter status (PASS or filter name)
	Info   map[string]interface{} // INFO field key-value pairs
}

// IsMultiAllelic returns true if the variant has more than one alternate allele.
func (v *Variant) IsMultiAllelic() bool {
	return strings.Contains(v.Alt, ",")
}

// EffectDescriptors returns the raw effect descriptors stored under the INFO
// key, split on top-level commas. ok is false when the key is missing, is a
// flag, or holds no descriptors.
func (v *Variant) EffectDescriptors(key string) (descriptors []string, ok bool) {
	raw, found := v.Info[key]
	if !found {
		return nil, false
	}
	value, isString := raw.(string)
	if !isString || value == "" || value == "." {
		return nil, false
	}

	descriptors = splitTopLevel(value)
	return descriptors, len(descriptors) > 0
}

// splitTopLevel splits s on commas that are not enclosed in parentheses.
// Empty pieces are dropped.
func splitTopLevel(s string) []string {
	var out []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				if piece := s[start:i]; piece != "" {
					out = append(out, piece)
				}
				start = i + 1
			}
		}
	}
	if piece := s[start:]; piece != "" {
		out = append(out, piece)
	}
	return out
}
