package annotate

import "strings"

const customPrefix = "CUSTOM"

// NoCustomType is the rendered type of a variant without a custom annotation.
const NoCustomType = "NA"

// CustomMatch records the custom interval annotation attached to a variant,
// as produced by running SnpEff with -interval.
type CustomMatch struct {
	Present bool
	Name    string
}

// Type returns the matched custom annotation name, or NoCustomType.
func (m CustomMatch) Type() string {
	if !m.Present {
		return NoCustomType
	}
	return m.Name
}

// IsCustom reports whether a raw descriptor is a custom interval annotation.
func IsCustom(raw string) bool {
	return strings.HasPrefix(strings.TrimSpace(raw), customPrefix)
}

// MatchCustom returns the first custom annotation among the raw descriptors.
// Later matches are ignored even when they name a different interval set.
func MatchCustom(raw []string) CustomMatch {
	for _, r := range raw {
		if !IsCustom(r) {
			continue
		}
		return CustomMatch{Present: true, Name: customName(strings.TrimSpace(r))}
	}
	return CustomMatch{}
}

// customName extracts the bracketed identifier of CUSTOM[name](...).
// A descriptor without brackets is reported under the bare CUSTOM tag.
func customName(raw string) string {
	rest := raw[len(customPrefix):]
	if !strings.HasPrefix(rest, "[") {
		return customPrefix
	}
	end := strings.IndexByte(rest, ']')
	if end < 0 || end == 1 {
		return customPrefix
	}
	return rest[1:end]
}
