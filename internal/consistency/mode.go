// Package consistency resolves conflicting SnpEff effect annotations into a
// single representative effect per variant.
package consistency

import (
	"fmt"
	"strings"
)

// Mode selects the decision policy.
type Mode string

// Decision policies.
const (
	// ModeStrict requires every descriptor to carry the same effect name.
	ModeStrict Mode = "strict"
	// ModeRule takes the feature-based effect when present, otherwise a
	// majority vote over position-based effects.
	ModeRule Mode = "rule"
	// ModeSpecific picks the first effect of a fixed priority list.
	ModeSpecific Mode = "specific"
)

// Modes returns the valid mode names.
func Modes() []string {
	return []string{string(ModeStrict), string(ModeRule), string(ModeSpecific)}
}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeStrict, ModeRule, ModeSpecific:
		return m, nil
	}
	return "", fmt.Errorf("invalid mode %q: must be one of %s", s, strings.Join(Modes(), ", "))
}

// FeaturePolicy selects how rule mode picks among feature-based effects.
type FeaturePolicy string

const (
	// PolicyFirst takes the first feature-based effect in descriptor order.
	// SnpEff sorts descriptors by decreasing severity, so this is the most
	// severe effect as ranked by the annotator.
	PolicyFirst FeaturePolicy = "first"
	// PolicySeverity takes the feature-based effect with the highest
	// descriptor impact; ties go to the lexicographically smallest name.
	// The result does not depend on descriptor order.
	PolicySeverity FeaturePolicy = "severity"
)

// ParseFeaturePolicy validates a feature policy name.
func ParseFeaturePolicy(s string) (FeaturePolicy, error) {
	switch p := FeaturePolicy(s); p {
	case PolicyFirst, PolicySeverity:
		return p, nil
	}
	return "", fmt.Errorf("invalid feature policy %q: must be %s or %s", s, PolicyFirst, PolicySeverity)
}

// Resolution methods recorded on a Verdict.
const (
	MethodStrict      = "strict"
	MethodMajority    = "majority_rule"
	MethodFirstEffect = "first_effect"
	MethodSeverity    = "severity"
	MethodSpecific    = "specific"
)

// Undefined is the resolved value when no effect can be chosen.
const Undefined = "undefined"

// SkipReason explains why a data line produced no verdict.
type SkipReason string

// Skip reasons.
const (
	SkipNoAnnotation SkipReason = "no_annotation"
	SkipMalformed    SkipReason = "malformed"
)
