package consistency

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/drosophila-popgen/snpeff-consistency/internal/annotate"
)

// DefaultThreshold is the majority share required in rule mode.
const DefaultThreshold = 0.75

// DefaultCustomSuffix is appended in rule mode for custom annotations that
// have no entry in Options.CustomSuffixes.
const DefaultCustomSuffix = "CUSTOM"

// DefaultCustomSuffixes maps known custom interval sets to their suffix.
func DefaultCustomSuffixes() map[string]string {
	return map[string]string{
		"dm6_short_introns": "SI",
		"short_introns":     "SI",
	}
}

// specificPriority is the fixed resolution order of specific mode.
var specificPriority = []string{
	annotate.EffectNonSynonymousCoding,
	annotate.EffectSynonymousCoding,
	annotate.EffectIntron,
	annotate.EffectIntergenic,
}

// SpecificEffects returns the effects specific mode can resolve to, in priority order.
func SpecificEffects() []string {
	return append([]string(nil), specificPriority...)
}

// Options configures a Resolver.
type Options struct {
	Mode           Mode
	Threshold      float64 // rule mode majority share, in (0, 1]
	Distance       int64   // rule mode distance cut-off in bp; 0 disables it
	FeaturePolicy  FeaturePolicy
	CustomSuffixes map[string]string
}

// DefaultOptions returns the options used when only a mode is given.
func DefaultOptions(mode Mode) Options {
	return Options{
		Mode:           mode,
		Threshold:      DefaultThreshold,
		FeaturePolicy:  PolicyFirst,
		CustomSuffixes: DefaultCustomSuffixes(),
	}
}

// Validate checks option ranges.
func (o Options) Validate() error {
	if _, err := ParseMode(string(o.Mode)); err != nil {
		return err
	}
	if _, err := ParseFeaturePolicy(string(o.FeaturePolicy)); err != nil {
		return err
	}
	if !(o.Threshold > 0 && o.Threshold <= 1) {
		return fmt.Errorf("threshold must be between 0 and 1, got %v", o.Threshold)
	}
	if o.Distance < 0 {
		return errors.New("distance threshold must be positive")
	}
	return nil
}

// Verdict is the resolution of one variant's effects.
type Verdict struct {
	Mode       Mode
	Method     string
	Consistent bool
	Effect     string // resolved value, including any custom suffix
	BaseEffect string // resolved value without custom suffix
	// DistanceFiltered reports that the distance cut-off removed at least
	// one descriptor. Only meaningful when Method is MethodMajority.
	DistanceFiltered bool
	Custom           annotate.CustomMatch
	Codon            CodonResult
}

// Result ties a verdict to its variant.
type Result struct {
	Chrom   string
	Pos     int64
	Ref     string
	Alt     string
	Verdict Verdict
}

// Resolver applies one decision policy. It holds no per-variant state and is
// safe for concurrent use.
type Resolver struct {
	opts Options
}

// NewResolver validates opts and returns a Resolver.
func NewResolver(opts Options) (*Resolver, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Resolver{opts: opts}, nil
}

// Options returns the resolver configuration.
func (r *Resolver) Options() Options {
	return r.opts
}

// Resolve computes the verdict for a variant's standard effects.
func (r *Resolver) Resolve(effects []annotate.Effect, custom annotate.CustomMatch) Verdict {
	var v Verdict
	switch r.opts.Mode {
	case ModeStrict:
		v = resolveStrict(effects)
	case ModeRule:
		v = r.resolveRule(effects)
	case ModeSpecific:
		v = resolveSpecific(effects)
	}

	v.Mode = r.opts.Mode
	v.Custom = custom
	v.BaseEffect = v.Effect
	if r.opts.Mode == ModeRule && custom.Present && v.Consistent {
		v.Effect += "+" + r.suffixFor(custom.Name)
	}
	v.Codon = CheckCodons(effects, v.BaseEffect)

	return v
}

func (r *Resolver) suffixFor(customType string) string {
	if s, ok := r.opts.CustomSuffixes[customType]; ok && s != "" {
		return s
	}
	return DefaultCustomSuffix
}

func resolveStrict(effects []annotate.Effect) Verdict {
	v := Verdict{Method: MethodStrict, Effect: Undefined}
	if len(effects) == 0 {
		return v
	}
	first := effects[0].Name
	for _, e := range effects[1:] {
		if e.Name != first {
			return v
		}
	}
	v.Effect = first
	v.Consistent = true
	return v
}

func (r *Resolver) resolveRule(effects []annotate.Effect) Verdict {
	var feature []annotate.Effect
	for _, e := range effects {
		if e.Class() == annotate.ClassFeature {
			feature = append(feature, e)
		}
	}

	if len(feature) > 0 {
		if r.opts.FeaturePolicy == PolicySeverity {
			return Verdict{Method: MethodSeverity, Effect: mostSevere(feature), Consistent: true}
		}
		return Verdict{Method: MethodFirstEffect, Effect: feature[0].Name, Consistent: true}
	}

	return r.majority(effects)
}

// mostSevere returns the name with the highest descriptor impact, breaking
// ties lexicographically.
func mostSevere(effects []annotate.Effect) string {
	best := effects[0]
	for _, e := range effects[1:] {
		rank, bestRank := annotate.ImpactRank(e.Impact), annotate.ImpactRank(best.Impact)
		if rank > bestRank || (rank == bestRank && e.Name < best.Name) {
			best = e
		}
	}
	return best.Name
}

// majority votes over position-based effects within the distance cut-off.
func (r *Resolver) majority(effects []annotate.Effect) Verdict {
	v := Verdict{Method: MethodMajority, Effect: Undefined}

	counts := make(map[string]int)
	total := 0
	for _, e := range effects {
		if e.Class() != annotate.ClassPosition {
			continue
		}
		if r.opts.Distance > 0 && e.HasDistance && e.Distance > r.opts.Distance {
			v.DistanceFiltered = true
			continue
		}
		counts[e.Name]++
		total++
	}
	if total == 0 {
		return v
	}

	top, most := leaders(counts)
	if len(top) > 1 {
		v.Effect = "tie:" + strings.Join(top, "=")
		return v
	}

	share := float64(most) / float64(total)
	if share >= r.opts.Threshold {
		v.Effect = top[0]
		v.Consistent = true
		return v
	}

	v.Effect = fmt.Sprintf("unclear:%s=%d%%", top[0], int(math.Round(share*100)))
	return v
}

// leaders returns the names sharing the maximum count, sorted, and that count.
func leaders(counts map[string]int) ([]string, int) {
	most := 0
	for _, n := range counts {
		if n > most {
			most = n
		}
	}
	var top []string
	for name, n := range counts {
		if n == most {
			top = append(top, name)
		}
	}
	sort.Strings(top)
	return top, most
}

func resolveSpecific(effects []annotate.Effect) Verdict {
	present := make(map[string]bool, len(effects))
	for _, e := range effects {
		present[e.Name] = true
	}
	for _, name := range specificPriority {
		if present[name] {
			return Verdict{Method: MethodSpecific, Effect: name, Consistent: true}
		}
	}
	return Verdict{Method: MethodSpecific, Effect: Undefined}
}
