package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/drosophila-popgen/snpeff-consistency/internal/consistency"
	"github.com/drosophila-popgen/snpeff-consistency/internal/output"
	"github.com/drosophila-popgen/snpeff-consistency/internal/stats"
	"github.com/drosophila-popgen/snpeff-consistency/internal/vcf"
)

// Config keys bound to analyze flags.
const (
	keyThreshold     = "analyze.threshold"
	keyInfoKey       = "analyze.info_key"
	keyFeaturePolicy = "analyze.feature_policy"
	keyWorkers       = "analyze.workers"
	keyCustomSuffix  = "custom_suffixes"
)

type analyzeOptions struct {
	mode       string
	output     string
	distance   int64
	stats      bool
	codonStats bool
}

func (a *app) newAnalyzeCmd() *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze <input.vcf[.gz]>",
		Short: "Resolve one effect per variant and write the decision table",
		Long: `Resolve the SnpEff classic (EFF) annotations of every variant into one effect.

Modes:
  strict    every descriptor must name the same effect
  rule      a feature-based effect wins; otherwise a majority vote over
            position-based effects (see --threshold and --distance)
  specific  first of NON_SYNONYMOUS_CODING, SYNONYMOUS_CODING, INTRON, INTERGENIC`,
		Example: `  snpeff-consistency analyze input.vcf --mode strict
  snpeff-consistency analyze input.vcf.gz --mode rule -t 0.8 -d 1000 --stats --codon_stats
  snpeff-consistency analyze input.vcf --mode specific -o specific_summary.txt`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAnalyze(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.mode, "mode", "", "Analysis mode (required): "+strings.Join(consistency.Modes(), ", "))
	f.StringVarP(&opts.output, "output", "o", "annotation_summary.txt", "Output decision table")
	f.Float64P("threshold", "t", consistency.DefaultThreshold, "Majority share required in rule mode, in (0, 1]")
	f.Int64VarP(&opts.distance, "distance", "d", 0, "Ignore position-based effects farther than this many bp (rule mode)")
	f.BoolVar(&opts.stats, "stats", false, "Write summary statistics to <output>_stats.txt")
	f.BoolVar(&opts.codonStats, "codon_stats", false, "Include codon change statistics (implies --stats)")
	f.String("info-key", vcf.DefaultEffectKey, "classic EFF-format INFO key holding the effect descriptors (ANN is not supported)")
	f.String("feature-policy", string(consistency.PolicyFirst), "Feature-based effect choice in rule mode: first or severity")
	f.Int("workers", 1, "Resolver workers; 0 uses all CPUs")

	_ = a.v.BindPFlag(keyThreshold, f.Lookup("threshold"))
	_ = a.v.BindPFlag(keyInfoKey, f.Lookup("info-key"))
	_ = a.v.BindPFlag(keyFeaturePolicy, f.Lookup("feature-policy"))
	_ = a.v.BindPFlag(keyWorkers, f.Lookup("workers"))

	return cmd
}

// resolverOptions validates flags and config into resolver options.
func (a *app) resolverOptions(cmd *cobra.Command, opts analyzeOptions) (consistency.Options, error) {
	mode, err := consistency.ParseMode(opts.mode)
	if err != nil {
		return consistency.Options{}, &usageError{err: err}
	}
	policy, err := consistency.ParseFeaturePolicy(a.v.GetString(keyFeaturePolicy))
	if err != nil {
		return consistency.Options{}, &usageError{err: err}
	}

	ro := consistency.DefaultOptions(mode)
	ro.FeaturePolicy = policy
	ro.Threshold = a.v.GetFloat64(keyThreshold)
	if cmd.Flags().Changed("distance") {
		if opts.distance <= 0 {
			return consistency.Options{}, usageErrorf("distance must be a positive number of bp, got %d", opts.distance)
		}
		ro.Distance = opts.distance
	}
	for name, suffix := range a.v.GetStringMapString(keyCustomSuffix) {
		ro.CustomSuffixes[name] = suffix
	}

	if err := ro.Validate(); err != nil {
		return consistency.Options{}, &usageError{err: err}
	}

	if mode != consistency.ModeRule {
		for _, name := range []string{"threshold", "distance", "feature-policy"} {
			if cmd.Flags().Changed(name) {
				a.logger.Warn("flag only applies to rule mode", zap.String("flag", name), zap.String("mode", string(mode)))
			}
		}
	}

	return ro, nil
}

func (a *app) runAnalyze(cmd *cobra.Command, inputPath string, opts analyzeOptions) error {
	ro, err := a.resolverOptions(cmd, opts)
	if err != nil {
		return err
	}
	workers := a.v.GetInt(keyWorkers)
	if workers < 0 {
		return usageErrorf("workers must not be negative, got %d", workers)
	}

	resolver, err := consistency.NewResolver(ro)
	if err != nil {
		return &usageError{err: err}
	}

	parser, err := vcf.NewParser(inputPath)
	if err != nil {
		return err
	}
	defer parser.Close()

	statsPath := statsFile(opts.output)
	targets := []string{opts.output}
	if opts.stats || opts.codonStats {
		targets = append(targets, statsPath)
	}
	for _, p := range targets {
		if _, err := os.Stat(p); err == nil {
			a.logger.Warn("output file exists and will be overwritten", zap.String("path", p))
		}
	}

	out, err := os.Create(opts.output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	tw := output.NewTableWriter(out, ro.Mode)
	if err := tw.WriteHeader(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	analyzer := consistency.NewAnalyzer(resolver)
	analyzer.SetInfoKey(a.v.GetString(keyInfoKey))
	analyzer.SetWorkers(workers)
	analyzer.SetLogger(a.logger)

	a.logger.Info("analyzing",
		zap.String("input", inputPath),
		zap.String("mode", string(ro.Mode)),
		zap.Int("workers", workers))

	summary := stats.New()
	if err := analyzer.AnalyzeAll(parser, tw, summary); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	if err := summary.Check(); err != nil {
		return fmt.Errorf("statistics do not balance: %w", err)
	}

	a.logger.Info("analysis complete",
		zap.String("output", opts.output),
		zap.Int("lines", summary.Lines()),
		zap.Int("processed", summary.Total),
		zap.Int("consistent", summary.Consistent),
		zap.Int("inconsistent", summary.Inconsistent),
		zap.Int("with_custom", summary.WithCustom),
		zap.Int("skipped_no_annotation", summary.Skipped(consistency.SkipNoAnnotation)),
		zap.Int("skipped_malformed", summary.Skipped(consistency.SkipMalformed)))

	if !opts.stats && !opts.codonStats {
		return nil
	}
	return writeStats(statsPath, summary, stats.RenderOptions{
		Mode:     ro.Mode,
		Detailed: opts.stats,
		Codons:   opts.codonStats,
	})
}

// statsFile returns the statistics path for a decision table path.
func statsFile(output string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + "_stats.txt"
}

func writeStats(path string, s *stats.Summary, opts stats.RenderOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create statistics file: %w", err)
	}
	if err := s.Render(f, opts); err != nil {
		f.Close()
		return fmt.Errorf("write statistics: %w", err)
	}
	return f.Close()
}
