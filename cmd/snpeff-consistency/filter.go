package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/drosophila-popgen/snpeff-consistency/internal/annotate"
	"github.com/drosophila-popgen/snpeff-consistency/internal/consistency"
	"github.com/drosophila-popgen/snpeff-consistency/internal/duckdb"
	"github.com/drosophila-popgen/snpeff-consistency/internal/output"
)

type filterOptions struct {
	mode    string
	effects []string
	output  string
	bed     string
}

func (a *app) newFilterCmd() *cobra.Command {
	var opts filterOptions

	cmd := &cobra.Command{
		Use:   "filter <table>",
		Short: "Keep consistent rows whose resolved effect is in a set",
		Long: `Select the rows of a decision table that were resolved consistently to one
of the requested effects. Effect names are case-insensitive; a custom
annotation suffix such as +SI is matched literally.`,
		Example: `  snpeff-consistency filter annotation_summary.txt --mode rule --effects INTRON,INTERGENIC
  snpeff-consistency filter annotation_summary.txt --mode specific --effects synonymous_coding --bed syn.bed`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFilter(args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.mode, "mode", "", "Mode the table was written in (required): "+strings.Join(consistency.Modes(), ", "))
	f.StringSliceVar(&opts.effects, "effects", nil, "Effects to keep, comma-separated (required)")
	f.StringVarP(&opts.output, "output", "o", "filtered_consistency.txt", "Output filtered table")
	f.StringVar(&opts.bed, "bed", "", "Also write the selected positions as BED intervals to this file")

	return cmd
}

// normalizeEffects upper-cases effect names and rejects unknown ones. A
// name may carry a custom annotation suffix after its last '+'.
func normalizeEffects(effects []string) ([]string, error) {
	upper := cases.Upper(language.Und)

	var out, invalid []string
	for _, e := range effects {
		e = upper.String(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !validEffect(e) {
			invalid = append(invalid, e)
			continue
		}
		out = append(out, e)
	}
	if len(invalid) > 0 {
		return nil, usageErrorf("invalid effects: %s (valid effects: %s)",
			strings.Join(invalid, ", "), strings.Join(validEffects(), ", "))
	}
	if len(out) == 0 {
		return nil, usageErrorf("at least one effect is required")
	}
	return out, nil
}

func validEffect(e string) bool {
	if annotate.Known(e) {
		return true
	}
	i := strings.LastIndexByte(e, '+')
	return i > 0 && i < len(e)-1 && annotate.Known(e[:i])
}

func validEffects() []string {
	names := append(annotate.PositionEffects(), annotate.FeatureEffects()...)
	sort.Strings(names)
	return names
}

func (a *app) runFilter(tablePath string, opts filterOptions) error {
	mode, err := consistency.ParseMode(opts.mode)
	if err != nil {
		return &usageError{err: err}
	}
	effects, err := normalizeEffects(opts.effects)
	if err != nil {
		return err
	}

	tbl, err := readTable(tablePath)
	if err != nil {
		return err
	}
	if tbl.Mode != mode {
		return fmt.Errorf("%s holds a %s mode table, not %s", tablePath, tbl.Mode, mode)
	}

	store, err := duckdb.Open()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.LoadTable(tbl); err != nil {
		return fmt.Errorf("load table: %w", err)
	}

	rows, err := store.Filter(mode, effects)
	if err != nil {
		return err
	}
	if err := writeFile(opts.output, func(f *os.File) error {
		return output.WriteRows(f, tbl.Header, rows)
	}); err != nil {
		return err
	}
	a.logger.Info("filtered table",
		zap.String("output", opts.output),
		zap.Int("rows", len(tbl.Rows)),
		zap.Int("kept", len(rows)),
		zap.Strings("effects", effects))

	if opts.bed == "" {
		return nil
	}
	ivs, err := store.Intervals(mode, effects)
	if err != nil {
		return err
	}
	if err := writeBED(opts.bed, ivs, false); err != nil {
		return err
	}
	a.logger.Info("wrote BED intervals", zap.String("output", opts.bed), zap.Int("intervals", len(ivs)))
	return nil
}

func readTable(path string) (*output.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tbl, err := output.ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tbl, nil
}

// writeFile creates path, runs fn on it and closes it, reporting the first error.
func writeFile(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func writeBED(path string, ivs []output.Interval, extended bool) error {
	return writeFile(path, func(f *os.File) error {
		w := output.NewBEDWriter(f, extended)
		if err := w.WriteHeader(); err != nil {
			return err
		}
		for _, iv := range ivs {
			if err := w.Write(iv); err != nil {
				return err
			}
		}
		return w.Flush()
	})
}
