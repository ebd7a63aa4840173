package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/drosophila-popgen/snpeff-consistency/internal/output"
)

func (a *app) newToBedCmd() *cobra.Command {
	var (
		outputPath string
		extended   bool
	)

	cmd := &cobra.Command{
		Use:   "to-bed <table>",
		Short: "Convert a (filtered) decision table to BED intervals",
		Long: `Write every row of a decision table as the single-base BED interval
[pos-1, pos), sorted by chromosome and start. Extended output adds the
vcftools header, the resolved effect and the remaining columns joined by '::'.`,
		Example: `  snpeff-consistency to-bed filtered_consistency.txt
  snpeff-consistency to-bed filtered_consistency.txt --extended -o intron.bed`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := readTable(args[0])
			if err != nil {
				return err
			}

			ivs := make([]output.Interval, len(tbl.Rows))
			for i, r := range tbl.Rows {
				ivs[i] = output.RowInterval(r)
			}
			output.SortIntervals(ivs)

			if err := writeBED(outputPath, ivs, extended); err != nil {
				return err
			}
			a.logger.Info("wrote BED intervals", zap.String("output", outputPath), zap.Int("intervals", len(ivs)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "consistency.bed", "Output BED file")
	cmd.Flags().BoolVar(&extended, "extended", false, "Write the header, effect and extra_info columns")

	return cmd
}
