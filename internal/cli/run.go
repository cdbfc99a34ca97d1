package cli

import (
	"fmt"

	"github.com/riskibarqy/dota-match-insight/internal/infrastructure/export/csvsink"
	"github.com/riskibarqy/dota-match-insight/internal/report"
	"github.com/spf13/cobra"
)

var (
	runName     string
	runMinPatch string
	runOut      string
	runArchive  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build the clean match table for one player and print a random row",
	Example: "  insight run --name Yatoro\n" +
		"  insight run --name Miracle- --min-patch 7.35 --out data/miracle.csv --archive",
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runName, "name", "n", "", "professional player name (case-insensitive)")
	runCmd.Flags().StringVarP(&runMinPatch, "min-patch", "p", "", "earliest patch to include, e.g. 7.35 (default: current patch)")
	runCmd.Flags().StringVarP(&runOut, "out", "o", "", "write the full clean table to this CSV file")
	runCmd.Flags().BoolVar(&runArchive, "archive", false, "store the run in the local archive (forces ARCHIVE_ENABLED)")
	_ = runCmd.MarkFlagRequired("name")
}

func runRun(cmd *cobra.Command, _ []string) error {
	services, err := newServices(runArchive)
	if err != nil {
		return err
	}
	defer services.Close()

	result, err := services.Insight.Run(cmd.Context(), runName, runMinPatch)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	report.PrintRunSummary(out, result)

	if runOut != "" {
		if err := csvsink.WriteFile(runOut, result.Rows); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %d rows to %s\n\n", len(result.Rows), runOut)
	}

	row, ok := result.Sample(nil)
	if !ok {
		fmt.Fprintln(out, "No matches with complete data for this player and patch range.")
		return nil
	}
	report.PrintSampleRow(out, row)
	return nil
}
