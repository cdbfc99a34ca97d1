package cli

import (
	"fmt"

	"github.com/riskibarqy/dota-match-insight/internal/domain/insightrun"
	"github.com/riskibarqy/dota-match-insight/internal/infrastructure/export/csvsink"
	"github.com/riskibarqy/dota-match-insight/internal/report"
	"github.com/spf13/cobra"
)

var (
	runsLimit int
	runsOut   string
)

var runsCmd = &cobra.Command{
	Use:   "runs [run-id]",
	Short: "List archived runs, or show one run",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum number of runs to list")
	runsCmd.Flags().StringVarP(&runsOut, "out", "o", "", "with a run id, write its rows to this CSV file")
}

func runRuns(cmd *cobra.Command, args []string) error {
	services, err := newServices(true)
	if err != nil {
		return err
	}
	defer services.Close()

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		runs, err := services.Insight.ListRuns(cmd.Context(), runsLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(out, "No archived runs.")
			return nil
		}
		report.PrintRuns(out, runs)
		return nil
	}

	run, rows, err := services.Insight.GetRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	report.PrintRuns(out, []insightrun.Run{run})

	if runsOut != "" {
		if err := csvsink.WriteFile(runsOut, rows); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %d rows to %s\n", len(rows), runsOut)
	}
	return nil
}
