package cli

import (
	"github.com/riskibarqy/dota-match-insight/internal/report"
	"github.com/spf13/cobra"
)

var patchesCmd = &cobra.Command{
	Use:   "patches",
	Short: "List known game patches and the current one",
	Args:  cobra.NoArgs,
	RunE:  runPatches,
}

func runPatches(cmd *cobra.Command, _ []string) error {
	services, err := newServices(false)
	if err != nil {
		return err
	}
	defer services.Close()

	patches, current, err := services.Insight.Patches(cmd.Context())
	if err != nil {
		return err
	}
	report.PrintPatches(cmd.OutOrStdout(), patches, current)
	return nil
}
