package main

import (
	"os"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show every resolved value",
	Long: `Show every value of the server's current configuration with the source
it came from. Secret values are masked by the server.

Examples:
  stratum-cli show
  stratum-cli show -q
  stratum-cli show --profile prod --json`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

func runShow(cmd *cobra.Command, _ []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	snap, err := client.Show(cmd.Context())
	if err != nil {
		return err
	}

	return getFormatter().FormatSnapshot(os.Stdout, snap)
}
