package main

import (
	"os"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Show a single resolved value",
	Long: `Show a single value by its dotted key, with its type and source.

Examples:
  stratum-cli get database.port
  stratum-cli get -q server.host`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	v, err := client.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	return getFormatter().FormatValue(os.Stdout, v)
}
