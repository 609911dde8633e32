package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Ask the server to resolve its configuration again",
	Long: `Ask the server to resolve its configuration again. When the new
configuration is rejected, every problem is listed and the server keeps the
previous configuration.`,
	Args: cobra.NoArgs,
	RunE: runReload,
}

func runReload(cmd *cobra.Command, _ []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	snap, err := client.Reload(cmd.Context())
	if err != nil {
		return err
	}

	if !quiet && !jsonOutput {
		fmt.Println("Configuration reloaded.")
	}
	return getFormatter().FormatSnapshot(os.Stdout, snap)
}
