package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/stratum/config"
	"github.com/sagarc03/stratum/source"
)

var version = "dev"

var (
	configFiles []string
	cliFlags    *source.Flags
)

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "stratum",
	Short:   "Layered configuration resolver",
	Long: `Stratum resolves application configuration from command-line flags,
configuration files, environment variables and a persistent cache, in that
order of precedence, and reports every missing or invalid value at once.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(cmd.Context(), configFiles, cliFlags, nil)
		if err != nil {
			return err
		}
		setupLogging(cfg.Log)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&configFiles, "config", nil, "stratum config file path(s) (default: ./stratum.{yaml,toml,json})")
	cliFlags = config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(promptCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
