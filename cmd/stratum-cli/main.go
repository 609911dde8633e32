package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/stratum/clientcli"
)

var (
	version = "dev"

	cfgFile     string
	profileName string
	endpoint    string
	token       string
	jsonOutput  bool
	quiet       bool
)

var rootCmd = &cobra.Command{
	Use:     "stratum-cli",
	Version: version,
	Short:   "Client for the stratum inspection server",
	Long: `stratum-cli - Client for the stratum inspection server

Inspect the configuration a running "stratum serve" resolved, look up a single
value with its source, or ask the server to resolve again.

Connection settings come from, highest precedence first: flags, environment
variables (STRATUM_ENDPOINT, STRATUM_TOKEN, STRATUM_PROFILE) and the selected
profile in ~/.stratum/config.yaml.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.stratum/config.yaml, env: STRATUM_CLI_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "", "profile name (env: STRATUM_PROFILE)")
	rootCmd.PersistentFlags().StringVarP(&endpoint, "endpoint", "e", "", "server URL (default: http://localhost:5710, env: STRATUM_ENDPOINT)")
	rootCmd.PersistentFlags().StringVarP(&token, "token", "t", "", "bearer token (env: STRATUM_TOKEN)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(reloadCmd)
	rootCmd.AddCommand(configureCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		_ = getFormatter().FormatError(os.Stderr, err)
		os.Exit(1)
	}
}

// getConfigPath returns the profiles file: --config, then STRATUM_CLI_CONFIG, then
// the default location.
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if p := clientcli.ConfigPathFromEnv(nil); p != "" {
		return p
	}
	return clientcli.DefaultConfigPath()
}

// buildConfig merges the profile, env vars and flags (flags take precedence).
func buildConfig() (*clientcli.Config, error) {
	var configs []*clientcli.Config

	name := profileName
	if name == "" {
		name = clientcli.ProfileFromEnv(nil)
	}

	file, err := clientcli.LoadConfigFile(getConfigPath())
	switch {
	case err == nil:
		p, err := file.GetProfile(name)
		if err != nil && (name != "" || !errors.Is(err, clientcli.ErrNoProfiles)) {
			return nil, err
		}
		configs = append(configs, clientcli.ConfigFromProfile(p))
	case errors.Is(err, fs.ErrNotExist) && name == "" && cfgFile == "":
		// no profiles file is fine without an explicit profile
	default:
		return nil, err
	}

	configs = append(configs,
		clientcli.ConfigFromEnv(nil),
		&clientcli.Config{Endpoint: endpoint, Token: token},
	)

	return clientcli.MergeConfig(configs...), nil
}

// getFormatter returns the appropriate formatter based on flags.
func getFormatter() clientcli.Formatter {
	return clientcli.NewFormatter(jsonOutput, quiet)
}

// getClient creates and returns a configured client.
func getClient() (*clientcli.Client, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, err
	}

	return clientcli.New(cfg)
}
