package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/stratum"
	"github.com/sagarc03/stratum/clientcli"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve a configuration and print every value",
	Long: `Resolve a configuration described by a schema file and print every value
together with the source it came from.

Precedence, highest first: --set overrides, configuration files, environment
variables, cache, schema defaults. Secret values are masked. When values are
missing or invalid, every problem is reported and the command fails.

Examples:
  stratum resolve --schema app.schema.yaml --file app.toml --env-prefix APP
  stratum resolve --schema app.schema.yaml --set server.port=8081 --json
  stratum resolve --schema app.schema.yaml --dotenv .env --no-cache-write`,
	Args: cobra.NoArgs,
	RunE: runResolve,
}

var (
	resolveTarget target
	resolveJSON   bool
	resolveQuiet  bool
)

func init() {
	resolveTarget.registerFlags(resolveCmd.Flags())
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "output as JSON")
	resolveCmd.Flags().BoolVarP(&resolveQuiet, "quiet", "q", false, "print key=value lines only")
}

func runResolve(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	schema, err := resolveTarget.schema()
	if err != nil {
		return err
	}

	store, closeStore, err := openCache(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	src, err := resolveTarget.sources(store)
	if err != nil {
		return err
	}

	res, err := resolveTarget.resolver(schema).Resolve(ctx, src)
	if err != nil {
		return fmt.Errorf("resolve:\n%w", err)
	}

	return clientcli.NewFormatter(resolveJSON, resolveQuiet).FormatSnapshot(os.Stdout, snapshot(res))
}

// snapshot renders res with secrets masked.
func snapshot(res *stratum.Resolved) *clientcli.Snapshot {
	values := res.Values()
	for i := range values {
		values[i] = values[i].Masked()
	}
	snap := &clientcli.Snapshot{Values: values}
	for _, w := range res.Warnings() {
		snap.Warnings = append(snap.Warnings, w.Error())
	}
	return snap
}
