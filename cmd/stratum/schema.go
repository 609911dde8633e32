package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sagarc03/stratum"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "List the leaves of a schema file",
	Long: `List every leaf of a schema file with its type, the flag and environment
variable that set it, its default and its attributes.

Examples:
  stratum schema --schema app.schema.yaml --env-prefix APP`,
	Args: cobra.NoArgs,
	RunE: runSchema,
}

var (
	schemaPath      string
	schemaEnvPrefix string
	schemaJSON      bool
)

func init() {
	schemaCmd.Flags().StringVar(&schemaPath, "schema", "", "schema definition file (YAML)")
	schemaCmd.Flags().StringVar(&schemaEnvPrefix, "env-prefix", "", "prefix of environment variable names, ex: APP")
	schemaCmd.Flags().BoolVar(&schemaJSON, "json", false, "output as JSON")
}

type leafInfo struct {
	Key        string   `json:"key"`
	Type       string   `json:"type"`
	Flag       string   `json:"flag,omitempty"`
	Env        string   `json:"env,omitempty"`
	Default    string   `json:"default,omitempty"`
	Validate   string   `json:"validate,omitempty"`
	Usage      string   `json:"usage,omitempty"`
	Attributes []string `json:"attributes,omitempty"`
}

func describeLeaf(leaf stratum.Leaf, envPrefix string) leafInfo {
	info := leafInfo{
		Key:      leaf.Key,
		Type:     string(leaf.Type),
		Validate: leaf.Validate,
		Usage:    leaf.Usage,
	}
	if leaf.Skipped {
		info.Attributes = append(info.Attributes, "skipped")
		return info
	}
	info.Flag = "--" + leaf.FlagName()
	info.Env = leaf.EnvName(envPrefix)
	if leaf.HasDefault {
		info.Default = leaf.Default
	}
	if leaf.Required {
		info.Attributes = append(info.Attributes, "required")
	}
	if leaf.Cacheable {
		info.Attributes = append(info.Attributes, "cache")
	}
	if leaf.Secret {
		info.Attributes = append(info.Attributes, "secret")
	}
	return info
}

func runSchema(_ *cobra.Command, _ []string) error {
	if schemaPath == "" {
		return errSchemaRequired
	}
	schema, err := stratum.LoadSchemaFile(schemaPath)
	if err != nil {
		return fmt.Errorf("load schema: %w", err)
	}

	leaves := make([]leafInfo, 0, schema.Len())
	for leaf := range schema.All() {
		leaves = append(leaves, describeLeaf(leaf, schemaEnvPrefix))
	}

	if schemaJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(leaves)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "KEY\tTYPE\tFLAG\tENV\tDEFAULT\tATTRIBUTES")
	for _, l := range leaves {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			l.Key, l.Type, l.Flag, l.Env, l.Default, strings.Join(l.Attributes, ","))
	}
	return tw.Flush()
}
