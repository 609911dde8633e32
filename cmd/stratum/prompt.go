package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/sagarc03/stratum"
	"github.com/sagarc03/stratum/clientcli"
)

var errPromptCancelled = errors.New("cancelled")

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Interactively fill missing cacheable values",
	Long: `Resolve a configuration and ask for every missing cacheable value. Answers
are stored in the cache, so later resolutions pick them up without asking.

Secret values are read without echo. Values that are not cacheable must be set
with a flag, a configuration file or an environment variable; they are listed
and the command fails.

Examples:
  stratum prompt --schema app.schema.yaml --env-prefix APP`,
	Args: cobra.NoArgs,
	RunE: runPrompt,
}

var promptTarget target

func init() {
	promptTarget.registerFlags(promptCmd.Flags())
}

func runPrompt(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	schema, err := promptTarget.schema()
	if err != nil {
		return err
	}

	store, closeStore, err := openCache(ctx)
	if err != nil {
		return err
	}
	defer closeStore()
	if store == nil {
		return errCacheDisabled
	}

	src, err := promptTarget.sources(store)
	if err != nil {
		return err
	}

	probe := stratum.NewResolver(schema, stratum.WithEnvPrefix(promptTarget.envPrefix), stratum.WithoutCacheWrite())
	_, err = probe.Resolve(ctx, src)
	if err == nil {
		fmt.Println("Nothing to ask: configuration is complete.")
		return nil
	}
	var report *stratum.Report
	if !errors.As(err, &report) {
		return fmt.Errorf("resolve: %w", err)
	}

	answers := map[string]string{}
	var remaining []*stratum.FieldError
	for _, fe := range report.Errors {
		leaf, ok := schema.Leaf(fe.Key)
		if !ok || !promptable(leaf, fe) {
			remaining = append(remaining, fe)
			continue
		}
		value, err := promptLeaf(leaf)
		if err != nil {
			return err
		}
		answers[leaf.Key] = value
	}

	if len(answers) > 0 {
		if err := store.PutAll(ctx, answers); err != nil {
			return fmt.Errorf("store answers: %w", err)
		}
		fmt.Printf("Stored %d value(s) in the cache.\n", len(answers))
	}

	if len(remaining) > 0 {
		return fmt.Errorf("values that cannot be cached must be set by flag, file or environment:\n%w",
			&stratum.Report{Errors: remaining})
	}

	res, err := promptTarget.resolver(schema).Resolve(ctx, src)
	if err != nil {
		return fmt.Errorf("resolve:\n%w", err)
	}
	return clientcli.NewFormatter(false, false).FormatSnapshot(os.Stdout, snapshot(res))
}

// promptable reports whether an answer stored in the cache can fix fe: the leaf must be
// cacheable and either missing or holding a rejected cached value.
func promptable(leaf stratum.Leaf, fe *stratum.FieldError) bool {
	if !leaf.Cacheable {
		return false
	}
	switch fe.Problem {
	case stratum.ProblemMissing:
		return true
	case stratum.ProblemInvalid:
		return fe.Source == stratum.SourceCache
	default:
		return false
	}
}

func promptLeaf(leaf stratum.Leaf) (string, error) {
	label := leaf.Key
	if leaf.Usage != "" {
		label = fmt.Sprintf("%s (%s)", leaf.Key, leaf.Usage)
	}

	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("a value is required")
			}
			_, err := leaf.Type.Parse(input)
			return err
		},
	}
	if leaf.Secret {
		prompt.Mask = '*'
	}

	value, err := prompt.Run()
	if err != nil {
		return "", handlePromptError(err)
	}
	return strings.TrimSpace(value), nil
}

// handlePromptError maps promptui interruptions to errPromptCancelled.
func handlePromptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) {
		return errPromptCancelled
	}
	return fmt.Errorf("prompt: %w", err)
}
