package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/sagarc03/stratum"
)

var errCacheDisabled = errors.New("cache backend is disabled (cache.type=none)")

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and prune the configuration cache",
	Long: `Inspect and prune the persistent cache that backs cacheable configuration
values. The backend is selected with --cache-type (file, memory, sqlite or postgres).`,
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached values",
	Args:  cobra.NoArgs,
	RunE:  runCacheList,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [key...]",
	Short: "Remove cached values",
	Long: `Remove the given keys from the cache, or every entry when no key is given.

Examples:
  stratum cache clear session.id
  stratum cache clear --yes`,
	RunE: runCacheClear,
}

var (
	cacheJSON bool
	cacheYes  bool
)

func init() {
	cacheListCmd.Flags().BoolVar(&cacheJSON, "json", false, "output as JSON")
	cacheClearCmd.Flags().BoolVarP(&cacheYes, "yes", "y", false, "do not ask for confirmation")

	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func runCacheList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, closeStore, err := openCache(ctx)
	if err != nil {
		return err
	}
	defer closeStore()
	if store == nil {
		return errCacheDisabled
	}

	entries, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("list cache: %w", err)
	}

	if cacheJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Entries []stratum.CacheEntry `json:"entries"`
		}{Entries: entries})
	}

	if len(entries) == 0 {
		fmt.Println("Cache is empty")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "KEY\tVALUE\tUPDATED")
	for _, e := range entries {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Key, e.Value, e.UpdatedAt.Local().Format(time.DateTime))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d entr(ies)\n", len(entries))
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, closeStore, err := openCache(ctx)
	if err != nil {
		return err
	}
	defer closeStore()
	if store == nil {
		return errCacheDisabled
	}

	if !cacheYes {
		label := "Remove every cached value"
		if len(args) > 0 {
			label = fmt.Sprintf("Remove %s from the cache", strings.Join(args, ", "))
		}
		prompt := promptui.Prompt{Label: label, IsConfirm: true}
		if _, err := prompt.Run(); err != nil {
			fmt.Println("Cancelled.")
			return nil //nolint:nilerr // User cancelled, not an error
		}
	}

	if err := store.Delete(ctx, args...); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}

	if len(args) == 0 {
		fmt.Println("Cache cleared.")
	} else {
		fmt.Printf("Removed %d key(s).\n", len(args))
	}
	return nil
}
