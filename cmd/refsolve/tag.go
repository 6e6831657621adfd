package main

import (
	"fmt"

	"github.com/refsolve/refsolve/internal/config"
	"github.com/refsolve/refsolve/internal/store"
	"github.com/spf13/cobra"
)

var tagClear bool

func init() {
	tagCmd.Flags().BoolVar(&tagClear, "clear", false, "Remove the cached identifier instead of setting one")
	rootCmd.AddCommand(tagCmd)
}

var tagCmd = &cobra.Command{
	Use:   "tag <file> [identifier]",
	Short: "Manually set (or clear) the cached identifier for a document",
	Long: `Store a user-supplied identifier for a document without validating it.
Subsequent resolutions of the document return it via the cache fast-path.

With --clear, the cached identifier is removed so the next resolution runs
the full strategy chain again.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runTag,
}

func runTag(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	cache, err := store.Open(cfg.CachePath)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	defer cache.Close()

	path := args[0]

	if tagClear {
		if len(args) > 1 {
			exitWithError(ExitError, "--clear takes no identifier argument")
		}
		if err := cache.Delete(path); err != nil {
			exitWithError(ExitError, "%v", err)
		}
		if humanOutput {
			fmt.Printf("Cleared cached identifier for %s\n", path)
		} else {
			outputJSON(StatusResponse{Status: "cleared", Path: path})
		}
		return nil
	}

	if len(args) < 2 {
		exitWithError(ExitError, "an identifier is required unless --clear is given")
	}
	id := args[1]

	if err := cache.ManualOverride(path, id); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if humanOutput {
		fmt.Printf("Tagged %s with %s\n", path, id)
	} else {
		outputJSON(StatusResponse{Status: "tagged", Path: path, Identifier: id})
	}
	return nil
}
