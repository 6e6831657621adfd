package main

import (
	"fmt"
	"os"

	"github.com/refsolve/refsolve/internal/clipboard"
	"github.com/refsolve/refsolve/internal/config"
	"github.com/refsolve/refsolve/internal/document"
	"github.com/refsolve/refsolve/internal/registry"
	"github.com/refsolve/refsolve/internal/resolve"
	"github.com/refsolve/refsolve/internal/store"
	"github.com/refsolve/refsolve/internal/websearch"
	"github.com/spf13/cobra"
)

var resolveFlags struct {
	noWebSearch     bool
	noWebValidation bool
	noWriteBack     bool
	keepArXivID     bool
	searchResults   int
	excerptChars    int
	format          string
	saveFile        string
	clip            bool
}

func init() {
	f := resolveCmd.Flags()
	f.BoolVar(&resolveFlags.noWebSearch, "no-web-search", false, "Disable the title and excerpt search strategies")
	f.BoolVar(&resolveFlags.noWebValidation, "no-web-validation", false, "Accept candidates on syntax alone, without registry lookups")
	f.BoolVar(&resolveFlags.noWriteBack, "no-write-back", false, "Do not cache resolved identifiers")
	f.BoolVar(&resolveFlags.keepArXivID, "keep-arxiv-id", false, "Return arXiv IDs as-is instead of substituting their DOI")
	f.IntVar(&resolveFlags.searchResults, "search-results", 0, "Results to examine per web search (default from config)")
	f.IntVar(&resolveFlags.excerptChars, "excerpt-chars", 0, "Excerpt length for the last-resort search (default from config)")
	f.StringVar(&resolveFlags.format, "format", "", "Citation format from the DOI registry: citeproc-json, bibtex, or bibliography")
	f.StringVar(&resolveFlags.saveFile, "save", "", "Append resolved identifiers to this file, tab separated")
	f.BoolVar(&resolveFlags.clip, "clip", false, "Copy resolved identifiers to the clipboard")

	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <file-or-folder>",
	Short: "Resolve the DOI or arXiv ID of a PDF, or of every PDF in a folder",
	Args:  cobra.ExactArgs(1),
	RunE:  runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	applyResolveFlags(&cfg, cmd)

	cache, err := store.Open(cfg.CachePath)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	defer cache.Close()

	r := newResolver(cfg, cache)
	results, err := r.Resolve(cmd.Context(), args[0])
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		for _, res := range results {
			fmt.Println(formatResultHuman(res))
		}
	} else if len(results) == 1 {
		outputJSON(results[0])
	} else {
		outputJSON(results)
	}

	if resolveFlags.saveFile != "" {
		if err := appendToFile(resolveFlags.saveFile, formatResultsSave(results)); err != nil {
			exitWithError(ExitError, "saving results: %v", err)
		}
	}
	if resolveFlags.clip {
		if ids := identifierList(results); ids != "" {
			if err := clipboard.Copy(ids); err != nil {
				fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			}
		}
	}

	for _, res := range results {
		if res.Found() {
			return nil
		}
	}
	os.Exit(ExitNotFound)
	return nil
}

// applyResolveFlags overlays command-line flags onto the loaded settings.
// Only flags the user actually set are applied.
func applyResolveFlags(cfg *config.Settings, cmd *cobra.Command) {
	if resolveFlags.noWebSearch {
		cfg.WebSearch = false
	}
	if resolveFlags.noWebValidation {
		cfg.WebValidation = false
	}
	if resolveFlags.noWriteBack {
		cfg.WriteBack = false
	}
	if resolveFlags.keepArXivID {
		cfg.PreferDOIOverArXiv = false
	}
	if resolveFlags.searchResults > 0 {
		cfg.SearchResults = resolveFlags.searchResults
	}
	if resolveFlags.excerptChars > 0 {
		cfg.ExcerptChars = resolveFlags.excerptChars
	}
	if resolveFlags.format != "" {
		cfg.DOIRequestFormat = resolveFlags.format
	}
	if verbose {
		cfg.Verbose = true
	}
}

// newResolver assembles the pipeline from its collaborators.
func newResolver(cfg config.Settings, cache resolve.Store) *resolve.Resolver {
	ua := userAgent(cfg)
	r := &resolve.Resolver{
		Settings: cfg,
		Docs:     document.NewAccessor(),
		Search:   websearch.NewClient(websearch.WithUserAgent(ua)),
		Registry: registry.NewClient(registry.WithUserAgent(ua)),
		Cache:    cache,
	}
	if cfg.Verbose {
		r.Logf = func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}
	}
	return r
}

func userAgent(cfg config.Settings) string {
	ua := "refsolve/" + Version
	if cfg.Contact != "" {
		ua += " (mailto:" + cfg.Contact + ")"
	}
	return ua
}

func appendToFile(path, content string) error {
	if content == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(content)
	return err
}
