// Package main provides the refsolve CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// verbose enables progress diagnostics on stderr
var verbose bool

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "refsolve",
	Short: "Find and validate bibliographic identifiers for PDF documents",
	Long: `refsolve locates the DOI or arXiv ID of a PDF document.

It tries an ordered sequence of extraction strategies of increasing cost:
cached result, document metadata, file name, extracted full text, a web
search for the document title, and finally a web search for a text excerpt.
Every candidate is validated against doi.org or the arXiv API before being
accepted, and validated identifiers are cached so repeat lookups are
instant.

All commands output JSON by default; pass --human for readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print progress diagnostics to stderr")
	rootCmd.Version = Version
}
