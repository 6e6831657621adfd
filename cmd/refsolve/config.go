package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/refsolve/refsolve/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values.

Usage:
  refsolve config                       # Show all config
  refsolve config web-search            # Get specific value
  refsolve config web-search false      # Set value

Keys:
  web-search      Enable the title and excerpt search strategies (bool)
  web-validation  Validate candidates against the registries (bool)
  write-back      Cache resolved identifiers (bool)
  prefer-doi      Substitute a validated arXiv ID with its DOI (bool)
  search-results  Results to examine per web search (int)
  excerpt-chars   Excerpt length for the last-resort search (int)
  doi-format      Registry citation format: citeproc-json, bibtex, bibliography
  cache-path      Location of the identifier cache database
  contact         Email included in the User-Agent of outbound requests`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	// No args: show all config
	if len(args) == 0 {
		if humanOutput {
			for _, kv := range configEntries(cfg) {
				fmt.Printf("%-15s %s\n", kv[0]+":", kv[1])
			}
			fmt.Printf("\nconfig file: %s\n", config.Path())
		} else {
			outputJSON(cfg)
		}
		return nil
	}

	key := normalizeKey(args[0])

	// One arg: get specific value
	if len(args) == 1 {
		value, ok := configValue(cfg, key)
		if !ok {
			exitWithError(ExitError, "unknown configuration key: %s", args[0])
		}
		if humanOutput {
			fmt.Println(value)
		} else {
			outputJSON(map[string]string{key: value})
		}
		return nil
	}

	// Two args: set value
	value := args[1]
	if err := setConfigValue(&cfg, key, value); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if err := cfg.Save(); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Updated %s to %s\n", key, value)
	} else {
		outputJSON(StatusResponse{Status: "updated", Identifier: key + "=" + value})
	}
	return nil
}

// configEntries lists the settings as key/value pairs in display order.
func configEntries(cfg config.Settings) [][2]string {
	return [][2]string{
		{"web-search", strconv.FormatBool(cfg.WebSearch)},
		{"web-validation", strconv.FormatBool(cfg.WebValidation)},
		{"write-back", strconv.FormatBool(cfg.WriteBack)},
		{"prefer-doi", strconv.FormatBool(cfg.PreferDOIOverArXiv)},
		{"search-results", strconv.Itoa(cfg.SearchResults)},
		{"excerpt-chars", strconv.Itoa(cfg.ExcerptChars)},
		{"doi-format", cfg.DOIRequestFormat},
		{"cache-path", cfg.CachePath},
		{"contact", cfg.Contact},
	}
}

func configValue(cfg config.Settings, key string) (string, bool) {
	for _, kv := range configEntries(cfg) {
		if kv[0] == key {
			return kv[1], true
		}
	}
	return "", false
}

func setConfigValue(cfg *config.Settings, key, value string) error {
	switch key {
	case "web-search":
		return setBool(&cfg.WebSearch, key, value)
	case "web-validation":
		return setBool(&cfg.WebValidation, key, value)
	case "write-back":
		return setBool(&cfg.WriteBack, key, value)
	case "prefer-doi":
		return setBool(&cfg.PreferDOIOverArXiv, key, value)
	case "search-results":
		return setPositiveInt(&cfg.SearchResults, key, value)
	case "excerpt-chars":
		return setPositiveInt(&cfg.ExcerptChars, key, value)
	case "doi-format":
		switch value {
		case "citeproc-json", "bibtex", "bibliography":
			cfg.DOIRequestFormat = value
			return nil
		}
		return fmt.Errorf("invalid doi-format: %s (valid: citeproc-json, bibtex, bibliography)", value)
	case "cache-path":
		cfg.CachePath = config.ExpandPath(value)
		return nil
	case "contact":
		cfg.Contact = value
		return nil
	}
	return fmt.Errorf("unknown configuration key: %s", key)
}

func setBool(dst *bool, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %s (want true or false)", key, value)
	}
	*dst = b
	return nil
}

func setPositiveInt(dst *int, key, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fmt.Errorf("invalid %s: %s (want a positive integer)", key, value)
	}
	*dst = n
	return nil
}

// normalizeKey converts key formats (web-search, web_search) to a consistent format
func normalizeKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "_", "-")
	return key
}
