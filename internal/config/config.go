// Package config handles persistent settings for the resolver.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Settings controls resolution behavior. The zero value is not useful; start
// from Default or Load.
type Settings struct {
	// WebSearch enables the title and excerpt search strategies.
	WebSearch bool `yaml:"web_search" json:"web_search"`
	// WebValidation enables registry lookups; when false, candidates are
	// accepted on syntax alone.
	WebValidation bool `yaml:"web_validation" json:"web_validation"`
	// WriteBack stores resolved identifiers in the cache.
	WriteBack bool `yaml:"write_back" json:"write_back"`
	// PreferDOIOverArXiv substitutes a validated arXiv ID with its DOI.
	PreferDOIOverArXiv bool `yaml:"prefer_doi_over_arxiv" json:"prefer_doi_over_arxiv"`
	// SearchResults caps how many search results each web query considers.
	SearchResults int `yaml:"search_results" json:"search_results"`
	// ExcerptChars is the length of the text excerpt used as a last-resort
	// search query.
	ExcerptChars int `yaml:"excerpt_chars" json:"excerpt_chars"`
	// DOIRequestFormat selects the citation format requested from the DOI
	// registry: citeproc-json, bibtex, or bibliography.
	DOIRequestFormat string `yaml:"doi_request_format" json:"doi_request_format"`
	// CachePath locates the identifier cache database.
	CachePath string `yaml:"cache_path" json:"cache_path"`
	// Contact is included in the User-Agent of outbound requests.
	Contact string `yaml:"contact,omitempty" json:"contact,omitempty"`
	// Verbose enables progress diagnostics on stderr.
	Verbose bool `yaml:"verbose" json:"verbose"`
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "refsolve"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
)

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		WebSearch:          true,
		WebValidation:      true,
		WriteBack:          true,
		PreferDOIOverArXiv: true,
		SearchResults:      6,
		ExcerptChars:       1000,
		DOIRequestFormat:   "citeproc-json",
		CachePath:          defaultCachePath(),
	}
}

// Path returns the path to the config file. Respects XDG_CONFIG_HOME,
// defaults to ~/.config/refsolve/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Load returns the defaults overlaid with the config file (if present) and
// REFSOLVE_* environment variables. A missing file is not an error.
func Load() (Settings, error) {
	cfg := Default()

	path := Path()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config: %w", err)
			}
		}
	}

	applyEnv(&cfg)

	if cfg.CachePath != "" {
		cfg.CachePath = ExpandPath(cfg.CachePath)
	} else {
		cfg.CachePath = defaultCachePath()
	}

	return cfg, nil
}

// Save writes the settings to the config file, creating its directory.
func (s Settings) Save() error {
	path := Path()
	if path == "" {
		return fmt.Errorf("cannot determine config path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Settings) {
	setBool := func(key string, dst *bool) {
		if v, ok := os.LookupEnv(key); ok {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}
	setInt := func(key string, dst *int) {
		if v, ok := os.LookupEnv(key); ok {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				*dst = n
			}
		}
	}

	setBool("REFSOLVE_WEB_SEARCH", &cfg.WebSearch)
	setBool("REFSOLVE_WEB_VALIDATION", &cfg.WebValidation)
	setBool("REFSOLVE_WRITE_BACK", &cfg.WriteBack)
	setBool("REFSOLVE_PREFER_DOI", &cfg.PreferDOIOverArXiv)
	setBool("REFSOLVE_VERBOSE", &cfg.Verbose)
	setInt("REFSOLVE_SEARCH_RESULTS", &cfg.SearchResults)
	setInt("REFSOLVE_EXCERPT_CHARS", &cfg.ExcerptChars)
	if v := os.Getenv("REFSOLVE_CACHE_PATH"); v != "" {
		cfg.CachePath = v
	}
	if v := os.Getenv("REFSOLVE_CONTACT"); v != "" {
		cfg.Contact = v
	}
	if v := os.Getenv("REFSOLVE_DOI_FORMAT"); v != "" {
		cfg.DOIRequestFormat = v
	}
}

// defaultCachePath puts the cache under XDG_DATA_HOME, defaulting to
// ~/.local/share/refsolve/cache.db.
func defaultCachePath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "refsolve-cache.db"
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, ConfigDir, "cache.db")
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
