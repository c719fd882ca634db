// Package config loads pkgdex configuration in order of increasing
// precedence: hardcoded defaults, the user config file, the project config
// file, and PKGDEX_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Strategy values recognized by the search configuration.
const (
	// StrategyMatch is the broad substring search (default).
	StrategyMatch = "match"
	// StrategyMatchName restricts matching to package names.
	StrategyMatchName = "match-name"
)

// Config represents the complete pkgdex configuration.
type Config struct {
	Version int           `yaml:"version" json:"version"`
	Catalog CatalogConfig `yaml:"catalog" json:"catalog"`
	Search  SearchConfig  `yaml:"search" json:"search"`
	Log     LogConfig     `yaml:"log" json:"log"`
}

// CatalogConfig configures where the prebuilt package catalog lives.
type CatalogConfig struct {
	// Dir is the directory holding one SQLite shard per catalog origin.
	Dir string `yaml:"dir" json:"dir"`
}

// SearchConfig configures matching and rendering behavior.
type SearchConfig struct {
	// Strategy selects the breadth of name matching: "match" (substring,
	// default) or "match-name" (name-only).
	Strategy string `yaml:"strategy" json:"strategy"`

	// ShowOrigin re-enables the deprecated origin disambiguation prefix in
	// text output when a package name is defined by more than one catalog
	// origin. Off by default; column 1 of text output is always the
	// package display name.
	ShowOrigin bool `yaml:"show_origin" json:"show_origin"`

	// OriginSeparator joins origin and name when ShowOrigin is set.
	OriginSeparator string `yaml:"origin_separator" json:"origin_separator"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level" json:"level"`
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Catalog: CatalogConfig{
			Dir: DefaultCatalogDir(),
		},
		Search: SearchConfig{
			Strategy:        StrategyMatch,
			ShowOrigin:      false,
			OriginSeparator: ":",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultCatalogDir returns the default catalog directory (~/.pkgdex/catalog).
func DefaultCatalogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".pkgdex", "catalog")
	}
	return filepath.Join(home, ".pkgdex", "catalog")
}

// GetUserConfigPath returns the path to the user configuration file.
// It follows the XDG Base Directory specification:
//   - $XDG_CONFIG_HOME/pkgdex/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/pkgdex/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pkgdex", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "pkgdex", "config.yaml")
	}
	return filepath.Join(home, ".config", "pkgdex", "config.yaml")
}

// Load loads configuration for the given project directory.
// It applies configuration in order of increasing precedence:
//  1. Hardcoded defaults
//  2. User config (~/.config/pkgdex/config.yaml)
//  3. Project config (.pkgdex.yaml in dir)
//  4. Environment variables (PKGDEX_*)
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	if userPath := GetUserConfigPath(); fileExists(userPath) {
		if err := cfg.loadYAML(userPath); err != nil {
			return nil, fmt.Errorf("failed to load user config: %w", err)
		}
	}

	if err := cfg.loadFromDir(dir); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadFromDir attempts to load configuration from .pkgdex.yaml or .pkgdex.yml.
func (c *Config) loadFromDir(dir string) error {
	for _, name := range []string{".pkgdex.yaml", ".pkgdex.yml"} {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return c.loadYAML(path)
		}
	}
	// No config file is fine - use defaults
	return nil
}

// loadYAML loads and merges configuration from a YAML file.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}
	if other.Catalog.Dir != "" {
		c.Catalog.Dir = other.Catalog.Dir
	}
	if other.Search.Strategy != "" {
		c.Search.Strategy = other.Search.Strategy
	}
	if other.Search.ShowOrigin {
		c.Search.ShowOrigin = true
	}
	if other.Search.OriginSeparator != "" {
		c.Search.OriginSeparator = other.Search.OriginSeparator
	}
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
}

// applyEnvOverrides applies PKGDEX_* environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PKGDEX_CATALOG_DIR"); v != "" {
		c.Catalog.Dir = v
	}
	if v := os.Getenv("PKGDEX_SEARCH_STRATEGY"); v != "" {
		c.Search.Strategy = v
	}
	if v := os.Getenv("PKGDEX_SHOW_ORIGIN"); v != "" {
		c.Search.ShowOrigin = v == "1" || v == "true"
	}
	if v := os.Getenv("PKGDEX_ORIGIN_SEPARATOR"); v != "" {
		c.Search.OriginSeparator = v
	}
	if v := os.Getenv("PKGDEX_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate checks the final configuration for consistency.
func (c *Config) Validate() error {
	switch c.Search.Strategy {
	case StrategyMatch, StrategyMatchName:
	default:
		return fmt.Errorf("unknown search strategy %q (use %q or %q)",
			c.Search.Strategy, StrategyMatch, StrategyMatchName)
	}
	if c.Search.ShowOrigin && c.Search.OriginSeparator == "" {
		return fmt.Errorf("search.origin_separator must not be empty when search.show_origin is set")
	}
	if c.Catalog.Dir == "" {
		return fmt.Errorf("catalog.dir must not be empty")
	}
	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
