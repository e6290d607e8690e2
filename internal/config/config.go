package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/marco/moviedb/internal/logging"
)

// Config represents the application configuration
type Config struct {
	Catalog CatalogConfig `yaml:"catalog" toml:"catalog"`
	Storage StorageConfig `yaml:"storage" toml:"storage"`
	Search  SearchConfig  `yaml:"search" toml:"search"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// CatalogConfig holds TMDB API configuration
type CatalogConfig struct {
	BaseURL     string `yaml:"base_url" toml:"base_url"`
	BearerToken string `yaml:"bearer_token" toml:"bearer_token"`
	Language    string `yaml:"language" toml:"language"`
}

// StorageConfig selects where the watchlist is persisted
type StorageConfig struct {
	Backend string `yaml:"backend" toml:"backend"` // "file" or "sqlite"
	Dir     string `yaml:"dir" toml:"dir"`
	Slot    string `yaml:"slot" toml:"slot"`
}

// SearchConfig holds search box settings
type SearchConfig struct {
	DebounceMs int `yaml:"debounce_ms" toml:"debounce_ms"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level      string `yaml:"level" toml:"level"`
	Format     string `yaml:"format" toml:"format"`
	File       string `yaml:"file" toml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" toml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" toml:"max_backups"`
}

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Default returns a configuration with every optional field populated.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the configuration file. Files ending in .toml are
// parsed as TOML, everything else as YAML.
func Load(path string) (*Config, error) {
	path = expandHome(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the raw content
	expanded := []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(expanded, &cfg)
	} else {
		err = yaml.Unmarshal(expanded, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required fields
func (c *Config) Validate() error {
	if c.Catalog.BearerToken == "" || c.Catalog.BearerToken == "your_token_here" {
		return fmt.Errorf("TMDB bearer token is required. Get one from https://www.themoviedb.org/settings/api")
	}
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("storage backend must be %q or %q, got %q", BackendFile, BackendSQLite, c.Storage.Backend)
	}
	if c.Search.DebounceMs < 0 {
		return fmt.Errorf("search debounce_ms must not be negative")
	}
	return nil
}

// LoggingOptions converts the logging section for logging.New
func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{
		Level:      c.Logging.Level,
		Format:     c.Logging.Format,
		File:       expandHome(c.Logging.File),
		MaxSizeMB:  c.Logging.MaxSizeMB,
		MaxBackups: c.Logging.MaxBackups,
	}
}

func (c *Config) applyDefaults() {
	if c.Catalog.BaseURL == "" {
		c.Catalog.BaseURL = "https://api.themoviedb.org/3"
	}
	if c.Catalog.Language == "" {
		c.Catalog.Language = "en-US"
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = BackendFile
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = defaultDataDir()
	}
	c.Storage.Dir = expandHome(c.Storage.Dir)
	if c.Storage.Slot == "" {
		c.Storage.Slot = "watchlist"
	}
	if c.Search.DebounceMs == 0 {
		c.Search.DebounceMs = 300
	}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "moviedb")
	}
	return ".moviedb"
}

// expandHome expands a leading ~ to the home directory
func expandHome(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
