// Package config holds the buildcheck CLI configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Output formats
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Environment overrides
const (
	EnvInventoryURL   = "BUILDCHECK_INVENTORY_URL"
	EnvInventoryToken = "BUILDCHECK_INVENTORY_TOKEN"
)

// Config is the CLI configuration.
type Config struct {
	// CatalogDir holds one folder of YAML definitions per component type.
	CatalogDir string `yaml:"catalog_dir"`
	// SnapshotFile, when set, serves configurations from YAML instead of the database.
	SnapshotFile string `yaml:"snapshot_file"`
	// DatabasePath is the SQLite configuration store.
	DatabasePath string `yaml:"database_path"`
	// MetricsFile, when set, receives Prometheus text metrics after each command.
	MetricsFile string `yaml:"metrics_file"`

	Inventory InventoryConfig `yaml:"inventory"`

	Output  string `yaml:"output"`
	Verbose bool   `yaml:"verbose"`
}

// InventoryConfig points at a remote inventory service used instead of the local catalog.
type InventoryConfig struct {
	URL      string        `yaml:"url"`
	Token    string        `yaml:"token"`
	Timeout  time.Duration `yaml:"timeout"`
	Insecure bool          `yaml:"insecure"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()

	return Config{
		CatalogDir:   "definitions",
		DatabasePath: filepath.Join(home, ".buildcheck", "configurations.db"),
		Inventory: InventoryConfig{
			Timeout: 30 * time.Second,
		},
		Output: OutputText,
	}
}

// Load reads configuration from a YAML file, falling back to defaults, then
// applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if v := os.Getenv(EnvInventoryURL); v != "" {
		cfg.Inventory.URL = v
	}
	if v := os.Getenv(EnvInventoryToken); v != "" {
		cfg.Inventory.Token = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects unknown output formats
func (c *Config) Validate() error {
	switch c.Output {
	case OutputText, OutputJSON:
		return nil
	}
	return fmt.Errorf("invalid output format %q (expected %s or %s)", c.Output, OutputText, OutputJSON)
}

// Save writes the configuration to a YAML file.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}
