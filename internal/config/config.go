// Package config loads the application configuration.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"sketchforge/internal/catalog"
	"sketchforge/internal/compile"
	"sketchforge/internal/firmware"
)

// Config is the application configuration.
type Config struct {
	Catalog  CatalogConfig  `yaml:"catalog"`
	Compiler CompilerConfig `yaml:"compiler"`
	Git      GitConfig      `yaml:"git"`
	Staging  StagingConfig  `yaml:"staging"`
	History  HistoryConfig  `yaml:"history"`
	Hardware HardwareConfig `yaml:"hardware"`
}

// CatalogConfig configures the community sketch feed.
type CatalogConfig struct {
	URL string `yaml:"url"`
}

// CompilerConfig configures the external board compiler.
type CompilerConfig struct {
	Binary string `yaml:"binary"`
	FQBN   string `yaml:"fqbn"`
}

// GitConfig configures the external version-control client.
type GitConfig struct {
	Binary string `yaml:"binary"`
}

// StagingConfig configures where disposable build directories live.
type StagingConfig struct {
	BaseDir string `yaml:"base_dir"` // empty means the system temp directory
}

// HistoryConfig configures the optional build history database.
type HistoryConfig struct {
	Path string `yaml:"path"` // empty disables history
}

// HardwareConfig holds the default hardware selection used when the CLI flags
// are not given.
type HardwareConfig struct {
	Variant   string `yaml:"variant"`
	Display   string `yaml:"display"`
	FlashChip string `yaml:"flash_chip"`
}

// BuildConfiguration converts the configured hardware defaults into a build
// configuration. Unknown values are preserved; flag derivation handles them
// with its documented fallbacks.
func (h HardwareConfig) BuildConfiguration() firmware.BuildConfiguration {
	cfg := firmware.DefaultConfiguration()
	if h.Variant != "" {
		cfg.Variant = firmware.Variant(h.Variant)
	}
	if h.Display != "" {
		cfg.Display = firmware.Display(h.Display)
	}
	if h.FlashChip != "" {
		cfg.FlashChip = firmware.FlashChip(h.FlashChip)
	}
	return cfg
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Catalog.URL == "" {
		c.Catalog.URL = catalog.DefaultFeedURL
	}
	if c.Compiler.Binary == "" {
		c.Compiler.Binary = compile.DefaultBinary
	}
	if c.Compiler.FQBN == "" {
		c.Compiler.FQBN = compile.DefaultFQBN
	}
	if c.Git.Binary == "" {
		c.Git.Binary = "git"
	}
}

// Load loads configuration from the specified file. A missing file yields the
// defaults so the tool works without any configuration. Environment variables
// referenced in the YAML are expanded; a .env file is honored when present.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}
