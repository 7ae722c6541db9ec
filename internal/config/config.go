package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Environment variables read by the CLI. Values from the config file are
// exported to them unless already set.
const (
	EnvReference = "GDREF_REFERENCE"
	EnvCacheDir  = "GDREF_CACHE_DIR"
)

// GdrefConfig holds global configuration loaded from ~/.gdref/config.yaml.
type GdrefConfig struct {
	ReferencePath string   `yaml:"reference_path"` // dump file or project directory
	CacheDir      string   `yaml:"cache_dir"`
	Include       []string `yaml:"include"` // glob patterns over class names
	NoCache       bool     `yaml:"no_cache"`
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".gdref", "config.yaml")
}

// Load reads the YAML config file and sets environment variables.
// Environment variables already set take precedence over the config file.
func Load() (*GdrefConfig, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom reads a specific YAML config file and sets environment variables.
func LoadFrom(path string) (*GdrefConfig, error) {
	cfg := &GdrefConfig{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // No config file, not an error
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	// Set env vars only if not already set (env vars take precedence)
	setIfEmpty(EnvReference, cfg.ReferencePath)
	setIfEmpty(EnvCacheDir, cfg.CacheDir)

	return cfg, nil
}

func setIfEmpty(key, value string) {
	if value != "" && os.Getenv(key) == "" {
		os.Setenv(key, value)
	}
}
