package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadFile loads configuration from a YAML file on top of the defaults.
// Tool paths given in the file win over PATH resolution.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{
		Quality:         TierMedium,
		ReplaceOriginal: true,
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Quality = ParseTier(string(cfg.Quality))
	cfg.ResolveTools()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile searches the standard locations for a config file.
// Returns empty string when none exists.
func FindConfigFile() string {
	locations := []string{
		"./vidmend.yaml",
		"./vidmend.yml",
		filepath.Join(os.Getenv("HOME"), ".vidmend", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".vidmend", "config.yml"),
	}

	for _, path := range locations {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}
