// ABOUTME: YAML config file loading
// ABOUTME: Reads shush.yaml from an explicit path or the standard locations
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadConfigFile loads configuration from a YAML file on top of the defaults
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// FindConfigFile searches the standard locations and returns the first
// config file found, or "" if there is none
func FindConfigFile() string {
	locations := []string{
		"./shush.yaml",
		"./shush.yml",
		filepath.Join(os.Getenv("HOME"), ".shush", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".shush", "config.yml"),
	}

	for _, path := range locations {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}
