// Package config resolves CLI defaults for organization, project, and token
// file from flags, environment variables, and an optional YAML config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// configFile is the YAML file name for stored defaults
const configFile = "config.yaml"

// Config holds the persistent defaults for azdohist commands. The token
// itself is never stored here, only the path to an encrypted token file.
type Config struct {
	Organization string `yaml:"organization,omitempty"`
	Project      string `yaml:"project,omitempty"`
	TokenFile    string `yaml:"token_file,omitempty"`
}

// Path returns the config file location: ~/.azdohist/config.yaml.
func Path() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".azdohist", configFile), nil
}

// Load reads the config file, returning an empty config if none exists.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return loadFromFile(path)
}

func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes the config file with owner-only permissions, creating the
// directory if needed.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config to %s: %w", path, err)
	}
	return nil
}

// Resolve fills empty fields from environment variables, then from the
// stored config. Precedence: explicit value > AZDOHIST_* env var > file.
func (c *Config) Resolve(organization, project, tokenFile string) (org, proj, file string) {
	org = firstNonEmpty(organization, os.Getenv("AZDOHIST_ORG"), c.Organization)
	proj = firstNonEmpty(project, os.Getenv("AZDOHIST_PROJECT"), c.Project)
	file = firstNonEmpty(tokenFile, os.Getenv("AZDOHIST_TOKEN_FILE"), c.TokenFile)
	return org, proj, file
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
