// Package config provides repository configuration management,
// including reading and writing the sapstack configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Defaults applied when the configuration file is absent or a field is unset
const (
	DefaultRemoteName = "origin"
	DefaultEdenCLI    = "hg"
	DefaultGithubURL  = "github.com"
)

const configFileName = ".sapstack_config"

// Config represents the repository configuration. All fields are optional;
// unset fields fall back to defaults via the getters.
type Config struct {
	RemoteName *string `json:"remoteName,omitempty"`
	EdenCLI    *string `json:"edenCli,omitempty"`
	GithubURL  *string `json:"githubUrl,omitempty"`
	Proxy      *string `json:"proxy,omitempty"`
}

// ConfigPath returns the path of the configuration file for a checkout root
func ConfigPath(repoRoot string) string {
	return filepath.Join(repoRoot, configFileName)
}

// Load reads the repository configuration. A missing file is not an error;
// it yields a config where every getter returns its default.
func Load(repoRoot string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(repoRoot))
	if err != nil {
		return &Config{}, nil
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// Save writes the configuration back to the repository
func (c *Config) Save(repoRoot string) error {
	configJSON, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(ConfigPath(repoRoot), configJSON, 0600)
}

// GetRemoteName returns the configured remote name, or "origin"
func (c *Config) GetRemoteName() string {
	if c.RemoteName != nil && *c.RemoteName != "" {
		return *c.RemoteName
	}
	return DefaultRemoteName
}

// GetEdenCLI returns the Sapling CLI name, or "hg"
func (c *Config) GetEdenCLI() string {
	if c.EdenCLI != nil && *c.EdenCLI != "" {
		return *c.EdenCLI
	}
	return DefaultEdenCLI
}

// GetGithubURL returns the GitHub host, or "github.com"
func (c *Config) GetGithubURL() string {
	if c.GithubURL != nil && *c.GithubURL != "" {
		return *c.GithubURL
	}
	return DefaultGithubURL
}

// GetProxy returns the proxy URL, or empty when none is configured
func (c *Config) GetProxy() string {
	if c.Proxy != nil {
		return *c.Proxy
	}
	return ""
}

// Set updates a single configuration key and persists the change
func Set(repoRoot, key, value string) error {
	config, err := Load(repoRoot)
	if err != nil {
		return err
	}

	switch key {
	case "remoteName":
		config.RemoteName = &value
	case "edenCli":
		config.EdenCLI = &value
	case "githubUrl":
		config.GithubURL = &value
	case "proxy":
		config.Proxy = &value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	return config.Save(repoRoot)
}
