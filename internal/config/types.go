// Package config provides configuration for the kbc-branch-mcp server.
// Settings come from an optional YAML file, overridden by the KBC_*
// environment variables the Keboola CLI itself understands.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Config represents the full server configuration
type Config struct {
	Version         string        `yaml:"version"`
	WorkingDir      string        `yaml:"workingDir"`
	MappingFile     string        `yaml:"mappingFile"`
	DefaultBranches []string      `yaml:"defaultBranches"`
	Storage         StorageConfig `yaml:"storage"`
	CLI             CLIConfig     `yaml:"cli"`
	Proxy           ProxyConfig   `yaml:"proxy"`
}

// StorageConfig holds Keboola Storage API connection settings
type StorageConfig struct {
	Host string `yaml:"host"`
	// Token is normally supplied via KBC_STORAGE_API_TOKEN, not the file
	Token string `yaml:"token,omitempty"`
}

// CLIConfig holds settings for kbc subprocess execution
type CLIConfig struct {
	Binary         string `yaml:"binary"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// ProxyConfig holds settings for proxy mode, where MCP traffic is
// forwarded to the remote Keboola MCP server with branch injection
type ProxyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen,omitempty"`
}

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() *Config {
	return &Config{
		Version:         "1.0",
		MappingFile:     "branch-mapping.json",
		DefaultBranches: []string{"main", "master"},
		Storage: StorageConfig{
			Host: "connection.keboola.com",
		},
		CLI: CLIConfig{
			Binary:         "kbc",
			TimeoutSeconds: 300,
		},
		Proxy: ProxyConfig{
			Listen: "127.0.0.1:8765",
		},
	}
}

// MappingFilePath returns the absolute path to the branch mapping file
func (c *Config) MappingFilePath() string {
	if filepath.IsAbs(c.MappingFile) {
		return c.MappingFile
	}
	return filepath.Join(c.WorkingDir, c.MappingFile)
}

// CLITimeout returns the subprocess timeout as a duration
func (c *Config) CLITimeout() time.Duration {
	return time.Duration(c.CLI.TimeoutSeconds) * time.Second
}

// IsDefaultBranch reports whether branch is one of the configured
// default branch names. Comparison is byte-exact.
func (c *Config) IsDefaultBranch(branch string) bool {
	for _, name := range c.DefaultBranches {
		if branch == name {
			return true
		}
	}
	return false
}

// StorageAPIURL returns the full Storage API URL for the configured host
func (c *Config) StorageAPIURL() string {
	return "https://" + c.Storage.Host
}

// AIServiceURL derives the AI service endpoint from the storage host,
// e.g. connection.us-east4.gcp.keboola.com -> ai.us-east4.gcp.keboola.com.
func (c *Config) AIServiceURL() string {
	return "https://" + replaceHostPrefix(c.Storage.Host, "ai.")
}

// MCPServerURL derives the remote MCP agent endpoint from the storage host,
// e.g. connection.keboola.com -> https://mcp-agent.keboola.com/mcp.
func (c *Config) MCPServerURL() string {
	return "https://" + replaceHostPrefix(c.Storage.Host, "mcp-agent.") + "/mcp"
}

func replaceHostPrefix(host, prefix string) string {
	if rest, ok := strings.CutPrefix(host, "connection."); ok {
		return prefix + rest
	}
	return prefix + host
}

// ValidateRequired checks settings that remote operations depend on
func (c *Config) ValidateRequired() error {
	if c.Storage.Token == "" {
		return fmt.Errorf("storage API token is required (set KBC_STORAGE_API_TOKEN)")
	}
	if c.Storage.Host == "" {
		return fmt.Errorf("storage API host is required (set KBC_STORAGE_API_HOST)")
	}
	return nil
}
