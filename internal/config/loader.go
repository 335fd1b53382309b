package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the default configuration file name, looked up in the
// working directory
const ConfigFile = "kbc-branch-mcp.yaml"

// Environment variable names recognized by the loader. These match the
// variables the Keboola CLI itself reads where one exists.
const (
	EnvStorageToken  = "KBC_STORAGE_API_TOKEN" //nolint:gosec // variable name, not a credential
	EnvStorageHost   = "KBC_STORAGE_API_HOST"
	EnvWorkingDir    = "KBC_WORKING_DIR"
	EnvMappingFile   = "KBC_MAPPING_FILE"
	EnvDefaultBranch = "GIT_DEFAULT_BRANCH"
	EnvProxyMode     = "KBC_MCP_PROXY_MODE"
)

// Load builds the configuration: defaults, then the YAML file at path
// (or ConfigFile in the working directory when path is empty; a missing
// file is fine), then environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to determine working directory: %w", err)
	}
	cfg.WorkingDir = cwd

	explicit := path != ""
	if !explicit {
		path = filepath.Join(cwd, ConfigFile)
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := ValidateYAML(data); err != nil {
			return nil, fmt.Errorf("invalid configuration %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	case os.IsNotExist(err):
		if explicit {
			return nil, fmt.Errorf("configuration file not found: %s", path)
		}
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvStorageToken); v != "" {
		cfg.Storage.Token = v
	}
	if v := os.Getenv(EnvStorageHost); v != "" {
		cfg.Storage.Host = v
	}
	if v := os.Getenv(EnvWorkingDir); v != "" {
		cfg.WorkingDir = v
	}
	if v := os.Getenv(EnvMappingFile); v != "" {
		cfg.MappingFile = v
	}
	if v := os.Getenv(EnvDefaultBranch); v != "" {
		if !cfg.IsDefaultBranch(v) {
			cfg.DefaultBranches = append(cfg.DefaultBranches, v)
		}
	}
	switch os.Getenv(EnvProxyMode) {
	case "true", "1", "yes":
		cfg.Proxy.Enabled = true
	}
}

// applyDefaults fills fields the file may have set to zero values
func applyDefaults(cfg *Config) {
	if cfg.MappingFile == "" {
		cfg.MappingFile = "branch-mapping.json"
	}
	if len(cfg.DefaultBranches) == 0 {
		cfg.DefaultBranches = []string{"main", "master"}
	}
	if cfg.Storage.Host == "" {
		cfg.Storage.Host = "connection.keboola.com"
	}
	if cfg.CLI.Binary == "" {
		cfg.CLI.Binary = "kbc"
	}
	if cfg.CLI.TimeoutSeconds <= 0 {
		cfg.CLI.TimeoutSeconds = 300
	}
	if cfg.Proxy.Listen == "" {
		cfg.Proxy.Listen = "127.0.0.1:8765"
	}
}
