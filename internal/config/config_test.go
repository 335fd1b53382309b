package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{EnvStorageToken, EnvStorageHost, EnvWorkingDir, EnvMappingFile, EnvDefaultBranch, EnvProxyMode} {
		t.Setenv(name, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "branch-mapping.json", cfg.MappingFile)
	assert.Equal(t, []string{"main", "master"}, cfg.DefaultBranches)
	assert.Equal(t, "connection.keboola.com", cfg.Storage.Host)
	assert.Equal(t, "kbc", cfg.CLI.Binary)
	assert.Equal(t, 300*time.Second, cfg.CLITimeout())
	assert.False(t, cfg.Proxy.Enabled)
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	content := `version: "1.0"
mappingFile: custom-mapping.json
defaultBranches:
  - trunk
storage:
  host: connection.eu-central-1.keboola.com
cli:
  binary: /usr/local/bin/kbc
  timeoutSeconds: 60
proxy:
  enabled: true
  listen: 127.0.0.1:9000
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte(content), 0o644))
	chdir(t, dir)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "custom-mapping.json", cfg.MappingFile)
	assert.Equal(t, []string{"trunk"}, cfg.DefaultBranches)
	assert.Equal(t, "connection.eu-central-1.keboola.com", cfg.Storage.Host)
	assert.Equal(t, "/usr/local/bin/kbc", cfg.CLI.Binary)
	assert.Equal(t, 60, cfg.CLI.TimeoutSeconds)
	assert.True(t, cfg.Proxy.Enabled)
	assert.Equal(t, "127.0.0.1:9000", cfg.Proxy.Listen)
}

func TestLoadExplicitPathMissing(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte("unknownSetting: true\n"), 0o644))
	chdir(t, dir)

	_, err := Load("")
	require.Error(t, err, "unknown keys must fail schema validation")
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	workDir := t.TempDir()
	chdir(t, t.TempDir())

	t.Setenv(EnvStorageToken, "secret-token")
	t.Setenv(EnvStorageHost, "connection.us-east4.gcp.keboola.com")
	t.Setenv(EnvWorkingDir, workDir)
	t.Setenv(EnvMappingFile, "/tmp/mapping.json")
	t.Setenv(EnvDefaultBranch, "develop")
	t.Setenv(EnvProxyMode, "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "secret-token", cfg.Storage.Token)
	assert.Equal(t, "connection.us-east4.gcp.keboola.com", cfg.Storage.Host)
	assert.Equal(t, workDir, cfg.WorkingDir)
	assert.Equal(t, "/tmp/mapping.json", cfg.MappingFilePath())
	assert.True(t, cfg.IsDefaultBranch("develop"))
	assert.True(t, cfg.IsDefaultBranch("main"))
	assert.True(t, cfg.Proxy.Enabled)
}

func TestIsDefaultBranchByteExact(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.IsDefaultBranch("Main"))
	assert.False(t, cfg.IsDefaultBranch("MASTER"))
	assert.True(t, cfg.IsDefaultBranch("main"))
}

func TestMappingFilePathRelative(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WorkingDir = "/work"
	assert.Equal(t, filepath.Join("/work", "branch-mapping.json"), cfg.MappingFilePath())
}

func TestDerivedURLs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Host = "connection.us-east4.gcp.keboola.com"

	assert.Equal(t, "https://connection.us-east4.gcp.keboola.com", cfg.StorageAPIURL())
	assert.Equal(t, "https://ai.us-east4.gcp.keboola.com", cfg.AIServiceURL())
	assert.Equal(t, "https://mcp-agent.us-east4.gcp.keboola.com/mcp", cfg.MCPServerURL())
}

func TestValidateRequired(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.ValidateRequired()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token")

	cfg.Storage.Token = "secret"
	require.NoError(t, cfg.ValidateRequired())
}
