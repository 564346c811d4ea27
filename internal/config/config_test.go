package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "data/procureflow.db", cfg.Database.Path)
	assert.Equal(t, "exports", cfg.Storage.ExportDir)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, int64(10<<20), cfg.Import.MaxUploadBytes)
	assert.True(t, cfg.Seed.Enabled)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	path := writeConfig(t, `
server:
  port: 9090
  read_timeout: 5s
database:
  path: /tmp/registry.db
logger:
  format: console
seed:
  enabled: false
`)
	t.Setenv("PROCUREFLOW_SERVER_PORT", "9191")
	t.Setenv("PROCUREFLOW_STORAGE_EXPORT_DIR", "/srv/exports")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "/tmp/registry.db", cfg.Database.Path)
	assert.Equal(t, "/srv/exports", cfg.Storage.ExportDir)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.False(t, cfg.Seed.Enabled)

	cc := cfg.ToContainerConfig()
	assert.Equal(t, 9191, cc.Server.Port)
	assert.False(t, cc.Seed)
	assert.NoError(t, cc.Validate())
	assert.Equal(t, "console", cfg.ToLoggerConfig().Format)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PROCUREFLOW_LOGGER_LEVEL=debug\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("PROCUREFLOW_LOGGER_LEVEL") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestLoad_Errors(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "logger:\n  format: xml\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "server:\n  port: -1\n"))
	assert.Error(t, err)
}
