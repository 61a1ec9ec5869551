package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readConfig(t *testing.T, path string) Config {
	t.Helper()
	v := viper.New()
	Bind(v)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	return cfg
}

func TestSetValue_CreatesNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	require.NoError(t, SetValue(path, "server.addr", "localhost:8080"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "server:")
	assert.Contains(t, string(data), "addr: localhost:8080")
}

func TestSetValue_PreservesComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	require.NoError(t, SetValue(path, "catalog.watch", true))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# YAML catalog of types and their properties")
	assert.Contains(t, string(data), "# Distributed tracing of selector resolution")

	cfg := readConfig(t, path)
	assert.True(t, cfg.Catalog.Watch)
	assert.Equal(t, DefaultCatalogDir, cfg.Catalog.Dir)
	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
}

func TestSetValue_FlagIntoEmptyFlowMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	require.NoError(t, SetValue(path, "flags.serve-metrics", true))

	cfg := readConfig(t, path)
	assert.Equal(t, map[string]bool{"serve-metrics": true}, cfg.Flags)
}

func TestSetValue_ReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: info\n"), 0o600))

	require.NoError(t, SetValue(path, "log.level", "debug"))
	require.NoError(t, SetValue(path, "log.path", "/tmp/attrsel.log"))

	cfg := readConfig(t, path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/attrsel.log", cfg.Log.Path)
}

func TestSetValue_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: 42\n"), 0o600))

	require.ErrorContains(t, SetValue(path, "server.addr", "x"), "config key server is not a mapping")

	for _, key := range []string{"", ".a", "a.", "a..b"} {
		require.ErrorContains(t, SetValue(path, key, "x"), "invalid config key", "key %q", key)
	}

	require.NoError(t, os.WriteFile(path, []byte("- a\n- b\n"), 0o600))
	require.ErrorContains(t, SetValue(path, "a", "x"), "config root is not a mapping")

	require.NoError(t, os.WriteFile(path, []byte("a: [\n"), 0o600))
	require.ErrorContains(t, SetValue(path, "a", "x"), "parsing config")
}

func TestSetValue_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, SetValue(path, "server.addr", "x:1"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "config.yaml", entries[0].Name())
}
