package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/attrsel/internal/config"
	"github.com/zjrosen/attrsel/internal/flags"
)

// execute runs the root command with args and resets the package-level
// flag state afterwards.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() {
		cfgFile, catalogFlag, dbFlag, storeFlag = "", "", "", ""
		configForce = false
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
	})

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	require.Equal(t, "attrsel "+version+"\n", out)
}

func TestConfigInitAndSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attrsel.yaml")

	out, err := execute(t, "--config", path, "config", "init")
	require.NoError(t, err)
	require.Equal(t, "wrote "+path+"\n", out)

	_, err = execute(t, "--config", path, "config", "init")
	require.ErrorContains(t, err, "use --force to overwrite")

	_, err = execute(t, "--config", path, "config", "set", "flags.serve-metrics", "true")
	require.NoError(t, err)
	_, err = execute(t, "--config", path, "config", "set", "catalog.debounce", "50ms")
	require.NoError(t, err)

	_, err = execute(t, "--config", path, "config", "init", "--force")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, config.DefaultConfigTemplate(), string(data))
}

func TestRoot_CatalogFlagAndResolve(t *testing.T) {
	c := shopConfig(t)
	path := filepath.Join(t.TempDir(), "attrsel.yaml")
	require.NoError(t, config.WriteDefaultConfig(path))

	out, err := execute(t, "--config", path, "--catalog", c.Catalog.Dir,
		"resolve", "Customer", "name", "--format", "json")
	require.NoError(t, err)
	require.Equal(t, []string{"name"}, selectionNames(t, []byte(out)))
}

func TestRoot_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attrsel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: loud\n"), 0o600))

	_, err := execute(t, "--config", path, "explain", "*")
	require.ErrorContains(t, err, "invalid configuration")
}

func TestConfigFlags(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runConfigFlags(&buf, flags.New(map[string]bool{"serve-metrics": false, "legacy": true})))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	require.True(t, strings.HasPrefix(lines[0], "FLAG"))
	require.Equal(t, []string{"catalog-watch", "false", "false"}, strings.Fields(lines[1])[:3])
	require.Equal(t, []string{"serve-metrics", "false", "true"}, strings.Fields(lines[2])[:3])
	require.Equal(t, []string{"legacy", "true", "false", "(unknown)"}, strings.Fields(lines[3]))
}
