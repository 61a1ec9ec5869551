package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/zjrosen/attrsel/internal/tracing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	require.Equal(t, ".attrsel/catalog", cfg.Catalog.Dir)
	require.False(t, cfg.Catalog.Watch)
	require.Equal(t, 200*time.Millisecond, cfg.Catalog.Debounce)
	require.Equal(t, "127.0.0.1:7420", cfg.Server.Addr)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, tracing.DefaultConfig(), cfg.Tracing)
	require.NotNil(t, cfg.Flags)
	require.NoError(t, Validate(cfg))
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := Defaults()
	cfg.Catalog.Dir = ""
	cfg.Server.Addr = ""
	cfg.Log.Level = "loud"
	cfg.Tracing.SampleRate = 2

	err := Validate(cfg)
	require.Error(t, err)
	require.Len(t, multierr.Errors(err), 4)
	require.Contains(t, err.Error(), "catalog.dir is required")
	require.Contains(t, err.Error(), "server.addr is required")
	require.Contains(t, err.Error(), `unknown log level "loud"`)
	require.Contains(t, err.Error(), "tracing.sample_rate")
}

func TestValidate_NegativeDebounce(t *testing.T) {
	cfg := Defaults()
	cfg.Catalog.Debounce = -time.Second
	require.ErrorContains(t, Validate(cfg), "catalog.debounce must not be negative")
}

func TestValidate_EmptyLogLevelUsesDefault(t *testing.T) {
	cfg := Defaults()
	cfg.Log.Level = ""
	require.NoError(t, Validate(cfg))
}

func TestValidateTracing(t *testing.T) {
	tests := []struct {
		name    string
		cfg     tracing.Config
		wantErr string
	}{
		{name: "defaults", cfg: tracing.DefaultConfig()},
		{name: "empty exporter", cfg: tracing.Config{SampleRate: 0.5}},
		{name: "disabled file without path", cfg: tracing.Config{Exporter: "file"}},
		{
			name:    "unknown exporter",
			cfg:     tracing.Config{Exporter: "zipkin"},
			wantErr: `tracing.exporter must be "none", "file", "stdout", or "otlp", got "zipkin"`,
		},
		{
			name:    "negative sample rate",
			cfg:     tracing.Config{SampleRate: -0.1},
			wantErr: "tracing.sample_rate must be between 0.0 and 1.0",
		},
		{
			name:    "enabled file without path",
			cfg:     tracing.Config{Enabled: true, Exporter: "file"},
			wantErr: "tracing.file_path is required",
		},
		{
			name:    "enabled otlp without endpoint",
			cfg:     tracing.Config{Enabled: true, Exporter: "otlp"},
			wantErr: "tracing.otlp_endpoint is required",
		},
		{name: "enabled stdout", cfg: tracing.Config{Enabled: true, Exporter: "stdout", SampleRate: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTracing(tt.cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDefaultTracesFilePath(t *testing.T) {
	t.Setenv("HOME", "/home/someone")
	require.Equal(t, filepath.Join("/home/someone", ".config", "attrsel", "traces", "traces.jsonl"), DefaultTracesFilePath())
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))
}

// The template must decode to the same values Defaults returns.
func TestDefaultConfigTemplate_MatchesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	want := Defaults()
	require.Equal(t, want.Catalog, cfg.Catalog)
	require.Equal(t, want.Database, cfg.Database)
	require.Equal(t, want.Server, cfg.Server)
	require.Equal(t, want.Tracing, cfg.Tracing)
	require.Equal(t, want.Log, cfg.Log)
	require.Empty(t, cfg.Flags)
	require.NoError(t, Validate(cfg))
}

func TestConfig_EnvironmentOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))
	t.Setenv("ATTRSEL_SERVER_ADDR", "0.0.0.0:9000")
	t.Setenv("ATTRSEL_CATALOG_WATCH", "true")

	v := viper.New()
	Bind(v)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	require.Equal(t, "0.0.0.0:9000", cfg.Server.Addr)
	require.True(t, cfg.Catalog.Watch)
}

func TestBind_DefaultsWithoutFile(t *testing.T) {
	v := viper.New()
	Bind(v)

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	want := Defaults()
	require.Equal(t, want.Catalog, cfg.Catalog)
	require.Equal(t, want.Server, cfg.Server)
	require.Equal(t, want.Tracing, cfg.Tracing)
	require.Equal(t, want.Log, cfg.Log)
}
