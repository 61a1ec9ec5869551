// Package config provides configuration types, defaults, and persistence for attrsel.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"github.com/zjrosen/attrsel/internal/log"
	"github.com/zjrosen/attrsel/internal/tracing"
)

// Config holds all attrsel configuration.
type Config struct {
	Catalog  CatalogConfig   `mapstructure:"catalog"`
	Database DatabaseConfig  `mapstructure:"database"`
	Server   ServerConfig    `mapstructure:"server"`
	Tracing  tracing.Config  `mapstructure:"tracing"`
	Log      LogConfig       `mapstructure:"log"`
	Flags    map[string]bool `mapstructure:"flags"`
}

// CatalogConfig locates the YAML catalog.
type CatalogConfig struct {
	// Dir is walked for *.yaml and *.yml files.
	Dir string `mapstructure:"dir"`

	// Watch reloads the catalog on change while serving.
	Watch bool `mapstructure:"watch"`

	Debounce time.Duration `mapstructure:"debounce"`
}

// DatabaseConfig holds the optional SQLite sources.
type DatabaseConfig struct {
	// Path is a SQLite database whose tables become types.
	Path string `mapstructure:"path"`

	// CatalogStore is a SQLite catalog store. When set, `catalog import`
	// writes to it and resolution reads the stored catalog.
	CatalogStore string `mapstructure:"catalog_store"`
}

// ServerConfig configures `attrsel serve`.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LogConfig configures the file logger. An empty path disables logging.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// DefaultCatalogDir is the catalog directory relative to the working directory.
const DefaultCatalogDir = ".attrsel/catalog"

// DefaultAddr is the default listen address of `attrsel serve`.
const DefaultAddr = "127.0.0.1:7420"

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/attrsel/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "attrsel", "traces", "traces.jsonl")
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		Catalog: CatalogConfig{
			Dir:      DefaultCatalogDir,
			Watch:    false,
			Debounce: 200 * time.Millisecond,
		},
		Server: ServerConfig{
			Addr: DefaultAddr,
		},
		Tracing: tracing.DefaultConfig(),
		Log: LogConfig{
			Level: "info",
		},
		Flags: map[string]bool{},
	}
}

// EnvPrefix prefixes environment overrides: ATTRSEL_SERVER_ADDR sets server.addr.
const EnvPrefix = "ATTRSEL"

var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

// Bind registers the defaults and environment overrides on v.
func Bind(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("catalog.dir", d.Catalog.Dir)
	v.SetDefault("catalog.watch", d.Catalog.Watch)
	v.SetDefault("catalog.debounce", d.Catalog.Debounce)
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("database.catalog_store", d.Database.CatalogStore)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
	v.SetDefault("log.path", d.Log.Path)
	v.SetDefault("log.level", d.Log.Level)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
}

// Validate checks cfg and reports every problem found.
func Validate(cfg Config) error {
	var err error
	if cfg.Catalog.Dir == "" {
		err = multierr.Append(err, errors.New("catalog.dir is required"))
	}
	if cfg.Catalog.Debounce < 0 {
		err = multierr.Append(err, fmt.Errorf("catalog.debounce must not be negative, got %s", cfg.Catalog.Debounce))
	}
	if cfg.Server.Addr == "" {
		err = multierr.Append(err, errors.New("server.addr is required"))
	}
	if cfg.Log.Level != "" {
		if _, lerr := log.ParseLevel(cfg.Log.Level); lerr != nil {
			err = multierr.Append(err, fmt.Errorf("log.level: %w", lerr))
		}
	}
	return multierr.Append(err, ValidateTracing(cfg.Tracing))
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(cfg tracing.Config) error {
	var err error
	if cfg.SampleRate < 0.0 || cfg.SampleRate > 1.0 {
		err = multierr.Append(err, fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", cfg.SampleRate))
	}

	switch cfg.Exporter {
	case "", "none", "file", "stdout", "otlp":
	default:
		err = multierr.Append(err, fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", cfg.Exporter))
	}

	// Path requirements only matter when tracing is on.
	if cfg.Enabled {
		if cfg.Exporter == "file" && cfg.FilePath == "" {
			err = multierr.Append(err, errors.New("tracing.file_path is required when exporter is \"file\""))
		}
		if cfg.Exporter == "otlp" && cfg.OTLPEndpoint == "" {
			err = multierr.Append(err, errors.New("tracing.otlp_endpoint is required when exporter is \"otlp\""))
		}
	}
	return err
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# attrsel configuration

# YAML catalog of types and their properties
catalog:
  dir: .attrsel/catalog   # walked for *.yaml and *.yml files
  watch: false            # reload the catalog on change while serving
  debounce: 200ms

# Optional SQLite sources
database:
  path: ""            # database whose tables become types
  catalog_store: ""   # store written by 'attrsel catalog import'

# attrsel serve
server:
  addr: 127.0.0.1:7420

# Distributed tracing of selector resolution
tracing:
  enabled: false
  exporter: file          # none | file | stdout | otlp
  file_path: ""           # default: ~/.config/attrsel/traces/traces.jsonl
  otlp_endpoint: localhost:4317
  sample_rate: 1.0
  service_name: attrsel

# Debug log
log:
  path: ""      # empty disables logging
  level: info   # debug | info | warn | error

# Feature flags
flags: {}
  # serve-metrics: false  # hide /metrics (on by default)
  # catalog-watch: true   # same as catalog.watch
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
