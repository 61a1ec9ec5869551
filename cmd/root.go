package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/attrsel/internal/config"
	"github.com/zjrosen/attrsel/internal/log"
	"github.com/zjrosen/attrsel/internal/paths"
)

var (
	version = "dev"
	cfgFile string
	cfg     config.Config

	catalogFlag string
	dbFlag      string
	storeFlag   string
	debugFlag   bool

	logCleanup func()
)

var rootCmd = &cobra.Command{
	Use:   "attrsel",
	Short: "Resolve attribute selectors against a descriptor registry",
	Long: `attrsel resolves attribute selectors such as "name, customer.*, ~internal"
against registries of property descriptors.

Types come from a YAML catalog (--catalog) and, optionally, from the tables of
a SQLite database (--db). The resolved descriptors can be printed, compared,
or served over HTTP.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
	DisableAutoGenTag: true,
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .attrsel/config.yaml, then ~/.config/attrsel/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&catalogFlag, "catalog", "",
		"catalog directory, or project directory containing .attrsel/catalog")
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "",
		"SQLite database whose tables become types")
	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "",
		"SQLite catalog store (overrides the YAML catalog)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false,
		"log at debug level (to log.path, or attrsel.log)")
}

func initConfig() {
	v := viper.GetViper()
	config.Bind(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .attrsel/config.yaml (current directory)
		// 2. ~/.config/attrsel/config.yaml (user config)
		if local := paths.ConfigFile(""); fileExists(local) {
			v.SetConfigFile(local)
		} else if dir := paths.UserConfigDir(); dir != "" {
			v.AddConfigPath(dir)
			v.SetConfigName("config")
			v.SetConfigType("yaml")
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "attrsel: reading config: %v\n", err)
		}
	}

	cfg = config.Defaults()
	if err := v.Unmarshal(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "attrsel: decoding config: %v\n", err)
	}
}

// setup applies command line overrides, validates the configuration and
// starts logging.
func setup(cmd *cobra.Command, _ []string) error {
	changed := cmd.Flags().Changed
	if changed("catalog") {
		cfg.Catalog.Dir = paths.ResolveCatalogDir(catalogFlag)
	}
	if changed("db") {
		cfg.Database.Path = dbFlag
	}
	if changed("store") {
		cfg.Database.CatalogStore = storeFlag
	}
	if debugFlag {
		cfg.Log.Level = "debug"
		if cfg.Log.Path == "" {
			cfg.Log.Path = "attrsel.log"
		}
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return initLogging(cfg.Log)
}

func initLogging(lc config.LogConfig) error {
	if lc.Path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(lc.Path), 0o750); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	cleanup, err := log.Init(lc.Path)
	if err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	logCleanup = cleanup

	if lc.Level != "" {
		level, err := log.ParseLevel(lc.Level)
		if err != nil {
			return err
		}
		log.SetMinLevel(level)
	}
	log.Debug(log.CatConfig, "attrsel starting", "version", version, "config", viper.ConfigFileUsed())
	return nil
}

func teardown(_ *cobra.Command, _ []string) {
	if logCleanup != nil {
		logCleanup()
		logCleanup = nil
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
