package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/attrsel/internal/config"
	"github.com/zjrosen/attrsel/internal/flags"
	"github.com/zjrosen/attrsel/internal/paths"
	"github.com/zjrosen/attrsel/internal/presentation"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the attrsel config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented default config to .attrsel/config.yaml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := configPath()
		if fileExists(path) && !configForce {
			return fmt.Errorf("%s exists; use --force to overwrite", path)
		}
		if err := config.WriteDefaultConfig(path); err != nil {
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return err
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value, keeping comments",
	Long: `Set a dotted config key. The value is parsed as YAML, so "true", "250ms"
and "0.5" keep their types.

Examples:
  attrsel config set catalog.watch true
  attrsel config set flags.serve-metrics true
  attrsel config set server.addr 0.0.0.0:7420`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var value any
		if err := yaml.Unmarshal([]byte(args[1]), &value); err != nil {
			return fmt.Errorf("parsing value: %w", err)
		}
		path := configPath()
		if err := config.SetValue(path, args[0], value); err != nil {
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "set %s in %s\n", args[0], path)
		return err
	},
}

var configFlagsCmd = &cobra.Command{
	Use:   "flags",
	Short: "List feature flags and their resolved state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runConfigFlags(cmd.OutOrStdout(), flags.New(cfg.Flags))
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing config")
	configCmd.AddCommand(configInitCmd, configSetCmd, configFlagsCmd)
	rootCmd.AddCommand(configCmd)
}

// configPath is the file config commands write: --config, the file that
// was read, or .attrsel/config.yaml.
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if used := viper.ConfigFileUsed(); used != "" {
		if _, err := os.Stat(used); err == nil {
			return used
		}
	}
	return paths.ConfigFile("")
}

// runConfigFlags lists the known flags followed by any configured name
// attrsel does not know.
func runConfigFlags(w io.Writer, r *flags.Registry) error {
	var rows []presentation.FlagDTO
	for _, f := range flags.Known() {
		rows = append(rows, presentation.FlagDTO{
			Name: f.Name, Enabled: r.Enabled(f.Name), Default: f.Default, Description: f.Description,
		})
	}
	for _, name := range r.Unknown() {
		rows = append(rows, presentation.FlagDTO{Name: name, Enabled: r.Enabled(name), Description: "(unknown)"})
	}
	return presentation.NewFormatter(w).FormatFlags(rows)
}
